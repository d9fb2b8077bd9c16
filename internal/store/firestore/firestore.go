// Package firestore is the Cloud Firestore implementation of store.Store.
// One client is created at startup and injected; nothing here holds global
// state. Collection names mirror the entity tables of the data model.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/expensewise/expensewise/internal/store"
)

const (
	walletsCollection      = "wallets"
	transactionsCollection = "transactions"
	categoriesCollection   = "categories"
	budgetsCollection      = "budgets"
	settingsCollection     = "settings"
	usersCollection        = "users"
	feedbackCollection     = "feedback"
)

// Store implements store.Store against Cloud Firestore. It holds a shared
// client to avoid creating a new connection per operation.
type Store struct {
	client *firestore.Client
}

var _ store.Store = (*Store)(nil)

// NewStore creates a Store with its own Firestore client. Application Default
// Credentials are assumed to be configured.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: creating firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing client, used by tests and callers that
// manage the client lifecycle themselves.
func NewStoreWithClient(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// wrapNotFound maps a Firestore missing-document error to store.ErrNotFound
// and leaves every other error untouched.
func wrapNotFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	return err
}
