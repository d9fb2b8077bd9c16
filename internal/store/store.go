// Package store defines the persistence interfaces the handlers and the
// ledger depend on. Two implementations exist: a Firestore-backed one for
// production and an in-memory one for tests.
package store

import (
	"context"
	"errors"

	"github.com/expensewise/expensewise/internal/domain"
)

// ErrNotFound is returned when an entity does not exist or is not owned by
// the requesting user. Ownership mismatches deliberately surface as not-found
// so that existence is never confirmed to unauthorized callers.
var ErrNotFound = errors.New("not found")

// TransactionFilter narrows a wallet's transaction listing.
type TransactionFilter struct {
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	Limit     int
}

// WalletStore persists wallets keyed by (userId, walletId).
type WalletStore interface {
	CreateWallet(ctx context.Context, w *domain.Wallet) error
	GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error)
	UpdateWallet(ctx context.Context, w *domain.Wallet) error
	DeleteWallet(ctx context.Context, userID, walletID string) error

	// ApplyBalanceDelta adds delta to the wallet's cached balance and bumps
	// its modification timestamp in a single conditional update.
	ApplyBalanceDelta(ctx context.Context, userID, walletID string, delta float64) error
}

// TransactionStore persists transactions keyed by (walletId, transactionId).
// The WithDelta variants couple the transaction write with the owning
// wallet's balance adjustment; the Firestore implementation applies both in
// one atomic transaction, closing the dual-write gap of the naive design.
type TransactionStore interface {
	GetTransaction(ctx context.Context, walletID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, walletID string, f TransactionFilter) ([]*domain.Transaction, error)

	CreateTransactionWithDelta(ctx context.Context, t *domain.Transaction, delta float64) error
	UpdateTransactionWithDelta(ctx context.Context, t *domain.Transaction, delta float64) error
	DeleteTransactionWithDelta(ctx context.Context, userID, walletID, transactionID string, delta float64) error

	// BatchCreateTransactions writes one import sub-batch. It either writes
	// every item or fails the whole sub-batch; the aggregate balance delta is
	// applied separately by the caller.
	BatchCreateTransactions(ctx context.Context, ts []*domain.Transaction) error

	// ListTransactionIDs returns the IDs of every live transaction in the
	// wallet, for the cascade-delete path.
	ListTransactionIDs(ctx context.Context, walletID string) ([]string, error)
	DeleteTransaction(ctx context.Context, walletID, transactionID string) error
}

// CategoryStore persists user-scoped categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// BudgetStore persists per-user monthly category budgets.
type BudgetStore interface {
	CreateBudget(ctx context.Context, b *domain.Budget) error
	GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, userID, month string) ([]*domain.Budget, error)
	UpdateBudget(ctx context.Context, b *domain.Budget) error
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// SettingsStore persists the per-user settings document.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*domain.Settings, error)
	PutSettings(ctx context.Context, s *domain.Settings) error
}

// UserStore persists user profile documents.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	PutUser(ctx context.Context, u *domain.User) error
}

// FeedbackStore persists correction feedback. Records are append-only.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *domain.Feedback) error
	ListFeedbackByPrefixKey(ctx context.Context, userID, prefixKey string, limit int) ([]*domain.Feedback, error)
}

// Store is the full persistence surface, implemented by both backends.
type Store interface {
	WalletStore
	TransactionStore
	CategoryStore
	BudgetStore
	SettingsStore
	UserStore
	FeedbackStore
}
