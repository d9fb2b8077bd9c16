package firestore

import (
	"context"
	"fmt"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// Settings and user profiles are singleton documents keyed by userId.

func (s *Store) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	snap, err := s.client.Collection(settingsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if err = wrapNotFound(err); err == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("GetSettings %s: %w", userID, err)
	}
	var st domain.Settings
	if err := snap.DataTo(&st); err != nil {
		return nil, fmt.Errorf("GetSettings %s: decoding: %w", userID, err)
	}
	return &st, nil
}

func (s *Store) PutSettings(ctx context.Context, st *domain.Settings) error {
	if _, err := s.client.Collection(settingsCollection).Doc(st.UserID).Set(ctx, st); err != nil {
		return fmt.Errorf("PutSettings %s: %w", st.UserID, err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if err = wrapNotFound(err); err == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("GetUser %s: %w", userID, err)
	}
	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("GetUser %s: decoding: %w", userID, err)
	}
	return &u, nil
}

func (s *Store) PutUser(ctx context.Context, u *domain.User) error {
	if _, err := s.client.Collection(usersCollection).Doc(u.UserID).Set(ctx, u); err != nil {
		return fmt.Errorf("PutUser %s: %w", u.UserID, err)
	}
	return nil
}
