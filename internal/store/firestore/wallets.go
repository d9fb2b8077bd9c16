package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

func (s *Store) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	if _, err := s.client.Collection(walletsCollection).Doc(w.WalletID).Create(ctx, w); err != nil {
		return fmt.Errorf("CreateWallet %s: %w", w.WalletID, err)
	}
	return nil
}

func (s *Store) GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	snap, err := s.client.Collection(walletsCollection).Doc(walletID).Get(ctx)
	if err != nil {
		if err = wrapNotFound(err); err == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("GetWallet %s: %w", walletID, err)
	}
	var w domain.Wallet
	if err := snap.DataTo(&w); err != nil {
		return nil, fmt.Errorf("GetWallet %s: decoding: %w", walletID, err)
	}
	// Ownership mismatch is indistinguishable from absence.
	if w.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &w, nil
}

func (s *Store) ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	it := s.client.Collection(walletsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	var out []*domain.Wallet
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListWallets: iter next: %w", err)
		}
		var w domain.Wallet
		if err := snap.DataTo(&w); err != nil {
			return nil, fmt.Errorf("ListWallets: decoding %s: %w", snap.Ref.ID, err)
		}
		out = append(out, &w)
	}
	return out, nil
}

func (s *Store) UpdateWallet(ctx context.Context, w *domain.Wallet) error {
	if _, err := s.GetWallet(ctx, w.UserID, w.WalletID); err != nil {
		return err
	}
	if _, err := s.client.Collection(walletsCollection).Doc(w.WalletID).Set(ctx, w); err != nil {
		return fmt.Errorf("UpdateWallet %s: %w", w.WalletID, err)
	}
	return nil
}

func (s *Store) DeleteWallet(ctx context.Context, userID, walletID string) error {
	if _, err := s.GetWallet(ctx, userID, walletID); err != nil {
		return err
	}
	if _, err := s.client.Collection(walletsCollection).Doc(walletID).Delete(ctx); err != nil {
		return fmt.Errorf("DeleteWallet %s: %w", walletID, err)
	}
	return nil
}

// ApplyBalanceDelta adjusts the cached balance inside a Firestore transaction
// so concurrent writers to the same wallet serialize on the document.
func (s *Store) ApplyBalanceDelta(ctx context.Context, userID, walletID string, delta float64) error {
	ref := s.client.Collection(walletsCollection).Doc(walletID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return wrapNotFound(err)
		}
		var w domain.Wallet
		if err := snap.DataTo(&w); err != nil {
			return err
		}
		if w.UserID != userID {
			return store.ErrNotFound
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "balance", Value: firestore.Increment(delta)},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err == store.ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("ApplyBalanceDelta %s: %w", walletID, err)
	}
	return nil
}
