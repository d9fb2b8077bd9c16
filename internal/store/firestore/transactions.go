package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

func (s *Store) GetTransaction(ctx context.Context, walletID, transactionID string) (*domain.Transaction, error) {
	snap, err := s.client.Collection(transactionsCollection).Doc(transactionID).Get(ctx)
	if err != nil {
		if err = wrapNotFound(err); err == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("GetTransaction %s: %w", transactionID, err)
	}
	var t domain.Transaction
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("GetTransaction %s: decoding: %w", transactionID, err)
	}
	if t.WalletID != walletID {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context, walletID string, f store.TransactionFilter) ([]*domain.Transaction, error) {
	q := s.client.Collection(transactionsCollection).Query.
		Where("walletId", "==", walletID)
	if f.StartDate != "" {
		q = q.Where("date", ">=", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("date", "<=", f.EndDate)
	}
	q = q.OrderBy("date", firestore.Desc)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var out []*domain.Transaction
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iter next: %w", err)
		}
		var t domain.Transaction
		if err := snap.DataTo(&t); err != nil {
			return nil, fmt.Errorf("ListTransactions: decoding %s: %w", snap.Ref.ID, err)
		}
		out = append(out, &t)
	}
	return out, nil
}

// CreateTransactionWithDelta writes the transaction record and the wallet's
// balance adjustment in one Firestore transaction: either both land or
// neither does.
func (s *Store) CreateTransactionWithDelta(ctx context.Context, t *domain.Transaction, delta float64) error {
	wref := s.client.Collection(walletsCollection).Doc(t.WalletID)
	tref := s.client.Collection(transactionsCollection).Doc(t.TransactionID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := s.checkWalletOwner(tx, wref, t.UserID); err != nil {
			return err
		}
		if err := tx.Create(tref, t); err != nil {
			return err
		}
		return tx.Update(wref, balanceUpdate(delta))
	})
	return finishLedgerWrite("CreateTransactionWithDelta", t.TransactionID, err)
}

// UpdateTransactionWithDelta replaces the transaction record and, when the
// signed amount changed, applies the compensating delta in the same atomic
// transaction. A zero delta leaves the wallet untouched.
func (s *Store) UpdateTransactionWithDelta(ctx context.Context, t *domain.Transaction, delta float64) error {
	wref := s.client.Collection(walletsCollection).Doc(t.WalletID)
	tref := s.client.Collection(transactionsCollection).Doc(t.TransactionID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(tref)
		if err != nil {
			return wrapNotFound(err)
		}
		var cur domain.Transaction
		if err := snap.DataTo(&cur); err != nil {
			return err
		}
		if cur.WalletID != t.WalletID {
			return store.ErrNotFound
		}
		if err := s.checkWalletOwner(tx, wref, t.UserID); err != nil {
			return err
		}
		if err := tx.Set(tref, t); err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}
		return tx.Update(wref, balanceUpdate(delta))
	})
	return finishLedgerWrite("UpdateTransactionWithDelta", t.TransactionID, err)
}

// DeleteTransactionWithDelta removes the record and reverses its effect on
// the wallet balance atomically.
func (s *Store) DeleteTransactionWithDelta(ctx context.Context, userID, walletID, transactionID string, delta float64) error {
	wref := s.client.Collection(walletsCollection).Doc(walletID)
	tref := s.client.Collection(transactionsCollection).Doc(transactionID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(tref)
		if err != nil {
			return wrapNotFound(err)
		}
		var cur domain.Transaction
		if err := snap.DataTo(&cur); err != nil {
			return err
		}
		if cur.WalletID != walletID {
			return store.ErrNotFound
		}
		if err := s.checkWalletOwner(tx, wref, userID); err != nil {
			return err
		}
		if err := tx.Delete(tref); err != nil {
			return err
		}
		return tx.Update(wref, balanceUpdate(delta))
	})
	return finishLedgerWrite("DeleteTransactionWithDelta", transactionID, err)
}

// BatchCreateTransactions writes one import sub-batch through a BulkWriter.
// Any item failure fails the whole sub-batch so the caller can reclassify
// its items.
func (s *Store) BatchCreateTransactions(ctx context.Context, ts []*domain.Transaction) error {
	if len(ts) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(ts))
	for _, t := range ts {
		ref := s.client.Collection(transactionsCollection).Doc(t.TransactionID)
		job, err := bw.Create(ref, t)
		if err != nil {
			bw.End()
			return fmt.Errorf("BatchCreateTransactions: enqueue %s: %w", t.TransactionID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("BatchCreateTransactions: write %s: %w", ts[i].TransactionID, err)
		}
	}
	return nil
}

func (s *Store) ListTransactionIDs(ctx context.Context, walletID string) ([]string, error) {
	it := s.client.Collection(transactionsCollection).
		Where("walletId", "==", walletID).
		Select().
		Documents(ctx)
	defer it.Stop()

	var ids []string
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactionIDs: iter next: %w", err)
		}
		ids = append(ids, snap.Ref.ID)
	}
	return ids, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, walletID, transactionID string) error {
	if _, err := s.GetTransaction(ctx, walletID, transactionID); err != nil {
		return err
	}
	if _, err := s.client.Collection(transactionsCollection).Doc(transactionID).Delete(ctx); err != nil {
		return fmt.Errorf("DeleteTransaction %s: %w", transactionID, err)
	}
	return nil
}

// checkWalletOwner reads the wallet inside tx and verifies ownership,
// returning store.ErrNotFound for both absence and mismatch.
func (s *Store) checkWalletOwner(tx *firestore.Transaction, wref *firestore.DocumentRef, userID string) error {
	snap, err := tx.Get(wref)
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
	return nil
}

func balanceUpdate(delta float64) []firestore.Update {
	return []firestore.Update{
		{Path: "balance", Value: firestore.Increment(delta)},
		{Path: "updatedAt", Value: time.Now()},
	}
}

func finishLedgerWrite(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}
