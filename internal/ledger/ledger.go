// Package ledger keeps a wallet's cached balance consistent with the signed
// sum of its transactions. Every mutation path (create, update, delete and
// bulk import) derives the signed amount from the transaction type and
// applies a compensating delta to the owning wallet.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// importChunkSize is the sub-batch size for bulk import writes. A failed
// sub-batch write fails all of its items together.
const importChunkSize = 25

// SignedAmount derives the stored amount from a transaction type and a
// user-supplied magnitude: the absolute value rounded to two decimal places,
// negated for outflow types. The sign of the input is ignored; only the type
// decides direction.
func SignedAmount(t domain.TransactionType, magnitude float64) float64 {
	m := decimal.NewFromFloat(magnitude).Abs().Round(2)
	if t.IsOutflow() {
		m = m.Neg()
	}
	f, _ := m.Float64()
	return f
}

// delta returns newAmount − oldAmount without accumulating float residue.
func delta(oldAmount, newAmount float64) float64 {
	d, _ := decimal.NewFromFloat(newAmount).Sub(decimal.NewFromFloat(oldAmount)).Float64()
	return d
}

// Ledger coordinates transaction writes with wallet balance upkeep. It holds
// no state of its own; both stores are injected.
type Ledger struct {
	wallets store.WalletStore
	txs     store.TransactionStore
	log     zerolog.Logger
}

func New(wallets store.WalletStore, txs store.TransactionStore, log zerolog.Logger) *Ledger {
	return &Ledger{wallets: wallets, txs: txs, log: log}
}

// CreateInput carries the caller-supplied fields for a new transaction.
// Amount is a magnitude; the sign is derived from Type.
type CreateInput struct {
	WalletID    string                 `json:"walletId"`
	Amount      float64                `json:"amount"`
	Description string                 `json:"description"`
	CategoryID  string                 `json:"categoryId"`
	Type        domain.TransactionType `json:"type"`
	Date        string                 `json:"date"`
	Labels      []string               `json:"labels"`
}

func (in *CreateInput) toTransaction(userID string, now time.Time) *domain.Transaction {
	date := in.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	return &domain.Transaction{
		TransactionID: uuid.New().String(),
		WalletID:      in.WalletID,
		UserID:        userID,
		Amount:        SignedAmount(in.Type, in.Amount),
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		Type:          in.Type,
		Date:          date,
		Labels:        in.Labels,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Create persists a new transaction and applies its signed amount to the
// owning wallet. The wallet must exist and belong to userID.
func (l *Ledger) Create(ctx context.Context, userID string, in CreateInput) (*domain.Transaction, error) {
	t := in.toTransaction(userID, time.Now())
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if _, err := l.wallets.GetWallet(ctx, userID, in.WalletID); err != nil {
		return nil, err
	}

	if err := l.txs.CreateTransactionWithDelta(ctx, t, t.Amount); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	l.log.Info().
		Str("transaction_id", t.TransactionID).
		Str("wallet_id", t.WalletID).
		Float64("amount", t.Amount).
		Msg("Transaction created")
	return t, nil
}

// UpdateInput carries the mutable transaction fields. Nil pointers leave the
// corresponding field unchanged.
type UpdateInput struct {
	Amount      *float64                `json:"amount"`
	Description *string                 `json:"description"`
	CategoryID  *string                 `json:"categoryId"`
	Type        *domain.TransactionType `json:"type"`
	Date        *string                 `json:"date"`
	Labels      *[]string               `json:"labels"`
}

// Update applies a partial mutation. When the amount or type changes, the new
// signed amount is recomputed and the difference to the old one is applied to
// the wallet; otherwise the balance is left alone.
func (l *Ledger) Update(ctx context.Context, userID, walletID, transactionID string, in UpdateInput) (*domain.Transaction, error) {
	cur, err := l.txs.GetTransaction(ctx, walletID, transactionID)
	if err != nil {
		return nil, err
	}
	// Another user's transaction is reported as absent, not forbidden.
	if cur.UserID != userID {
		return nil, store.ErrNotFound
	}

	next := *cur
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.CategoryID != nil {
		next.CategoryID = *in.CategoryID
	}
	if in.Date != nil {
		next.Date = *in.Date
	}
	if in.Labels != nil {
		next.Labels = *in.Labels
	}

	if in.Type != nil {
		next.Type = *in.Type
	}
	if in.Amount != nil || in.Type != nil {
		magnitude := cur.Amount
		if in.Amount != nil {
			magnitude = *in.Amount
		}
		next.Amount = SignedAmount(next.Type, magnitude)
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()

	d := delta(cur.Amount, next.Amount)
	if err := l.txs.UpdateTransactionWithDelta(ctx, &next, d); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	l.log.Info().
		Str("transaction_id", transactionID).
		Str("wallet_id", walletID).
		Float64("delta", d).
		Msg("Transaction updated")
	return &next, nil
}

// Delete removes the transaction and reverses its stored amount.
func (l *Ledger) Delete(ctx context.Context, userID, walletID, transactionID string) error {
	cur, err := l.txs.GetTransaction(ctx, walletID, transactionID)
	if err != nil {
		return err
	}
	if cur.UserID != userID {
		return store.ErrNotFound
	}

	if err := l.txs.DeleteTransactionWithDelta(ctx, userID, walletID, transactionID, -cur.Amount); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	l.log.Info().
		Str("transaction_id", transactionID).
		Str("wallet_id", walletID).
		Float64("reversed", -cur.Amount).
		Msg("Transaction deleted")
	return nil
}
