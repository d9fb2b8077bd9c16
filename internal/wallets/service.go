// Package wallets implements wallet lifecycle operations that touch more
// than one record: claiming the default flag and cascade-deleting a wallet's
// transactions. Multi-record steps fan out concurrently and collect per-task
// results instead of letting one failure abort the group silently.
package wallets

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// Service coordinates wallet writes against the store.
type Service struct {
	wallets store.WalletStore
	txs     store.TransactionStore
	log     zerolog.Logger
}

func NewService(wallets store.WalletStore, txs store.TransactionStore, log zerolog.Logger) *Service {
	return &Service{wallets: wallets, txs: txs, log: log}
}

// CreateInput carries the caller-supplied wallet fields.
type CreateInput struct {
	Name           string  `json:"name"`
	Currency       string  `json:"currency"`
	Type           string  `json:"type"`
	InitialBalance float64 `json:"initialBalance"`
	IsDefault      bool    `json:"isDefault"`
}

// Create persists a new wallet. The running balance starts at the initial
// balance. When the new wallet claims the default flag, every prior default
// for the user is unset first.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Wallet, error) {
	now := time.Now()
	w := &domain.Wallet{
		WalletID:       uuid.New().String(),
		UserID:         userID,
		Name:           in.Name,
		Currency:       in.Currency,
		Type:           in.Type,
		Balance:        in.InitialBalance,
		InitialBalance: in.InitialBalance,
		IsDefault:      in.IsDefault,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	if in.IsDefault {
		if err := s.unsetDefaults(ctx, userID, ""); err != nil {
			return nil, err
		}
	}

	if err := s.wallets.CreateWallet(ctx, w); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	s.log.Info().Str("wallet_id", w.WalletID).Bool("default", w.IsDefault).Msg("Wallet created")
	return w, nil
}

// UpdateInput carries the mutable wallet fields; nil means unchanged.
type UpdateInput struct {
	Name      *string `json:"name"`
	Currency  *string `json:"currency"`
	Type      *string `json:"type"`
	IsDefault *bool   `json:"isDefault"`
}

// Update applies a partial mutation. Setting the default flag unsets all
// other defaults for the user before the wallet itself is written.
func (s *Service) Update(ctx context.Context, userID, walletID string, in UpdateInput) (*domain.Wallet, error) {
	w, err := s.wallets.GetWallet(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		w.Name = *in.Name
	}
	if in.Currency != nil {
		w.Currency = *in.Currency
	}
	if in.Type != nil {
		w.Type = *in.Type
	}
	if in.IsDefault != nil {
		if *in.IsDefault && !w.IsDefault {
			if err := s.unsetDefaults(ctx, userID, walletID); err != nil {
				return nil, err
			}
		}
		w.IsDefault = *in.IsDefault
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	w.UpdatedAt = time.Now()

	if err := s.wallets.UpdateWallet(ctx, w); err != nil {
		return nil, fmt.Errorf("update wallet: %w", err)
	}
	return w, nil
}

// Delete removes every transaction belonging to the wallet, then the wallet
// record itself. No balance reconciliation happens since the wallet is going
// away. Individual transaction deletions that fail are logged and skipped so
// a single stuck record cannot wedge the whole deletion.
func (s *Service) Delete(ctx context.Context, userID, walletID string) error {
	if _, err := s.wallets.GetWallet(ctx, userID, walletID); err != nil {
		return err
	}

	ids, err := s.txs.ListTransactionIDs(ctx, walletID)
	if err != nil {
		return fmt.Errorf("list wallet transactions: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.txs.DeleteTransaction(gctx, walletID, id); err != nil {
				s.log.Warn().Err(err).
					Str("wallet_id", walletID).
					Str("transaction_id", id).
					Msg("Cascade delete skipped transaction")
			}
			return nil
		})
	}
	// Errors are swallowed per-task above; Wait only propagates ctx failure.
	if err := g.Wait(); err != nil {
		return fmt.Errorf("cascade delete: %w", err)
	}

	if err := s.wallets.DeleteWallet(ctx, userID, walletID); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}

	s.log.Info().Str("wallet_id", walletID).Int("transactions_removed", len(ids)).Msg("Wallet deleted")
	return nil
}

// unsetDefaults clears the default flag on every wallet of the user except
// keepID. Reads then writes without a cross-document guard; two concurrent
// set-default calls can still race, which matches the documented behavior.
func (s *Service) unsetDefaults(ctx context.Context, userID, keepID string) error {
	all, err := s.wallets.ListWallets(ctx, userID)
	if err != nil {
		return fmt.Errorf("list wallets: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, other := range all {
		if !other.IsDefault || other.WalletID == keepID {
			continue
		}
		g.Go(func() error {
			other.IsDefault = false
			other.UpdatedAt = time.Now()
			if err := s.wallets.UpdateWallet(gctx, other); err != nil {
				return fmt.Errorf("unset default on %s: %w", other.WalletID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
