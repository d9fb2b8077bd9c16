// Command recalc recomputes wallet balances from the stored transactions.
// A wallet's cached balance can drift when a bulk import writes its rows but
// the balance update fails; this tool restores the invariant
// balance = initialBalance + sum of signed transaction amounts.
package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/logger"
	"github.com/expensewise/expensewise/internal/store"
	fsstore "github.com/expensewise/expensewise/internal/store/firestore"
)

var (
	projectID = flag.String("project", "", "GCP project ID (required)")
	userID    = flag.String("user", "", "User whose wallets to recalculate (required)")
	walletID  = flag.String("wallet", "", "Single wallet to recalculate (default: all of the user's wallets)")
	dryRun    = flag.Bool("dry-run", false, "Report drift without writing corrections")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	log := logger.New("info")

	if *projectID == "" {
		log.Fatal().Msg("-project flag is required")
	}
	if *userID == "" {
		log.Fatal().Msg("-user flag is required")
	}

	ctx := context.Background()

	repo, err := fsstore.NewStore(ctx, *projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create store")
	}
	defer repo.Close()

	var wallets []*domain.Wallet
	if *walletID != "" {
		w, err := repo.GetWallet(ctx, *userID, *walletID)
		if err != nil {
			log.Fatal().Err(err).Str("wallet_id", *walletID).Msg("Failed to load wallet")
		}
		wallets = append(wallets, w)
	} else {
		wallets, err = repo.ListWallets(ctx, *userID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to list wallets")
		}
	}

	log.Info().Int("wallets", len(wallets)).Bool("dry_run", *dryRun).Msg("Recalculating balances")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, w := range wallets {
		g.Go(func() error {
			return recalcWallet(gctx, repo, w, *dryRun, log)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Recalculation failed")
	}

	log.Info().Msg("Done")
}

func recalcWallet(ctx context.Context, repo store.Store, w *domain.Wallet, dryRun bool, log zerolog.Logger) error {
	ts, err := repo.ListTransactions(ctx, w.WalletID, store.TransactionFilter{})
	if err != nil {
		return err
	}

	expected := decimal.NewFromFloat(w.InitialBalance)
	for _, t := range ts {
		expected = expected.Add(decimal.NewFromFloat(t.Amount))
	}
	drift := expected.Sub(decimal.NewFromFloat(w.Balance))

	if drift.IsZero() {
		log.Debug().Str("wallet_id", w.WalletID).Msg("Balance consistent")
		return nil
	}

	d, _ := drift.Float64()
	log.Warn().
		Str("wallet_id", w.WalletID).
		Float64("stored", w.Balance).
		Str("expected", expected.String()).
		Float64("correction", d).
		Int("transactions", len(ts)).
		Msg("Balance drift detected")

	if dryRun {
		return nil
	}
	return repo.ApplyBalanceDelta(ctx, w.UserID, w.WalletID, d)
}
