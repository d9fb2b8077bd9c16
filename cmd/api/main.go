package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"

	"github.com/expensewise/expensewise/internal/api/handlers"
	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/classifier"
	"github.com/expensewise/expensewise/internal/config"
	"github.com/expensewise/expensewise/internal/ledger"
	"github.com/expensewise/expensewise/internal/logger"
	fsstore "github.com/expensewise/expensewise/internal/store/firestore"
	"github.com/expensewise/expensewise/internal/uploads"
	"github.com/expensewise/expensewise/internal/wallets"
)

func main() {
	// Local development convenience; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level)

	ctx := context.Background()

	repo, err := fsstore.NewStore(ctx, cfg.GCP.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create document store")
	}
	defer repo.Close()

	var signer *uploads.Signer
	if cfg.GCP.UploadBucket == "" {
		log.Warn().Msg("No upload bucket configured - statement uploads will be disabled")
	} else {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer storageClient.Close()
		signer = uploads.NewSigner(storageClient, cfg.GCP.UploadBucket)
	}

	// Domain services.
	walletSvc := wallets.NewService(repo, repo, log)
	ledgerSvc := ledger.New(repo, repo, log)
	suggester := classifier.NewSuggester(repo, log)

	// Handlers.
	walletsHandler := handlers.NewWalletsHandler(walletSvc, repo, log)
	transactionsHandler := handlers.NewTransactionsHandler(ledgerSvc, repo, repo, suggester, log)
	importsHandler := handlers.NewImportsHandler(ledgerSvc, log)
	categoriesHandler := handlers.NewCategoriesHandler(repo, log)
	budgetsHandler := handlers.NewBudgetsHandler(repo, repo, log)
	settingsHandler := handlers.NewSettingsHandler(repo, log)
	usersHandler := handlers.NewUsersHandler(repo, log)
	feedbackHandler := handlers.NewFeedbackHandler(repo, repo, log)

	mux := http.NewServeMux()

	// Wallets
	mux.HandleFunc("GET /api/wallets", walletsHandler.List)
	mux.HandleFunc("POST /api/wallets", walletsHandler.Create)
	mux.HandleFunc("GET /api/wallets/{walletId}", walletsHandler.Get)
	mux.HandleFunc("PUT /api/wallets/{walletId}", walletsHandler.Update)
	mux.HandleFunc("DELETE /api/wallets/{walletId}", walletsHandler.Delete)

	// Transactions
	mux.HandleFunc("GET /api/wallets/{walletId}/transactions", transactionsHandler.List)
	mux.HandleFunc("POST /api/wallets/{walletId}/transactions", transactionsHandler.Create)
	mux.HandleFunc("POST /api/wallets/{walletId}/transactions/import", importsHandler.Import)
	mux.HandleFunc("GET /api/wallets/{walletId}/transactions/suggestions", transactionsHandler.Suggest)
	mux.HandleFunc("GET /api/wallets/{walletId}/transactions/{transactionId}", transactionsHandler.Get)
	mux.HandleFunc("PUT /api/wallets/{walletId}/transactions/{transactionId}", transactionsHandler.Update)
	mux.HandleFunc("DELETE /api/wallets/{walletId}/transactions/{transactionId}", transactionsHandler.Delete)

	// Categories
	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("POST /api/categories", categoriesHandler.Create)
	mux.HandleFunc("PUT /api/categories/{categoryId}", categoriesHandler.Update)
	mux.HandleFunc("DELETE /api/categories/{categoryId}", categoriesHandler.Delete)

	// Budgets
	mux.HandleFunc("GET /api/budgets", budgetsHandler.List)
	mux.HandleFunc("POST /api/budgets", budgetsHandler.Create)
	mux.HandleFunc("PUT /api/budgets/{budgetId}", budgetsHandler.Update)
	mux.HandleFunc("DELETE /api/budgets/{budgetId}", budgetsHandler.Delete)

	// Settings
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings", settingsHandler.Update)

	// Users
	mux.HandleFunc("GET /api/users/me", usersHandler.Get)
	mux.HandleFunc("PUT /api/users/me", usersHandler.Update)

	// Feedback
	mux.HandleFunc("POST /api/feedback", feedbackHandler.Create)

	// Uploads
	if signer != nil {
		uploadsHandler := handlers.NewUploadsHandler(signer, log)
		mux.HandleFunc("POST /api/uploads/url", uploadsHandler.CreateURL)
	}

	apiHandler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	// Health stays outside Auth so probes need no identity header.
	root := http.NewServeMux()
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	root.Handle("/api/", apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
