package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/classifier"
	"github.com/expensewise/expensewise/internal/ledger"
	"github.com/expensewise/expensewise/internal/store"
)

// TransactionsHandler handles transaction endpoints. All balance-affecting
// writes go through the ledger; reads hit the store directly after the
// wallet ownership check.
type TransactionsHandler struct {
	ledger    *ledger.Ledger
	txs       store.TransactionStore
	wallets   store.WalletStore
	suggester *classifier.Suggester
	log       zerolog.Logger
}

func NewTransactionsHandler(l *ledger.Ledger, txs store.TransactionStore, wallets store.WalletStore, sug *classifier.Suggester, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{ledger: l, txs: txs, wallets: wallets, suggester: sug, log: log}
}

// Create handles POST /api/wallets/{walletId}/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")

	var in ledger.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.WalletID = walletID

	created, err := h.ledger.Create(r.Context(), userID, in)
	if err != nil {
		writeFailure(w, h.log, err, "create transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /api/wallets/{walletId}/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")

	if _, err := h.wallets.GetWallet(r.Context(), userID, walletID); err != nil {
		writeFailure(w, h.log, err, "list transactions")
		return
	}

	query := r.URL.Query()
	f := store.TransactionFilter{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}
	if v := query.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}

	ts, err := h.txs.ListTransactions(r.Context(), walletID, f)
	if err != nil {
		writeFailure(w, h.log, err, "list transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": ts,
		"count":        len(ts),
	})
}

// Get handles GET /api/wallets/{walletId}/transactions/{transactionId}
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")
	transactionID := r.PathValue("transactionId")

	t, err := h.txs.GetTransaction(r.Context(), walletID, transactionID)
	if err != nil {
		writeFailure(w, h.log, err, "get transaction")
		return
	}
	// Someone else's transaction is reported as absent.
	if t.UserID != userID {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, t)
}

// Update handles PUT /api/wallets/{walletId}/transactions/{transactionId}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")
	transactionID := r.PathValue("transactionId")

	var in ledger.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.ledger.Update(r.Context(), userID, walletID, transactionID, in)
	if err != nil {
		writeFailure(w, h.log, err, "update transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/wallets/{walletId}/transactions/{transactionId}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")
	transactionID := r.PathValue("transactionId")

	if err := h.ledger.Delete(r.Context(), userID, walletID, transactionID); err != nil {
		writeFailure(w, h.log, err, "delete transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"transactionId": transactionID, "status": "deleted"})
}

// Suggest handles GET /api/wallets/{walletId}/transactions/suggestions?description=...
func (h *TransactionsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")

	description := strings.TrimSpace(r.URL.Query().Get("description"))
	if description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "description is required")
		return
	}

	if _, err := h.wallets.GetWallet(r.Context(), userID, walletID); err != nil {
		writeFailure(w, h.log, err, "suggest category")
		return
	}

	sug, err := h.suggester.Suggest(r.Context(), userID, walletID, description)
	if err != nil {
		writeFailure(w, h.log, err, "suggest category")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, sug)
}
