package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/store"
	"github.com/expensewise/expensewise/internal/wallets"
)

// WalletsHandler handles wallet CRUD endpoints.
type WalletsHandler struct {
	svc  *wallets.Service
	repo store.WalletStore
	log  zerolog.Logger
}

func NewWalletsHandler(svc *wallets.Service, repo store.WalletStore, log zerolog.Logger) *WalletsHandler {
	return &WalletsHandler{svc: svc, repo: repo, log: log}
}

// List handles GET /api/wallets
func (h *WalletsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	ws, err := h.repo.ListWallets(r.Context(), userID)
	if err != nil {
		writeFailure(w, h.log, err, "list wallets")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"wallets": ws,
		"count":   len(ws),
	})
}

// Create handles POST /api/wallets
func (h *WalletsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in wallets.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		writeFailure(w, h.log, err, "create wallet")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/wallets/{walletId}
func (h *WalletsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")

	wallet, err := h.repo.GetWallet(r.Context(), userID, walletID)
	if err != nil {
		writeFailure(w, h.log, err, "get wallet")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, wallet)
}

// Update handles PUT /api/wallets/{walletId}
func (h *WalletsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")

	var in wallets.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), userID, walletID, in)
	if err != nil {
		writeFailure(w, h.log, err, "update wallet")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/wallets/{walletId}
func (h *WalletsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	walletID := r.PathValue("walletId")

	if err := h.svc.Delete(r.Context(), userID, walletID); err != nil {
		writeFailure(w, h.log, err, "delete wallet")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"walletId": walletID, "status": "deleted"})
}
