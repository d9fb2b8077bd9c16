package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/classifier"
	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// FeedbackHandler records category correction events for the classifier.
type FeedbackHandler struct {
	repo    store.FeedbackStore
	wallets store.WalletStore
	log     zerolog.Logger
}

func NewFeedbackHandler(repo store.FeedbackStore, wallets store.WalletStore, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{repo: repo, wallets: wallets, log: log}
}

// Create handles POST /api/feedback
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in struct {
		WalletID             string `json:"walletId"`
		PredictedCategory    string `json:"predictedCategory"`
		CorrectedCategory    string `json:"correctedCategory"`
		OriginalDescription  string `json:"originalDescription"`
		CorrectedDescription string `json:"correctedDescription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if in.WalletID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "walletId is required")
		return
	}
	if strings.TrimSpace(in.OriginalDescription) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "originalDescription is required")
		return
	}
	if in.CorrectedCategory == "" {
		middleware.WriteError(w, http.StatusBadRequest, "correctedCategory is required")
		return
	}

	if _, err := h.wallets.GetWallet(r.Context(), userID, in.WalletID); err != nil {
		writeFailure(w, h.log, err, "record feedback")
		return
	}

	f := &domain.Feedback{
		FeedbackID:           uuid.NewString(),
		UserID:               userID,
		WalletID:             in.WalletID,
		WalletPrefixKey:      classifier.PrefixKey(in.WalletID, in.OriginalDescription),
		PredictedCategory:    in.PredictedCategory,
		CorrectedCategory:    in.CorrectedCategory,
		OriginalDescription:  in.OriginalDescription,
		CorrectedDescription: in.CorrectedDescription,
		CreatedAt:            time.Now(),
	}

	if err := h.repo.CreateFeedback(r.Context(), f); err != nil {
		writeFailure(w, h.log, err, "record feedback")
		return
	}

	h.log.Info().
		Str("user_id", userID).
		Str("wallet_id", f.WalletID).
		Str("prefix_key", f.WalletPrefixKey).
		Msg("Correction recorded")

	middleware.WriteJSON(w, http.StatusCreated, f)
}
