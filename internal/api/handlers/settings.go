package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// SettingsHandler handles the per-user settings document.
type SettingsHandler struct {
	repo store.SettingsStore
	log  zerolog.Logger
}

func NewSettingsHandler(repo store.SettingsStore, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, log: log}
}

// Get handles GET /api/settings. A user who never saved settings gets the
// defaults rather than a 404.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	st, err := h.repo.GetSettings(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteJSON(w, http.StatusOK, domain.DefaultSettings(userID))
		return
	}
	if err != nil {
		writeFailure(w, h.log, err, "get settings")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, st)
}

// Update handles PUT /api/settings as an upsert over the defaults.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	cur, err := h.repo.GetSettings(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		cur = domain.DefaultSettings(userID)
	} else if err != nil {
		writeFailure(w, h.log, err, "update settings")
		return
	}

	var in struct {
		Currency            *string `json:"currency"`
		Locale              *string `json:"locale"`
		HideBalances        *bool   `json:"hideBalances"`
		BudgetAlertsEnabled *bool   `json:"budgetAlertsEnabled"`
		SuggestionsEnabled  *bool   `json:"suggestionsEnabled"`
		FirstDayOfMonth     *int    `json:"firstDayOfMonth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if in.Currency != nil {
		cur.Currency = *in.Currency
	}
	if in.Locale != nil {
		cur.Locale = *in.Locale
	}
	if in.HideBalances != nil {
		cur.HideBalances = *in.HideBalances
	}
	if in.BudgetAlertsEnabled != nil {
		cur.BudgetAlertsEnabled = *in.BudgetAlertsEnabled
	}
	if in.SuggestionsEnabled != nil {
		cur.SuggestionsEnabled = *in.SuggestionsEnabled
	}
	if in.FirstDayOfMonth != nil {
		if *in.FirstDayOfMonth < 1 || *in.FirstDayOfMonth > 28 {
			middleware.WriteError(w, http.StatusBadRequest, "firstDayOfMonth must be between 1 and 28")
			return
		}
		cur.FirstDayOfMonth = *in.FirstDayOfMonth
	}
	cur.UpdatedAt = time.Now()

	if err := h.repo.PutSettings(r.Context(), cur); err != nil {
		writeFailure(w, h.log, err, "update settings")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, cur)
}
