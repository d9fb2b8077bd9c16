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

// UsersHandler handles the authenticated user's profile document.
type UsersHandler struct {
	repo store.UserStore
	log  zerolog.Logger
}

func NewUsersHandler(repo store.UserStore, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{repo: repo, log: log}
}

// Get handles GET /api/users/me. The profile document is created lazily the
// first time an authenticated identity looks itself up.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	u, err := h.repo.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		now := time.Now()
		u = &domain.User{UserID: userID, CreatedAt: now, UpdatedAt: now}
		if err := h.repo.PutUser(r.Context(), u); err != nil {
			writeFailure(w, h.log, err, "create profile")
			return
		}
		h.log.Info().Str("user_id", userID).Msg("Profile created on first access")
	} else if err != nil {
		writeFailure(w, h.log, err, "get profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, u)
}

// Update handles PUT /api/users/me
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	cur, err := h.repo.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		cur = &domain.User{UserID: userID, CreatedAt: time.Now()}
	} else if err != nil {
		writeFailure(w, h.log, err, "update profile")
		return
	}

	var in struct {
		Email       *string `json:"email"`
		DisplayName *string `json:"displayName"`
		PhotoURL    *string `json:"photoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if in.Email != nil {
		cur.Email = *in.Email
	}
	if in.DisplayName != nil {
		cur.DisplayName = *in.DisplayName
	}
	if in.PhotoURL != nil {
		cur.PhotoURL = *in.PhotoURL
	}
	cur.UpdatedAt = time.Now()

	if err := h.repo.PutUser(r.Context(), cur); err != nil {
		writeFailure(w, h.log, err, "update profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, cur)
}
