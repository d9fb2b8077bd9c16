package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/api/middleware"
	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// CategoriesHandler handles category CRUD endpoints.
type CategoriesHandler struct {
	repo store.CategoryStore
	log  zerolog.Logger
}

func NewCategoriesHandler(repo store.CategoryStore, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{repo: repo, log: log}
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	cs, err := h.repo.ListCategories(r.Context(), userID)
	if err != nil {
		writeFailure(w, h.log, err, "list categories")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": cs,
		"count":      len(cs),
	})
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var c domain.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now()
	c.CategoryID = uuid.New().String()
	c.UserID = userID
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := c.Validate(); err != nil {
		writeFailure(w, h.log, err, "create category")
		return
	}
	if err := h.repo.CreateCategory(r.Context(), &c); err != nil {
		writeFailure(w, h.log, err, "create category")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, &c)
}

// Update handles PUT /api/categories/{categoryId}
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	categoryID := r.PathValue("categoryId")

	cur, err := h.repo.GetCategory(r.Context(), userID, categoryID)
	if err != nil {
		writeFailure(w, h.log, err, "update category")
		return
	}

	var in struct {
		Name  *string              `json:"name"`
		Kind  *domain.CategoryKind `json:"kind"`
		Icon  *string              `json:"icon"`
		Color *string              `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if in.Name != nil {
		cur.Name = *in.Name
	}
	if in.Kind != nil {
		cur.Kind = *in.Kind
	}
	if in.Icon != nil {
		cur.Icon = *in.Icon
	}
	if in.Color != nil {
		cur.Color = *in.Color
	}
	cur.UpdatedAt = time.Now()

	if err := cur.Validate(); err != nil {
		writeFailure(w, h.log, err, "update category")
		return
	}
	if err := h.repo.UpdateCategory(r.Context(), cur); err != nil {
		writeFailure(w, h.log, err, "update category")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, cur)
}

// Delete handles DELETE /api/categories/{categoryId}
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	categoryID := r.PathValue("categoryId")

	if err := h.repo.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		writeFailure(w, h.log, err, "delete category")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"categoryId": categoryID, "status": "deleted"})
}
