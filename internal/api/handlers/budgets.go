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

// BudgetsHandler handles budget CRUD endpoints. A budget references a
// category the user owns; the reference is checked on create and update.
type BudgetsHandler struct {
	repo       store.BudgetStore
	categories store.CategoryStore
	log        zerolog.Logger
}

func NewBudgetsHandler(repo store.BudgetStore, categories store.CategoryStore, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{repo: repo, categories: categories, log: log}
}

// List handles GET /api/budgets?month=YYYY-MM
func (h *BudgetsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	month := r.URL.Query().Get("month")

	bs, err := h.repo.ListBudgets(r.Context(), userID, month)
	if err != nil {
		writeFailure(w, h.log, err, "list budgets")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"budgets": bs,
		"count":   len(bs),
	})
}

// Create handles POST /api/budgets
func (h *BudgetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var b domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now()
	b.BudgetID = uuid.New().String()
	b.UserID = userID
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := b.Validate(); err != nil {
		writeFailure(w, h.log, err, "create budget")
		return
	}
	if _, err := h.categories.GetCategory(r.Context(), userID, b.CategoryID); err != nil {
		writeFailure(w, h.log, err, "create budget")
		return
	}
	if err := h.repo.CreateBudget(r.Context(), &b); err != nil {
		writeFailure(w, h.log, err, "create budget")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, &b)
}

// Update handles PUT /api/budgets/{budgetId}
func (h *BudgetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	budgetID := r.PathValue("budgetId")

	cur, err := h.repo.GetBudget(r.Context(), userID, budgetID)
	if err != nil {
		writeFailure(w, h.log, err, "update budget")
		return
	}

	var in struct {
		CategoryID *string  `json:"categoryId"`
		Amount     *float64 `json:"amount"`
		Month      *string  `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if in.CategoryID != nil {
		if _, err := h.categories.GetCategory(r.Context(), userID, *in.CategoryID); err != nil {
			writeFailure(w, h.log, err, "update budget")
			return
		}
		cur.CategoryID = *in.CategoryID
	}
	if in.Amount != nil {
		cur.Amount = *in.Amount
	}
	if in.Month != nil {
		cur.Month = *in.Month
	}
	cur.UpdatedAt = time.Now()

	if err := cur.Validate(); err != nil {
		writeFailure(w, h.log, err, "update budget")
		return
	}
	if err := h.repo.UpdateBudget(r.Context(), cur); err != nil {
		writeFailure(w, h.log, err, "update budget")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, cur)
}

// Delete handles DELETE /api/budgets/{budgetId}
func (h *BudgetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	budgetID := r.PathValue("budgetId")

	if err := h.repo.DeleteBudget(r.Context(), userID, budgetID); err != nil {
		writeFailure(w, h.log, err, "delete budget")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"budgetId": budgetID, "status": "deleted"})
}
