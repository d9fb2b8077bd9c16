package domain

import (
	"errors"
	"strings"
	"time"
)

// Budget is a per-user spending cap on one category for one month.
type Budget struct {
	BudgetID   string    `json:"budgetId" firestore:"budgetId"`
	UserID     string    `json:"userId" firestore:"userId"`
	CategoryID string    `json:"categoryId" firestore:"categoryId"`
	Amount     float64   `json:"amount" firestore:"amount"`
	Month      string    `json:"month" firestore:"month"` // YYYY-MM
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt"`
}

var (
	ErrMissingCategory = errors.New("categoryId is required")
	ErrInvalidBudget   = errors.New("amount must be positive")
	ErrInvalidMonth    = errors.New("month must be in YYYY-MM format")
)

func (b *Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrMissingCategory
	}
	if b.Amount <= 0 {
		return ErrInvalidBudget
	}
	if _, err := time.Parse("2006-01", b.Month); err != nil {
		return ErrInvalidMonth
	}
	return nil
}
