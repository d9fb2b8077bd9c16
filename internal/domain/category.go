package domain

import (
	"errors"
	"strings"
	"time"
)

// CategoryKind distinguishes spending categories from income categories.
type CategoryKind string

const (
	CategoryExpense CategoryKind = "expense"
	CategoryIncome  CategoryKind = "income"
)

// Category is a user-scoped grouping for transactions.
type Category struct {
	CategoryID string       `json:"categoryId" firestore:"categoryId"`
	UserID     string       `json:"userId" firestore:"userId"`
	Name       string       `json:"name" firestore:"name"`
	Kind       CategoryKind `json:"kind" firestore:"kind"`
	Icon       string       `json:"icon,omitempty" firestore:"icon"`
	Color      string       `json:"color,omitempty" firestore:"color"`
	CreatedAt  time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

var ErrInvalidCategoryKind = errors.New("kind must be expense or income")

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if c.Kind != CategoryExpense && c.Kind != CategoryIncome {
		return ErrInvalidCategoryKind
	}
	return nil
}
