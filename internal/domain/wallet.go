package domain

import (
	"errors"
	"strings"
	"time"
)

// Wallet holds a running balance alongside the initial balance it was opened
// with. The balance field is a cache: initialBalance plus the signed sum of
// all live transactions. At most one wallet per user may be the default.
type Wallet struct {
	WalletID       string    `json:"walletId" firestore:"walletId"`
	UserID         string    `json:"userId" firestore:"userId"`
	Name           string    `json:"name" firestore:"name"`
	Currency       string    `json:"currency" firestore:"currency"`
	Type           string    `json:"type" firestore:"type"`
	Balance        float64   `json:"balance" firestore:"balance"`
	InitialBalance float64   `json:"initialBalance" firestore:"initialBalance"`
	IsDefault      bool      `json:"isDefault" firestore:"isDefault"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt"`
}

var (
	ErrMissingName     = errors.New("name is required")
	ErrMissingCurrency = errors.New("currency is required")
)

func (w *Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(w.Currency) == "" {
		return ErrMissingCurrency
	}
	return nil
}
