package domain

import (
	"errors"
	"strings"
	"time"
)

// TransactionType encodes the directional effect a transaction has on its
// wallet balance.
type TransactionType string

const (
	TypeExpense     TransactionType = "expense"
	TypeIncome      TransactionType = "income"
	TypeTransferOut TransactionType = "transfer_out"
	TypeTransferIn  TransactionType = "transfer_in"
)

// IsValid reports whether t is one of the four known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransferOut, TypeTransferIn:
		return true
	}
	return false
}

// IsOutflow reports whether transactions of this type carry a negative
// signed amount.
func (t TransactionType) IsOutflow() bool {
	return t == TypeExpense || t == TypeTransferOut
}

// Transaction is a single wallet movement. Amount is stored signed: negative
// for expense/transfer_out, non-negative otherwise, always rounded to two
// decimal places.
type Transaction struct {
	TransactionID string          `json:"transactionId" firestore:"transactionId"`
	WalletID      string          `json:"walletId" firestore:"walletId"`
	UserID        string          `json:"userId" firestore:"userId"`
	Amount        float64         `json:"amount" firestore:"amount"`
	Description   string          `json:"description" firestore:"description"`
	CategoryID    string          `json:"categoryId" firestore:"categoryId"`
	Type          TransactionType `json:"type" firestore:"type"`
	Date          string          `json:"date" firestore:"date"` // YYYY-MM-DD
	Labels        []string        `json:"labels,omitempty" firestore:"labels"`
	CreatedAt     time.Time       `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" firestore:"updatedAt"`
}

const dateLayout = "2006-01-02"

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("amount must be a non-zero number")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrMissingWallet = errors.New("walletId is required")
)

// Validate checks the fields a caller must supply before a transaction can be
// persisted. The signed amount itself is derived later by the ledger.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.WalletID) == "" {
		return ErrMissingWallet
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount == 0 {
		return ErrInvalidAmount
	}
	if t.Date != "" {
		if _, err := time.Parse(dateLayout, t.Date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}
