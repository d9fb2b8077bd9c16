package domain

import "time"

// Settings is the per-user preferences document. One document per user,
// created on first write; reads fall back to DefaultSettings.
type Settings struct {
	UserID               string    `json:"userId" firestore:"userId"`
	Currency             string    `json:"currency" firestore:"currency"`
	Locale               string    `json:"locale" firestore:"locale"`
	HideBalances         bool      `json:"hideBalances" firestore:"hideBalances"`
	BudgetAlertsEnabled  bool      `json:"budgetAlertsEnabled" firestore:"budgetAlertsEnabled"`
	SuggestionsEnabled   bool      `json:"suggestionsEnabled" firestore:"suggestionsEnabled"`
	FirstDayOfMonth      int       `json:"firstDayOfMonth" firestore:"firstDayOfMonth"`
	UpdatedAt            time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// DefaultSettings returns the settings a user has before any explicit update.
func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:              userID,
		Currency:            "INR",
		Locale:              "en-IN",
		BudgetAlertsEnabled: true,
		SuggestionsEnabled:  true,
		FirstDayOfMonth:     1,
	}
}
