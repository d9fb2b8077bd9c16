package domain

import "time"

// Feedback is a stored correction event: the category a user assigned versus
// what was suggested for a transaction description. Records are written once
// and never mutated or deleted; the classifier reads them back through the
// WalletPrefixKey secondary lookup.
type Feedback struct {
	FeedbackID           string    `json:"feedbackId" firestore:"feedbackId"`
	UserID               string    `json:"userId" firestore:"userId"`
	WalletID             string    `json:"walletId" firestore:"walletId"`
	WalletPrefixKey      string    `json:"walletPrefixKey" firestore:"walletPrefixKey"` // walletId + "#" + description prefix
	PredictedCategory    string    `json:"predictedCategory" firestore:"predictedCategory"`
	CorrectedCategory    string    `json:"correctedCategory" firestore:"correctedCategory"`
	OriginalDescription  string    `json:"originalDescription" firestore:"originalDescription"`
	CorrectedDescription string    `json:"correctedDescription,omitempty" firestore:"correctedDescription"`
	CreatedAt            time.Time `json:"createdAt" firestore:"createdAt"`
}
