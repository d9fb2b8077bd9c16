package domain

import "time"

// User is the profile document backing an authenticated identity. The
// identity itself is established upstream; this record only carries profile
// fields and is created lazily on first read.
type User struct {
	UserID      string    `json:"userId" firestore:"userId"`
	Email       string    `json:"email,omitempty" firestore:"email"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName"`
	PhotoURL    string    `json:"photoUrl,omitempty" firestore:"photoUrl"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}
