package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/expensewise/expensewise/internal/domain"
)

func (s *Store) CreateFeedback(ctx context.Context, f *domain.Feedback) error {
	if _, err := s.client.Collection(feedbackCollection).Doc(f.FeedbackID).Create(ctx, f); err != nil {
		return fmt.Errorf("CreateFeedback %s: %w", f.FeedbackID, err)
	}
	return nil
}

// ListFeedbackByPrefixKey is the composite-key secondary lookup: the user's
// corrections for one (wallet, description prefix) pair, newest first.
// Backed by a composite index on (userId, walletPrefixKey, createdAt desc).
func (s *Store) ListFeedbackByPrefixKey(ctx context.Context, userID, prefixKey string, limit int) ([]*domain.Feedback, error) {
	q := s.client.Collection(feedbackCollection).Query.
		Where("userId", "==", userID).
		Where("walletPrefixKey", "==", prefixKey).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var out []*domain.Feedback
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListFeedbackByPrefixKey: iter next: %w", err)
		}
		var f domain.Feedback
		if err := snap.DataTo(&f); err != nil {
			return nil, fmt.Errorf("ListFeedbackByPrefixKey: decoding %s: %w", snap.Ref.ID, err)
		}
		out = append(out, &f)
	}
	return out, nil
}
