package classifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/expensewise/expensewise/internal/domain"
)

// similarLimit caps how many prior corrections a suggestion considers and
// recentLimit how many of them are echoed back as supporting evidence.
const (
	similarLimit = 10
	recentLimit  = 3
)

// FeedbackReader is the slice of the store the suggester needs: feedback
// records for one user matching one composite wallet+prefix key, newest first.
type FeedbackReader interface {
	ListFeedbackByPrefixKey(ctx context.Context, userID, prefixKey string, limit int) ([]*domain.Feedback, error)
}

// Suggestion is the result of a majority vote over prior corrections sharing
// the description prefix. When Found is false only Prefix is meaningful.
type Suggestion struct {
	Found      bool               `json:"found"`
	Prefix     string             `json:"prefix"`
	Category   string             `json:"category,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
	Count      int                `json:"count,omitempty"`
	Total      int                `json:"total,omitempty"`
	Recent     []*domain.Feedback `json:"recent,omitempty"`
}

// Suggester answers category suggestions from stored correction feedback.
type Suggester struct {
	feedback FeedbackReader
	log      zerolog.Logger
}

func NewSuggester(feedback FeedbackReader, log zerolog.Logger) *Suggester {
	return &Suggester{feedback: feedback, log: log}
}

// FindSimilarCorrections returns up to 10 of the user's newest corrections
// whose descriptions share a prefix with the given one, scoped to the wallet.
func (s *Suggester) FindSimilarCorrections(ctx context.Context, userID, walletID, description string) ([]*domain.Feedback, error) {
	key := PrefixKey(walletID, description)
	records, err := s.feedback.ListFeedbackByPrefixKey(ctx, userID, key, similarLimit)
	if err != nil {
		return nil, fmt.Errorf("list feedback for key %q: %w", key, err)
	}
	return records, nil
}

// Suggest tallies corrected-category frequency across similar corrections and
// picks the winner. Ties break toward the category seen first in newest-first
// order, which keeps the result deterministic for a fixed history.
func (s *Suggester) Suggest(ctx context.Context, userID, walletID, description string) (*Suggestion, error) {
	prefix := ExtractPrefix(description)

	records, err := s.feedback.ListFeedbackByPrefixKey(ctx, userID, walletID+"#"+prefix, similarLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest for prefix %q: %w", prefix, err)
	}

	if len(records) == 0 {
		return &Suggestion{Found: false, Prefix: prefix}, nil
	}

	counts := make(map[string]int, len(records))
	var order []string
	for _, rec := range records {
		if counts[rec.CorrectedCategory] == 0 {
			order = append(order, rec.CorrectedCategory)
		}
		counts[rec.CorrectedCategory]++
	}

	winner := order[0]
	for _, cat := range order {
		if counts[cat] > counts[winner] {
			winner = cat
		}
	}

	recent := records
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	sug := &Suggestion{
		Found:      true,
		Prefix:     prefix,
		Category:   winner,
		Confidence: float64(counts[winner]) / float64(len(records)),
		Count:      counts[winner],
		Total:      len(records),
		Recent:     recent,
	}

	s.log.Debug().
		Str("prefix", prefix).
		Str("category", winner).
		Float64("confidence", sug.Confidence).
		Int("matches", len(records)).
		Msg("Category suggestion computed")

	return sug, nil
}
