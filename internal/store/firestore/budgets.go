package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

func (s *Store) CreateBudget(ctx context.Context, b *domain.Budget) error {
	if _, err := s.client.Collection(budgetsCollection).Doc(b.BudgetID).Create(ctx, b); err != nil {
		return fmt.Errorf("CreateBudget %s: %w", b.BudgetID, err)
	}
	return nil
}

func (s *Store) GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	snap, err := s.client.Collection(budgetsCollection).Doc(budgetID).Get(ctx)
	if err != nil {
		if err = wrapNotFound(err); err == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("GetBudget %s: %w", budgetID, err)
	}
	var b domain.Budget
	if err := snap.DataTo(&b); err != nil {
		return nil, fmt.Errorf("GetBudget %s: decoding: %w", budgetID, err)
	}
	if b.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID, month string) ([]*domain.Budget, error) {
	q := s.client.Collection(budgetsCollection).Query.
		Where("userId", "==", userID)
	if month != "" {
		q = q.Where("month", "==", month)
	}
	it := q.OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer it.Stop()

	var out []*domain.Budget
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBudgets: iter next: %w", err)
		}
		var b domain.Budget
		if err := snap.DataTo(&b); err != nil {
			return nil, fmt.Errorf("ListBudgets: decoding %s: %w", snap.Ref.ID, err)
		}
		out = append(out, &b)
	}
	return out, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *domain.Budget) error {
	if _, err := s.GetBudget(ctx, b.UserID, b.BudgetID); err != nil {
		return err
	}
	if _, err := s.client.Collection(budgetsCollection).Doc(b.BudgetID).Set(ctx, b); err != nil {
		return fmt.Errorf("UpdateBudget %s: %w", b.BudgetID, err)
	}
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if _, err := s.client.Collection(budgetsCollection).Doc(budgetID).Delete(ctx); err != nil {
		return fmt.Errorf("DeleteBudget %s: %w", budgetID, err)
	}
	return nil
}
