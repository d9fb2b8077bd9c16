package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	if _, err := s.client.Collection(categoriesCollection).Doc(c.CategoryID).Create(ctx, c); err != nil {
		return fmt.Errorf("CreateCategory %s: %w", c.CategoryID, err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	snap, err := s.client.Collection(categoriesCollection).Doc(categoryID).Get(ctx)
	if err != nil {
		if err = wrapNotFound(err); err == store.ErrNotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("GetCategory %s: %w", categoryID, err)
	}
	var c domain.Category
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("GetCategory %s: decoding: %w", categoryID, err)
	}
	if c.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	it := s.client.Collection(categoriesCollection).
		Where("userId", "==", userID).
		OrderBy("name", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	var out []*domain.Category
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCategories: iter next: %w", err)
		}
		var c domain.Category
		if err := snap.DataTo(&c); err != nil {
			return nil, fmt.Errorf("ListCategories: decoding %s: %w", snap.Ref.ID, err)
		}
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if _, err := s.GetCategory(ctx, c.UserID, c.CategoryID); err != nil {
		return err
	}
	if _, err := s.client.Collection(categoriesCollection).Doc(c.CategoryID).Set(ctx, c); err != nil {
		return fmt.Errorf("UpdateCategory %s: %w", c.CategoryID, err)
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if _, err := s.GetCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	if _, err := s.client.Collection(categoriesCollection).Doc(categoryID).Delete(ctx); err != nil {
		return fmt.Errorf("DeleteCategory %s: %w", categoryID, err)
	}
	return nil
}
