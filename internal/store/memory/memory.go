// Package memory is an in-memory implementation of store.Store. It is safe
// for concurrent use and backs the unit tests; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/store"
)

// Store keeps every collection in a map guarded by one mutex. Values are
// copied on the way in and out so callers can never mutate stored state.
type Store struct {
	mu           sync.RWMutex
	wallets      map[string]*domain.Wallet // walletID
	transactions map[string]*domain.Transaction
	categories   map[string]*domain.Category
	budgets      map[string]*domain.Budget
	settings     map[string]*domain.Settings // userID
	users        map[string]*domain.User     // userID
	feedback     []*domain.Feedback          // insertion order
}

func New() *Store {
	return &Store{
		wallets:      make(map[string]*domain.Wallet),
		transactions: make(map[string]*domain.Transaction),
		categories:   make(map[string]*domain.Category),
		budgets:      make(map[string]*domain.Budget),
		settings:     make(map[string]*domain.Settings),
		users:        make(map[string]*domain.User),
	}
}

var _ store.Store = (*Store)(nil)

// --- wallets ---

func (s *Store) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	s.wallets[w.WalletID] = &cp
	return nil
}

func (s *Store) GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[walletID]
	if !ok || w.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *Store) ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Wallet
	for _, w := range s.wallets {
		if w.UserID == userID {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateWallet(ctx context.Context, w *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.wallets[w.WalletID]
	if !ok || cur.UserID != w.UserID {
		return store.ErrNotFound
	}
	cp := *w
	s.wallets[w.WalletID] = &cp
	return nil
}

func (s *Store) DeleteWallet(ctx context.Context, userID, walletID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok || w.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.wallets, walletID)
	return nil
}

func (s *Store) ApplyBalanceDelta(ctx context.Context, userID, walletID string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyDeltaLocked(userID, walletID, delta)
}

func (s *Store) applyDeltaLocked(userID, walletID string, delta float64) error {
	w, ok := s.wallets[walletID]
	if !ok || w.UserID != userID {
		return store.ErrNotFound
	}
	w.Balance += delta
	w.UpdatedAt = time.Now()
	return nil
}

// --- transactions ---

func (s *Store) GetTransaction(ctx context.Context, walletID, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[transactionID]
	if !ok || t.WalletID != walletID {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) ListTransactions(ctx context.Context, walletID string, f store.TransactionFilter) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range s.transactions {
		if t.WalletID != walletID {
			continue
		}
		if f.StartDate != "" && t.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && t.Date > f.EndDate {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) CreateTransactionWithDelta(ctx context.Context, t *domain.Transaction, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyDeltaLocked(t.UserID, t.WalletID, delta); err != nil {
		return err
	}
	cp := *t
	s.transactions[t.TransactionID] = &cp
	return nil
}

func (s *Store) UpdateTransactionWithDelta(ctx context.Context, t *domain.Transaction, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.transactions[t.TransactionID]
	if !ok || cur.WalletID != t.WalletID {
		return store.ErrNotFound
	}
	if delta != 0 {
		if err := s.applyDeltaLocked(t.UserID, t.WalletID, delta); err != nil {
			return err
		}
	}
	cp := *t
	s.transactions[t.TransactionID] = &cp
	return nil
}

func (s *Store) DeleteTransactionWithDelta(ctx context.Context, userID, walletID, transactionID string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[transactionID]
	if !ok || t.WalletID != walletID {
		return store.ErrNotFound
	}
	if err := s.applyDeltaLocked(userID, walletID, delta); err != nil {
		return err
	}
	delete(s.transactions, transactionID)
	return nil
}

func (s *Store) BatchCreateTransactions(ctx context.Context, ts []*domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range ts {
		cp := *t
		s.transactions[t.TransactionID] = &cp
	}
	return nil
}

func (s *Store) ListTransactionIDs(ctx context.Context, walletID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, t := range s.transactions {
		if t.WalletID == walletID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, walletID, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[transactionID]
	if !ok || t.WalletID != walletID {
		return store.ErrNotFound
	}
	delete(s.transactions, transactionID)
	return nil
}

// --- categories ---

func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.categories[c.CategoryID] = &cp
	return nil
}

func (s *Store) GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.categories[c.CategoryID]
	if !ok || cur.UserID != c.UserID {
		return store.ErrNotFound
	}
	cp := *c
	s.categories[c.CategoryID] = &cp
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[categoryID]
	if !ok || c.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.categories, categoryID)
	return nil
}

// --- budgets ---

func (s *Store) CreateBudget(ctx context.Context, b *domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	s.budgets[b.BudgetID] = &cp
	return nil
}

func (s *Store) GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID, month string) ([]*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Budget
	for _, b := range s.budgets {
		if b.UserID != userID {
			continue
		}
		if month != "" && b.Month != month {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.budgets[b.BudgetID]
	if !ok || cur.UserID != b.UserID {
		return store.ErrNotFound
	}
	cp := *b
	s.budgets[b.BudgetID] = &cp
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[budgetID]
	if !ok || b.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.budgets, budgetID)
	return nil
}

// --- settings ---

func (s *Store) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settings[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *Store) PutSettings(ctx context.Context, st *domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *st
	s.settings[st.UserID] = &cp
	return nil
}

// --- users ---

func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) PutUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.UserID] = &cp
	return nil
}

// --- feedback ---

func (s *Store) CreateFeedback(ctx context.Context, f *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.feedback = append(s.feedback, &cp)
	return nil
}

func (s *Store) ListFeedbackByPrefixKey(ctx context.Context, userID, prefixKey string, limit int) ([]*domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Feedback
	// Newest first: walk the append-only log backwards.
	for i := len(s.feedback) - 1; i >= 0; i-- {
		f := s.feedback[i]
		if f.UserID != userID || f.WalletPrefixKey != prefixKey {
			continue
		}
		cp := *f
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
