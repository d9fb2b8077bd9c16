package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensewise/expensewise/internal/domain"
	"github.com/expensewise/expensewise/internal/logger"
	"github.com/expensewise/expensewise/internal/store"
	"github.com/expensewise/expensewise/internal/store/memory"
)

// flakyTxStore fails BatchCreateTransactions for selected calls and delegates
// everything else to the in-memory store.
type flakyTxStore struct {
	*memory.Store
	batchCalls  int
	failOnCalls map[int]bool
}

func (f *flakyTxStore) BatchCreateTransactions(ctx context.Context, ts []*domain.Transaction) error {
	f.batchCalls++
	if f.failOnCalls[f.batchCalls] {
		return errors.New("backend write rejected")
	}
	return f.Store.BatchCreateTransactions(ctx, ts)
}

// stuckBalanceStore serves wallet reads but rejects every balance write.
type stuckBalanceStore struct {
	*memory.Store
}

func (s *stuckBalanceStore) ApplyBalanceDelta(ctx context.Context, userID, walletID string, delta float64) error {
	return errors.New("balance write rejected")
}

func expenseItems(n int, amount float64) []ImportItem {
	items := make([]ImportItem, n)
	for i := range items {
		items[i] = ImportItem{
			Amount:      amount,
			Description: fmt.Sprintf("item %d", i),
			Type:        domain.TypeExpense,
			Date:        "2024-06-01",
		}
	}
	return items
}

func TestImportAllValid(t *testing.T) {
	l, mem := newTestLedger(t)
	seedWallet(t, mem, "u1", "w1", 1000)

	res, err := l.Import(context.Background(), "u1", "w1", expenseItems(4, 10))
	require.NoError(t, err)

	assert.Len(t, res.Successful, 4)
	assert.Empty(t, res.Failed)
	assert.Equal(t, 960.0, walletBalance(t, mem, "u1", "w1"))

	stored, err := mem.ListTransactions(context.Background(), "w1", store.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestImportPartitionsEveryItem(t *testing.T) {
	l, mem := newTestLedger(t)
	seedWallet(t, mem, "u1", "w1", 0)

	items := []ImportItem{
		{Amount: 100, Description: "good expense", Type: domain.TypeExpense, Date: "2024-06-01"},
		{Amount: 50, Description: "bad type", Type: "bogus", Date: "2024-06-01"},
		{Amount: 200, Description: "good income", Type: domain.TypeIncome},
		{Amount: 30, Description: "bad date", Type: domain.TypeExpense, Date: "01/06/2024"},
		{Amount: 0, Description: "zero amount", Type: domain.TypeExpense},
	}

	res, err := l.Import(context.Background(), "u1", "w1", items)
	require.NoError(t, err)

	assert.Len(t, res.Successful, 2)
	require.Len(t, res.Failed, 3)
	assert.Equal(t, len(items), len(res.Successful)+len(res.Failed))

	// Failures keep their original positions and carry a reason.
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Equal(t, 3, res.Failed[1].Index)
	assert.Equal(t, 4, res.Failed[2].Index)
	for _, f := range res.Failed {
		assert.NotEmpty(t, f.Reason)
	}

	// Balance reflects only the written items: -100 + 200.
	assert.Equal(t, 100.0, walletBalance(t, mem, "u1", "w1"))
}

func TestImportSubBatchFailureReclassifiesWholeChunk(t *testing.T) {
	mem := memory.New()
	flaky := &flakyTxStore{Store: mem, failOnCalls: map[int]bool{2: true}}
	l := New(mem, flaky, logger.NewWithWriter(nil))
	seedWallet(t, mem, "u1", "w1", 0)

	// 30 items split into chunks of 25 and 5; the second chunk's write fails.
	res, err := l.Import(context.Background(), "u1", "w1", expenseItems(30, 10))
	require.NoError(t, err)

	assert.Len(t, res.Successful, 25)
	assert.Len(t, res.Failed, 5)
	for _, f := range res.Failed {
		assert.GreaterOrEqual(t, f.Index, 25)
		assert.Contains(t, f.Reason, "batch write failed")
	}

	// Only the written chunk counts toward the balance.
	assert.Equal(t, -250.0, walletBalance(t, mem, "u1", "w1"))
}

func TestImportBalanceFailureDoesNotFailBatch(t *testing.T) {
	mem := memory.New()
	l := New(&stuckBalanceStore{Store: mem}, mem, logger.NewWithWriter(nil))
	seedWallet(t, mem, "u1", "w1", 500)

	res, err := l.Import(context.Background(), "u1", "w1", expenseItems(3, 20))
	require.NoError(t, err)

	assert.Len(t, res.Successful, 3)
	assert.Empty(t, res.Failed)

	// The rows are written; the cached balance stays stale until recomputed.
	stored, err := mem.ListTransactions(context.Background(), "w1", store.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	assert.Equal(t, 500.0, walletBalance(t, mem, "u1", "w1"))
}

func TestImportForeignWalletIsNotFound(t *testing.T) {
	l, mem := newTestLedger(t)
	seedWallet(t, mem, "owner", "w1", 0)

	_, err := l.Import(context.Background(), "intruder", "w1", expenseItems(1, 10))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportNothingValidSkipsBalanceUpdate(t *testing.T) {
	l, mem := newTestLedger(t)
	seedWallet(t, mem, "u1", "w1", 500)

	items := []ImportItem{
		{Amount: 0, Description: "zero", Type: domain.TypeExpense},
		{Amount: 10, Description: "bad type", Type: "bogus"},
	}
	res, err := l.Import(context.Background(), "u1", "w1", items)
	require.NoError(t, err)

	assert.Empty(t, res.Successful)
	assert.Len(t, res.Failed, 2)
	assert.Equal(t, 500.0, walletBalance(t, mem, "u1", "w1"))
}
