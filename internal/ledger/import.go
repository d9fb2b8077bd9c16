package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expensewise/expensewise/internal/domain"
)

// ImportItem is one row of a bulk import, either from a JSON array or a
// parsed CSV statement.
type ImportItem struct {
	Amount      float64                `json:"amount" csv:"amount"`
	Description string                 `json:"description" csv:"description"`
	CategoryID  string                 `json:"categoryId" csv:"category_id"`
	Type        domain.TransactionType `json:"type" csv:"type"`
	Date        string                 `json:"date" csv:"date"`
	Labels      []string               `json:"labels" csv:"-"`
}

// ImportFailure reports one rejected item with the reason it was excluded.
type ImportFailure struct {
	Index       int    `json:"index"`
	Description string `json:"description,omitempty"`
	Reason      string `json:"reason"`
}

// ImportResult partitions a bulk import: every input item lands in exactly
// one of the two lists.
type ImportResult struct {
	Successful []*domain.Transaction `json:"successful"`
	Failed     []ImportFailure       `json:"failed"`
}

// Import validates and writes a batch of transactions into one wallet, then
// applies the aggregate of all successfully written signed amounts as a
// single balance delta.
//
// Items failing validation are excluded up front. Writes go out in sub-batches;
// when a sub-batch write fails, all of its items move from successful to
// failed. The wallet update is attempted regardless of earlier sub-batch
// outcomes, skipped when the aggregate delta is zero, and its own failure is
// logged without failing the import.
func (l *Ledger) Import(ctx context.Context, userID, walletID string, items []ImportItem) (*ImportResult, error) {
	if _, err := l.wallets.GetWallet(ctx, userID, walletID); err != nil {
		return nil, err
	}

	res := &ImportResult{}
	now := time.Now()

	type pending struct {
		index int
		tx    *domain.Transaction
	}
	var valid []pending
	for i, item := range items {
		in := CreateInput{
			WalletID:    walletID,
			Amount:      item.Amount,
			Description: item.Description,
			CategoryID:  item.CategoryID,
			Type:        item.Type,
			Date:        item.Date,
			Labels:      item.Labels,
		}
		t := in.toTransaction(userID, now)
		if err := t.Validate(); err != nil {
			res.Failed = append(res.Failed, ImportFailure{
				Index:       i,
				Description: item.Description,
				Reason:      err.Error(),
			})
			continue
		}
		valid = append(valid, pending{index: i, tx: t})
	}

	total := decimal.Zero
	for start := 0; start < len(valid); start += importChunkSize {
		end := start + importChunkSize
		if end > len(valid) {
			end = len(valid)
		}
		chunk := valid[start:end]

		batch := make([]*domain.Transaction, len(chunk))
		for i, p := range chunk {
			batch[i] = p.tx
		}

		if err := l.txs.BatchCreateTransactions(ctx, batch); err != nil {
			l.log.Error().Err(err).
				Str("wallet_id", walletID).
				Int("items", len(chunk)).
				Msg("Import sub-batch write failed")
			for _, p := range chunk {
				res.Failed = append(res.Failed, ImportFailure{
					Index:       p.index,
					Description: p.tx.Description,
					Reason:      fmt.Sprintf("batch write failed: %v", err),
				})
			}
			continue
		}

		for _, p := range chunk {
			res.Successful = append(res.Successful, p.tx)
			total = total.Add(decimal.NewFromFloat(p.tx.Amount))
		}
	}

	if !total.IsZero() {
		aggregate, _ := total.Float64()
		if err := l.wallets.ApplyBalanceDelta(ctx, userID, walletID, aggregate); err != nil {
			// The transactions are already written; a stale balance here is
			// recoverable by recomputation, so the import still succeeds.
			l.log.Error().Err(err).
				Str("wallet_id", walletID).
				Float64("delta", aggregate).
				Msg("Import balance update failed")
		}
	}

	l.log.Info().
		Str("wallet_id", walletID).
		Int("successful", len(res.Successful)).
		Int("failed", len(res.Failed)).
		Msg("Bulk import finished")
	return res, nil
}
