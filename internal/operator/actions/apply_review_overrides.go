package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/ojimcy/taxsmart/internal/service"
	"github.com/ojimcy/taxsmart/internal/storage"
	"github.com/ojimcy/taxsmart/internal/storage/session"
)

type ApplyReviewOverrides struct {
	SessionID       uuid.UUID
	Overrides       map[uuid.UUID]service.Category
	Classifications *service.ClassificationService

	// Applied receives the updated transactions after a successful commit.
	Applied []service.Transaction

	IAction
}

func (a *ApplyReviewOverrides) Perform(ctx context.Context, writer *storage.Writer) error {
	stored, err := writer.Session.FindByID(ctx, a.SessionID)
	if err != nil {
		return err
	}

	matched := 0
	transactions := make([]service.Transaction, len(stored.Transactions))
	for i, tx := range stored.Transactions {
		category, ok := a.Overrides[tx.ID]
		if !ok {
			transactions[i] = tx
			continue
		}

		updated, err := a.Classifications.Override(tx, category)
		if err != nil {
			return err
		}
		transactions[i] = updated
		matched++
	}

	if matched != len(a.Overrides) {
		return fmt.Errorf("%w: %d overrides reference unknown transactions", service.ErrInvalidInput, len(a.Overrides)-matched)
	}

	if err := writer.Session.SaveTransactions(ctx, a.SessionID, transactions, session.StatusReviewed); err != nil {
		return err
	}

	a.Applied = transactions
	return nil
}
