package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/ojimcy/taxsmart/internal/service"
	"github.com/ojimcy/taxsmart/internal/storage"
	"github.com/ojimcy/taxsmart/internal/storage/session"
)

type SaveClassifications struct {
	SessionID    uuid.UUID
	Transactions []service.Transaction

	IAction
}

func (s *SaveClassifications) Perform(ctx context.Context, writer *storage.Writer) error {
	// The session must exist; FindByID inside the transaction surfaces a
	// missing row before we overwrite anything.
	if _, err := writer.Session.FindByID(ctx, s.SessionID); err != nil {
		return err
	}

	return writer.Session.SaveTransactions(ctx, s.SessionID, s.Transactions, session.StatusClassified)
}
