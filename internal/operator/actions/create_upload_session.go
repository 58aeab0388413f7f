package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/ojimcy/taxsmart/internal/service"
	"github.com/ojimcy/taxsmart/internal/storage"
	"github.com/ojimcy/taxsmart/internal/storage/session"
)

type CreateUploadSession struct {
	ID           uuid.UUID
	Filename     string
	BankFormat   string
	Transactions []service.Transaction

	IAction
}

func (c *CreateUploadSession) Perform(ctx context.Context, writer *storage.Writer) error {
	create := &session.SessionCreate{
		ID:           c.ID,
		Filename:     c.Filename,
		BankFormat:   c.BankFormat,
		Transactions: c.Transactions,
	}

	return writer.Session.Create(ctx, create)
}
