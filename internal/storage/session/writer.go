package session

import (
	"context"
	"encoding/json"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/ojimcy/taxsmart/internal/service"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Create(ctx context.Context, create *SessionCreate) error {
	payload, err := json.Marshal(create.Transactions)
	if err != nil {
		return err
	}

	query := psql.Insert(
		im.Into("upload_sessions", "id", "filename", "bank_format", "status", "transactions"),
		im.Values(psql.Arg(create.ID, create.Filename, create.BankFormat, string(StatusParsed), payload)),
	)
	_, err = bob.Exec(ctx, w.tx, query)
	return err
}

// SaveTransactions replaces the session's transaction payload and advances
// its status in one statement.
func (w *Writer) SaveTransactions(ctx context.Context, id uuid.UUID, transactions []service.Transaction, status Status) error {
	payload, err := json.Marshal(transactions)
	if err != nil {
		return err
	}

	query := psql.Update(
		um.Table("upload_sessions"),
		um.SetCol("transactions").ToArg(payload),
		um.SetCol("status").ToArg(string(status)),
		um.SetCol("updated_at").To(psql.F("now")()),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err = bob.Exec(ctx, w.tx, query)
	return err
}
