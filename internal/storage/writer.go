package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/ojimcy/taxsmart/internal/storage/session"
)

type Writer struct {
	tx      bob.Tx
	Session *session.Writer
}

func NewWriter(tx bob.Tx) Writer {
	return Writer{
		tx:      tx,
		Session: session.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
