package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/ojimcy/taxsmart/internal/storage/session"
)

type Reader struct {
	Sessions *session.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Sessions: session.NewReader(exec),
	}
}
