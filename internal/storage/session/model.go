package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/ojimcy/taxsmart/internal/service"
)

// Status tracks how far an upload has moved through the pipeline.
type Status string

const (
	StatusParsed     Status = "parsed"
	StatusClassified Status = "classified"
	StatusReviewed   Status = "reviewed"
)

// UploadSession is one uploaded statement and the transactions extracted
// from it. Transactions are stored as a JSONB payload so the session row
// is self-contained.
type UploadSession struct {
	ID           uuid.UUID
	Filename     string
	BankFormat   string
	Status       Status
	Transactions []service.Transaction
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionCreate is the input for recording a new upload.
type SessionCreate struct {
	ID           uuid.UUID
	Filename     string
	BankFormat   string
	Transactions []service.Transaction
}

// SessionFilter specifies filters for listing sessions.
type SessionFilter struct {
	Limit  int
	Offset int
}

// ISessionReader defines the read side of session storage. Handlers depend
// on this abstraction so tests can swap in mocks.
type ISessionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UploadSession, error)
	List(ctx context.Context, filter *SessionFilter) ([]*UploadSession, error)
}

// sessionRow mirrors the upload_sessions table. The transactions column is
// raw JSONB and gets decoded at the model boundary.
type sessionRow struct {
	ID           uuid.UUID `db:"id"`
	Filename     string    `db:"filename"`
	BankFormat   string    `db:"bank_format"`
	Status       string    `db:"status"`
	Transactions []byte    `db:"transactions"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

var sessionColumns = []any{"id", "filename", "bank_format", "status", "transactions", "created_at", "updated_at"}

func rowToSession(row *sessionRow) (*UploadSession, error) {
	var transactions []service.Transaction
	if len(row.Transactions) > 0 {
		if err := json.Unmarshal(row.Transactions, &transactions); err != nil {
			return nil, err
		}
	}

	return &UploadSession{
		ID:           row.ID,
		Filename:     row.Filename,
		BankFormat:   row.BankFormat,
		Status:       Status(row.Status),
		Transactions: transactions,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
