package storage

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/ojimcy/taxsmart/internal/config"
	"github.com/ojimcy/taxsmart/internal/storage/session"
)

type Storage struct {
	DB       *sql.DB
	bobDB    bob.DB
	Sessions *session.Reader
}

func NewStorage(env *config.Config) *Storage {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}

	bobDB := bob.NewDB(db)

	return &Storage{
		DB:       db,
		bobDB:    bobDB,
		Sessions: session.NewReader(bobDB),
	}
}

// Write opens a transaction and returns a Writer bound to it. The caller
// must Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	writer := NewWriter(tx)
	return &writer, nil
}
