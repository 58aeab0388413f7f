package session

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

type Reader struct {
	exec bob.Executor
}

var _ ISessionReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*UploadSession, error) {
	query := psql.Select(
		sm.Columns(sessionColumns...),
		sm.From("upload_sessions"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	row, err := bob.One(ctx, r.exec, query, scan.StructMapper[sessionRow]())
	if err != nil {
		return nil, err
	}
	return rowToSession(&row)
}

func (r *Reader) List(ctx context.Context, filter *SessionFilter) ([]*UploadSession, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(sessionColumns...),
		sm.From("upload_sessions"),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Asc(),
	}
	if filter != nil {
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[sessionRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*UploadSession, len(rows))
	for i := range rows {
		session, err := rowToSession(&rows[i])
		if err != nil {
			return nil, err
		}
		result[i] = session
	}
	return result, nil
}
