package actions

import (
	"context"

	"github.com/ojimcy/taxsmart/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
