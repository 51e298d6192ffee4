package ports

import (
	"context"

	"github.com/jobharvest/dbinit/internal/core/domain/initrun"
)

// InitRunRepository defines the interface for initialization run bookkeeping
type InitRunRepository interface {
	Create(ctx context.Context, run *initrun.Run) error
	Finish(ctx context.Context, run *initrun.Run) error
	Latest(ctx context.Context) (*initrun.Run, error)
}
