package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jobharvest/dbinit/internal/core/domain/initrun"
	"github.com/jobharvest/dbinit/internal/core/ports"
	"github.com/jobharvest/dbinit/internal/infrastructure/db"
)

// InitRunRepository implements the init run repository interface
type InitRunRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewInitRunRepository creates a new init run repository
func NewInitRunRepository(database *db.Database, logger *logrus.Logger) ports.InitRunRepository {
	return &InitRunRepository{
		db:     database,
		logger: logger,
	}
}

// Create records the start of an initialization run.
func (r *InitRunRepository) Create(ctx context.Context, run *initrun.Run) error {
	query := `
		INSERT INTO init_runs (id, status, detail, started_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.DB.ExecContext(ctx, query, run.ID, run.Status, run.Detail, run.StartedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"run_id": run.ID}).WithError(err).Error("db: failed to record init run start")
		}
		return fmt.Errorf("failed to create init run: %w", err)
	}
	return nil
}

// Finish finalizes a run with its terminal status and timestamp.
func (r *InitRunRepository) Finish(ctx context.Context, run *initrun.Run) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	query := `
		UPDATE init_runs
		SET status = $2, detail = $3, finished_at = $4
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, run.ID, run.Status, run.Detail, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to finish init run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("init run %s not found", run.ID)
	}
	return nil
}

// Latest returns the most recently started run, or nil when the table is empty.
func (r *InitRunRepository) Latest(ctx context.Context) (*initrun.Run, error) {
	var run initrun.Run
	query := `
		SELECT id, status, detail, started_at, finished_at
		FROM init_runs
		ORDER BY started_at DESC
		LIMIT 1`

	err := r.db.DB.GetContext(ctx, &run, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest init run: %w", err)
	}
	return &run, nil
}
