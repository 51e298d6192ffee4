package action

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	config "github.com/jobharvest/dbinit/configs"
	"github.com/jobharvest/dbinit/internal/core/domain/initrun"
	"github.com/jobharvest/dbinit/internal/core/domain/job"
	"github.com/jobharvest/dbinit/internal/core/ports"
	"github.com/jobharvest/dbinit/internal/infrastructure/db"
	"github.com/jobharvest/dbinit/internal/infrastructure/redis"
	"github.com/jobharvest/dbinit/internal/infrastructure/repositories"
)

// initDBAction is the built-in initialization action: ensure the database
// exists, apply migrations, optionally seed job fixtures, and record the run.
type initDBAction struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewInitDB creates the built-in database initialization action.
func NewInitDB(cfg *config.Config, logger *logrus.Logger) ports.InitAction {
	return &initDBAction{cfg: cfg, logger: logger}
}

func (a *initDBAction) Name() string {
	return "init-db"
}

func (a *initDBAction) Run(ctx context.Context) error {
	created, err := db.EnsureDatabase(ctx, &a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}
	if created {
		a.logger.WithField("database", a.cfg.Database.DBName).Info("database created")
	}

	database, err := db.NewDatabaseWithConfig(&a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(a.cfg.Init.MigrationsPath); err != nil {
		return err
	}
	a.logger.Info("migrations applied")

	runs := repositories.NewInitRunRepository(database, a.logger)
	if prev, err := runs.Latest(ctx); err != nil {
		a.logger.WithError(err).Warn("failed to read previous init run")
	} else if prev != nil {
		a.logger.WithFields(logrus.Fields{"run_id": prev.ID, "status": prev.Status}).Info("previous init run found")
	}

	run := initrun.New()
	if err := runs.Create(ctx, run); err != nil {
		return err
	}

	if err := a.finish(ctx, runs, run, a.seed(ctx, database)); err != nil {
		return err
	}

	if a.cfg.Redis.Enabled() {
		a.publishMarker(ctx, run.ID.String())
	}

	return nil
}

// publishMarker is best effort: the init_runs row is the source of truth for
// the run outcome, so cache trouble must not turn a finished run into a
// process failure.
func (a *initDBAction) publishMarker(ctx context.Context, runID string) {
	client := redis.NewRedisClient(&a.cfg.Redis)
	defer client.Close()

	marker := redis.NewMarker(client, a.cfg.Redis.MarkerKey)
	if prev, err := marker.Get(ctx); err != nil {
		a.logger.WithError(err).Warn("failed to read previous init marker")
	} else if prev != "" {
		a.logger.WithField("marker", prev).Info("previous init marker found")
	}

	if err := marker.Set(ctx, runID); err != nil {
		a.logger.WithError(err).Warn("failed to publish init marker")
		return
	}
	a.logger.WithField("key", a.cfg.Redis.MarkerKey).Info("init marker published")
}

// finish finalizes the run row with the seed outcome and returns seedErr.
func (a *initDBAction) finish(ctx context.Context, runs ports.InitRunRepository, run *initrun.Run, seedErr error) error {
	if seedErr != nil {
		run.Status = initrun.StatusFailed
		msg := seedErr.Error()
		run.Detail = &msg
	} else {
		run.Status = initrun.StatusSucceeded
	}

	if err := runs.Finish(ctx, run); err != nil {
		if seedErr != nil {
			a.logger.WithError(err).Warn("failed to finalize init run record")
			return seedErr
		}
		return err
	}
	return seedErr
}

// seed loads the optional fixture file and inserts its jobs. A missing
// configuration is not an error; seeding is skipped.
func (a *initDBAction) seed(ctx context.Context, database *db.Database) error {
	if a.cfg.Init.SeedFile == "" {
		return nil
	}

	seedFile, err := loadSeedFile(a.cfg.Init.SeedFile)
	if err != nil {
		return err
	}

	repo := repositories.NewJobRepository(database, a.logger)
	inserted := 0
	for i := range seedFile.Jobs {
		if _, err := repo.AddJob(ctx, &seedFile.Jobs[i]); err != nil {
			return fmt.Errorf("failed to seed job %q: %w", seedFile.Jobs[i].Job.JobURL, err)
		}
		inserted++
	}

	total, err := repo.CountJobs(ctx)
	if err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{"inserted": inserted, "total": total}).Info("seed data loaded")
	return nil
}

func loadSeedFile(path string) (*job.SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seedFile job.SeedFile
	if err := json.Unmarshal(data, &seedFile); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &seedFile, nil
}
