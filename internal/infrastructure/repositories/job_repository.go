package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/jobharvest/dbinit/internal/core/domain/job"
	"github.com/jobharvest/dbinit/internal/core/ports"
	"github.com/jobharvest/dbinit/internal/infrastructure/db"
)

// JobRepository implements the job repository interface
type JobRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(database *db.Database, logger *logrus.Logger) ports.JobRepository {
	return &JobRepository{
		db:     database,
		logger: logger,
	}
}

// AddJob inserts a job posting plus its skill and category links in a single
// transaction. Skills and categories are looked up by their natural keys and
// created when missing; link rows that already exist are left untouched.
func (r *JobRepository) AddJob(ctx context.Context, req *job.CreateJobRequest) (int64, error) {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	jobID, err := r.insertJob(ctx, tx, &req.Job)
	if err != nil {
		return 0, err
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"job_id": jobID, "job_title": req.Job.JobTitle}).Debug("db: job inserted")
	}

	for _, name := range req.Skills {
		skillID, err := r.getOrCreateSkill(ctx, tx, name)
		if err != nil {
			return 0, err
		}
		if err := r.linkJobSkill(ctx, tx, jobID, skillID); err != nil {
			return 0, err
		}
	}

	for i := range req.Categories {
		categoryID, err := r.getOrCreateCategory(ctx, tx, &req.Categories[i])
		if err != nil {
			return 0, err
		}
		if err := r.linkJobCategory(ctx, tx, jobID, categoryID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit job transaction: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"job_id":     jobID,
			"skills":     len(req.Skills),
			"categories": len(req.Categories),
		}).Info("db: job created with links")
	}

	return jobID, nil
}

// CountJobs returns the total number of job rows.
func (r *JobRepository) CountJobs(ctx context.Context) (int, error) {
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs`); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

func (r *JobRepository) insertJob(ctx context.Context, tx *sqlx.Tx, j *job.Job) (int64, error) {
	query := `
		INSERT INTO jobs (job_title, company_name, job_description, work_type, required_skills,
			salary_min, salary_max, salary_type, salary_text, experience_text, experience_min,
			city, district, location, job_url, platform)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id int64
	err := tx.GetContext(ctx, &id, query,
		j.JobTitle, j.CompanyName, j.JobDescription, j.WorkType, j.RequiredSkills,
		j.SalaryMin, j.SalaryMax, j.SalaryType, j.SalaryText, j.ExperienceText, j.ExperienceMin,
		j.City, j.District, j.Location, j.JobURL, j.Platform)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"job_url": j.JobURL}).WithError(err).Error("db: failed to insert job")
		}
		return 0, fmt.Errorf("failed to insert job: %w", err)
	}
	return id, nil
}

func (r *JobRepository) getOrCreateSkill(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `SELECT id FROM skills WHERE name = $1`, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up skill %q: %w", name, err)
	}

	err = tx.GetContext(ctx, &id, `INSERT INTO skills (name) VALUES ($1) RETURNING id`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert skill %q: %w", name, err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"skill": name, "skill_id": id}).Debug("db: skill created")
	}
	return id, nil
}

func (r *JobRepository) getOrCreateCategory(ctx context.Context, tx *sqlx.Tx, c *job.Category) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `SELECT id FROM categories WHERE category_id = $1`, c.CategoryID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up category %q: %w", c.CategoryID, err)
	}

	err = tx.GetContext(ctx, &id,
		`INSERT INTO categories (category_id, category_name) VALUES ($1, $2) RETURNING id`,
		c.CategoryID, c.CategoryName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category %q: %w", c.CategoryID, err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"category": c.CategoryID, "category_db_id": id}).Debug("db: category created")
	}
	return id, nil
}

func (r *JobRepository) linkJobSkill(ctx context.Context, tx *sqlx.Tx, jobID, skillID int64) error {
	// Duplicate links are expected when re-seeding; the unique constraint
	// makes the insert a no-op.
	_, err := tx.ExecContext(ctx,
		`INSERT INTO jobs_skills (job_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		jobID, skillID)
	if err != nil {
		return fmt.Errorf("failed to link job %d to skill %d: %w", jobID, skillID, err)
	}
	return nil
}

func (r *JobRepository) linkJobCategory(ctx context.Context, tx *sqlx.Tx, jobID, categoryID int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO jobs_categories (job_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		jobID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to link job %d to category %d: %w", jobID, categoryID, err)
	}
	return nil
}
