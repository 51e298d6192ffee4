package ports

import (
	"context"

	"github.com/jobharvest/dbinit/internal/core/domain/job"
)

// JobRepository defines the interface for job posting data operations
type JobRepository interface {
	// AddJob inserts a job plus its skill and category links in one
	// transaction and returns the new job id. Existing skills and
	// categories are reused; duplicate link rows are ignored.
	AddJob(ctx context.Context, req *job.CreateJobRequest) (int64, error)
	CountJobs(ctx context.Context) (int, error)
}
