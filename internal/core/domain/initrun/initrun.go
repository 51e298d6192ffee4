package initrun

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run records one initialization attempt against the database. A row is
// written when initialization starts and finalized when it ends, so operators
// can tell from the table alone whether the last run completed.
type Run struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Status     Status     `json:"status" db:"status"`
	Detail     *string    `json:"detail,omitempty" db:"detail"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// New returns a Run in the running state with a fresh id.
func New() *Run {
	return &Run{
		ID:        uuid.New(),
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
}
