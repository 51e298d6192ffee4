package ports

import "context"

// InitAction is the one-shot operation the sequencer runs after readiness.
// It must be safe to call at most once per process lifetime.
type InitAction interface {
	Name() string
	Run(ctx context.Context) error
}
