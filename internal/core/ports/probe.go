package ports

import "context"

// ReadinessProbe abstracts a non-destructive dependency reachability check.
// Implementations should return error while the dependency is not ready.
type ReadinessProbe interface {
	Name() string
	Check(ctx context.Context) error
}
