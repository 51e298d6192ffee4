package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Marker publishes the outcome of the latest schema initialization so that
// read-path services can detect a fresh schema without querying the database.
type Marker struct {
	client *redis.Client
	key    string
}

// NewMarker creates a Marker stored under the given key.
func NewMarker(client *redis.Client, key string) *Marker {
	return &Marker{client: client, key: key}
}

// Set records the given run id with the current timestamp. The marker is
// persistent; each successful run overwrites the previous one.
func (m *Marker) Set(ctx context.Context, runID string) error {
	value := fmt.Sprintf("%s@%s", runID, time.Now().UTC().Format(time.RFC3339))
	if err := m.client.Set(ctx, m.key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set init marker: %w", err)
	}
	return nil
}

// Get returns the stored marker value, or empty string when none exists.
func (m *Marker) Get(ctx context.Context) (string, error) {
	value, err := m.client.Get(ctx, m.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get init marker: %w", err)
	}
	return value, nil
}
