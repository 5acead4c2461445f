package ports

import "context"

// Short-lived cache of serialized chart responses keyed by a deterministic
// hash of the birth details. Misses are never errors.
type ChartCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
