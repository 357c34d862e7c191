package sequence

import "context"

// CounterRepository stores one counter row per (series, year).
// Implementations must run inside the caller's transaction when one is active.
type CounterRepository interface {
	// Current returns the last issued value and whether a row exists
	Current(ctx context.Context, s Series, year int) (int, bool, error)
	// Increment atomically bumps the counter and returns the new value.
	// When no row exists one is created holding seed.
	Increment(ctx context.Context, s Series, year, seed int) (int, error)
}

// NumberHistory looks up numbers already persisted on documents, used to
// seed a counter the first time a (series, year) pair is seen.
type NumberHistory interface {
	// LatestNumber returns the greatest stored number starting with prefix, or "" when none
	LatestNumber(ctx context.Context, s Series, prefix string) (string, error)
}
