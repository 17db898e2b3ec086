// Package store implements the encrypted, versioned key-value persistence
// layer for every domain entity: envelope serialization, secondary indices,
// cascade delete, and TTL expiry sit above a minimal Backend primitive.
package store

import "context"

// Backend is the minimal KV primitive set every persistence implementation
// must provide. A Redis-compatible store satisfies this directly; SQLite and
// an in-process map both implement it here.
type Backend interface {
	// Get returns the stored value and true, or ("", false, nil) if absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set unconditionally stores value under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// KeysByPattern returns keys matching pattern, with * as the wildcard
	// (MemBackend honours only a trailing *).
	KeysByPattern(ctx context.Context, pattern string) ([]string, error)

	// CAS atomically replaces key's value with newValue iff its current value
	// equals oldValue; oldValue="" with the key absent also satisfies the
	// compare (create-if-absent). Returns false, nil on mismatch.
	CAS(ctx context.Context, key, oldValue, newValue string) (bool, error)

	// SAdd adds members to the set at key.
	SAdd(ctx context.Context, key string, members ...string) error
	// SRem removes members from the set at key.
	SRem(ctx context.Context, key string, members ...string) error
	// SMembers returns all members of the set at key.
	SMembers(ctx context.Context, key string) ([]string, error)
	// SCard returns the cardinality of the set at key.
	SCard(ctx context.Context, key string) (int, error)

	// ZAdd adds or updates member in the sorted set at key with the given score.
	ZAdd(ctx context.Context, key string, score float64, member string) error
	// ZRem removes member from the sorted set at key.
	ZRem(ctx context.Context, key, member string) error
	// ZRangeByScore returns members with min <= score <= max, ascending.
	ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)

	// Close releases backend resources.
	Close() error
}
