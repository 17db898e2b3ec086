package store

import (
	"context"
	"time"

	"github.com/dailyspark/practiceengine/internal/errs"
)

// writeEnvelope seals entity and writes it to key under optimistic
// concurrency control: if expectedVersion is non-nil, the stored version
// must match it, otherwise VERSION_CONFLICT is returned. The new stored
// version is stored_version+1, or 1 on create. The write itself is
// performed as a CAS against the previously observed raw bytes so two
// concurrent writers to the same key can never both succeed. ttl, if
// non-zero, sets the envelope's expiresAt relative to now.
func (s *Store) writeEnvelope(ctx context.Context, key string, expectedVersion *int64, entity any, ttl time.Duration, now time.Time) (version int64, createdAt time.Time, err error) {
	oldRaw, exists, err := s.backend.Get(ctx, key)
	if err != nil {
		return 0, time.Time{}, errs.Wrap(errs.KindBackend, err, "read %s", key)
	}

	var currentVersion int64
	createdAt = now
	if exists {
		env, perr := peekEnvelopeHeader([]byte(oldRaw))
		if perr != nil {
			return 0, time.Time{}, perr
		}
		currentVersion = env.Version
		createdAt = env.CreatedAt
	} else if expectedVersion != nil && *expectedVersion != 0 {
		return 0, time.Time{}, errs.New(errs.KindVersionConflict, "%s: expected version %d but entity does not exist", key, *expectedVersion)
	}

	if expectedVersion != nil && exists && *expectedVersion != currentVersion {
		return 0, time.Time{}, errs.New(errs.KindVersionConflict, "%s: expected version %d, stored version %d", key, *expectedVersion, currentVersion)
	}

	version = currentVersion + 1
	newRaw, err := sealEnvelope(entity, version, createdAt, now, ttl, s.keyManager)
	if err != nil {
		return 0, time.Time{}, err
	}

	ok, err := s.backend.CAS(ctx, key, oldRaw, string(newRaw))
	if err != nil {
		return 0, time.Time{}, errs.Wrap(errs.KindBackend, err, "write %s", key)
	}
	if !ok {
		return 0, time.Time{}, errs.New(errs.KindVersionConflict, "%s: concurrent write lost the race", key)
	}
	return version, createdAt, nil
}

// readEnvelope fetches and decodes the entity stored at key into dst.
// Returns (false, 0, nil) if absent or lazily expired (and, on expiry,
// deletes the stale key).
func (s *Store) readEnvelope(ctx context.Context, key string, dst any) (found bool, version int64, err error) {
	raw, exists, err := s.backend.Get(ctx, key)
	if err != nil {
		return false, 0, errs.Wrap(errs.KindBackend, err, "read %s", key)
	}
	if !exists {
		return false, 0, nil
	}

	header, err := peekEnvelopeHeader([]byte(raw))
	if err != nil {
		return false, 0, err
	}
	if header.ExpiresAt != nil && time.Now().After(*header.ExpiresAt) {
		_ = s.backend.Delete(ctx, key)
		return false, 0, nil
	}

	version, _, _, err = openEnvelope([]byte(raw), dst, s.keyManager)
	if err != nil {
		return false, 0, err
	}
	return true, version, nil
}
