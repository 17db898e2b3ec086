package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/dailyspark/practiceengine/internal/errs"
	"github.com/dailyspark/practiceengine/internal/security"
)

// envelope is the on-disk shape of every stored entity: the serialized
// payload (plaintext JSON, or ciphertext bytes when encryption is
// enabled), an integrity hash over the plaintext, the entity's
// optimistic-concurrency version, and its timestamps. ExpiresAt is unset
// for entities with no TTL — active entities never expire on their own.
type envelope struct {
	Payload       json.RawMessage `json:"payload"`
	Encrypted     bool            `json:"encrypted"`
	IntegrityHash string          `json:"integrityHash"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
}

func integrityHash(plaintext []byte) string {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

// sealEnvelope serializes entity into an envelope, optionally encrypting
// the payload via km. createdAt is preserved across updates by the caller.
// A zero ttl means no expiry.
func sealEnvelope(entity any, version int64, createdAt, updatedAt time.Time, ttl time.Duration, km *security.KeyManager) ([]byte, error) {
	plaintext, err := json.Marshal(entity)
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "marshal entity")
	}

	env := envelope{
		IntegrityHash: integrityHash(plaintext),
		Version:       version,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
	if ttl > 0 {
		exp := updatedAt.Add(ttl)
		env.ExpiresAt = &exp
	}

	if km != nil {
		ciphertext, err := km.Encrypt(plaintext)
		if err != nil {
			return nil, err
		}
		env.Payload = ciphertext
		env.Encrypted = true
	} else {
		env.Payload = plaintext
	}

	out, err := json.Marshal(env)
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "marshal envelope")
	}
	return out, nil
}

// peekEnvelopeHeader decodes only the envelope's metadata (version,
// timestamps) without touching the payload — used to check expiry or
// current version without paying for decryption.
func peekEnvelopeHeader(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, errs.Wrap(errs.KindBackend, err, "malformed envelope")
	}
	return env, nil
}

// openEnvelope parses a stored envelope, decrypts its payload if needed,
// verifies the integrity hash, and unmarshals into dst. Returns the
// envelope's version, createdAt, updatedAt.
func openEnvelope(data []byte, dst any, km *security.KeyManager) (version int64, createdAt, updatedAt time.Time, err error) {
	env, err := peekEnvelopeHeader(data)
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}

	plaintext := []byte(env.Payload)
	if env.Encrypted {
		if km == nil {
			return 0, time.Time{}, time.Time{}, errs.New(errs.KindDecryptionFailure, "payload is encrypted but no key manager configured")
		}
		plaintext, err = km.Decrypt(env.Payload)
		if err != nil {
			return 0, time.Time{}, time.Time{}, err
		}
	}

	if integrityHash(plaintext) != env.IntegrityHash {
		return 0, time.Time{}, time.Time{}, errs.New(errs.KindIntegrityFailure, "stored payload failed integrity check")
	}

	if err := json.Unmarshal(plaintext, dst); err != nil {
		return 0, time.Time{}, time.Time{}, errs.Wrap(errs.KindBackend, err, "unmarshal entity")
	}

	return env.Version, env.CreatedAt, env.UpdatedAt, nil
}
