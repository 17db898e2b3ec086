// Package security provides the practice engine's encryption-at-rest,
// secret redaction, and audit logging primitives.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dailyspark/practiceengine/internal/errs"
)

// ---------------------------------------------------------------------------
// Encryption at rest — AES-256-GCM, with key-id/key-version for rotation
// ---------------------------------------------------------------------------

const envelopeFormatVersion = 1

// CipherEnvelope is the on-disk shape of an encrypted payload: version,
// key-id, key-version, nonce and ciphertext (the GCM tag is appended to
// Ciphertext by Seal — AES-GCM authenticates in place, it does not produce
// a separable tag field).
type CipherEnvelope struct {
	FormatVersion int    `json:"v"`
	KeyID         string `json:"kid"`
	KeyVersion    int    `json:"kver"`
	Nonce         []byte `json:"nonce"`
	Ciphertext    []byte `json:"ct"`
}

// KeyManager holds one or more AEAD keys identified by (keyID, keyVersion)
// and encrypts new payloads under a designated current key while remaining
// able to decrypt payloads written under any previously registered key —
// the rotation mechanism the store's envelope format defers to.
type KeyManager struct {
	mu         sync.RWMutex
	keys       map[string]map[int]cipher.AEAD
	currentID  string
	currentVer int
}

// NewKeyManager creates a KeyManager with a single key registered as
// current, derived via SHA-256 from the passphrase, tagged with a
// key-id/version so a future rotation can keep decrypting old records.
func NewKeyManager(keyID string, keyVersion int, passphrase string) (*KeyManager, error) {
	if len(passphrase) < 8 {
		return nil, fmt.Errorf("passphrase must be at least 8 characters")
	}
	km := &KeyManager{keys: make(map[string]map[int]cipher.AEAD)}
	if err := km.AddKey(keyID, keyVersion, passphrase); err != nil {
		return nil, err
	}
	km.currentID = keyID
	km.currentVer = keyVersion
	return km, nil
}

// AddKey registers an additional (keyID, keyVersion) → AEAD, for rotation:
// old ciphertexts keep decrypting under their original key until rewritten.
func (km *KeyManager) AddKey(keyID string, keyVersion int, passphrase string) error {
	hash := sha256.Sum256([]byte(passphrase))
	block, err := aes.NewCipher(hash[:])
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("create GCM: %w", err)
	}

	km.mu.Lock()
	defer km.mu.Unlock()
	if km.keys[keyID] == nil {
		km.keys[keyID] = make(map[int]cipher.AEAD)
	}
	km.keys[keyID][keyVersion] = aead
	return nil
}

// SetCurrent designates the key new encryptions are sealed under. The key
// must already be registered via AddKey/NewKeyManager.
func (km *KeyManager) SetCurrent(keyID string, keyVersion int) error {
	km.mu.Lock()
	defer km.mu.Unlock()
	if km.keys[keyID] == nil || km.keys[keyID][keyVersion] == nil {
		return fmt.Errorf("key %s/v%d not registered", keyID, keyVersion)
	}
	km.currentID, km.currentVer = keyID, keyVersion
	return nil
}

// Encrypt seals plaintext under the current key and returns the serialized
// CipherEnvelope bytes to store as the entity envelope's payload.
func (km *KeyManager) Encrypt(plaintext []byte) ([]byte, error) {
	km.mu.RLock()
	aead := km.keys[km.currentID][km.currentVer]
	keyID, keyVer := km.currentID, km.currentVer
	km.mu.RUnlock()

	if aead == nil {
		return nil, errs.Wrap(errs.KindBackend, nil, "no current encryption key configured")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errs.Wrap(errs.KindBackend, err, "generate nonce")
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	env := CipherEnvelope{
		FormatVersion: envelopeFormatVersion,
		KeyID:         keyID,
		KeyVersion:    keyVer,
		Nonce:         nonce,
		Ciphertext:    ciphertext,
	}
	return json.Marshal(env)
}

// Decrypt opens a serialized CipherEnvelope. A malformed envelope, an
// unknown key, or a failed GCM open all surface as KindDecryptionFailure —
// a distinct hard error, never silent corruption.
func (km *KeyManager) Decrypt(data []byte) ([]byte, error) {
	var env CipherEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errs.Wrap(errs.KindDecryptionFailure, err, "malformed cipher envelope")
	}
	if env.FormatVersion != envelopeFormatVersion {
		return nil, errs.New(errs.KindDecryptionFailure, "unsupported envelope version %d", env.FormatVersion)
	}

	km.mu.RLock()
	aead := km.keys[env.KeyID][env.KeyVersion]
	km.mu.RUnlock()
	if aead == nil {
		return nil, errs.New(errs.KindDecryptionFailure, "unknown key %s/v%d", env.KeyID, env.KeyVersion)
	}

	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecryptionFailure, err, "decrypt payload")
	}
	return plaintext, nil
}

// ---------------------------------------------------------------------------
// Value masking — for logs and output
// ---------------------------------------------------------------------------

// MaskSecret masks a secret value for display in logs/output.
// Shows first N and last N characters, middle replaced with asterisks.
func MaskSecret(value string, showChars int) string {
	if len(value) <= showChars*2 {
		return strings.Repeat("*", len(value))
	}
	return value[:showChars] + strings.Repeat("*", len(value)-showChars*2) + value[len(value)-showChars:]
}

// MaskInString replaces occurrences of a secret within a string.
func MaskInString(text, secret string) string {
	if secret == "" || len(secret) < 4 {
		return text
	}
	return strings.ReplaceAll(text, secret, MaskSecret(secret, 2))
}

// SecretRegistry tracks known secret values for output masking — used so
// the core never includes raw bodies in error objects by default.
type SecretRegistry struct {
	mu      sync.RWMutex
	secrets []string
}

// NewSecretRegistry creates an empty secret registry.
func NewSecretRegistry() *SecretRegistry {
	return &SecretRegistry{secrets: make([]string, 0)}
}

// Register adds a secret value that should be masked in outputs.
func (sr *SecretRegistry) Register(secret string) {
	if secret == "" || len(secret) < 4 {
		return
	}
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.secrets = append(sr.secrets, secret)
}

// Remove removes a secret from the registry.
func (sr *SecretRegistry) Remove(secret string) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	for i, s := range sr.secrets {
		if s == secret {
			sr.secrets = append(sr.secrets[:i], sr.secrets[i+1:]...)
			return
		}
	}
}

// Sanitize replaces all known secrets in the text with masked versions.
func (sr *SecretRegistry) Sanitize(text string) string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	for _, secret := range sr.secrets {
		text = MaskInString(text, secret)
	}
	return text
}

// Count returns the number of registered secrets.
func (sr *SecretRegistry) Count() int {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return len(sr.secrets)
}
