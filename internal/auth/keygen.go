package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Key format: sl_{env}_{prefix}_{secret}
// Example: sl_live_9f2c41ab_0d4e6f8a1b3c5d7e9f0a2b4c6d8e0f1a3b5c7d9e
const (
	KeyPrefixLen = 8  // hex encoded 4 bytes, stored for lookup
	KeySecretLen = 40 // hex encoded 20 bytes, never stored
)

// Environment indicators embedded in a key.
const (
	EnvLive = "live"
	EnvTest = "test"
)

var (
	// ErrInvalidKeyFormat indicates the key format is invalid.
	ErrInvalidKeyFormat = errors.New("invalid API key format")

	keyFormat = regexp.MustCompile(`^sl_(live|test)_([a-f0-9]{8})_([a-f0-9]{40})$`)
)

// GeneratedKey holds a new key in its three forms.
type GeneratedKey struct {
	Plaintext string // shown to the owner once
	Hash      string // argon2id hash for storage
	Prefix    string // visible lookup prefix
}

// GenerateAPIKey creates a new API key for env. Unknown envs become EnvLive.
func GenerateAPIKey(env string) (*GeneratedKey, error) {
	return generateAPIKey(env, DefaultParams)
}

func generateAPIKey(env string, p Params) (*GeneratedKey, error) {
	if env != EnvLive && env != EnvTest {
		env = EnvLive
	}

	prefix, err := randomHex(KeyPrefixLen / 2)
	if err != nil {
		return nil, fmt.Errorf("generate prefix: %w", err)
	}
	secret, err := randomHex(KeySecretLen / 2)
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	plaintext := fmt.Sprintf("sl_%s_%s_%s", env, prefix, secret)

	hash, err := HashKeyWithParams(plaintext, p)
	if err != nil {
		return nil, fmt.Errorf("hash key: %w", err)
	}

	return &GeneratedKey{Plaintext: plaintext, Hash: hash, Prefix: prefix}, nil
}

// ParsedKey contains the parsed parts of an API key.
type ParsedKey struct {
	Env    string
	Prefix string
	Secret string
}

// ParseAPIKey splits a plaintext key into its parts.
func ParseAPIKey(key string) (*ParsedKey, error) {
	m := keyFormat.FindStringSubmatch(key)
	if m == nil {
		return nil, ErrInvalidKeyFormat
	}
	return &ParsedKey{Env: m[1], Prefix: m[2], Secret: m[3]}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
