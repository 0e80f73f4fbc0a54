// Package crypto generates and hashes the opaque tokens the gateway hands to
// browsers. Raw tokens are only ever seen by the client; storage and cache
// key on the SHA-256 hash.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

const (
	// DefaultTokenLength is the raw token size in bytes (256 bits).
	DefaultTokenLength = 32
)

var ErrEmptyToken = errors.New("token and hash cannot be empty")

// TokenPair couples the raw cookie token with the hash stored server-side.
type TokenPair struct {
	Token string // value set on the browser cookie
	Hash  string // value in storage and cache keys
}

// GenerateToken returns a URL-safe random token of byteLength bytes. Zero or
// negative lengths fall back to DefaultTokenLength.
func GenerateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateHashedToken returns a fresh token together with its storage hash.
func GenerateHashedToken() (*TokenPair, error) {
	token, err := GenerateToken(DefaultTokenLength)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Token: token,
		Hash:  HashToken(token),
	}, nil
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyToken reports whether a raw token matches a stored hash.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, ErrEmptyToken
	}

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(storedHash)) == 1, nil
}
