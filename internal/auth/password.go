package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 12

	// maxPasswordBytes is bcrypt's input limit; longer passwords would be
	// silently truncated, so they are rejected instead.
	maxPasswordBytes = 72

	// TokenPrefix marks API tokens so they are recognizable in logs and
	// support requests without exposing the secret part.
	TokenPrefix = "bkm_"

	tokenEntropyBytes = 32
)

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
)

// HashPassword bcrypt-hashes a password after checking the length bounds.
func HashPassword(password string, cost int) (string, error) {
	switch {
	case len(password) < MinPasswordLength:
		return "", ErrPasswordTooShort
	case len(password) > maxPasswordBytes:
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its bcrypt hash, mapping a
// mismatch to ErrInvalidPassword.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	return err
}

// GenerateAPIToken creates a prefixed random API token. The plaintext is
// shown to the user exactly once; only the hash is stored.
func GenerateAPIToken() (plaintext string, hash string, err error) {
	secret, err := randomHex(tokenEntropyBytes)
	if err != nil {
		return "", "", err
	}
	plaintext = TokenPrefix + secret
	return plaintext, HashToken(plaintext), nil
}

// HashToken derives the storage form of an API token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsAPIToken reports whether a credential looks like one of our API tokens.
func IsAPIToken(credential string) bool {
	return strings.HasPrefix(credential, TokenPrefix)
}

// GenerateSessionSecret creates a random secret for session cookie signing.
func GenerateSessionSecret() (string, error) {
	return randomHex(32)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
