package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	refreshTokenBytes = 40
	resetTokenBytes   = 32
)

// GenerateRefreshToken returns a hex-encoded 40-byte random secret.
func GenerateRefreshToken() (string, error) {
	return randomHex(refreshTokenBytes)
}

// GenerateResetToken returns a hex-encoded 32-byte random secret for
// password reset links.
func GenerateResetToken() (string, error) {
	return randomHex(resetTokenBytes)
}

// HashToken returns the hex SHA-256 digest of a token secret. Only the
// digest is ever stored.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
