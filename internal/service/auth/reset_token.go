package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

const resetTokenBytes = 32

// GenerateResetToken returns a raw token for the reset link and the digest to persist.
func GenerateResetToken() (raw string, hashed string, err error) {
	raw, err = randomToken(resetTokenBytes)
	if err != nil {
		return "", "", err
	}
	return raw, HashResetToken(raw), nil
}

// HashResetToken returns the hex SHA-256 digest of a raw reset token.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
