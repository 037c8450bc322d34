// Package password bundles credential hashing, strength validation and
// opaque token generation for reset/verification flows.
package password

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is fixed so hashes stay comparable across deployments.
const HashCost = 12

const symbolSet = `!"#$%&'()*+,-./:;<=>?@[\]^_` + "`{|}~"

// Hash returns the bcrypt hash of password. The underlying library error is
// never surfaced to callers.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Any comparison failure,
// including a malformed hash, is "authentication denied", not an error.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// StrengthResult carries the outcome of a strength check. Only the first
// failing rule is reported.
type StrengthResult struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

// ValidateStrength runs the strength rules in order and short-circuits on
// the first violation.
func ValidateStrength(password string) StrengthResult {
	if len(password) < 8 {
		return StrengthResult{Message: "password must be at least 8 characters long"}
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbolSet, r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		return StrengthResult{Message: "password must contain at least one uppercase letter"}
	}
	if !hasLower {
		return StrengthResult{Message: "password must contain at least one lowercase letter"}
	}
	if !hasDigit {
		return StrengthResult{Message: "password must contain at least one digit"}
	}
	if !hasSymbol {
		return StrengthResult{Message: "password must contain at least one symbol"}
	}
	return StrengthResult{IsValid: true, Message: "password is strong"}
}

// GenerateToken returns n random bytes hex encoded. Used for password-reset
// tokens; session tokens are handled elsewhere.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		n = 32
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("failed to generate token")
	}
	return hex.EncodeToString(buf), nil
}

// GenerateSecureToken returns n random bytes base64url encoded, for
// email-verification links and refresh tokens.
func GenerateSecureToken(n int) (string, error) {
	if n <= 0 {
		n = 64
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("failed to generate token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// IsDifferent reports whether newPassword does NOT verify against oldHash.
// Used to block password reuse on change/reset.
func IsDifferent(newPassword, oldHash string) bool {
	return !Verify(newPassword, oldHash)
}
