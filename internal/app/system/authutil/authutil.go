// internal/app/system/authutil/authutil.go
package authutil

import (
	"strings"

	"github.com/dalemusser/lorehub/internal/app/system/weberr"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 8
	// bcrypt truncates past 72 bytes; reject instead of silently
	// hashing a prefix.
	maxPasswordLen = 72
)

// ValidateUsername checks length and charset. Usernames are letters,
// digits, dots, dashes, and underscores.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return weberr.E(weberr.Validation, "username must be 3-32 characters")
	}
	for _, c := range username {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.' || c == '-' || c == '_':
		default:
			return weberr.E(weberr.Validation, "username may only contain letters, digits, '.', '-', and '_'")
		}
	}
	return nil
}

// ValidatePassword enforces the length bounds.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return weberr.E(weberr.Validation, "password must be at least 8 characters")
	}
	if len(password) > maxPasswordLen {
		return weberr.E(weberr.Validation, "password is too long")
	}
	return nil
}

// HashPassword returns a bcrypt hash of the password at the given
// cost. A cost of 0 uses bcrypt's default.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeUsername trims surrounding whitespace. Case folding for the
// uniqueness check happens in the store via username_ci.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
