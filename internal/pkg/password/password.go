package password

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used for all stored hashes.
	DefaultCost = 10

	// MinLength and MaxLength bound the accepted password length.
	MinLength = 8
	MaxLength = 25
)

// Symbols is the set of special characters the policy accepts.
const Symbols = "@$!%*?&"

// DummyDigest is a bcrypt digest of a throwaway value, computed once at
// startup. Login flows compare the submitted password against it when the
// user lookup misses, so the unknown-email and wrong-password paths do the
// same amount of work. The compare result is always discarded.
var DummyDigest = func() string {
	digest, err := Hash("throwaway-timing-pad")
	if err != nil {
		panic(err)
	}
	return digest
}()

// Hash hashes a plaintext password using bcrypt.
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plaintext password with a stored digest.
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// MeetsPolicy reports whether a password satisfies the complexity policy:
// 8-25 characters, at least one lowercase letter, one uppercase letter, one
// digit and one symbol from Symbols, with no characters outside those
// classes. Go's regexp has no lookaheads, so the classes are checked with
// plain scans.
func MeetsPolicy(password string) bool {
	if len(password) < MinLength || len(password) > MaxLength {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(Symbols, c):
			hasSymbol = true
		default:
			return false
		}
	}

	return hasLower && hasUpper && hasDigit && hasSymbol
}
