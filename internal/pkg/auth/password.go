package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost for newly stored passwords.
const BcryptCost = 10

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// IsHashed reports whether a stored credential is a bcrypt hash.
// Records imported before hashing was enforced hold plain text.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// CheckPassword verifies a candidate password against the stored credential.
// Bcrypt comparison when the stored value is hashed, plain equality for
// legacy plain-text records.
func CheckPassword(stored, password string) bool {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return stored == password
}
