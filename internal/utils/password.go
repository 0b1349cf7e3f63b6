package utils

import (
	"strings" // Prefix checks

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// PasswordHasher turns a password into its stored form and checks candidates against it
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, password string) bool
}

// PlainPasswords stores passwords verbatim
type PlainPasswords struct{}

// Hash returns the password unchanged
func (PlainPasswords) Hash(password string) (string, error) { return password, nil }

// Matches compares exactly, and also accepts bcrypt hashes left by a hashing configuration
func (PlainPasswords) Matches(stored, password string) bool {
	if stored == password {
		return true // A plaintext password may itself look like a hash
	}
	return isBcryptHash(stored) && BcryptPasswords{}.Matches(stored, password)
}

// BcryptPasswords stores bcrypt hashes
type BcryptPasswords struct {
	Cost int // Zero means bcrypt.DefaultCost
}

// Hash returns the bcrypt hash of password
func (b BcryptPasswords) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches checks password against a bcrypt hash, falling back to exact comparison for plaintext records
func (BcryptPasswords) Matches(stored, password string) bool {
	if !isBcryptHash(stored) {
		return stored == password // Credential written before hashing was enabled
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// NewPasswordHasher returns the hasher for a configured mode ("bcrypt" or anything else for plain)
func NewPasswordHasher(mode string) PasswordHasher {
	if mode == "bcrypt" {
		return BcryptPasswords{}
	}
	return PlainPasswords{}
}
