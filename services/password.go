package services

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for new digests
var PasswordCost = 10

// HashPassword returns the bcrypt digest of password
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(digest), err
}

// CheckPassword reports whether password matches digest
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
