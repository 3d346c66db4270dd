package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// SitePassword checks candidates against the shared site secret, stored
// either as a bcrypt hash or in plain text. The hash wins when both are set.
type SitePassword struct {
	Plain string
	Hash  string
}

func (p SitePassword) Matches(candidate string) bool {
	if p.Hash != "" {
		return CheckPassword(p.Hash, candidate) == nil
	}
	if p.Plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.Plain), []byte(candidate)) == 1
}
