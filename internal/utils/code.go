package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
	"math/big"
	"strconv"
)

const (
	codeMin = 10000000
	codeMax = 99999999
)

var codeSpan = big.NewInt(codeMax - codeMin + 1)

// GenerateVerificationCode returns a uniformly sampled 8-digit code read from r.
// Codes may repeat across calls.
func GenerateVerificationCode(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, codeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// CodesEqual compares two codes in constant time.
func CodesEqual(submitted, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
