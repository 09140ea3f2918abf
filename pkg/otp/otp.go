package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
)

const Digits = 6

// Generate returns a zero-padded numeric one-time code.
func Generate() (string, error) {
	var b strings.Builder
	for i := 0; i < Digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// Equal compares codes in constant time; surrounding whitespace is ignored.
func Equal(expected, given string) bool {
	given = strings.TrimSpace(given)
	if len(expected) != len(given) || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
