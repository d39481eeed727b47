package codes

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

var ErrInvalidLength = errors.New("invalid code length")

// TokenByteLength is the entropy of verification, session and CSRF tokens.
// Hex encoding doubles it to 64 characters.
const TokenByteLength = 32

// charsetMixedAlphanumeric omits I, L, O, i, l, o, 0 and 1, which are easy
// to misread when a generated admin password is copied by hand.
const charsetMixedAlphanumeric = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

func GenerateVerificationToken() (string, error) {
	return GenerateSecureToken(TokenByteLength)
}

// GenerateSecureToken returns n random bytes, hex encoded.
func GenerateSecureToken(n int) (string, error) {
	if n < 1 {
		return "", ErrInvalidLength
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("codes: read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateCode returns length characters drawn uniformly from the
// unambiguous alphanumeric set.
func GenerateCode(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}
	size := big.NewInt(int64(len(charsetMixedAlphanumeric)))
	out := make([]byte, 0, length)
	for len(out) < length {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("codes: read random: %w", err)
		}
		out = append(out, charsetMixedAlphanumeric[idx.Int64()])
	}
	return string(out), nil
}
