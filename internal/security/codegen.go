package security

import (
	"crypto/rand"
	"fmt"
	"io"
)

// codeAlphabet is the symbol set activation codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultCodeLength matches the column width in the activation schema.
const DefaultCodeLength = 6

// GenerateCode returns a string of exactly length symbols drawn uniformly
// at random from codeAlphabet. Uniformity is kept by rejection sampling:
// 36 does not divide 256, so bytes past the largest multiple are discarded
// instead of folded in with a bare modulo.
//
// Codes are not globally unique; collisions are handled procedurally by
// invalidating prior codes on every issue.
func GenerateCode(length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("negative code length %d", length)
	}
	if length == 0 {
		return "", nil
	}

	const limit = 252 // largest multiple of len(codeAlphabet) below 256
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
