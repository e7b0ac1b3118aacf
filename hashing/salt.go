package hashing

import (
	"crypto/rand"
	"fmt"
	"io"
)

// SaltChars is the alphabet salts are drawn from. It contains no "$" and no
// ":" so a salt can never break the encoded hash layout.
const SaltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultSaltLength is the salt length used by [DefaultOptions].
const DefaultSaltLength = 16

// saltMaxByte is the largest multiple of len(SaltChars) that fits in a byte.
// Random bytes at or above it are discarded so every character is equally
// likely.
const saltMaxByte = 256 - 256%len(SaltChars)

// GenerateSalt returns a string of exactly length characters, each chosen
// uniformly at random from [SaltChars] using crypto/rand.
//
// Returns [ErrInvalidLength] when length <= 0.
func GenerateSalt(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w, got %d", ErrInvalidLength, length)
	}

	out := make([]byte, 0, length)
	// Over-read a little so most salts need a single read.
	buf := make([]byte, length+length/4+4)
	for len(out) < length {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return "", fmt.Errorf("hashing: failed to generate salt: %w", err)
		}
		for _, b := range buf {
			if int(b) >= saltMaxByte {
				continue
			}
			out = append(out, SaltChars[int(b)%len(SaltChars)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
