package hashing

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := hashing.GeneratePasswordHash(pw, "pbkdf2:sha256:abc", 16)
//	if errors.Is(err, hashing.ErrInvalidParameters) {
//	    // method string is misconfigured
//	}
//
// Verification never returns any of these: [CheckPasswordHash] and
// [Hasher.Check] report every failure as a plain false.
var (
	// ErrInvalidLength is returned when a salt of non-positive length is
	// requested.
	ErrInvalidLength = errors.New("hashing: salt length must be at least 1")

	// ErrInvalidParameters is returned when a method string carries the wrong
	// number of arguments, a non-integer argument, or a value outside the
	// accepted range.
	ErrInvalidParameters = errors.New("hashing: invalid method parameters")

	// ErrUnknownMethod is returned when the method name is neither "hash"
	// nor "pbkdf2".
	ErrUnknownMethod = errors.New("hashing: unknown hash method")

	// ErrMalformedHash is returned by [Hasher.Info] when an encoded hash does
	// not split into exactly three "$"-delimited fields.
	ErrMalformedHash = errors.New("hashing: malformed encoded hash")

	// ErrUnsupportedDigest is returned when a pbkdf2 method names a digest
	// this package does not implement. It also matches [ErrInvalidParameters].
	ErrUnsupportedDigest = fmt.Errorf("%w: unsupported pbkdf2 digest", ErrInvalidParameters)
)
