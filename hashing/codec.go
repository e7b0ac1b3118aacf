package hashing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// DefaultMethod is the method string used by [DefaultOptions].
const DefaultMethod = string(MethodScrypt)

// fieldSep separates method, salt and digest in an encoded hash.
const fieldSep = "$"

// Derive computes the lowercase hex digest of password under the method
// described by methodSpec and salt, and returns it together with the
// canonical method string (all parameters explicit).
//
// Both password and salt are used as their UTF-8 bytes.
func Derive(methodSpec, salt, password string) (digestHex, canonical string, err error) {
	m, err := ParseMethod(methodSpec)
	if err != nil {
		return "", "", err
	}
	key, err := m.derive([]byte(password), []byte(salt))
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(key), m.String(), nil
}

// GeneratePasswordHash hashes password with a fresh salt of saltLength
// characters and returns the encoded form
//
//	<canonical-method>$<salt>$<hex-digest>
//
// Pass [DefaultMethod] and [DefaultSaltLength] for the recommended defaults.
// Errors indicate bad configuration: [ErrInvalidLength], [ErrUnknownMethod]
// or [ErrInvalidParameters].
func GeneratePasswordHash(password, method string, saltLength int) (string, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return "", err
	}
	return makeHash(m, password, saltLength)
}

// CheckPasswordHash reports whether password matches encodedHash.
//
// It never returns an error and never panics: a malformed hash, an unknown
// method or bad parameters all yield false, exactly like a wrong password.
// The digest comparison runs in constant time.
func CheckPasswordHash(encodedHash, password string) bool {
	ok, _ := checkHash(encodedHash, password, decoyMethod)
	return ok
}

func makeHash(m Method, password string, saltLength int) (string, error) {
	salt, err := GenerateSalt(saltLength)
	if err != nil {
		return "", err
	}
	key, err := m.derive([]byte(password), []byte(salt))
	if err != nil {
		return "", err
	}
	return m.String() + fieldSep + salt + fieldSep + hex.EncodeToString(key), nil
}

// checkHash verifies password against encoded. The error explains a false
// result caused by an unusable hash; it is for logging only and must not
// reach the caller of a public Check.
//
// When the hash is unusable, decoy is derived instead so the rejection takes
// about as long as a genuine mismatch.
func checkHash(encoded, password string, decoy Method) (bool, error) {
	methodSpec, salt, want, err := splitHash(encoded)
	if err != nil {
		burn(decoy, password)
		return false, err
	}
	got, _, err := Derive(methodSpec, salt, password)
	if err != nil {
		burn(decoy, password)
		return false, err
	}
	return constantTimeEqual(got, want), nil
}

// splitHash splits an encoded hash into at most three fields. The digest may
// itself contain "$"; it will then simply never match.
func splitHash(encoded string) (method, salt, digest string, err error) {
	parts := strings.SplitN(encoded, fieldSep, 3)
	if len(parts) != 3 {
		return "", "", "", ErrMalformedHash
	}
	return parts[0], parts[1], parts[2], nil
}

// constantTimeEqual compares a and b in time that depends on neither the
// position of the first difference nor whether the lengths differ.
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	sameLen := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	sameSum := subtle.ConstantTimeCompare(ha[:], hb[:])
	return sameLen&sameSum == 1
}

// decoyMethod is the work performed for unusable hashes by the package-level
// [CheckPasswordHash].
var decoyMethod Method = DefaultScryptMethod()

// decoySalt is a fixed salt for decoy derivations; the result is discarded.
var decoySalt = []byte("decoysaltdecoysa")

func burn(m Method, password string) {
	_, _ = m.derive([]byte(password), decoySalt)
}
