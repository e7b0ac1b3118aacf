package hashing

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Options configures a [Hasher].
//
// The method string is parsed and validated once by [NewHasher]; every hash
// the Hasher produces stores the canonical form, so changing Options later
// only affects newly produced hashes.
type Options struct {
	// Method is the method string, e.g. "hash", "hash:16384:8:1:64" or
	// "pbkdf2:sha512:210000". Default: [DefaultMethod].
	Method string

	// SaltLength is the number of salt characters. Minimum: 1.
	// Default: [DefaultSaltLength] (16).
	SaltLength int

	// Logger receives debug messages about unusable stored hashes.
	// Passwords and digests are never logged. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns Options with the recommended defaults: scrypt with
// N=32768, r=8, p=1, a 64-byte key and a 16-character salt.
func DefaultOptions() Options {
	return Options{
		Method:     DefaultMethod,
		SaltLength: DefaultSaltLength,
	}
}

// HashInfo carries metadata parsed from an encoded hash string.
type HashInfo struct {
	// Method is the parsed method, with every parameter explicit.
	Method Method

	// Salt is the salt field as stored.
	Salt string

	// Params holds the method parameters by name.
	//
	// For scrypt ("hash"):
	//   "n", "r", "p", "key_len" → uint32
	//
	// For pbkdf2:
	//   "digest"     → string
	//   "iterations" → uint32
	Params map[string]any
}

// Hasher produces and verifies encoded password hashes with one configured
// method. It is the configured counterpart of [GeneratePasswordHash] and
// [CheckPasswordHash].
//
// # Thread safety
//
// Hasher is immutable after construction and safe for concurrent use.
type Hasher struct {
	method  Method
	saltLen int
	log     *zap.Logger
}

// NewHasher validates opts and returns a Hasher. Configuration problems are
// reported here rather than on first use: [ErrInvalidLength],
// [ErrUnknownMethod] or [ErrInvalidParameters].
func NewHasher(opts Options) (*Hasher, error) {
	m, err := ParseMethod(opts.Method)
	if err != nil {
		return nil, err
	}
	if opts.SaltLength < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLength, opts.SaltLength)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Hasher{
		method:  m,
		saltLen: opts.SaltLength,
		log:     log.Named("hashing").With(zap.Stringer("method", m)),
	}, nil
}

// Method returns the configured method.
func (h *Hasher) Method() Method { return h.method }

// SaltLength returns the configured salt length.
func (h *Hasher) SaltLength() int { return h.saltLen }

// Make hashes password with a fresh salt. Two calls with the same password
// produce different outputs.
func (h *Hasher) Make(password string) (string, error) {
	return makeHash(h.method, password, h.saltLen)
}

// Check reports whether password matches hash. The parameters are read from
// hash itself, so hashes made under an older configuration still verify.
//
// Unusable hashes are logged at debug level and reported as false; the
// configured method is derived in their place so the rejection costs the
// same as a wrong password.
func (h *Hasher) Check(password, hash string) bool {
	ok, err := checkHash(hash, password, h.method)
	if err != nil {
		h.log.Debug("stored hash rejected", zap.Error(err))
	}
	return ok
}

// NeedsRehash reports whether hash was produced with a method other than the
// configured one, including parameter differences. Malformed hashes also
// need rehashing.
func (h *Hasher) NeedsRehash(hash string) bool {
	methodSpec, _, _, err := splitHash(hash)
	if err != nil {
		return true
	}
	m, err := ParseMethod(methodSpec)
	if err != nil {
		return true
	}
	return m.String() != h.method.String()
}

// Info parses hash without verifying it.
//
// Returns [ErrMalformedHash] when hash does not have three fields, or the
// [ParseMethod] error for its method field.
func (h *Hasher) Info(hash string) (HashInfo, error) {
	return Info(hash)
}

// Info is the package-level form of [Hasher.Info].
func Info(hash string) (HashInfo, error) {
	methodSpec, salt, _, err := splitHash(hash)
	if err != nil {
		return HashInfo{}, err
	}
	m, err := ParseMethod(methodSpec)
	if err != nil {
		return HashInfo{}, err
	}
	info := HashInfo{Method: m, Salt: salt}
	switch m := m.(type) {
	case ScryptMethod:
		info.Params = map[string]any{"n": m.N, "r": m.R, "p": m.P, "key_len": m.KeyLen}
	case PBKDF2Method:
		info.Params = map[string]any{"digest": m.Digest, "iterations": m.Iterations}
	}
	return info, nil
}

// DetectMethod inspects the method field of hash and returns its name. It is
// a cheap prefix check and does not validate parameters.
//
// The second return value is false when the name is not recognised.
func DetectMethod(hash string) (MethodName, bool) {
	name, _, _ := strings.Cut(hash, fieldSep)
	name, _, _ = strings.Cut(name, ":")
	switch MethodName(name) {
	case MethodScrypt:
		return MethodScrypt, true
	case MethodPBKDF2:
		return MethodPBKDF2, true
	default:
		return "", false
	}
}
