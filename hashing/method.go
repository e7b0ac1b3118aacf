package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"
)

// MethodName identifies a key-derivation algorithm in the method field of an
// encoded hash.
type MethodName string

const (
	// MethodScrypt selects scrypt. The name "hash" is kept for compatibility
	// with previously stored hashes.
	MethodScrypt MethodName = "hash"
	// MethodPBKDF2 selects PBKDF2-HMAC with a named digest.
	MethodPBKDF2 MethodName = "pbkdf2"
)

const (
	// DefaultScryptN is the default scrypt CPU/memory cost (2^15).
	DefaultScryptN uint32 = 1 << 15

	// DefaultScryptR is the default scrypt block size.
	DefaultScryptR uint32 = 8

	// DefaultScryptP is the default scrypt parallelism.
	DefaultScryptP uint32 = 1

	// DefaultScryptKeyLen is the default scrypt output length in bytes.
	DefaultScryptKeyLen uint32 = 64

	// DefaultPBKDF2Digest is the default PBKDF2 HMAC digest.
	DefaultPBKDF2Digest = "sha256"

	// DefaultPBKDF2Iterations is the default PBKDF2 iteration count.
	DefaultPBKDF2Iterations uint32 = 600_000
)

// Upper bounds applied when parsing a method string. Stored hashes are read
// back from storage, so their parameters are bounded before any work is done.
const (
	// MaxScryptMemory caps 128*R*N, the dominant scrypt allocation (1 GiB).
	MaxScryptMemory uint64 = 1 << 30

	// MaxScryptParallelism caps scrypt P.
	MaxScryptParallelism uint32 = 64

	// MaxKeyLen caps the scrypt output length in bytes.
	MaxKeyLen uint32 = 1024

	// MaxPBKDF2Iterations caps the PBKDF2 iteration count.
	MaxPBKDF2Iterations uint32 = 100_000_000
)

// Method is a parsed key-derivation method. It is implemented only by
// [ScryptMethod] and [PBKDF2Method].
//
// String returns the canonical form with every parameter spelled out, which
// is what gets stored in encoded hashes.
type Method interface {
	Name() MethodName
	String() string

	derive(password, salt []byte) ([]byte, error)
}

// ──────────────────────────────────────────────────────────────────────────────
// scrypt
// ──────────────────────────────────────────────────────────────────────────────

// ScryptMethod derives keys with scrypt (RFC 7914).
//
// Canonical form: hash:N:R:P:KEYLEN
type ScryptMethod struct {
	// N is the CPU/memory cost. Must be a power of two greater than 1.
	N uint32
	// R is the block size.
	R uint32
	// P is the parallelism factor.
	P uint32
	// KeyLen is the derived key length in bytes.
	KeyLen uint32
}

// DefaultScryptMethod returns the scrypt parameters used by "hash" with no
// arguments.
func DefaultScryptMethod() ScryptMethod {
	return ScryptMethod{
		N:      DefaultScryptN,
		R:      DefaultScryptR,
		P:      DefaultScryptP,
		KeyLen: DefaultScryptKeyLen,
	}
}

// Name returns [MethodScrypt].
func (m ScryptMethod) Name() MethodName { return MethodScrypt }

func (m ScryptMethod) String() string {
	return fmt.Sprintf("%s:%d:%d:%d:%d", MethodScrypt, m.N, m.R, m.P, m.KeyLen)
}

func (m ScryptMethod) validate() error {
	if m.N < 2 || m.N&(m.N-1) != 0 {
		return fmt.Errorf("%w: scrypt N must be a power of two > 1, got %d", ErrInvalidParameters, m.N)
	}
	if m.R < 1 || m.P < 1 {
		return fmt.Errorf("%w: scrypt r and p must be ≥ 1, got r=%d p=%d", ErrInvalidParameters, m.R, m.P)
	}
	if m.P > MaxScryptParallelism {
		return fmt.Errorf("%w: scrypt p must be ≤ %d, got %d", ErrInvalidParameters, MaxScryptParallelism, m.P)
	}
	if uint64(m.R)*uint64(m.P) >= 1<<30 {
		return fmt.Errorf("%w: scrypt r*p must be < 2^30", ErrInvalidParameters)
	}
	if mem := 128 * uint64(m.R) * uint64(m.N); mem > MaxScryptMemory {
		return fmt.Errorf("%w: scrypt needs %d bytes, limit is %d", ErrInvalidParameters, mem, MaxScryptMemory)
	}
	if m.KeyLen < 1 || m.KeyLen > MaxKeyLen {
		return fmt.Errorf("%w: scrypt key length must be in [1, %d], got %d", ErrInvalidParameters, MaxKeyLen, m.KeyLen)
	}
	return nil
}

func (m ScryptMethod) derive(password, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(password, salt, int(m.N), int(m.R), int(m.P), int(m.KeyLen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return key, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// PBKDF2
// ──────────────────────────────────────────────────────────────────────────────

// PBKDF2Method derives keys with PBKDF2-HMAC. The output length is the native
// size of the digest.
//
// Canonical form: pbkdf2:DIGEST:ITERATIONS
type PBKDF2Method struct {
	// Digest is the HMAC digest name, e.g. "sha256". See [SupportedDigests].
	Digest string
	// Iterations is the PBKDF2 iteration count.
	Iterations uint32
}

// DefaultPBKDF2Method returns the PBKDF2 parameters used by "pbkdf2" with no
// arguments.
func DefaultPBKDF2Method() PBKDF2Method {
	return PBKDF2Method{Digest: DefaultPBKDF2Digest, Iterations: DefaultPBKDF2Iterations}
}

// Name returns [MethodPBKDF2].
func (m PBKDF2Method) Name() MethodName { return MethodPBKDF2 }

func (m PBKDF2Method) String() string {
	return fmt.Sprintf("%s:%s:%d", MethodPBKDF2, m.Digest, m.Iterations)
}

func (m PBKDF2Method) validate() error {
	if _, ok := digests[m.Digest]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDigest, m.Digest)
	}
	if m.Iterations < 1 || m.Iterations > MaxPBKDF2Iterations {
		return fmt.Errorf("%w: pbkdf2 iterations must be in [1, %d], got %d",
			ErrInvalidParameters, MaxPBKDF2Iterations, m.Iterations)
	}
	return nil
}

func (m PBKDF2Method) derive(password, salt []byte) ([]byte, error) {
	newHash, ok := digests[m.Digest]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDigest, m.Digest)
	}
	return pbkdf2.Key(password, salt, int(m.Iterations), newHash().Size(), newHash), nil
}

// digests maps PBKDF2 digest names to constructors. Names follow the spelling
// used by stored hashes (Python hashlib style).
var digests = map[string]func() hash.Hash{
	"md5":        md5.New,
	"sha1":       sha1.New,
	"sha224":     sha256.New224,
	"sha256":     sha256.New,
	"sha384":     sha512.New384,
	"sha512":     sha512.New,
	"sha512_224": sha512.New512_224,
	"sha512_256": sha512.New512_256,
	"sha3_224":   func() hash.Hash { return sha3.New224() },
	"sha3_256":   func() hash.Hash { return sha3.New256() },
	"sha3_384":   func() hash.Hash { return sha3.New384() },
	"sha3_512":   func() hash.Hash { return sha3.New512() },
	"blake2b": func() hash.Hash {
		h, _ := blake2b.New512(nil) // only fails for keys > 64 bytes
		return h
	},
	"blake2s": func() hash.Hash {
		h, _ := blake2s.New256(nil)
		return h
	},
}

// IsSupportedDigest reports whether name is a PBKDF2 digest this package
// implements.
func IsSupportedDigest(name string) bool {
	_, ok := digests[name]
	return ok
}

// SupportedDigests returns the PBKDF2 digest names in sorted order.
func SupportedDigests() []string {
	return slices.Sorted(maps.Keys(digests))
}

// ──────────────────────────────────────────────────────────────────────────────
// Parsing
// ──────────────────────────────────────────────────────────────────────────────

// ParseMethod parses a method string of the form name[:arg[:arg...]].
//
//	hash                    scrypt with default parameters
//	hash:N:R:P:KEYLEN       scrypt with explicit parameters
//	pbkdf2                  PBKDF2-HMAC-SHA256, default iterations
//	pbkdf2:DIGEST           named digest, default iterations
//	pbkdf2:DIGEST:ITER      named digest and iteration count
//
// Returns [ErrUnknownMethod] for any other name and [ErrInvalidParameters]
// for a wrong argument count, a non-integer argument, or an out-of-range
// value.
func ParseMethod(spec string) (Method, error) {
	name, rest, found := strings.Cut(spec, ":")
	var args []string
	if found {
		args = strings.Split(rest, ":")
	}

	switch MethodName(name) {
	case MethodScrypt:
		return parseScrypt(args)
	case MethodPBKDF2:
		return parsePBKDF2(args)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

func parseScrypt(args []string) (Method, error) {
	m := DefaultScryptMethod()
	switch len(args) {
	case 0:
	case 4:
		vals := make([]uint32, 4)
		for i, a := range args {
			v, err := parseUint32(a)
			if err != nil {
				return nil, fmt.Errorf("%w: 'hash' takes 4 integer arguments: %v", ErrInvalidParameters, err)
			}
			vals[i] = v
		}
		m = ScryptMethod{N: vals[0], R: vals[1], P: vals[2], KeyLen: vals[3]}
	default:
		return nil, fmt.Errorf("%w: 'hash' takes exactly 4 arguments (n, r, p, dkLen), got %d",
			ErrInvalidParameters, len(args))
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parsePBKDF2(args []string) (Method, error) {
	m := DefaultPBKDF2Method()
	switch len(args) {
	case 0:
	case 1:
		m.Digest = args[0]
	case 2:
		iter, err := parseUint32(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: pbkdf2 iterations: %v", ErrInvalidParameters, err)
		}
		m.Digest, m.Iterations = args[0], iter
	default:
		return nil, fmt.Errorf("%w: 'pbkdf2' takes 0-2 arguments (digest[:iterations]), got %d",
			ErrInvalidParameters, len(args))
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseUint32 accepts plain base-10 digits only; signs, spaces and
// underscores are rejected.
func parseUint32(s string) (uint32, error) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, fmt.Errorf("non-numeric value %q", s)
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
