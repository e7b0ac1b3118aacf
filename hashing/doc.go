// Package hashing provides self-describing password hashes with pluggable
// key-derivation methods.
//
// # Format
//
// An encoded hash has three "$"-separated fields:
//
//	<method>$<salt>$<hex-digest>
//	hash:32768:8:1:64$Xb3kQ9LmZ2pA7rT1$5f1c…
//	pbkdf2:sha256:600000$Qm8vT2nL0cR5yW4e$9a0d…
//
// The method field always carries every parameter, so verifying a stored
// hash never depends on this package's current defaults.
//
// # Methods
//
//   - hash — scrypt (RFC 7914): hash[:N:R:P:KEYLEN].
//     Default N=32768, r=8, p=1, 64-byte key (≈32 MiB of memory).
//   - pbkdf2 — PBKDF2-HMAC: pbkdf2[:DIGEST[:ITERATIONS]].
//     Default sha256, 600 000 iterations.
//
// Any other method name is rejected with [ErrUnknownMethod].
//
// # Quick start
//
//	encoded, err := hashing.GeneratePasswordHash(pw, hashing.DefaultMethod, hashing.DefaultSaltLength)
//	if err != nil { log.Fatal(err) } // misconfiguration only
//
//	ok := hashing.CheckPasswordHash(encoded, pw) // true
//
// Or configure once and reuse:
//
//	h, err := hashing.NewHasher(hashing.DefaultOptions())
//	encoded, _ := h.Make(pw)
//	if h.Check(pw, encoded) && h.NeedsRehash(encoded) { … }
//
// # Errors
//
// Creating a hash reports configuration errors. Checking a hash never does:
// malformed input, unknown methods and wrong passwords all give false, in
// comparable time.
//
// # Cost
//
// Derivation is deliberately slow (milliseconds to a sizeable fraction of a
// second). Do not run it where blocking for that long is unacceptable.
package hashing
