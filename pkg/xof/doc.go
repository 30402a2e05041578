// Package xof provides the library's deterministic pseudorandomness: a
// seeded extendable-output function used both to derive scalars
// deterministically (seeded key derivation) and to map arbitrary labels onto
// curve points via try-and-increment (deterministic parameter generation).
// Random sampling of keys and nonces uses pkg/utils instead.
//
// The expansion function is RFC 6979-style HMAC-SHA256 counter expansion,
// the same construction used for deterministic signing nonces,
// generalized here into a reusable io.Reader.
package xof
