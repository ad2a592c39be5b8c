// Package x25519 provides Curve25519 implementations of [group.Group].
//
// Two groups are offered:
//
//   - [Group]: full-scalar multiplication. Scalars are reduced mod the
//     prime group order, never clamped, so split keys add up. This is the
//     group the split-key protocol needs.
//   - [Clamped]: RFC 7748 X25519 from golang.org/x/crypto/curve25519.
//     Scalars are clamped, which breaks the additivity of split keys.
//
// # Curve Parameters
//
// Curve25519 is the Montgomery curve
//
//	y^2 = x^3 + 486662*x^2 + x
//
// over the field of size 2^255 - 19, with base point x = 9 and cofactor 8.
//
// # Implementation
//
// [Group] maps x-coordinates to edwards25519 points with
// y = (u - 1) / (u + 1) and uses filippo.io/edwards25519 for the
// multiplication. Results are mapped back with u = (1 + y) / (1 - y).
// Inputs outside the prime-order subgroup and identity results are
// rejected.
package x25519
