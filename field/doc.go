// Package field implements modular arithmetic over a prime field.
//
// The package provides the two non-trivial operations needed to work with
// x-only Montgomery curve points: modular inversion and modular square
// root extraction. Both are exposed as methods on [Field], a value that
// carries the modulus explicitly so the same code serves every parameter
// set:
//
//	f := field.New(p)
//	inv, err := f.Inverse(a)
//	root, err := f.Sqrt(b)
//
// # Square Roots
//
// The square root strategy is chosen once, from the shape of p:
//
//   - p = 5 mod 8 (Curve25519): candidate a^((p+3)/8), corrected by
//     sqrt(-1) = 2^((p-1)/4) when its square is -a
//   - p = 3 mod 4: a^((p+1)/4)
//   - otherwise: Tonelli-Shanks via [math/big]
//
// Every candidate is squared back before it is returned. [Field.Sqrt]
// always returns the even root of the pair {r, p-r}.
//
// # Errors
//
// [ErrDomain] reports the inverse of zero. [ErrNoResidue] reports a square
// root request for a non-residue. Neither is transient: retrying an
// algebraic failure cannot change its outcome.
package field
