// Package bjj provides a Baby Jubjub implementation of the [group.Group]
// interface, so the split-key protocol can run over a second curve.
//
// Baby Jubjub is a twisted Edwards curve defined over the scalar field of
// BN254 (also known as alt_bn128). It is birationally equivalent to the
// Montgomery curve
//
//	y^2 = x^3 + 168698*x^2 + x
//
// with u = (1 + y) / (1 - y). This package wraps the twisted Edwards
// arithmetic of gnark-crypto and exposes it through u-coordinates only,
// the same x-only boundary that X25519 offers for Curve25519.
//
// # Curve Parameters
//
// The field modulus is the BN254 scalar field order, which is 1 mod 8, so
// square roots take the Tonelli-Shanks path in the field package. The
// prime-order subgroup has size
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// and the cofactor is 8.
//
// # Security
//
// Scalars are reduced mod the subgroup order and input points are checked
// for subgroup membership. Multiplication is delegated to gnark-crypto.
package bjj
