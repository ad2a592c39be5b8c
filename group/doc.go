// Package group defines the boundary between the split-key protocol and
// the scalar multiplication primitive it relies on.
//
// The primitive is treated as audited, constant-time and external. The
// protocol only ever sees x-coordinates:
//
//   - [Group.ScalarBaseMult]: x(k * G)
//   - [Group.ScalarMult]: x(k * P) given x(P)
//
// # Encoding
//
// Scalars and x-coordinates are exchanged as 32-byte little-endian values,
// regardless of host byte order. Use [EncodeScalar], [DecodeScalar],
// [Params.EncodeElement] and [Params.DecodeElement] for the conversion.
//
// # Implementing a Group
//
// A Group wraps a curve library and reports its curve through [Params].
// See the x25519 package for Curve25519 and the bjj package for Baby
// Jubjub in Montgomery form.
//
// # Security Considerations
//
// Implementations must:
//
//   - reject x-coordinates that do not decode to a point of the group
//   - reject results that are the identity
//   - be safe for concurrent use
package group
