// Package montgomery implements point arithmetic on Montgomery curves of
// the form
//
//	y^2 = x^3 + A*x^2 + x
//
// over a prime field provided by the [field] package.
//
// Scalar multiplication primitives for these curves usually return only
// the x-coordinate of the result. This package supplies what is needed to
// add such results together: y-recovery by square root, the doubling and
// chord slopes, and the affine group law.
//
// # x-only Addition
//
// [Curve.Add] takes two x-coordinates, lifts each to the point with the
// even y, and adds them. The sign of y is lost in an x-only value, so the
// result is x(P+Q) or x(P-Q) depending on the lifts. It is commutative
// and deterministic, and Add(x, x) agrees with [Curve.Double].
//
// # Consistent Signs
//
// [Curve.RecoverPoint] restores the sign lost by an x-only ladder. Given a
// reference point Q with its y, together with x(kQ) and x((k+1)Q), it
// returns kQ with the sign that makes kQ + Q land on x((k+1)Q). Points
// recovered against the same Q can then be added with [Curve.AddPoints]
// and the result is x((a+b)Q) regardless of which root Q was lifted with.
//
// The doubling slope is (3x^2 + 2Ax + 1) / 2y, the tangent of the curve
// with B = 1.
package montgomery
