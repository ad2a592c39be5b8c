package group

import (
	"errors"
	"math/big"
)

var (
	// ErrScalarRange is returned when a scalar does not fit the 32-byte
	// little-endian encoding, including negative values.
	ErrScalarRange = errors.New("group: scalar out of range")

	// ErrInvalidPoint is returned when an x-coordinate does not encode a
	// point the primitive accepts.
	ErrInvalidPoint = errors.New("group: invalid point")

	// ErrIdentity is returned when a multiplication yields the identity.
	ErrIdentity = errors.New("group: result is the identity")
)

// Group is an x-only scalar multiplication primitive on a Montgomery curve.
// Scalars and x-coordinates cross this boundary as 32-byte little-endian
// values.
//
// Implementations must be safe for concurrent use.
type Group interface {
	// Params returns the curve parameters of the group.
	Params() *Params
	// ScalarBaseMult returns x(scalar * G) for the group's base point G.
	ScalarBaseMult(scalar [ElementSize]byte) ([ElementSize]byte, error)
	// ScalarMult returns x(scalar * P) where point is x(P).
	ScalarMult(scalar, point [ElementSize]byte) ([ElementSize]byte, error)
}

// Params describes a Montgomery curve y^2 = x^3 + A*x^2 + x together with
// the parameters needed to generate split keys for it.
type Params struct {
	// Name identifies the parameter set.
	Name string
	// P is the field modulus.
	P *big.Int
	// A is the Montgomery A coefficient.
	A *big.Int
	// Order is the order of the prime-order subgroup.
	Order *big.Int
	// Cofactor is the curve cofactor.
	Cofactor int64
	// BaseX is the x-coordinate of the base point.
	BaseX *big.Int
	// ScalarBits is the bit length of a clamped private scalar.
	ScalarBits uint
}
