package x25519

import (
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"

	"github.com/f3rmion/splitdh/group"
)

var _ group.Group = (*Group)(nil)

// params is the Curve25519 parameter set shared by every Group.
var params = &group.Params{
	Name:       "curve25519",
	P:          new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19)),
	A:          big.NewInt(486662),
	Order:      mustInt("7237005577332262213973186563042994240857116359379907606001950938285454250989"),
	Cofactor:   8,
	BaseX:      big.NewInt(9),
	ScalarBits: 255,
}

func mustInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("x25519: bad constant " + s)
	}
	return n
}

// Group implements [group.Group] for Curve25519 without clamping. Scalars
// are used in full, so (a + b) * P = a * P + b * P holds for any a and b.
//
// Multiplication is delegated to filippo.io/edwards25519 through the
// birational map between Curve25519 and edwards25519. Input points must
// lie in the prime-order subgroup.
type Group struct{}

// New returns the unclamped Curve25519 group.
func New() *Group {
	return &Group{}
}

// Params returns the Curve25519 parameters. The returned value is shared
// and must not be modified.
func (g *Group) Params() *group.Params {
	return params
}

// ScalarBaseMult returns x(k * G) for the base point x = 9.
func (g *Group) ScalarBaseMult(k [group.ElementSize]byte) ([group.ElementSize]byte, error) {
	s, err := reduceScalar(k)
	if err != nil {
		return [group.ElementSize]byte{}, err
	}
	return fromEdwards(edwards25519.NewIdentityPoint().ScalarBaseMult(s))
}

// ScalarMult returns x(k * P) where u = x(P).
func (g *Group) ScalarMult(k, u [group.ElementSize]byte) ([group.ElementSize]byte, error) {
	s, err := reduceScalar(k)
	if err != nil {
		return [group.ElementSize]byte{}, err
	}
	p, err := toEdwards(u)
	if err != nil {
		return [group.ElementSize]byte{}, err
	}
	return fromEdwards(edwards25519.NewIdentityPoint().ScalarMult(s, p))
}

// reduceScalar reduces a 32-byte little-endian scalar mod the group order.
func reduceScalar(k [group.ElementSize]byte) (*edwards25519.Scalar, error) {
	var wide [64]byte
	copy(wide[:], k[:])
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return nil, fmt.Errorf("reduce scalar: %w", err)
	}
	return s, nil
}

// toEdwards maps u to the edwards25519 point with y = (u - 1) / (u + 1) and
// checks that it lies in the prime-order subgroup.
func toEdwards(u [group.ElementSize]byte) (*edwards25519.Point, error) {
	ue, err := new(field.Element).SetBytes(u[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", group.ErrInvalidPoint, err)
	}

	one := new(field.Element).One()
	den := new(field.Element).Add(ue, one)
	if den.Equal(new(field.Element).Zero()) == 1 {
		return nil, fmt.Errorf("%w: u = -1", group.ErrInvalidPoint)
	}

	y := new(field.Element).Subtract(ue, one)
	y.Multiply(y, new(field.Element).Invert(den))

	p, err := edwards25519.NewIdentityPoint().SetBytes(y.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", group.ErrInvalidPoint, err)
	}

	if !inPrimeOrderSubgroup(p) {
		return nil, fmt.Errorf("%w: not in prime-order subgroup", group.ErrInvalidPoint)
	}
	return p, nil
}

// inPrimeOrderSubgroup reports whether (l - 1) * p = -p, i.e. l * p = 0.
func inPrimeOrderSubgroup(p *edwards25519.Point) bool {
	var b [32]byte
	b[0] = 1
	one, err := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	if err != nil {
		panic(err)
	}
	minusOne := edwards25519.NewScalar().Negate(one)

	lhs := edwards25519.NewIdentityPoint().ScalarMult(minusOne, p)
	rhs := edwards25519.NewIdentityPoint().Negate(p)
	return lhs.Equal(rhs) == 1
}

func fromEdwards(p *edwards25519.Point) ([group.ElementSize]byte, error) {
	var out [group.ElementSize]byte
	if p.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return out, group.ErrIdentity
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}
