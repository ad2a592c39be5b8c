package bjj

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/splitdh/group"
)

var _ group.Group = (*BJJ)(nil)

// params holds the Montgomery form of Baby Jubjub, derived from the
// twisted Edwards parameters in gnark-crypto.
var params *group.Params

func init() {
	curve := twistededwards.GetEdwardsCurve()

	// A = 2(a + d) / (a - d)
	var sum, diff, m fr.Element
	sum.Add(&curve.A, &curve.D)
	diff.Sub(&curve.A, &curve.D)
	diff.Inverse(&diff)
	m.Mul(&sum, &diff)
	m.Double(&m)

	baseU, err := edwardsToU(&curve.Base)
	if err != nil {
		panic("bjj: invalid base point")
	}

	params = &group.Params{
		Name:       "babyjubjub",
		P:          fr.Modulus(),
		A:          m.BigInt(new(big.Int)),
		Order:      new(big.Int).Set(&curve.Order),
		Cofactor:   8,
		BaseX:      baseU,
		ScalarBits: 254,
	}
}

// BJJ implements [group.Group] for Baby Jubjub in Montgomery form.
//
// BJJ is a zero-sized type. Create an instance with New, &BJJ{} or
// new(BJJ).
type BJJ struct{}

// New returns the Baby Jubjub group.
func New() *BJJ {
	return &BJJ{}
}

// Params returns the Montgomery parameters of Baby Jubjub. The returned
// value is shared and must not be modified.
func (g *BJJ) Params() *group.Params {
	return params
}

// ScalarBaseMult returns u(k * G) for the standard Baby Jubjub base point.
func (g *BJJ) ScalarBaseMult(k [group.ElementSize]byte) ([group.ElementSize]byte, error) {
	base := twistededwards.GetEdwardsCurve().Base
	return g.mul(k, &base)
}

// ScalarMult returns u(k * P) where u = u(P). P must lie in the
// prime-order subgroup.
func (g *BJJ) ScalarMult(k, u [group.ElementSize]byte) ([group.ElementSize]byte, error) {
	p, err := uToEdwards(params.DecodeElement(u))
	if err != nil {
		return [group.ElementSize]byte{}, err
	}
	return g.mul(k, p)
}

func (g *BJJ) mul(k [group.ElementSize]byte, p *twistededwards.PointAffine) ([group.ElementSize]byte, error) {
	var out [group.ElementSize]byte

	s := group.DecodeScalar(k)
	s.Mod(s, params.Order)

	var res twistededwards.PointAffine
	res.ScalarMultiplication(p, s)
	if res.IsZero() {
		return out, group.ErrIdentity
	}

	u, err := edwardsToU(&res)
	if err != nil {
		return out, err
	}
	return params.EncodeElement(u), nil
}

// edwardsToU returns u = (1 + y) / (1 - y).
func edwardsToU(p *twistededwards.PointAffine) (*big.Int, error) {
	var one, num, den fr.Element
	one.SetOne()
	num.Add(&one, &p.Y)
	den.Sub(&one, &p.Y)
	if den.IsZero() {
		return nil, group.ErrIdentity
	}
	den.Inverse(&den)
	num.Mul(&num, &den)
	return num.BigInt(new(big.Int)), nil
}

// uToEdwards returns a twisted Edwards point with y = (u - 1) / (u + 1).
// Either choice of x gives the same u after multiplication.
func uToEdwards(u *big.Int) (*twistededwards.PointAffine, error) {
	curve := twistededwards.GetEdwardsCurve()

	var ue, one, y, den fr.Element
	ue.SetBigInt(u)
	one.SetOne()

	den.Add(&ue, &one)
	if den.IsZero() {
		return nil, fmt.Errorf("%w: u = -1", group.ErrInvalidPoint)
	}
	den.Inverse(&den)
	y.Sub(&ue, &one)
	y.Mul(&y, &den)

	// x^2 = (1 - y^2) / (a - d*y^2)
	var y2, num, dy2, x2 fr.Element
	y2.Square(&y)
	num.Sub(&one, &y2)
	dy2.Mul(&curve.D, &y2)
	x2.Sub(&curve.A, &dy2)
	if x2.IsZero() {
		return nil, fmt.Errorf("%w: degenerate y", group.ErrInvalidPoint)
	}
	x2.Inverse(&x2)
	x2.Mul(&x2, &num)

	var x fr.Element
	if x.Sqrt(&x2) == nil {
		return nil, fmt.Errorf("%w: not on curve", group.ErrInvalidPoint)
	}

	p := &twistededwards.PointAffine{X: x, Y: y}
	if !p.IsOnCurve() {
		return nil, fmt.Errorf("%w: not on curve", group.ErrInvalidPoint)
	}

	var check twistededwards.PointAffine
	check.ScalarMultiplication(p, &curve.Order)
	if !check.IsZero() {
		return nil, fmt.Errorf("%w: not in prime-order subgroup", group.ErrInvalidPoint)
	}
	return p, nil
}
