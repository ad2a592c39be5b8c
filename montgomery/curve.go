package montgomery

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/f3rmion/splitdh/field"
)

var (
	// ErrNotOnCurve is returned when an x-coordinate has no matching y on
	// the curve. It wraps field.ErrNoResidue.
	ErrNotOnCurve = errors.New("montgomery: x is not on the curve")

	// ErrIdentity is returned when a sum is the point at infinity, which
	// has no affine x-coordinate.
	ErrIdentity = errors.New("montgomery: result is the point at infinity")
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
)

// Curve is the Montgomery curve y^2 = x^3 + A*x^2 + x over a prime field.
// The B coefficient is fixed to 1.
//
// A Curve is immutable and safe for concurrent use.
type Curve struct {
	f *field.Field
	a *big.Int
}

// NewCurve returns the curve with coefficient a over f.
func NewCurve(f *field.Field, a *big.Int) *Curve {
	return &Curve{
		f: f,
		a: f.Reduce(a),
	}
}

// Curve25519 returns the curve y^2 = x^3 + 486662*x^2 + x over 2^255-19.
func Curve25519() *Curve {
	p := new(big.Int).Sub(new(big.Int).Lsh(one, 255), big.NewInt(19))
	return NewCurve(field.New(p), big.NewInt(486662))
}

// Field returns the underlying field.
func (c *Curve) Field() *field.Field {
	return c.f
}

// A returns a copy of the A coefficient.
func (c *Curve) A() *big.Int {
	return new(big.Int).Set(c.a)
}

// rhs returns x^3 + A*x^2 + x.
func (c *Curve) rhs(x *big.Int) *big.Int {
	x2 := c.f.Square(x)
	x3 := c.f.Mul(x2, x)
	ax2 := c.f.Mul(c.a, x2)
	return c.f.Add(c.f.Add(x3, ax2), x)
}

// IsOnCurveX reports whether x is the x-coordinate of a curve point.
func (c *Curve) IsOnCurveX(x *big.Int) bool {
	return c.f.IsSquare(c.rhs(x))
}

// RecoverY returns a y such that (x, y) is on the curve. The even root is
// chosen; callers that need a particular sign must use RecoverPoint.
func (c *Curve) RecoverY(x *big.Int) (*big.Int, error) {
	y, err := c.f.Sqrt(c.rhs(x))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotOnCurve, err)
	}
	return y, nil
}

// Lift returns the point with x-coordinate x and the even y.
func (c *Curve) Lift(x *big.Int) (Point, error) {
	y, err := c.RecoverY(x)
	if err != nil {
		return Point{}, err
	}
	return Point{X: c.f.Reduce(x), Y: y}, nil
}

// slopeDouble returns (3x^2 + 2Ax + 1) / 2y, the tangent slope at p.
func (c *Curve) slopeDouble(p Point) (*big.Int, error) {
	num := c.f.Mul(three, c.f.Square(p.X))
	num = c.f.Add(num, c.f.Mul(c.f.Mul(two, c.a), p.X))
	num = c.f.Add(num, one)

	den, err := c.f.Inverse(c.f.Mul(two, p.Y))
	if err != nil {
		return nil, fmt.Errorf("doubling slope: %w", err)
	}
	return c.f.Mul(num, den), nil
}

// slopeAdd returns (yq - yp) / (xq - xp). The x-coordinates must differ.
func (c *Curve) slopeAdd(p, q Point) (*big.Int, error) {
	den, err := c.f.Inverse(c.f.Sub(q.X, p.X))
	if err != nil {
		return nil, fmt.Errorf("addition slope: %w", err)
	}
	return c.f.Mul(c.f.Sub(q.Y, p.Y), den), nil
}

// AddPoints returns p + q under the group law. Equal points are doubled.
// It returns ErrIdentity when q = -p, which includes doubling a point of
// order two.
func (c *Curve) AddPoints(p, q Point) (Point, error) {
	var (
		l   *big.Int
		err error
	)

	if c.f.Equal(p.X, q.X) {
		if !c.f.Equal(p.Y, q.Y) || c.f.IsZero(p.Y) {
			return Point{}, ErrIdentity
		}
		l, err = c.slopeDouble(p)
	} else {
		l, err = c.slopeAdd(p, q)
	}
	if err != nil {
		return Point{}, err
	}

	// x3 = l^2 - A - x1 - x2
	x3 := c.f.Sub(c.f.Square(l), c.a)
	x3 = c.f.Sub(x3, p.X)
	x3 = c.f.Sub(x3, q.X)

	// y3 = l(x1 - x3) - y1
	y3 := c.f.Sub(c.f.Mul(l, c.f.Sub(p.X, x3)), p.Y)

	return Point{X: x3, Y: y3}, nil
}

// Add returns the x-coordinate of P1 + P2, where P1 and P2 are the points
// with x-coordinates x1 and x2 and the y chosen by RecoverY. When x1 = x2
// the tangent is used. Points that are not on the curve are an error.
//
// Because only x-coordinates are given, the result is x(P1 + P2) for the
// canonical lifts, which may equal x(P1 - P2) for the points the caller
// had in mind.
func (c *Curve) Add(x1, x2 *big.Int) (*big.Int, error) {
	p, err := c.Lift(x1)
	if err != nil {
		return nil, err
	}
	q, err := c.Lift(x2)
	if err != nil {
		return nil, err
	}

	sum, err := c.AddPoints(p, q)
	if err != nil {
		return nil, err
	}
	return sum.X, nil
}

// Double returns x(2P) from x(P) alone, as (x^2 - 1)^2 / 4x(x^2 + Ax + 1).
func (c *Curve) Double(x *big.Int) (*big.Int, error) {
	x2 := c.f.Square(x)
	num := c.f.Square(c.f.Sub(x2, one))

	den := c.f.Add(c.f.Add(x2, c.f.Mul(c.a, x)), one)
	den = c.f.Mul(c.f.Mul(four, x), den)

	inv, err := c.f.Inverse(den)
	if err != nil {
		return nil, fmt.Errorf("doubling: %w", err)
	}
	return c.f.Mul(num, inv), nil
}
