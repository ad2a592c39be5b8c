package montgomery

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrAmbiguousSign is returned by RecoverPoint when both candidate
	// signs are consistent with the ladder output.
	ErrAmbiguousSign = errors.New("montgomery: cannot determine sign of y")

	// ErrLadderMismatch is returned by RecoverPoint when neither candidate
	// sign is consistent with the ladder output.
	ErrLadderMismatch = errors.New("montgomery: ladder outputs are inconsistent")
)

// Point is an affine point on a Montgomery curve. The point at infinity
// is not representable; operations that would produce it return
// ErrIdentity.
type Point struct {
	X, Y *big.Int
}

// NewPoint returns the point (x, y) after checking that it is on c.
func (c *Curve) NewPoint(x, y *big.Int) (Point, error) {
	p := Point{X: c.f.Reduce(x), Y: c.f.Reduce(y)}
	if !c.IsOnCurve(p) {
		return Point{}, ErrNotOnCurve
	}
	return p, nil
}

// IsOnCurve reports whether y^2 = x^3 + A*x^2 + x holds for p.
func (c *Curve) IsOnCurve(p Point) bool {
	return c.f.Square(p.Y).Cmp(c.rhs(p.X)) == 0
}

// Neg returns -p.
func (c *Curve) Neg(p Point) Point {
	return Point{X: new(big.Int).Set(p.X), Y: c.f.Neg(p.Y)}
}

// Equal reports whether p and q are the same point.
func (c *Curve) Equal(p, q Point) bool {
	return c.f.Equal(p.X, q.X) && c.f.Equal(p.Y, q.Y)
}

// RecoverPoint returns k*Q given Q with its y-coordinate, xk = x(k*Q) and
// xk1 = x((k+1)*Q). The sign of the result is the one for which
// k*Q + Q has x-coordinate xk1, so every point recovered against the same
// Q is consistent with it.
func (c *Curve) RecoverPoint(q Point, xk, xk1 *big.Int) (Point, error) {
	cand, err := c.Lift(xk)
	if err != nil {
		return Point{}, err
	}

	want := c.f.Reduce(xk1)
	matches := func(p Point) (bool, error) {
		sum, err := c.AddPoints(p, q)
		if errors.Is(err, ErrIdentity) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return sum.X.Cmp(want) == 0, nil
	}

	pos, err := matches(cand)
	if err != nil {
		return Point{}, fmt.Errorf("recover point: %w", err)
	}
	neg, err := matches(c.Neg(cand))
	if err != nil {
		return Point{}, fmt.Errorf("recover point: %w", err)
	}

	switch {
	case pos && neg:
		return Point{}, ErrAmbiguousSign
	case pos:
		return cand, nil
	case neg:
		return c.Neg(cand), nil
	default:
		return Point{}, ErrLadderMismatch
	}
}

// ScalarMult returns k*p by affine double-and-add. It is variable time and
// meant for cross-checking, not for secret scalars. It returns ErrIdentity
// when the result is the point at infinity.
func (c *Curve) ScalarMult(k *big.Int, p Point) (Point, error) {
	if k.Sign() < 0 {
		return c.ScalarMult(new(big.Int).Neg(k), c.Neg(p))
	}

	var acc *Point
	for i := k.BitLen() - 1; i >= 0; i-- {
		if acc != nil {
			d, err := c.AddPoints(*acc, *acc)
			if err != nil {
				if !errors.Is(err, ErrIdentity) {
					return Point{}, err
				}
				acc = nil
			} else {
				acc = &d
			}
		}

		if k.Bit(i) == 0 {
			continue
		}
		if acc == nil {
			cp := Point{X: new(big.Int).Set(p.X), Y: new(big.Int).Set(p.Y)}
			acc = &cp
			continue
		}
		s, err := c.AddPoints(*acc, p)
		if err != nil {
			if !errors.Is(err, ErrIdentity) {
				return Point{}, err
			}
			acc = nil
			continue
		}
		acc = &s
	}

	if acc == nil {
		return Point{}, ErrIdentity
	}
	return *acc, nil
}
