package field

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrDomain is returned when an operation receives an input outside of
	// its valid domain, such as the inverse of zero.
	ErrDomain = errors.New("field: input outside of domain")

	// ErrNoResidue is returned when a square root is requested for a
	// quadratic non-residue.
	ErrNoResidue = errors.New("field: not a quadratic residue")
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
	eight = big.NewInt(8)
)

// Field performs arithmetic modulo an odd prime p.
//
// A Field is immutable after construction and safe for concurrent use.
// All methods return freshly allocated values and never modify their
// arguments.
type Field struct {
	p *big.Int

	// exponents precomputed by New for the square root strategy of p
	sqrtExp   *big.Int
	sqrtMinus *big.Int // sqrt(-1), only when p = 5 mod 8
	pMinus2   *big.Int
	legendre  *big.Int // (p-1)/2
}

// New returns a Field for the prime modulus p.
// It panics if p is not an odd integer greater than 2.
func New(p *big.Int) *Field {
	if p.Cmp(two) <= 0 || p.Bit(0) == 0 {
		panic("field: modulus must be an odd prime")
	}

	f := &Field{
		p:        new(big.Int).Set(p),
		pMinus2:  new(big.Int).Sub(p, two),
		legendre: new(big.Int).Rsh(new(big.Int).Sub(p, one), 1),
	}

	switch {
	case new(big.Int).Mod(p, eight).Int64() == 5:
		// (p+3)/8
		f.sqrtExp = new(big.Int).Rsh(new(big.Int).Add(p, three), 3)
		// 2^((p-1)/4)
		e := new(big.Int).Rsh(new(big.Int).Sub(p, one), 2)
		f.sqrtMinus = new(big.Int).Exp(two, e, p)
	case new(big.Int).Mod(p, four).Int64() == 3:
		// (p+1)/4
		f.sqrtExp = new(big.Int).Rsh(new(big.Int).Add(p, one), 2)
	}

	return f
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// Reduce returns a mod p in the range [0, p-1].
func (f *Field) Reduce(a *big.Int) *big.Int {
	return new(big.Int).Mod(a, f.p)
}

// Add returns a + b mod p.
func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.p)
}

// Sub returns a - b mod p.
func (f *Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.p)
}

// Mul returns a * b mod p.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

// Square returns a^2 mod p.
func (f *Field) Square(a *big.Int) *big.Int {
	return f.Mul(a, a)
}

// Neg returns -a mod p.
func (f *Field) Neg(a *big.Int) *big.Int {
	r := new(big.Int).Neg(a)
	return r.Mod(r, f.p)
}

// Equal reports whether a and b are the same residue mod p.
func (f *Field) Equal(a, b *big.Int) bool {
	return f.Reduce(a).Cmp(f.Reduce(b)) == 0
}

// IsZero reports whether a = 0 mod p.
func (f *Field) IsZero(a *big.Int) bool {
	return f.Reduce(a).Sign() == 0
}

// IsSquare reports whether a is a quadratic residue mod p (zero counts as
// a square), using Euler's criterion.
func (f *Field) IsSquare(a *big.Int) bool {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return true
	}
	return new(big.Int).Exp(r, f.legendre, f.p).Cmp(one) == 0
}

// Inverse returns b such that a*b = 1 mod p, computed as a^(p-2).
// It returns ErrDomain if a = 0 mod p.
func (f *Field) Inverse(a *big.Int) (*big.Int, error) {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return nil, fmt.Errorf("inverse of zero: %w", ErrDomain)
	}
	return r.Exp(r, f.pMinus2, f.p), nil
}

// Sqrt returns a square root of a mod p. Of the two roots r and p-r the
// even one is returned. It returns ErrNoResidue if a has no square root.
func (f *Field) Sqrt(a *big.Int) (*big.Int, error) {
	x := f.Reduce(a)
	if x.Sign() == 0 {
		return x, nil
	}

	var r *big.Int
	switch {
	case f.sqrtMinus != nil:
		r = new(big.Int).Exp(x, f.sqrtExp, f.p)
		if f.Square(r).Cmp(x) != 0 {
			r = f.Mul(r, f.sqrtMinus)
		}
	case f.sqrtExp != nil:
		r = new(big.Int).Exp(x, f.sqrtExp, f.p)
	default:
		// ModSqrt returns nil for non-residues; the check below covers it
		r = new(big.Int).ModSqrt(x, f.p)
	}

	if r == nil || f.Square(r).Cmp(x) != 0 {
		return nil, fmt.Errorf("sqrt of %s: %w", x.Text(16), ErrNoResidue)
	}

	if r.Bit(0) == 1 {
		r.Sub(f.p, r)
	}
	return r, nil
}
