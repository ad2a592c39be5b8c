package splitkey

import (
	"fmt"
	"math/big"

	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/montgomery"
)

// Contribution is the work one half-holder does against the peer's public
// point Q, using only its own half k. Next lets the combiner restore the
// sign of k*Q that the x-only primitive drops.
type Contribution struct {
	X    *big.Int // x(k * Q)
	Next *big.Int // x((k + 1) * Q)
}

func (c *Contribution) complete() bool {
	return c != nil && c.X != nil && c.Next != nil
}

// ComputeSharedContribution returns x(half * Q) where peerPublic = x(Q).
func (p *Protocol) ComputeSharedContribution(half, peerPublic *big.Int) (*big.Int, error) {
	enc, err := group.EncodeScalar(half)
	if err != nil {
		return nil, err
	}
	x, err := p.group.ScalarMult(enc, p.params.EncodeElement(peerPublic))
	if err != nil {
		return nil, fmt.Errorf("contribution: %w", err)
	}
	return p.params.DecodeElement(x), nil
}

// Contribute returns the contribution of half against peerPublic.
func (p *Protocol) Contribute(half, peerPublic *big.Int) (*Contribution, error) {
	x, err := p.ComputeSharedContribution(half, peerPublic)
	if err != nil {
		return nil, err
	}
	next, err := p.ComputeSharedContribution(new(big.Int).Add(half, big.NewInt(1)), peerPublic)
	if err != nil {
		return nil, err
	}
	return &Contribution{X: x, Next: next}, nil
}

// Combine adds two contributions made against the same peerPublic and
// returns x((a + b) * Q). Both contributions are lifted relative to one
// fixed lift of Q, so the result does not depend on the sign chosen for Q.
func (p *Protocol) Combine(peerPublic *big.Int, a, b *Contribution) (*big.Int, error) {
	if !a.complete() || !b.complete() {
		return nil, fmt.Errorf("%w: empty contribution", montgomery.ErrLadderMismatch)
	}
	q, err := p.curve.Lift(peerPublic)
	if err != nil {
		return nil, fmt.Errorf("peer public key: %w", err)
	}

	pa, err := p.curve.RecoverPoint(q, a.X, a.Next)
	if err != nil {
		return nil, fmt.Errorf("first contribution: %w", err)
	}
	pb, err := p.curve.RecoverPoint(q, b.X, b.Next)
	if err != nil {
		return nil, fmt.Errorf("second contribution: %w", err)
	}

	sum, err := p.curve.AddPoints(pa, pb)
	if err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}
	return sum.X, nil
}

// CombineX adds two x-only contributions with the canonical lift of each.
// The result is x((a + b) * Q) or x((a - b) * Q); use Combine when the
// parties must agree.
func (p *Protocol) CombineX(xa, xb *big.Int) (*big.Int, error) {
	return p.curve.Add(xa, xb)
}

// ComputeSharedKey returns the shared x-coordinate for a party holding
// both halves of its split key. Two parties running it against each
// other's public keys obtain x(k1 * k2 * G).
func (p *Protocol) ComputeSharedKey(client, server, peerPublic *big.Int) (*big.Int, error) {
	// the server-side work, using only the server half
	s, err := p.Contribute(server, peerPublic)
	if err != nil {
		return nil, err
	}
	// the client-side work, using only the client half
	c, err := p.Contribute(client, peerPublic)
	if err != nil {
		return nil, err
	}
	return p.Combine(peerPublic, c, s)
}

// DeriveKey derives symmetric key material from a shared x-coordinate.
// The x-coordinate is encoded as 32 little-endian bytes before hashing.
func (p *Protocol) DeriveKey(shared *big.Int, info []byte) []byte {
	enc := p.params.EncodeElement(shared)
	return p.hasher.DeriveKey(enc[:], info)
}
