package splitkey

import (
	"errors"
	"math/big"

	"github.com/f3rmion/splitdh/field"
	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/montgomery"
)

var (
	// ErrProtocolMismatch is returned by VerifyAgreement when two parties
	// computed different shared keys. There is no partial success.
	ErrProtocolMismatch = errors.New("splitkey: shared keys do not match")

	// ErrPublicKeyMismatch is returned when a split key's halves do not
	// add up to its public key.
	ErrPublicKeyMismatch = errors.New("splitkey: halves do not match public key")

	// ErrPerturbationRange is returned when a ratchet perturbation lies
	// outside [-2^PerturbationBits, 2^PerturbationBits].
	ErrPerturbationRange = errors.New("splitkey: perturbation out of range")
)

// Protocol holds the group and the curve algebra used to recombine
// contributions. It is immutable and safe for concurrent use.
type Protocol struct {
	group  group.Group
	params *group.Params
	curve  *montgomery.Curve
	hasher Hasher
}

// SplitKey is one party's private material: two halves whose sum is the
// private scalar, and the x-coordinate of the matching public point.
type SplitKey struct {
	Client *big.Int // half kept by the party itself
	Server *big.Int // half that may be handed to a helper
	Public *big.Int // x((Client + Server) * G)
}

// Total returns Client + Server.
func (k *SplitKey) Total() *big.Int {
	return new(big.Int).Add(k.Client, k.Server)
}

// New creates a Protocol over g using SHA256Hasher for key derivation.
func New(g group.Group) (*Protocol, error) {
	return NewWithHasher(g, &SHA256Hasher{})
}

// NewWithHasher creates a Protocol over g with a custom hasher for
// DeriveKey.
func NewWithHasher(g group.Group, h Hasher) (*Protocol, error) {
	if g == nil {
		return nil, errors.New("group must not be nil")
	}
	if h == nil {
		return nil, errors.New("hasher must not be nil")
	}

	params := g.Params()
	if params == nil || params.P == nil || params.A == nil {
		return nil, errors.New("group has no curve parameters")
	}
	if params.Cofactor < 1 {
		return nil, errors.New("cofactor must be positive")
	}
	if params.ScalarBits < 8 || params.ScalarBits > 8*group.ElementSize {
		return nil, errors.New("scalar size must be between 8 and 256 bits")
	}

	return &Protocol{
		group:  g,
		params: params,
		curve:  montgomery.NewCurve(field.New(params.P), params.A),
		hasher: h,
	}, nil
}

// Group returns the underlying group.
func (p *Protocol) Group() group.Group {
	return p.group
}

// Curve returns the curve used to recombine contributions.
func (p *Protocol) Curve() *montgomery.Curve {
	return p.curve
}

// VerifyAgreement returns ErrProtocolMismatch unless both parties derived
// the same shared key.
func VerifyAgreement(a, b *big.Int) error {
	if a == nil || b == nil || a.Cmp(b) != 0 {
		return ErrProtocolMismatch
	}
	return nil
}
