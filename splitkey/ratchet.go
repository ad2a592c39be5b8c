package splitkey

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/splitdh/group"
)

// PerturbationBits bounds a ratchet perturbation d to [-2^220, 2^220].
const PerturbationBits = 220

// DrawPerturbation returns d uniform in [-2^220, 2^220], reading from r or
// crypto/rand if r is nil. The client draws d and forwards it to whoever
// holds the server half.
func DrawPerturbation(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	bound := new(big.Int).Lsh(big.NewInt(1), PerturbationBits)

	// 2*bound + 1 values
	width := new(big.Int).Lsh(bound, 1)
	width.Add(width, big.NewInt(1))

	d, err := rand.Int(r, width)
	if err != nil {
		return nil, err
	}
	return d.Sub(d, bound), nil
}

// CheckPerturbation reports whether d could have been drawn by
// DrawPerturbation.
func CheckPerturbation(d *big.Int) error {
	if d == nil {
		return fmt.Errorf("%w: missing", ErrPerturbationRange)
	}
	if d.CmpAbs(new(big.Int).Lsh(big.NewInt(1), PerturbationBits)) > 0 {
		return fmt.Errorf("%w: |d| has %d bits", ErrPerturbationRange, d.BitLen())
	}
	return nil
}

// ApplyPerturbation returns (client + c*d, server - c*d), where c is the
// cofactor. Each new half must still encode as a 32-byte scalar.
func (p *Protocol) ApplyPerturbation(client, server, d *big.Int) (*big.Int, *big.Int, error) {
	newClient, err := p.PerturbClient(client, d)
	if err != nil {
		return nil, nil, err
	}
	newServer, err := p.PerturbServer(server, d)
	if err != nil {
		return nil, nil, err
	}
	return newClient, newServer, nil
}

// PerturbClient returns half + c*d, the client side of a ratchet step.
func (p *Protocol) PerturbClient(half, d *big.Int) (*big.Int, error) {
	if err := CheckPerturbation(d); err != nil {
		return nil, err
	}
	shift := new(big.Int).Mul(big.NewInt(p.params.Cofactor), d)
	res := new(big.Int).Add(half, shift)
	if _, err := group.EncodeScalar(res); err != nil {
		return nil, fmt.Errorf("client half: %w", err)
	}
	return res, nil
}

// PerturbServer returns half - c*d, the server side of a ratchet step.
func (p *Protocol) PerturbServer(half, d *big.Int) (*big.Int, error) {
	if err := CheckPerturbation(d); err != nil {
		return nil, err
	}
	shift := new(big.Int).Mul(big.NewInt(p.params.Cofactor), d)
	res := new(big.Int).Sub(half, shift)
	if _, err := group.EncodeScalar(res); err != nil {
		return nil, fmt.Errorf("server half: %w", err)
	}
	return res, nil
}

// UpdateSplit re-randomizes the split of client + server without changing
// the sum.
func (p *Protocol) UpdateSplit(r io.Reader, client, server *big.Int) (*big.Int, *big.Int, error) {
	d, err := DrawPerturbation(r)
	if err != nil {
		return nil, nil, err
	}
	return p.ApplyPerturbation(client, server, d)
}

// Ratchet returns a copy of k with a fresh split. The public key is
// unchanged.
func (p *Protocol) Ratchet(r io.Reader, k *SplitKey) (*SplitKey, error) {
	client, server, err := p.UpdateSplit(r, k.Client, k.Server)
	if err != nil {
		return nil, err
	}
	return &SplitKey{
		Client: client,
		Server: server,
		Public: new(big.Int).Set(k.Public),
	}, nil
}
