package splitkey

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/splitdh/group"
)

// GenerateSplitKey draws a new split key from r, or crypto/rand if r is
// nil.
//
// With n = ScalarBits and c the cofactor, both halves start from a value
// drawn uniformly from [2^(n-6), 2^(n-5)):
//
//	Client = 2^(n-1) + c*clientPre
//	Server = c*serverPre
//
// so the total is a multiple of c in [2^(n-1), 2^n), the shape of a
// clamped scalar.
func (p *Protocol) GenerateSplitKey(r io.Reader) (*SplitKey, error) {
	if r == nil {
		r = rand.Reader
	}

	n := p.params.ScalarBits
	c := big.NewInt(p.params.Cofactor)

	clientPre, err := randomPrekey(r, n)
	if err != nil {
		return nil, fmt.Errorf("client half: %w", err)
	}
	serverPre, err := randomPrekey(r, n)
	if err != nil {
		return nil, fmt.Errorf("server half: %w", err)
	}

	client := new(big.Int).Mul(c, clientPre)
	client.Add(client, new(big.Int).Lsh(big.NewInt(1), n-1))
	server := new(big.Int).Mul(c, serverPre)

	public, err := p.publicKey(new(big.Int).Add(client, server))
	if err != nil {
		return nil, err
	}

	return &SplitKey{
		Client: client,
		Server: server,
		Public: public,
	}, nil
}

// VerifySplitKey checks that the halves of k add up to its public key.
func (p *Protocol) VerifySplitKey(k *SplitKey) error {
	public, err := p.publicKey(k.Total())
	if err != nil {
		return err
	}
	if public.Cmp(k.Public) != 0 {
		return ErrPublicKeyMismatch
	}
	return nil
}

func (p *Protocol) publicKey(total *big.Int) (*big.Int, error) {
	enc, err := group.EncodeScalar(total)
	if err != nil {
		return nil, err
	}
	x, err := p.group.ScalarBaseMult(enc)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	return p.params.DecodeElement(x), nil
}

// randomPrekey returns a uniform value in [2^(n-6), 2^(n-5)).
func randomPrekey(r io.Reader, n uint) (*big.Int, error) {
	lo := new(big.Int).Lsh(big.NewInt(1), n-6)
	v, err := rand.Int(r, lo) // width of the range equals lo
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}
