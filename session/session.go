package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/log"
	"github.com/f3rmion/splitdh/splitkey"
)

// ErrNoKey is returned when a Party is used before it has a split key.
var ErrNoKey = errors.New("session: no split key")

// Party holds both halves of a split key in one process. It is the
// reference deployment; use [Party.Split] to hand the halves to a separate
// [Client] and [Server]. Create instances using [NewParty].
type Party struct {
	mu       sync.Mutex
	protocol *splitkey.Protocol
	key      *splitkey.SplitKey
	logger   log.Logger
	metrics  *Metrics
}

// NewParty creates a party over g that does not log.
func NewParty(g group.Group) (*Party, error) {
	return NewPartyWithLogger(g, log.Nop())
}

// NewPartyWithLogger creates a party over g that reports protocol events
// to l. Secret halves are never logged.
func NewPartyWithLogger(g group.Group, l log.Logger) (*Party, error) {
	if l == nil {
		return nil, errors.New("logger must not be nil")
	}

	p, err := splitkey.New(g)
	if err != nil {
		return nil, fmt.Errorf("failed to create protocol: %w", err)
	}

	return &Party{
		protocol: p,
		logger:   l.Named("party").With("curve", g.Params().Name),
	}, nil
}

// SetMetrics makes the party, and the roles it splits into, count events
// in m. A nil m disables counting.
func (p *Party) SetMetrics(m *Metrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = m
}

// Protocol returns the underlying protocol for advanced use cases.
func (p *Party) Protocol() *splitkey.Protocol {
	return p.protocol
}

// Generate draws a fresh split key and returns its public x-coordinate.
// A party generates at most one key; use SetKey to replace it.
func (p *Party) Generate(rng io.Reader) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key != nil {
		return nil, errors.New("split key already generated")
	}

	k, err := p.protocol.GenerateSplitKey(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate split key: %w", err)
	}
	p.key = k

	p.logger.Debugw("generated split key", "public", p.hex(k.Public))
	return new(big.Int).Set(k.Public), nil
}

// SetKey installs a previously saved split key after checking that its
// halves match its public key.
func (p *Party) SetKey(k *splitkey.SplitKey) error {
	if k == nil || k.Client == nil || k.Server == nil || k.Public == nil {
		return errors.New("incomplete split key")
	}
	if err := p.protocol.VerifySplitKey(k); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.key = copyKey(k)
	p.logger.Debugw("restored split key", "public", p.hex(k.Public))
	return nil
}

// Key returns a copy of the current split key, or nil.
func (p *Party) Key() *splitkey.SplitKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key == nil {
		return nil
	}
	return copyKey(p.key)
}

// PublicKey returns the public x-coordinate of the split key.
func (p *Party) PublicKey() (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key == nil {
		return nil, ErrNoKey
	}
	return new(big.Int).Set(p.key.Public), nil
}

// SharedKey runs both halves against peerPublic and returns the shared
// x-coordinate.
func (p *Party) SharedKey(peerPublic *big.Int) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key == nil {
		return nil, ErrNoKey
	}

	shared, err := p.protocol.ComputeSharedKey(p.key.Client, p.key.Server, peerPublic)
	p.metrics.shared(err)
	if err != nil {
		p.logger.Warnw("shared key failed", "peer", p.hex(peerPublic), "err", err)
		return nil, err
	}
	p.metrics.contributed(2)
	p.logger.Debugw("computed shared key", "peer", p.hex(peerPublic))
	return shared, nil
}

// Ratchet re-randomizes the split. The public key is unchanged.
func (p *Party) Ratchet(rng io.Reader) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key == nil {
		return ErrNoKey
	}

	k, err := p.protocol.Ratchet(rng, p.key)
	if err != nil {
		return fmt.Errorf("failed to ratchet: %w", err)
	}
	p.key = k
	p.metrics.ratcheted()
	p.logger.Debugw("ratcheted split key")
	return nil
}

// Split hands the halves to a Client and a Server sharing the party's
// logger and metrics. The party keeps its own copy.
func (p *Party) Split() (*Client, *Server, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key == nil {
		return nil, nil, ErrNoKey
	}

	c := NewClient(p.protocol, p.key.Client, p.key.Public, p.logger)
	s := NewServer(p.protocol, p.key.Server, p.logger)
	c.SetMetrics(p.metrics)
	s.SetMetrics(p.metrics)
	return c, s, nil
}

func (p *Party) hex(x *big.Int) string {
	return encodeHex(p.protocol, x)
}

func encodeHex(p *splitkey.Protocol, x *big.Int) string {
	if x == nil {
		return ""
	}
	enc := p.Group().Params().EncodeElement(x)
	return hex.EncodeToString(enc[:])
}

func copyKey(k *splitkey.SplitKey) *splitkey.SplitKey {
	return &splitkey.SplitKey{
		Client: new(big.Int).Set(k.Client),
		Server: new(big.Int).Set(k.Server),
		Public: new(big.Int).Set(k.Public),
	}
}
