package session

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/f3rmion/splitdh/log"
	"github.com/f3rmion/splitdh/splitkey"
)

// ErrStaleUpdate is returned when a server is given a ratchet update out
// of order. Applying the same perturbation twice would break the sum of the
// halves.
var ErrStaleUpdate = errors.New("session: ratchet update out of order")

// Update is the message a client sends to its server after a ratchet step.
type Update struct {
	// Epoch counts ratchet steps, starting at 1.
	Epoch uint64

	// D is the perturbation. The client added c*D to its half; the server
	// must subtract c*D from its own.
	D *big.Int
}

// Client holds the client half and the public key. It never sees the
// server half.
type Client struct {
	mu       sync.Mutex
	protocol *splitkey.Protocol
	half     *big.Int
	public   *big.Int
	epoch    uint64
	logger   log.Logger
	metrics  *Metrics
}

// NewClient creates a client role. A nil logger does not log.
func NewClient(p *splitkey.Protocol, half, public *big.Int, l log.Logger) *Client {
	if l == nil {
		l = log.Nop()
	}
	return &Client{
		protocol: p,
		half:     new(big.Int).Set(half),
		public:   new(big.Int).Set(public),
		logger:   l.Named("client"),
	}
}

// SetMetrics makes the client count events in m.
func (c *Client) SetMetrics(m *Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
}

// PublicKey returns the public x-coordinate of the split key.
func (c *Client) PublicKey() *big.Int {
	return new(big.Int).Set(c.public)
}

// Epoch returns the number of ratchet steps taken.
func (c *Client) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// SharedKey combines the client's own contribution with the one the
// server computed against the same peerPublic.
func (c *Client) SharedKey(peerPublic *big.Int, server *splitkey.Contribution) (*big.Int, error) {
	if server == nil {
		return nil, errors.New("missing server contribution")
	}

	c.mu.Lock()
	own, err := c.protocol.Contribute(c.half, peerPublic)
	m := c.metrics
	c.mu.Unlock()
	if err != nil {
		m.shared(err)
		return nil, fmt.Errorf("failed to compute client contribution: %w", err)
	}
	m.contributed(1)

	shared, err := c.protocol.Combine(peerPublic, own, server)
	m.shared(err)
	if err != nil {
		c.logger.Warnw("combine failed", "peer", encodeHex(c.protocol, peerPublic), "err", err)
		return nil, err
	}
	c.logger.Debugw("computed shared key", "peer", encodeHex(c.protocol, peerPublic))
	return shared, nil
}

// Ratchet draws a perturbation, applies it to the client half and returns
// the update for the server. The update must reach the server before the
// next SharedKey call, otherwise the halves no longer add up.
func (c *Client) Ratchet(rng io.Reader) (*Update, error) {
	d, err := splitkey.DrawPerturbation(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to draw perturbation: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	half, err := c.protocol.PerturbClient(c.half, d)
	if err != nil {
		return nil, err
	}
	c.half = half
	c.epoch++
	c.metrics.ratcheted()

	c.logger.Debugw("ratcheted", "epoch", c.epoch)
	return &Update{Epoch: c.epoch, D: d}, nil
}

// Server holds the server half. It computes contributions on request and
// follows the client's ratchet updates.
type Server struct {
	mu       sync.Mutex
	protocol *splitkey.Protocol
	half     *big.Int
	epoch    uint64
	logger   log.Logger
	metrics  *Metrics
}

// NewServer creates a server role. A nil logger does not log.
func NewServer(p *splitkey.Protocol, half *big.Int, l log.Logger) *Server {
	if l == nil {
		l = log.Nop()
	}
	return &Server{
		protocol: p,
		half:     new(big.Int).Set(half),
		logger:   l.Named("server"),
	}
}

// SetMetrics makes the server count events in m.
func (s *Server) SetMetrics(m *Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

// Epoch returns the number of updates applied.
func (s *Server) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Contribute returns the server's contribution against peerPublic.
func (s *Server) Contribute(peerPublic *big.Int) (*splitkey.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.protocol.Contribute(s.half, peerPublic)
	if err != nil {
		s.logger.Warnw("contribution failed", "peer", encodeHex(s.protocol, peerPublic), "err", err)
		return nil, err
	}
	s.metrics.contributed(1)
	s.logger.Debugw("contributed", "peer", encodeHex(s.protocol, peerPublic), "epoch", s.epoch)
	return c, nil
}

// ApplyUpdate applies the client's ratchet update. Updates must arrive in
// epoch order and each is applied at most once. A perturbation outside the
// range DrawPerturbation produces is rejected with
// splitkey.ErrPerturbationRange.
func (s *Server) ApplyUpdate(u *Update) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.metrics.updated(err) }()

	if u == nil || u.D == nil {
		return errors.New("empty update")
	}
	if u.Epoch != s.epoch+1 {
		return fmt.Errorf("%w: have epoch %d, got %d", ErrStaleUpdate, s.epoch, u.Epoch)
	}

	half, err := s.protocol.PerturbServer(s.half, u.D)
	if err != nil {
		return err
	}
	s.half = half
	s.epoch = u.Epoch

	s.logger.Debugw("applied update", "epoch", s.epoch)
	return nil
}
