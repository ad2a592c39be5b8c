package x25519

import (
	"fmt"

	"golang.org/x/crypto/curve25519"

	"github.com/f3rmion/splitdh/group"
)

var _ group.Group = (*Clamped)(nil)

// Clamped implements [group.Group] with RFC 7748 X25519, which clamps
// every scalar before use: the low three bits and bit 255 are cleared and
// bit 254 is set.
//
// Clamping is not additive, so split keys do not agree under this group.
// It exists to interoperate with plain X25519 keys.
type Clamped struct{}

// NewClamped returns the RFC 7748 X25519 group.
func NewClamped() *Clamped {
	return &Clamped{}
}

// Params returns the Curve25519 parameters.
func (c *Clamped) Params() *group.Params {
	return params
}

// ScalarBaseMult returns X25519(k, 9).
func (c *Clamped) ScalarBaseMult(k [group.ElementSize]byte) ([group.ElementSize]byte, error) {
	return x25519(k[:], curve25519.Basepoint)
}

// ScalarMult returns X25519(k, u).
func (c *Clamped) ScalarMult(k, u [group.ElementSize]byte) ([group.ElementSize]byte, error) {
	return x25519(k[:], u[:])
}

func x25519(k, u []byte) ([group.ElementSize]byte, error) {
	var out [group.ElementSize]byte
	res, err := curve25519.X25519(k, u)
	if err != nil {
		// X25519 only fails on an all-zero output
		return out, fmt.Errorf("%w: %w", group.ErrIdentity, err)
	}
	copy(out[:], res)
	return out, nil
}

// Clamp applies RFC 7748 clamping to k and returns the result.
func Clamp(k [group.ElementSize]byte) [group.ElementSize]byte {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
	return k
}
