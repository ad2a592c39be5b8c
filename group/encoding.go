package group

import (
	"fmt"
	"math/big"
)

// ElementSize is the length of an encoded scalar or x-coordinate.
const ElementSize = 32

var maxEncodable = new(big.Int).Lsh(big.NewInt(1), 8*ElementSize)

// EncodeScalar returns k as 32 little-endian bytes. It returns
// ErrScalarRange if k is negative or does not fit.
func EncodeScalar(k *big.Int) ([ElementSize]byte, error) {
	var out [ElementSize]byte
	if k.Sign() < 0 || k.Cmp(maxEncodable) >= 0 {
		return out, fmt.Errorf("encode %d-bit scalar: %w", k.BitLen(), ErrScalarRange)
	}
	k.FillBytes(out[:])
	reverse(out[:])
	return out, nil
}

// DecodeScalar interprets b as a little-endian integer.
func DecodeScalar(b [ElementSize]byte) *big.Int {
	reverse(b[:])
	return new(big.Int).SetBytes(b[:])
}

// EncodeElement returns x mod p as 32 little-endian bytes.
func (p *Params) EncodeElement(x *big.Int) [ElementSize]byte {
	var out [ElementSize]byte
	new(big.Int).Mod(x, p.P).FillBytes(out[:])
	reverse(out[:])
	return out
}

// DecodeElement interprets b as a little-endian integer and reduces it
// mod p.
func (p *Params) DecodeElement(b [ElementSize]byte) *big.Int {
	x := DecodeScalar(b)
	return x.Mod(x, p.P)
}

// reverse switches b between big- and little-endian in place.
func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
