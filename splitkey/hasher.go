package splitkey

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
)

// Hasher turns an encoded shared secret into symmetric key material.
// Different implementations can provide different hash functions and
// domain separation schemes.
type Hasher interface {
	// DeriveKey hashes the shared secret together with caller-supplied
	// context.
	DeriveKey(secret, info []byte) []byte
}

// SHA256Hasher implements Hasher using SHA-256.
// This is the default hasher.
type SHA256Hasher struct{}

// DeriveKey implements Hasher.DeriveKey.
func (h *SHA256Hasher) DeriveKey(secret, info []byte) []byte {
	hasher := sha256.New()
	hasher.Write([]byte("splitdh-key"))
	hasher.Write(secret)
	hasher.Write(info)
	return hasher.Sum(nil)
}

// Blake2bHasher implements Hasher using keyed Blake2b-256 with a domain
// separation prefix.
type Blake2bHasher struct {
	// Prefix is the domain separation prefix.
	// Default: "SPLITDH-BLAKE2B-v1"
	Prefix string
}

// NewBlake2bHasher creates a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: "SPLITDH-BLAKE2B-v1",
	}
}

// DeriveKey implements Hasher.DeriveKey. The secret is used as the
// Blake2b key.
func (h *Blake2bHasher) DeriveKey(secret, info []byte) []byte {
	// keys up to 64 bytes never fail
	hasher, _ := blake2b.New256(secret)
	hasher.Write([]byte(h.Prefix))
	hasher.Write(info)
	return hasher.Sum(nil)
}

// HKDFHasher implements Hasher using HKDF-SHA256 with a fixed salt.
type HKDFHasher struct {
	// Salt is the HKDF salt.
	// Default: "SPLITDH-HKDF-v1"
	Salt []byte
}

// NewHKDFHasher creates an HKDFHasher with the default salt.
func NewHKDFHasher() *HKDFHasher {
	return &HKDFHasher{
		Salt: []byte("SPLITDH-HKDF-v1"),
	}
}

// DeriveKey implements Hasher.DeriveKey. It returns 32 bytes of HKDF
// output with info as the HKDF info.
func (h *HKDFHasher) DeriveKey(secret, info []byte) []byte {
	r := hkdf.New(sha256.New, secret, h.Salt, info)
	out := make([]byte, 32)
	// 32 bytes is far below the HKDF output limit
	_, _ = io.ReadFull(r, out)
	return out
}
