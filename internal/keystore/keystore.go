// Package keystore saves split keys for the splitdh command.
//
// Two backends implement [Store]. [FileStore] writes TOML files:
// name.private holds both halves and is readable only by its owner,
// name.public holds the public x-coordinate to hand to peers. [BoltStore]
// keeps the same TOML records in a single bbolt database.
//
// With a passphrase, the halves are sealed with ChaCha20-Poly1305 under an
// scrypt-derived key. Public keys are never sealed.
package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/splitkey"
)

var (
	// ErrAbsent is returned when the requested key does not exist.
	ErrAbsent = errors.New("keystore: key not found")

	// ErrPassphrase is returned when a sealed key is loaded without the
	// right passphrase.
	ErrPassphrase = errors.New("keystore: wrong or missing passphrase")

	// ErrKeyName is returned for a key name that is empty or is not a
	// plain file name.
	ErrKeyName = errors.New("keystore: invalid key name")
)

// Tunables for scrypt key derivation.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Store loads and saves split keys by name.
type Store interface {
	// SaveKey writes k under name for the given curve, replacing any key
	// of the same name.
	SaveKey(name, curve string, k *splitkey.SplitKey) error
	// LoadKey reads the split key saved under name and its curve.
	LoadKey(name string) (string, *splitkey.SplitKey, error)
	// LoadPublic reads the public key saved under name and its curve. It
	// never needs the passphrase.
	LoadPublic(name string) (string, *big.Int, error)
	// Location describes where the key name is kept.
	Location(name string) string
	Close() error
}

// ValidName checks that name can be used as a key name by every backend:
// non-empty, not "." or "..", and free of path separators.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrKeyName, name)
	}
	return nil
}

// KeyTOML is the stored form of a split key. Values are 32-byte
// little-endian hex strings. A sealed key has Salt and Sealed set instead
// of Client and Server.
type KeyTOML struct {
	Curve  string
	Client string `toml:",omitempty"`
	Server string `toml:",omitempty"`
	Salt   string `toml:",omitempty"`
	Sealed string `toml:",omitempty"`
	Public string
}

// PublicTOML is the stored form of a public key.
type PublicTOML struct {
	Curve  string
	Public string
}

// encodeKey returns the stored form of k, sealed if passphrase is set.
func encodeKey(curve string, k *splitkey.SplitKey, passphrase string) (*KeyTOML, error) {
	public, err := FormatHex(k.Public)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	client, err := group.EncodeScalar(k.Client)
	if err != nil {
		return nil, fmt.Errorf("client half: %w", err)
	}
	server, err := group.EncodeScalar(k.Server)
	if err != nil {
		return nil, fmt.Errorf("server half: %w", err)
	}

	kt := &KeyTOML{Curve: curve, Public: public}
	if passphrase == "" {
		kt.Client = hex.EncodeToString(client[:])
		kt.Server = hex.EncodeToString(server[:])
		return kt, nil
	}

	raw := append(client[:], server[:]...)
	salt, sealed, err := seal(passphrase, raw, []byte(public))
	if err != nil {
		return nil, err
	}
	kt.Salt = hex.EncodeToString(salt)
	kt.Sealed = hex.EncodeToString(sealed)
	return kt, nil
}

// decodeKey reverses encodeKey.
func decodeKey(kt *KeyTOML, passphrase string) (string, *splitkey.SplitKey, error) {
	public, err := ParseHex(kt.Public)
	if err != nil {
		return "", nil, fmt.Errorf("public key: %w", err)
	}

	clientHex, serverHex := kt.Client, kt.Server
	if kt.Sealed != "" {
		if clientHex, serverHex, err = unseal(kt, passphrase); err != nil {
			return "", nil, err
		}
	}

	client, err := ParseHex(clientHex)
	if err != nil {
		return "", nil, fmt.Errorf("client half: %w", err)
	}
	server, err := ParseHex(serverHex)
	if err != nil {
		return "", nil, fmt.Errorf("server half: %w", err)
	}

	return kt.Curve, &splitkey.SplitKey{Client: client, Server: server, Public: public}, nil
}

func decodePublic(curve, public string) (string, *big.Int, error) {
	x, err := ParseHex(public)
	if err != nil {
		return "", nil, fmt.Errorf("public key: %w", err)
	}
	return curve, x, nil
}

// FormatHex encodes x as 32 little-endian bytes in hex.
func FormatHex(x *big.Int) (string, error) {
	b, err := group.EncodeScalar(x)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// ParseHex decodes a value written by FormatHex.
func ParseHex(s string) (*big.Int, error) {
	buff, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(buff) != group.ElementSize {
		return nil, fmt.Errorf("want %d bytes, got %d", group.ElementSize, len(buff))
	}
	var b [group.ElementSize]byte
	copy(b[:], buff)
	return group.DecodeScalar(b), nil
}

func unseal(kt *KeyTOML, passphrase string) (string, string, error) {
	if passphrase == "" {
		return "", "", fmt.Errorf("%w: key is sealed", ErrPassphrase)
	}
	salt, err := hex.DecodeString(kt.Salt)
	if err != nil {
		return "", "", fmt.Errorf("salt: %w", err)
	}
	sealed, err := hex.DecodeString(kt.Sealed)
	if err != nil {
		return "", "", fmt.Errorf("sealed halves: %w", err)
	}

	raw, err := open(passphrase, salt, sealed, []byte(kt.Public))
	if err != nil {
		return "", "", err
	}
	if len(raw) != 2*group.ElementSize {
		return "", "", fmt.Errorf("sealed halves: want %d bytes, got %d", 2*group.ElementSize, len(raw))
	}
	return hex.EncodeToString(raw[:group.ElementSize]), hex.EncodeToString(raw[group.ElementSize:]), nil
}

// seal derives a key from passphrase and a fresh salt and seals raw. The
// nonce is zero since the salt makes every key unique.
func seal(passphrase string, raw, ad []byte) ([]byte, []byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	return salt, aead.Seal(nil, nonce[:], raw, ad), nil
}

func open(passphrase string, salt, sealed, ad []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	raw, err := aead.Open(nil, nonce[:], sealed, ad)
	if err != nil {
		return nil, ErrPassphrase
	}
	return raw, nil
}
