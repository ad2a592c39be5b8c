// Package config holds the settings of the splitdh command, read from an
// optional TOML file.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/f3rmion/splitdh/bjj"
	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/internal/keystore"
	"github.com/f3rmion/splitdh/log"
	"github.com/f3rmion/splitdh/splitkey"
	"github.com/f3rmion/splitdh/x25519"
)

// Config is the content of a splitdh config file.
type Config struct {
	// Curve selects the parameter set: "curve25519" or "babyjubjub".
	Curve string `toml:"curve"`

	// Ratchets is the number of ratchet steps the demo runs per party.
	Ratchets int `toml:"ratchets"`

	// Hasher selects the key derivation: "sha256", "blake2b" or "hkdf".
	Hasher string `toml:"hasher"`

	// Info is the context string mixed into derived keys.
	Info string `toml:"info"`

	// KeyFolder is where keygen writes split keys.
	KeyFolder string `toml:"key_folder"`

	// KeyStore selects the key backend: "file" or "bolt".
	KeyStore string `toml:"key_store"`

	LogLevel string `toml:"log_level"`
	JSONLogs bool   `toml:"json_logs"`
}

var groups = map[string]func() group.Group{
	"curve25519": func() group.Group { return x25519.New() },
	"x25519":     func() group.Group { return x25519.New() },
	"babyjubjub": func() group.Group { return bjj.New() },
	"bjj":        func() group.Group { return bjj.New() },
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Curve:     "curve25519",
		Ratchets:  3,
		Hasher:    "sha256",
		Info:      "splitdh demo",
		KeyFolder: ".splitdh",
		KeyStore:  "file",
		LogLevel:  "info",
	}
}

// Load reads path on top of the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every field holds a supported value.
func (c *Config) Validate() error {
	if _, err := c.Group(); err != nil {
		return err
	}
	if _, err := c.KeyHasher(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.KeyStore) {
	case "", "file", "bolt":
	default:
		return fmt.Errorf("unknown key store %q, want file or bolt", c.KeyStore)
	}
	if c.Ratchets < 0 {
		return fmt.Errorf("ratchets must not be negative, got %d", c.Ratchets)
	}
	return nil
}

// Group returns the group named by Curve.
func (c *Config) Group() (group.Group, error) {
	newGroup, ok := groups[strings.ToLower(c.Curve)]
	if !ok {
		return nil, fmt.Errorf("unknown curve %q, want one of %s", c.Curve, strings.Join(CurveNames(), ", "))
	}
	return newGroup(), nil
}

// KeyHasher returns the hasher named by Hasher.
func (c *Config) KeyHasher() (splitkey.Hasher, error) {
	switch strings.ToLower(c.Hasher) {
	case "", "sha256":
		return &splitkey.SHA256Hasher{}, nil
	case "blake2b":
		return splitkey.NewBlake2bHasher(), nil
	case "hkdf":
		return splitkey.NewHKDFHasher(), nil
	}
	return nil, fmt.Errorf("unknown hasher %q", c.Hasher)
}

// Logger builds a logger from LogLevel and JSONLogs.
func (c *Config) Logger() (log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(nil, level, c.JSONLogs), nil
}

// OpenStore opens the key backend named by KeyStore in KeyFolder. Halves
// are sealed with passphrase unless it is empty.
func (c *Config) OpenStore(passphrase string) (keystore.Store, error) {
	switch strings.ToLower(c.KeyStore) {
	case "", "file":
		return keystore.NewFileStore(c.KeyFolder).WithPassphrase(passphrase), nil
	case "bolt":
		return keystore.NewBoltStore(c.KeyFolder, passphrase)
	}
	return nil, fmt.Errorf("unknown key store %q", c.KeyStore)
}

// CurveNames lists the accepted curve names.
func CurveNames() []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
