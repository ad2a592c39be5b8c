package keystore

import (
	"bytes"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	bolt "go.etcd.io/bbolt"

	"github.com/f3rmion/splitdh/splitkey"
)

// BoltFileName is the name of the file boltdb writes to
const BoltFileName = "keys.db"

// BoltStoreOpenPerm is the permission of the bolt file on disk
const BoltStoreOpenPerm = 0o600

var keyBucket = []byte("keys")

var _ Store = (*BoltStore)(nil)

// BoltStore keeps keys in a bbolt database, one TOML record per name.
// It is safe for concurrent use.
type BoltStore struct {
	db         *bolt.DB
	passphrase string
}

// NewBoltStore opens or creates the database in folder. Halves are sealed
// with passphrase unless it is empty.
func NewBoltStore(folder, passphrase string) (*BoltStore, error) {
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key folder: %w", err)
	}

	dbPath := filepath.Join(folder, BoltFileName)
	db, err := bolt.Open(dbPath, BoltStoreOpenPerm, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}
	// create the bucket already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(keyBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db, passphrase: passphrase}, nil
}

// Location implements Store.
func (b *BoltStore) Location(name string) string {
	return b.db.Path() + "#" + name
}

// SaveKey implements Store.
func (b *BoltStore) SaveKey(name, curve string, k *splitkey.SplitKey) error {
	if err := ValidName(name); err != nil {
		return err
	}
	kt, err := encodeKey(curve, k, b.passphrase)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(kt); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(keyBucket).Put([]byte(name), buf.Bytes())
	})
}

// LoadKey implements Store.
func (b *BoltStore) LoadKey(name string) (string, *splitkey.SplitKey, error) {
	kt, err := b.get(name)
	if err != nil {
		return "", nil, err
	}
	return decodeKey(kt, b.passphrase)
}

// LoadPublic implements Store.
func (b *BoltStore) LoadPublic(name string) (string, *big.Int, error) {
	kt, err := b.get(name)
	if err != nil {
		return "", nil, err
	}
	return decodePublic(kt.Curve, kt.Public)
}

// Close closes the database.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

func (b *BoltStore) get(name string) (*KeyTOML, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	var kt KeyTOML
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(keyBucket).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrAbsent, name)
		}
		// v is only valid inside the transaction
		_, err := toml.Decode(string(v), &kt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &kt, nil
}
