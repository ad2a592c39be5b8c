package keystore

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/f3rmion/splitdh/splitkey"
)

const (
	privateExtension = ".private"
	publicExtension  = ".public"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps keys as TOML files in a single folder.
type FileStore struct {
	folder     string
	passphrase string
}

// NewFileStore returns a store rooted at folder. The folder is created on
// first save.
func NewFileStore(folder string) *FileStore {
	return &FileStore{folder: folder}
}

// WithPassphrase returns a store on the same folder that seals the halves
// of saved keys with passphrase. An empty passphrase disables sealing.
func (f *FileStore) WithPassphrase(passphrase string) *FileStore {
	return &FileStore{folder: f.folder, passphrase: passphrase}
}

// PrivatePath returns the path of the private file for name. Callers must
// check name with ValidName first.
func (f *FileStore) PrivatePath(name string) string {
	return filepath.Join(f.folder, name+privateExtension)
}

// PublicPath returns the path of the public file for name.
func (f *FileStore) PublicPath(name string) string {
	return filepath.Join(f.folder, name+publicExtension)
}

// Location implements Store.
func (f *FileStore) Location(name string) string {
	return f.PrivatePath(name)
}

// SaveKey implements Store.
func (f *FileStore) SaveKey(name, curve string, k *splitkey.SplitKey) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(f.folder, 0o700); err != nil {
		return fmt.Errorf("failed to create key folder: %w", err)
	}

	kt, err := encodeKey(curve, k, f.passphrase)
	if err != nil {
		return err
	}
	if err := save(f.PrivatePath(name), kt, 0o600); err != nil {
		return err
	}
	return save(f.PublicPath(name), &PublicTOML{Curve: curve, Public: kt.Public}, 0o644)
}

// LoadKey implements Store.
func (f *FileStore) LoadKey(name string) (string, *splitkey.SplitKey, error) {
	if err := ValidName(name); err != nil {
		return "", nil, err
	}
	var kt KeyTOML
	if err := load(f.PrivatePath(name), &kt); err != nil {
		return "", nil, err
	}
	return decodeKey(&kt, f.passphrase)
}

// LoadPublic implements Store.
func (f *FileStore) LoadPublic(name string) (string, *big.Int, error) {
	if err := ValidName(name); err != nil {
		return "", nil, err
	}
	var pt PublicTOML
	if err := load(f.PublicPath(name), &pt); err != nil {
		return "", nil, err
	}
	return decodePublic(pt.Curve, pt.Public)
}

// Close implements Store. A FileStore holds no resources.
func (f *FileStore) Close() error {
	return nil
}

func save(path string, v interface{}, perm os.FileMode) error {
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	// an existing file keeps its mode on open
	if err := fd.Chmod(perm); err != nil {
		_ = fd.Close()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := toml.NewEncoder(fd).Encode(v); err != nil {
		_ = fd.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func load(path string, v interface{}) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrAbsent, path)
		}
		return err
	}
	return nil
}
