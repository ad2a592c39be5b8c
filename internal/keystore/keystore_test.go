package keystore

import (
	"crypto/rand"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/splitdh/group"
	"github.com/f3rmion/splitdh/splitkey"
	"github.com/f3rmion/splitdh/x25519"
)

func newKey(t *testing.T) (*splitkey.Protocol, *splitkey.SplitKey) {
	t.Helper()
	p, err := splitkey.New(x25519.New())
	require.NoError(t, err)
	k, err := p.GenerateSplitKey(rand.Reader)
	require.NoError(t, err)
	return p, k
}

// backends opens every Store implementation on dir with passphrase.
func backends(t *testing.T, dir, passphrase string) map[string]Store {
	t.Helper()
	bs, err := NewBoltStore(dir, passphrase)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bs.Close() })

	return map[string]Store{
		"file": NewFileStore(dir).WithPassphrase(passphrase),
		"bolt": bs,
	}
}

func TestSaveLoadKey(t *testing.T) {
	p, k := newKey(t)

	for name, store := range backends(t, t.TempDir(), "") {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SaveKey("alice", "curve25519", k))

			curve, loaded, err := store.LoadKey("alice")
			require.NoError(t, err)
			require.Equal(t, "curve25519", curve)
			require.Equal(t, 0, k.Client.Cmp(loaded.Client))
			require.Equal(t, 0, k.Server.Cmp(loaded.Server))
			require.Equal(t, 0, k.Public.Cmp(loaded.Public))
			require.NoError(t, p.VerifySplitKey(loaded))

			curve, public, err := store.LoadPublic("alice")
			require.NoError(t, err)
			require.Equal(t, "curve25519", curve)
			require.Equal(t, 0, k.Public.Cmp(public))

			require.Contains(t, store.Location("alice"), "alice")
		})
	}
}

func TestOverwrite(t *testing.T) {
	p, k := newKey(t)
	ratcheted, err := p.Ratchet(rand.Reader, k)
	require.NoError(t, err)

	for name, store := range backends(t, t.TempDir(), "") {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SaveKey("alice", "curve25519", k))
			require.NoError(t, store.SaveKey("alice", "curve25519", ratcheted))

			_, loaded, err := store.LoadKey("alice")
			require.NoError(t, err)
			require.Equal(t, 0, ratcheted.Client.Cmp(loaded.Client))
		})
	}
}

func TestFileModes(t *testing.T) {
	_, k := newKey(t)

	store := NewFileStore(t.TempDir())
	require.NoError(t, store.SaveKey("alice", "curve25519", k))

	info, err := os.Stat(store.PrivatePath("alice"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// the public file carries no halves
	raw, err := os.ReadFile(store.PublicPath("alice"))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "Client")
	require.NotContains(t, string(raw), "Server")
}

func TestSealedKey(t *testing.T) {
	_, k := newKey(t)
	dir := t.TempDir()

	for name, store := range backends(t, dir, "correct horse") {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SaveKey("alice", "curve25519", k))

			_, loaded, err := store.LoadKey("alice")
			require.NoError(t, err)
			require.Equal(t, 0, k.Client.Cmp(loaded.Client))
			require.Equal(t, 0, k.Server.Cmp(loaded.Server))

			// the public key needs no passphrase
			_, public, err := store.LoadPublic("alice")
			require.NoError(t, err)
			require.Equal(t, 0, k.Public.Cmp(public))
		})
	}

	t.Run("FileContent", func(t *testing.T) {
		store := NewFileStore(dir)
		raw, err := os.ReadFile(store.PrivatePath("alice"))
		require.NoError(t, err)
		require.Contains(t, string(raw), "Sealed")
		require.NotContains(t, string(raw), "Client")

		client, err := FormatHex(k.Client)
		require.NoError(t, err)
		require.NotContains(t, string(raw), client)
	})

	t.Run("WrongPassphrase", func(t *testing.T) {
		_, _, err := NewFileStore(dir).LoadKey("alice")
		require.ErrorIs(t, err, ErrPassphrase)
		_, _, err = NewFileStore(dir).WithPassphrase("battery staple").LoadKey("alice")
		require.ErrorIs(t, err, ErrPassphrase)
	})
}

func TestBoltWrongPassphrase(t *testing.T) {
	_, k := newKey(t)
	dir := t.TempDir()

	bs, err := NewBoltStore(dir, "correct horse")
	require.NoError(t, err)
	require.NoError(t, bs.SaveKey("alice", "curve25519", k))
	require.NoError(t, bs.Close())

	// reopen without the passphrase
	bs, err = NewBoltStore(dir, "")
	require.NoError(t, err)
	defer bs.Close()

	_, _, err = bs.LoadKey("alice")
	require.ErrorIs(t, err, ErrPassphrase)
	_, _, err = bs.LoadPublic("alice")
	require.NoError(t, err)
}

func TestLoadAbsent(t *testing.T) {
	for name, store := range backends(t, t.TempDir(), "") {
		t.Run(name, func(t *testing.T) {
			_, _, err := store.LoadKey("nobody")
			require.ErrorIs(t, err, ErrAbsent)
			_, _, err = store.LoadPublic("nobody")
			require.ErrorIs(t, err, ErrAbsent)
		})
	}
}

func TestKeyNames(t *testing.T) {
	_, k := newKey(t)
	dir := t.TempDir()

	for name, store := range backends(t, dir, "") {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", ".", "..", "../alice", "keys/alice", `..\alice`} {
				require.ErrorIs(t, store.SaveKey(bad, "curve25519", k), ErrKeyName, bad)
				_, _, err := store.LoadKey(bad)
				require.ErrorIs(t, err, ErrKeyName, bad)
				_, _, err = store.LoadPublic(bad)
				require.ErrorIs(t, err, ErrKeyName, bad)
			}
			require.NoError(t, store.SaveKey("alice.v2", "curve25519", k))
		})
	}

	// nothing escaped the folder
	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), "alice")
	}
}

func TestSaveReportsWriteErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.toml")

	require.NoError(t, save(path, &PublicTOML{Curve: "curve25519", Public: "00"}, 0o600))
	var pt PublicTOML
	require.NoError(t, load(path, &pt))
	require.Equal(t, "curve25519", pt.Curve)

	// a value TOML cannot encode surfaces as an error
	require.Error(t, save(path, 42, 0o600))

	// a directory cannot be opened for writing
	require.Error(t, save(dir, &PublicTOML{}, 0o600))
}

func TestLoadCorrupted(t *testing.T) {
	store := NewFileStore(t.TempDir())
	content := "Curve = \"curve25519\"\nClient = \"zz\"\nServer = \"00\"\nPublic = \"00\"\n"
	require.NoError(t, os.WriteFile(store.PrivatePath("bad"), []byte(content), 0o600))

	_, _, err := store.LoadKey("bad")
	require.Error(t, err)
}

func TestHex(t *testing.T) {
	x := big.NewInt(0x0102)
	s, err := FormatHex(x)
	require.NoError(t, err)
	require.Len(t, s, 2*group.ElementSize)
	// little-endian
	require.Equal(t, "0201", s[:4])

	back, err := ParseHex(s)
	require.NoError(t, err)
	require.Equal(t, 0, x.Cmp(back))

	_, err = ParseHex("0201")
	require.Error(t, err)

	_, err = FormatHex(big.NewInt(-1))
	require.ErrorIs(t, err, group.ErrScalarRange)
}
