package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var publicLine = regexp.MustCompile(`public:\s+([0-9a-f]{64})`)

func TestDemo(t *testing.T) {
	for _, curve := range []string{"curve25519", "babyjubjub"} {
		t.Run(curve, func(t *testing.T) {
			out, err := run(t, "demo", "--curve", curve, "--ratchets", "2", "--log-level", "error")
			require.NoError(t, err, out)
			require.Contains(t, out, "curve:       "+curve)
			require.Contains(t, out, "step 2")
			require.Contains(t, out, "agreement:   ok")
			// alice's client and bob each ratchet once per step
			require.Regexp(t, `splitdh_session_updates_total\{result=ok\}\s+2\n`, out)
			require.Regexp(t, `splitdh_session_ratchets_total\s+4\n`, out)
		})
	}
}

func TestDemoWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splitdh.toml")
	content := "curve = \"bjj\"\nratchets = 1\nhasher = \"blake2b\"\nlog_level = \"error\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := run(t, "demo", "--config", path)
	require.NoError(t, err, out)
	require.Contains(t, out, "babyjubjub")
	require.Contains(t, out, "step 1")
	require.NotContains(t, out, "step 2")

	// the flag wins over the file
	out, err = run(t, "demo", "--config", path, "--curve", "curve25519")
	require.NoError(t, err, out)
	require.Contains(t, out, "curve:       curve25519")
}

func TestBadFlags(t *testing.T) {
	_, err := run(t, "demo", "--curve", "p256")
	require.Error(t, err)

	_, err = run(t, "demo", "--ratchets", "-1")
	require.Error(t, err)

	_, err = run(t, "params", "--log-level", "loud")
	require.Error(t, err)
}

func TestKeygenAndShared(t *testing.T) {
	keys := t.TempDir()

	outA, err := run(t, "keygen", "--keys", keys, "--name", "alice", "--log-level", "error")
	require.NoError(t, err, outA)
	outB, err := run(t, "keygen", "--keys", keys, "--name", "bob", "--log-level", "error")
	require.NoError(t, err, outB)

	pubA := publicLine.FindStringSubmatch(outA)
	require.Len(t, pubA, 2)

	// alice uses bob's stored public key, bob uses alice's hex key
	sharedA, err := run(t, "shared", "--keys", keys, "--name", "alice", "--peer-name", "bob", "--log-level", "error")
	require.NoError(t, err, sharedA)
	sharedB, err := run(t, "shared", "--keys", keys, "--name", "bob", "--peer", pubA[1], "--log-level", "error")
	require.NoError(t, err, sharedB)
	require.Equal(t, sharedA, sharedB)

	// ratcheting alice's stored split leaves the shared key alone
	out, err := run(t, "ratchet", "--keys", keys, "--name", "alice", "--steps", "2", "--log-level", "error")
	require.NoError(t, err, out)
	require.Contains(t, out, pubA[1])

	after, err := run(t, "shared", "--keys", keys, "--name", "alice", "--peer-name", "bob", "--log-level", "error")
	require.NoError(t, err, after)
	require.Equal(t, sharedA, after)

	t.Run("Errors", func(t *testing.T) {
		_, err := run(t, "shared", "--keys", keys, "--name", "alice")
		require.Error(t, err)
		_, err = run(t, "shared", "--keys", keys, "--name", "alice", "--peer", "zz")
		require.Error(t, err)
		_, err = run(t, "shared", "--keys", keys, "--name", "alice", "--peer", pubA[1], "--peer-name", "bob")
		require.Error(t, err)
		_, err = run(t, "shared", "--keys", keys, "--name", "carol", "--peer-name", "bob")
		require.Error(t, err)
		_, err = run(t, "ratchet", "--keys", keys, "--name", "alice", "--steps", "0")
		require.Error(t, err)
	})
}

func TestSealedKeys(t *testing.T) {
	keys := t.TempDir()

	_, err := run(t, "keygen", "--keys", keys, "--name", "alice", "-p", "secret", "--log-level", "error")
	require.NoError(t, err)
	_, err = run(t, "keygen", "--keys", keys, "--name", "bob", "--log-level", "error")
	require.NoError(t, err)

	_, err = run(t, "shared", "--keys", keys, "--name", "alice", "--peer-name", "bob", "--log-level", "error")
	require.Error(t, err)

	out, err := run(t, "shared", "--keys", keys, "--name", "alice", "--peer-name", "bob", "-p", "secret", "--log-level", "error")
	require.NoError(t, err, out)
	require.Contains(t, out, "shared:")
}

func TestSharedCurveMismatch(t *testing.T) {
	keys := t.TempDir()

	_, err := run(t, "keygen", "--keys", keys, "--name", "alice", "--log-level", "error")
	require.NoError(t, err)
	_, err = run(t, "keygen", "--keys", keys, "--name", "bob", "--curve", "babyjubjub", "--log-level", "error")
	require.NoError(t, err)

	_, err = run(t, "shared", "--keys", keys, "--name", "alice", "--peer-name", "bob", "--log-level", "error")
	require.Error(t, err)
}

func TestParams(t *testing.T) {
	out, err := run(t, "params")
	require.NoError(t, err)
	require.Contains(t, out, "A:           486662")
	require.Contains(t, out, "base x:      9")
	require.Contains(t, out, "cofactor:    8")

	out, err = run(t, "params", "--curve", "babyjubjub")
	require.NoError(t, err)
	require.Contains(t, out, "A:           168698")
}

func TestBoltStore(t *testing.T) {
	keys := t.TempDir()
	path := filepath.Join(t.TempDir(), "splitdh.toml")
	content := "key_folder = \"" + filepath.ToSlash(keys) + "\"\nkey_store = \"bolt\"\nlog_level = \"error\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	outA, err := run(t, "keygen", "-c", path, "--name", "alice")
	require.NoError(t, err, outA)
	require.Contains(t, outA, "keys.db#alice")
	require.NotContains(t, outA, "share:")
	_, err = run(t, "keygen", "-c", path, "--name", "bob", "-p", "secret")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(keys, "keys.db"))

	sharedA, err := run(t, "shared", "-c", path, "--name", "alice", "--peer-name", "bob")
	require.NoError(t, err, sharedA)

	pubA := publicLine.FindStringSubmatch(outA)
	require.Len(t, pubA, 2)
	sharedB, err := run(t, "shared", "-c", path, "--name", "bob", "--peer", pubA[1], "-p", "secret")
	require.NoError(t, err, sharedB)
	require.Equal(t, sharedA, sharedB)

	// a failed command leaves the database usable
	_, err = run(t, "shared", "-c", path, "--name", "bob", "--peer", pubA[1])
	require.Error(t, err)
	_, err = run(t, "ratchet", "-c", path, "--name", "alice", "--store", "bolt")
	require.NoError(t, err)

	// the file backend does not see bolt keys
	_, err = run(t, "shared", "-c", path, "--store", "file", "--name", "alice", "--peer-name", "bob")
	require.Error(t, err)
}
