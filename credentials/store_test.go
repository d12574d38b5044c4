package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	require.False(t, s.Has())

	require.NoError(t, s.Save("alice", "hunter2"))
	require.True(t, s.Has())

	user, pass, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "alice", user)
	require.Equal(t, "hunter2", pass)
}

func TestStoreEncryptsAtRest(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Save("alice", "hunter2"))

	raw, err := os.ReadFile(filepath.Join(dir, ".credentials"))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "alice")
	require.NotContains(t, string(raw), "hunter2")

	info, err := os.Stat(filepath.Join(dir, ".key"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save("alice", "hunter2"))
	require.NoError(t, s.Delete())
	require.False(t, s.Has())

	// Deleting an empty store is not an error.
	require.NoError(t, s.Delete())

	_, _, err := s.Load()
	require.Error(t, err)
}

func TestStoreRejectsTamperedCiphertext(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Save("alice", "hunter2"))

	path := filepath.Join(dir, ".credentials")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, _, err = s.Load()
	require.Error(t, err)
}
