package fs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), TempFilePrefix) {
			out = append(out, e.Name())
		}
	}
	return out
}

func TestReplaceFile(t *testing.T) {
	t.Run("creates library", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "lib.json")

		require.NoError(t, replaceFile(target, func(staging string) error {
			return writeStaged(staging, []byte(`{"materials":[]}`))
		}))

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.JSONEq(t, `{"materials":[]}`, string(got))
		assert.Empty(t, stagedFiles(t, dir))
	})

	t.Run("staging keeps extension", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "geometry.h5m")
		var seen string
		require.NoError(t, replaceFile(target, func(staging string) error {
			seen = staging
			return writeStaged(staging, []byte("x"))
		}))
		assert.Equal(t, ".h5m", filepath.Ext(seen))
		assert.True(t, strings.HasPrefix(filepath.Base(seen), TempFilePrefix))
	})

	t.Run("keeps existing permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}
		target := filepath.Join(t.TempDir(), "lib.yaml")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0600))

		require.NoError(t, replaceFile(target, func(staging string) error {
			return writeStaged(staging, []byte("materials: []\n"))
		}))

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("failed fill leaves target untouched", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "lib.json")
		require.NoError(t, os.WriteFile(target, []byte("previous"), 0644))
		boom := errors.New("encoder failed")

		err := replaceFile(target, func(staging string) error {
			_ = writeStaged(staging, []byte("half"))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, _ := os.ReadFile(target)
		assert.Equal(t, "previous", string(got))
		assert.Empty(t, stagedFiles(t, dir))
	})

	t.Run("missing directory", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "missing", "lib.json")
		err := replaceFile(target, func(string) error {
			t.Fatal("fill must not run")
			return nil
		})
		assert.Error(t, err)
	})
}
