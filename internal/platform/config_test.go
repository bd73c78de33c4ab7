package platform

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/uwuw/pkg/core"
)

func writeProject(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, `
[library]
datapath = "/reactor/materials"
files = ["geometry/*.h5m", "/abs/lib.json"]

[openmc]
output = "build/materials.xml"

[tallies]
enabled = true
`)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg, err := LoadConfig(path, logger)
	require.NoError(t, err)

	assert.Equal(t, "/reactor/materials", cfg.Library.Datapath)
	assert.Equal(t, "build/materials.xml", cfg.OpenMC.Output)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, []string{filepath.Join(dir, "geometry/*.h5m"), "/abs/lib.json"}, cfg.LibraryPatterns())
	assert.Contains(t, logs.String(), "tallies.enabled")
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeProject(t, t.TempDir(), "[library]\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultDatapath, cfg.Library.Datapath)
	assert.Equal(t, "materials.xml", cfg.OpenMC.Output)
	assert.Empty(t, cfg.LibraryPatterns())
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeProject(t, t.TempDir(), "[library\ndatapath = ")
	_, err := LoadConfig(path, nil)
	assert.Error(t, err)
}

func TestDiscoverConfig(t *testing.T) {
	base := t.TempDir()
	project := filepath.Join(base, "project")
	nested := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeProject(t, project, "[library]\ndatapath = \"/found\"\n")

	cfg, found, err := DiscoverConfig(nested, nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/found", cfg.Library.Datapath)

	other := filepath.Join(base, "other")
	require.NoError(t, os.MkdirAll(other, 0755))
	cfg, found, err = DiscoverConfig(other, nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, DefaultConfig(), cfg)
}
