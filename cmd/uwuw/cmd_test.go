package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/uwuw"
	"github.com/aretw0/uwuw/pkg/core"
	"github.com/aretw0/uwuw/pkg/nucname"
)

// run executes the CLI in-process from dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)

	verbose, datapath, listJSON = false, "", false
	openmcOutput, convertDatapath, watchOutput = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func library(names ...string) *core.Library {
	lib := core.NewLibrary()
	for _, n := range names {
		comp := core.NewComposition(2)
		comp.Set(nucname.MustParse("H1"), 2)
		comp.Set(nucname.MustParse("O16"), 1)
		m := core.NewMaterial(comp, -1, 1.0)
		m.Metadata[core.MetaName] = n
		lib.Add(m)
	}
	return lib
}

func TestResolveCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "resolve", "geometry.h5m")
	require.NoError(t, err)

	cwd, _ := os.Getwd()
	assert.Equal(t, cwd+string(filepath.Separator)+"geometry.h5m\n", out)
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, uwuw.Save(context.Background(), filepath.Join(dir, "lib.json"), library("Water", "Ice")))

	out, err := run(t, dir, "list", "lib.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Water")
	assert.Contains(t, out, "Ice")
	assert.Contains(t, out, "g/cc")

	out, err = run(t, dir, "list", "--json", "lib.json")
	require.NoError(t, err)
	var entries []materialEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Ice", entries[1].Name)
	assert.Equal(t, "2", entries[1].MatNumber)
	assert.Equal(t, "H1", entries[0].Nuclides[0].Nuclide)
}

func TestOpenMCCommand_GlobAndMerge(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "libs", "deep"), 0755))
	require.NoError(t, uwuw.Save(ctx, filepath.Join(dir, "libs", "a.json"), library("Water", "Ice")))
	require.NoError(t, uwuw.Save(ctx, filepath.Join(dir, "libs", "deep", "b.yaml"), library("Steam")))

	_, err := run(t, dir, "openmc", "libs/**/*.json", "libs/**/*.yaml", "-o", "materials.xml")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "materials.xml"))
	require.NoError(t, err)
	xml := string(data)
	assert.True(t, strings.HasPrefix(xml, "<?xml version=\"1.0\"?>\n<materials>\n"))
	assert.Equal(t, 3, strings.Count(xml, "<material "))
	assert.Less(t, strings.Index(xml, `name="Ice"`), strings.Index(xml, `name="Steam"`))
	assert.Contains(t, xml, `<material id="1" name="Water" >`)
	assert.Contains(t, xml, `<material id="2" name="Ice" >`)
	assert.Contains(t, xml, `<material id="3" name="Steam" >`, "merged ids stay unique")
}

func TestOpenMCCommand_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uwuw.toml"), []byte(`
[library]
datapath = "/mats"
files = ["*.msgpack"]

[openmc]
output = "-"
`), 0644))
	require.NoError(t, uwuw.Save(context.Background(), filepath.Join(dir, "lib.msgpack"), library("Water"), uwuw.WithDatapath("/mats")))

	out, err := run(t, dir, "openmc")
	require.NoError(t, err)
	assert.Contains(t, out, `<material id="1" name="Water" >`)
}

func TestRootCommand_BadProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uwuw.toml"), []byte("[library\n"), 0644))

	_, err := run(t, dir, "resolve", "geometry.h5m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading project file")
}

func TestOpenMCCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "openmc")
	assert.Error(t, err, "no inputs and no project file")

	_, err = run(t, dir, "openmc", "missing.h5m", "-o", "-")
	assert.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, uwuw.Save(context.Background(), filepath.Join(dir, "lib.json"), library("Water")))

	_, err := run(t, dir, "convert", "lib.json", "out.yaml", "--to-datapath", "/converted")
	require.NoError(t, err)

	wf, err := uwuw.New(filepath.Join(dir, "out.yaml"), uwuw.WithDatapath("/converted"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Water"}, wf.MaterialLibrary.Names())

	_, err = run(t, dir, "--datapath", "/nope", "convert", "lib.json", "out2.yaml")
	assert.ErrorIs(t, err, core.ErrDatapathNotFound)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "uwuw version "+strings.TrimSpace(uwuw.Version)+"\n", out)
}
