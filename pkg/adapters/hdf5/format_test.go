package hdf5

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/scigolib/hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/uwuw/pkg/core"
	"github.com/aretw0/uwuw/pkg/nucname"
)

func testLibrary() *core.Library {
	lib := core.NewLibrary()

	water := core.NewComposition(2)
	water.Set(nucname.MustParse("H1"), 2)
	water.Set(nucname.MustParse("O16"), 1)
	w := core.NewMaterial(water, -1, 1.0)
	w.Metadata[core.MetaName] = "Water"
	w.Metadata[core.MetaMatNumber] = 1
	lib.Add(w)

	fuel := core.NewComposition(2)
	fuel.Set(nucname.MustParse("U235"), 0.05)
	fuel.Set(nucname.MustParse("U238"), 0.95)
	u := core.NewMaterial(fuel, 1, 10.4)
	u.Metadata[core.MetaName] = "Fuel"
	lib.Add(u)

	return lib
}

func TestFormat_RoundTrip(t *testing.T) {
	f := NewFormat(nil)
	path := filepath.Join(t.TempDir(), "lib.h5m")

	require.NoError(t, f.Write(path, "/materials", testLibrary()))

	lib, err := f.Read(path, "/materials")
	require.NoError(t, err)
	require.Equal(t, []string{"Water", "Fuel"}, lib.Names())

	water, _ := lib.Get("Water")
	assert.Equal(t, 1.0, water.Density)
	assert.Equal(t, -1.0, water.AtomsPerMolecule)
	assert.Equal(t, []nucname.ID{nucname.MustParse("H1"), nucname.MustParse("O16")}, water.Comp.Nuclides())
	h, _ := water.Comp.Get(nucname.MustParse("H1"))
	assert.InDelta(t, 2.0/3.0, h, 1e-12)

	fuel, _ := lib.Get("Fuel")
	num, _ := fuel.Metadata.String(core.MetaMatNumber)
	assert.Equal(t, "2", num)
	assert.Equal(t, 10.4, fuel.Density)
}

func TestFormat_NestedDatapath(t *testing.T) {
	f := NewFormat(nil)
	path := filepath.Join(t.TempDir(), "lib.h5")

	require.NoError(t, f.Write(path, "/model/materials", testLibrary()))

	lib, err := f.Read(path, "model/materials/")
	require.NoError(t, err)
	assert.Equal(t, 2, lib.Len())

	_, err = f.Read(path, "/materials")
	assert.True(t, errors.Is(err, core.ErrDatapathNotFound), "got %v", err)
}

func TestFormat_EmptyLibrary(t *testing.T) {
	f := NewFormat(nil)
	path := filepath.Join(t.TempDir(), "empty.h5m")

	require.NoError(t, f.Write(path, "/materials", core.NewLibrary()))

	lib, err := f.Read(path, "/materials")
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
}

func TestFormat_ForeignLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.h5")
	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate)
	require.NoError(t, err)
	ds, err := fw.CreateDataset("/temperature", hdf5.Float64, []uint64{3})
	require.NoError(t, err)
	require.NoError(t, ds.Write([]float64{1, 2, 3}))
	require.NoError(t, fw.Close())

	_, err = NewFormat(nil).Read(path, "/materials")
	assert.ErrorIs(t, err, core.ErrDatapathNotFound)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "materials_", prefix("/materials"))
	assert.Equal(t, "model_materials_", prefix("model/materials/"))
	assert.Equal(t, "", prefix("/"))
}

func TestFormat_OpenMissing(t *testing.T) {
	_, err := NewFormat(nil).Read(filepath.Join(t.TempDir(), "nope.h5"), "/materials")
	assert.Error(t, err)
}

func TestColumns_Inconsistent(t *testing.T) {
	c := &columns{
		nucid:    []int64{10010000},
		comp:     []float64{1},
		offset:   []int64{0, 2},
		mass:     []float64{1},
		density:  []float64{1},
		apm:      []float64{-1},
		metadata: []string{`{"name":"x"}`},
	}
	_, err := c.library()
	assert.Error(t, err)

	c.offset = []int64{0, 1}
	c.nucid = []int64{7}
	_, err = c.library()
	assert.ErrorIs(t, err, nucname.ErrInvalidNuclide)

	c.nucid = []int64{10010000}
	lib, err := c.library()
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, lib.Names())
}
