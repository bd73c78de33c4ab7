// Package hdf5 stores material libraries in HDF5 files (.h5, .h5m) as a set of
// root-level datasets. The datapath is flattened into a name prefix, so
// "/materials" and "/model/materials" map to "materials_" and
// "model_materials_":
//
//	/<prefix>nucid              int64   flattened nuclide ids of every material
//	/<prefix>comp               float64 fractions matching nucid
//	/<prefix>offset             int64   n+1 offsets into nucid/comp
//	/<prefix>mass               float64 one per material
//	/<prefix>density            float64 one per material
//	/<prefix>atoms_per_molecule float64 one per material
//	/<prefix>metadata           string  one JSON object per material
//
// scigolib/hdf5 links new datasets into the root group only. Only offset is
// always present; the other columns are omitted when the library is empty.
//
// Libraries written by PyNE (compound rows plus variable-length metadata) are
// not readable with this layout; Read reports ErrDatapathNotFound for them.
package hdf5

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scigolib/hdf5"

	"github.com/aretw0/uwuw/pkg/core"
	"github.com/aretw0/uwuw/pkg/nucname"
)

// Column names, appended to the datapath prefix.
const (
	DatasetNucid            = "nucid"
	DatasetComp             = "comp"
	DatasetOffset           = "offset"
	DatasetMass             = "mass"
	DatasetDensity          = "density"
	DatasetAtomsPerMolecule = "atoms_per_molecule"
	DatasetMetadata         = "metadata"
)

// Format reads and writes HDF5 material libraries.
type Format struct {
	logger *slog.Logger
}

// NewFormat returns an HDF5 format. A nil logger discards output.
func NewFormat(logger *slog.Logger) *Format {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Format{logger: logger}
}

// columns is the flattened, column-oriented view of a library.
type columns struct {
	nucid    []int64
	comp     []float64
	offset   []int64
	mass     []float64
	density  []float64
	apm      []float64
	metadata []string
}

func flatten(lib *core.Library) (*columns, error) {
	c := &columns{offset: []int64{0}}
	for _, m := range lib.All() {
		for id, f := range m.Comp.All() {
			c.nucid = append(c.nucid, int64(id))
			c.comp = append(c.comp, f)
		}
		c.offset = append(c.offset, int64(len(c.nucid)))
		c.mass = append(c.mass, m.Mass)
		c.density = append(c.density, m.Density)
		c.apm = append(c.apm, m.AtomsPerMolecule)

		meta, err := json.Marshal(m.Metadata)
		if err != nil {
			return nil, fmt.Errorf("material %q metadata: %w", m.Name(), err)
		}
		c.metadata = append(c.metadata, string(meta))
	}
	return c, nil
}

func (c *columns) library() (*core.Library, error) {
	n := len(c.mass)
	if len(c.offset) != n+1 || len(c.density) != n || len(c.apm) != n || len(c.metadata) != n {
		return nil, fmt.Errorf("inconsistent library columns: %d materials, %d offsets", n, len(c.offset))
	}
	if len(c.nucid) != len(c.comp) {
		return nil, fmt.Errorf("inconsistent library columns: %d nuclides, %d fractions", len(c.nucid), len(c.comp))
	}

	lib := core.NewLibrary()
	for i := 0; i < n; i++ {
		lo, hi := c.offset[i], c.offset[i+1]
		if lo < 0 || hi < lo || hi > int64(len(c.nucid)) {
			return nil, fmt.Errorf("material %d: offsets [%d, %d) out of range", i, lo, hi)
		}

		comp := core.NewComposition(int(hi - lo))
		for j := lo; j < hi; j++ {
			id := nucname.ID(c.nucid[j])
			if !id.Valid() {
				return nil, fmt.Errorf("material %d: %w: %d", i, nucname.ErrInvalidNuclide, c.nucid[j])
			}
			comp.Set(id, c.comp[j])
		}

		meta := core.Metadata{}
		if s := c.metadata[i]; s != "" {
			if err := json.Unmarshal([]byte(s), &meta); err != nil {
				return nil, fmt.Errorf("material %d metadata: %w", i, err)
			}
		}

		lib.Add(&core.Material{
			Comp:             comp,
			Mass:             c.mass[i],
			Density:          c.density[i],
			AtomsPerMolecule: c.apm[i],
			Metadata:         meta,
		})
	}
	return lib, nil
}

// prefix flattens a datapath into the root-level dataset name prefix.
func prefix(datapath string) string {
	p := strings.Trim(datapath, "/")
	if p == "" {
		return ""
	}
	return strings.ReplaceAll(p, "/", "_") + "_"
}

// Write replaces the file at path with lib stored under datapath.
func (f *Format) Write(path, datapath string, lib *core.Library) error {
	cols, err := flatten(lib)
	if err != nil {
		return err
	}

	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	pre := prefix(datapath)
	writes := []struct {
		name string
		fn   func(name string) error
		skip bool
	}{
		{DatasetNucid, func(n string) error { return writeInt64(fw, n, cols.nucid) }, len(cols.nucid) == 0},
		{DatasetComp, func(n string) error { return writeFloat64(fw, n, cols.comp) }, len(cols.comp) == 0},
		{DatasetOffset, func(n string) error { return writeInt64(fw, n, cols.offset) }, false},
		{DatasetMass, func(n string) error { return writeFloat64(fw, n, cols.mass) }, len(cols.mass) == 0},
		{DatasetDensity, func(n string) error { return writeFloat64(fw, n, cols.density) }, len(cols.density) == 0},
		{DatasetAtomsPerMolecule, func(n string) error { return writeFloat64(fw, n, cols.apm) }, len(cols.apm) == 0},
		{DatasetMetadata, func(n string) error { return writeStrings(fw, n, cols.metadata) }, len(cols.metadata) == 0},
	}
	for _, w := range writes {
		if w.skip {
			continue
		}
		if err := w.fn("/" + pre + w.name); err != nil {
			_ = fw.Close()
			return fmt.Errorf("failed to write /%s%s: %w", pre, w.name, err)
		}
	}

	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	f.logger.Debug("hdf5 library written", "path", path, "datapath", datapath, "materials", lib.Len())
	return nil
}

func writeInt64(fw *hdf5.FileWriter, name string, data []int64) error {
	ds, err := fw.CreateDataset(name, hdf5.Int64, []uint64{uint64(len(data))})
	if err != nil {
		return err
	}
	return ds.Write(data)
}

func writeFloat64(fw *hdf5.FileWriter, name string, data []float64) error {
	ds, err := fw.CreateDataset(name, hdf5.Float64, []uint64{uint64(len(data))})
	if err != nil {
		return err
	}
	return ds.Write(data)
}

func writeStrings(fw *hdf5.FileWriter, name string, data []string) error {
	size := 1
	for _, s := range data {
		if len(s) > size {
			size = len(s)
		}
	}
	ds, err := fw.CreateDataset(name, hdf5.String, []uint64{uint64(len(data))}, hdf5.WithStringSize(uint32(size)))
	if err != nil {
		return err
	}
	return ds.Write(data)
}

// Read loads the library stored under datapath.
func (f *Format) Read(path, datapath string) (*core.Library, error) {
	file, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	pre := prefix(datapath)
	datasets := make(map[string]*hdf5.Dataset)
	for _, obj := range file.Root().Children() {
		ds, ok := obj.(*hdf5.Dataset)
		if !ok {
			continue
		}
		name := strings.TrimPrefix(ds.Name(), "/")
		if col, ok := strings.CutPrefix(name, pre); ok {
			datasets[col] = ds
		}
	}
	if _, ok := datasets[DatasetOffset]; !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDatapathNotFound, datapath)
	}

	cols := &columns{}
	var errs []error
	readFloats := func(name string, optional bool) []float64 {
		ds, ok := datasets[name]
		if !ok {
			if !optional {
				errs = append(errs, fmt.Errorf("missing dataset /%s%s", pre, name))
			}
			return nil
		}
		v, err := ds.Read()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read /%s%s: %w", pre, name, err))
		}
		return v
	}

	cols.nucid = toInt64(readFloats(DatasetNucid, true))
	cols.comp = readFloats(DatasetComp, true)
	cols.offset = toInt64(readFloats(DatasetOffset, false))
	cols.mass = readFloats(DatasetMass, true)
	cols.density = readFloats(DatasetDensity, true)
	cols.apm = readFloats(DatasetAtomsPerMolecule, true)
	if ds, ok := datasets[DatasetMetadata]; ok {
		cols.metadata, err = ds.ReadStrings()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read /%s%s: %w", pre, DatasetMetadata, err))
		}
		for i, s := range cols.metadata {
			cols.metadata[i] = strings.TrimRight(s, "\x00 ")
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	lib, err := cols.library()
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", path, datapath, err)
	}
	f.logger.Debug("hdf5 library read", "path", path, "datapath", datapath, "materials", lib.Len())
	return lib, nil
}

func toInt64(v []float64) []int64 {
	if v == nil {
		return nil
	}
	out := make([]int64, len(v))
	for i, f := range v {
		out[i] = int64(f)
	}
	return out
}
