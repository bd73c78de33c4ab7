// Package uwuw loads material libraries for neutronics workflows and renders
// them for the OpenMC transport code.
//
// A library is an ordered set of named materials, each a normalized
// nuclide composition with density and metadata. Libraries live in HDF5
// files (.h5, .h5m, .hdf5) under a datapath, or in JSON, YAML and
// msgpack documents keyed the same way.
//
// Usage:
//
//	wf, err := uwuw.New("geometry.h5m", uwuw.WithDatapath("/materials"))
//	if err != nil {
//		return err
//	}
//	for it := wf.MaterialLibrary.Iter(); it.Next(); {
//		xml, _ := openmc.FormatMaterial(it.Material())
//		fmt.Print(xml)
//	}
//
// The cmd/uwuw binary wraps the same operations for shell use.
package uwuw
