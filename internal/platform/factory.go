package platform

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/uwuw/pkg/core"
	"github.com/aretw0/uwuw/pkg/openmc"
)

// Workflow is a material library loaded from one file, together with the
// canonical path it was read from. A Workflow never reloads: open a new one
// to pick up changes.
type Workflow struct {
	FullFilepath    string
	Datapath        string
	MaterialLibrary *core.Library
}

// NewService builds a library service from options.
func NewService(opts ...Option) *core.Service {
	return newService(applyOptions(opts))
}

// New resolves path and loads its material library.
//
//	wf, err := uwuw.New("geometry.h5m", uwuw.WithDatapath("/materials"))
func New(path string, opts ...Option) (*Workflow, error) {
	return Open(context.Background(), path, opts...)
}

// Open is New with a caller supplied context.
func Open(ctx context.Context, path string, opts ...Option) (*Workflow, error) {
	full, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	lib, err := newService(o).LoadLibrary(ctx, full)
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Info("workflow loaded", "path", full, "materials", lib.Len())
	}

	return &Workflow{
		FullFilepath:    full,
		Datapath:        o.datapath,
		MaterialLibrary: lib,
	}, nil
}

// Save writes lib to path under the configured datapath.
func Save(ctx context.Context, path string, lib *core.Library, opts ...Option) error {
	full, err := ResolvePath(path)
	if err != nil {
		return err
	}
	return newService(applyOptions(opts)).SaveLibrary(ctx, full, lib)
}

// Material returns a material by name.
func (w *Workflow) Material(name string) (*core.Material, bool) {
	return w.MaterialLibrary.Get(name)
}

// WriteOpenMC renders the library as an OpenMC materials.xml document.
func (w *Workflow) WriteOpenMC(out io.Writer) error {
	if err := openmc.WriteLibrary(out, w.MaterialLibrary); err != nil {
		return fmt.Errorf("render %s: %w", w.FullFilepath, err)
	}
	return nil
}
