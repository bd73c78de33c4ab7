package platform

import (
	"github.com/aretw0/uwuw/pkg/adapters/fs"
	"github.com/aretw0/uwuw/pkg/adapters/hdf5"
	"github.com/aretw0/uwuw/pkg/core"
)

// HDF5Extensions lists the extensions served by the HDF5 format.
var HDF5Extensions = []string{".h5", ".h5m", ".hdf5"}

// newStore builds the store described by the options.
func newStore(o *options) core.Store {
	if o.store != nil {
		return o.store
	}

	cache, _ := o.config["cache"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	store := fs.NewStore(fs.Config{
		Logger:       o.logger,
		Cache:        cache,
		ReadOnly:     readOnly,
		ErrorHandler: errorHandler,
	})

	h5 := hdf5.NewFormat(o.logger)
	for _, ext := range HDF5Extensions {
		store.RegisterFormat(ext, h5)
	}
	for ext, f := range o.formats {
		store.RegisterFormat(ext, f)
	}
	for ext, s := range o.serializers {
		store.RegisterSerializer(ext, s)
	}

	if o.logger != nil {
		o.logger.Debug("store configured", "cache", cache, "read_only", readOnly, "extensions", store.Extensions())
	}
	return store
}

func newService(o *options) *core.Service {
	eventBuffer, _ := o.config["event_buffer"].(int)
	return core.NewService(newStore(o), core.ServiceConfig{
		Datapath:    o.datapath,
		Logger:      o.logger,
		EventBuffer: eventBuffer,
	})
}
