package platform

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aretw0/uwuw/pkg/core"
)

// Config is the content of a uwuw.toml project file.
type Config struct {
	Library LibraryConfig `toml:"library"`
	OpenMC  OpenMCConfig  `toml:"openmc"`

	// Root is the directory holding the file. Empty for defaults.
	Root string `toml:"-"`
}

// LibraryConfig selects where materials are read from.
type LibraryConfig struct {
	Datapath string   `toml:"datapath"`
	Files    []string `toml:"files"` // doublestar globs, relative to Root
}

// OpenMCConfig controls the materials.xml export.
type OpenMCConfig struct {
	Output string `toml:"output"`
}

// DefaultConfig returns the settings used when no project file exists.
func DefaultConfig() Config {
	return Config{
		Library: LibraryConfig{Datapath: core.DefaultDatapath},
		OpenMC:  OpenMCConfig{Output: "materials.xml"},
	}
}

// LoadConfig decodes a project file over the defaults. Unknown keys are
// reported through logger and otherwise ignored.
func LoadConfig(path string, logger *slog.Logger) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 && logger != nil {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("unknown keys in project file", "path", path, "keys", strings.Join(keys, ", "))
	}

	if cfg.Library.Datapath == "" {
		cfg.Library.Datapath = core.DefaultDatapath
	}
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

// DiscoverConfig loads the nearest uwuw.toml above startDir. When none exists
// the defaults are returned with found=false.
func DiscoverConfig(startDir string, logger *slog.Logger) (cfg Config, found bool, err error) {
	root, err := FindRoot(startDir)
	if err != nil {
		return DefaultConfig(), false, nil
	}
	cfg, err = LoadConfig(filepath.Join(root, ConfigFile), logger)
	if err != nil {
		return Config{}, true, err
	}
	if logger != nil {
		logger.Debug("project file loaded", "root", root)
	}
	return cfg, true, nil
}

// LibraryPatterns returns the configured library globs anchored at Root.
func (c Config) LibraryPatterns() []string {
	out := make([]string, 0, len(c.Library.Files))
	for _, p := range c.Library.Files {
		if !filepath.IsAbs(p) && c.Root != "" {
			p = filepath.Join(c.Root, p)
		}
		out = append(out, p)
	}
	return out
}
