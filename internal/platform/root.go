package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "uwuw.toml"

// FindRoot recursively looks upwards for a project root indicator.
// The indicator is a uwuw.toml file.
// If found, returns the absolute path to the directory holding it.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found above %s", ConfigFile, abs)
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
