package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".caseline"

// Paths holds resolved filesystem paths for caseline data.
type Paths struct {
	Base   string // ~/.caseline
	Config string // ~/.caseline/config.yaml
	Data   string // ~/.caseline/data
	Logs   string // ~/.caseline/logs
}

// ResolvePaths computes all standard paths from the home directory.
// If CASELINE_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("CASELINE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		Data:   filepath.Join(base, "data"),
		Logs:   filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Data, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}

// DatabasePath returns the sqlite path: the configured one, or the default
// under the data directory.
func (p Paths) DatabasePath(cfg StoreConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(p.Data, "caseline.db")
}
