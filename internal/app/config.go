package app

import (
	"errors"

	"github.com/spf13/afero"

	"github.com/specialistvlad/coursegraph/internal/config"
)

// Config holds everything an App instance needs to run. It is the merged
// result of CLI flags and the optional config file; flags win.
type Config struct {
	// DataDir is the directory of course directories to load.
	DataDir string

	// Fs is the filesystem DataDir lives on. Nil means the OS filesystem;
	// tests supply an in-memory one.
	Fs afero.Fs

	// DefaultCategory names the handler for unknown categories. Empty
	// means unknown categories fail their course's load.
	DefaultCategory string

	// Eager forces full course trees to be parsed at startup.
	Eager bool

	// Courses restricts loading to the named course directories.
	Courses []string

	// Listen is the API server address. Empty means load, print the
	// catalog, and exit.
	Listen string

	// Recommendations configures the engine client; nil disables the
	// recommendations endpoint.
	Recommendations *config.Recommendations

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("a data directory is required, via the -data-dir flag or the config file")
	}
	return &cfg, nil
}
