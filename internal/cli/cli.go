package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/coursegraph/internal/app"
	"github.com/specialistvlad/coursegraph/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("coursegraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
coursegraph - An XML-backed course content store.

Usage:
  coursegraph [options] [DATA_DIR]

Arguments:
  DATA_DIR
    Directory containing one subdirectory per course (each with a course.xml).

Options:
`)
		flagSet.PrintDefaults()
	}

	dataDirFlag := flagSet.String("data-dir", "", "Directory containing the course directories.")
	dFlag := flagSet.String("d", "", "Directory containing the course directories (shorthand).")
	configFlag := flagSet.String("config", "", "Path to an HCL config file.")
	defaultCategoryFlag := flagSet.String("default-category", "", "Handler category for unknown node tags. Empty fails unknown tags.")
	eagerFlag := flagSet.Bool("eager", false, "Parse every course's full tree at startup.")
	coursesFlag := flagSet.String("courses", "", "Comma-separated list of course directories to load. Empty loads all.")
	listenFlag := flagSet.String("listen", "", "Address for the HTTP API server. Empty loads, prints the catalog and exits.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	dataDir := ""
	if *dataDirFlag != "" {
		dataDir = *dataDirFlag
	} else if *dFlag != "" {
		dataDir = *dFlag
	} else if flagSet.NArg() > 0 {
		dataDir = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg := app.Config{
		DataDir:         dataDir,
		DefaultCategory: *defaultCategoryFlag,
		Eager:           *eagerFlag,
		Listen:          *listenFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	}
	if *coursesFlag != "" {
		cfg.Courses = strings.Split(*coursesFlag, ",")
	}

	if *configFlag != "" {
		file, err := config.Load(context.Background(), *configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		mergeFile(&cfg, file)
	}

	if cfg.DataDir == "" {
		slog.Debug("No data directory provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return validated, false, nil
}

// mergeFile fills config fields the flags left unset. Flags always win.
func mergeFile(cfg *app.Config, file *config.File) {
	if s := file.Store; s != nil {
		if cfg.DataDir == "" {
			cfg.DataDir = s.DataDir
		}
		if cfg.DefaultCategory == "" {
			cfg.DefaultCategory = s.DefaultCategory
		}
		if !cfg.Eager {
			cfg.Eager = s.Eager
		}
		if cfg.Courses == nil {
			cfg.Courses = s.Courses
		}
	}
	if file.Server != nil && cfg.Listen == "" {
		cfg.Listen = file.Server.Listen
	}
	cfg.Recommendations = file.Recommendations
}
