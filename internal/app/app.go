package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/coursegraph/internal/registry"
	"github.com/specialistvlad/coursegraph/internal/xmlstore"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	registry *registry.Registry
	store    *xmlstore.Store
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger and a populated category registry; the
// store itself is built by Run, which carries the caller's context.
func NewApp(outW io.Writer, cfg *Config, extraHandlers ...registry.Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.Builtin()
	for _, opt := range extraHandlers {
		opt(reg)
	}
	logger.Debug("Category registry populated.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
	}
}

// Store returns the loaded module store. Nil before Run. Primarily for
// testing.
func (a *App) Store() *xmlstore.Store {
	return a.store
}
