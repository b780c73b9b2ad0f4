// Package app wires the application together: logger, category registry,
// module store, and optionally the HTTP API and recommendations client.
// It owns the run lifecycle; flag parsing lives in internal/cli and the
// config file format in internal/config.
package app
