// Package config loads the optional HCL configuration file describing the
// store, the HTTP server, and the recommendations client. CLI flags are
// parsed elsewhere (internal/cli) and override file values.
package config
