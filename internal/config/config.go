package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/coursegraph/internal/ctxlog"
)

// File is the top-level structure of a coursegraph configuration file.
type File struct {
	Store           *Store           `hcl:"store,block"`
	Server          *Server          `hcl:"server,block"`
	Recommendations *Recommendations `hcl:"recommendations,block"`
}

// Store configures the XML module store.
type Store struct {
	DataDir         string   `hcl:"data_dir"`
	DefaultCategory string   `hcl:"default_category,optional"`
	Eager           bool     `hcl:"eager,optional"`
	Courses         []string `hcl:"courses,optional"`
}

// Server configures the HTTP API.
type Server struct {
	Listen string `hcl:"listen,optional"`
}

// Recommendations configures the external recommendation engine client.
type Recommendations struct {
	EngineURL      string            `hcl:"engine_url"`
	TimeoutSeconds int               `hcl:"timeout_seconds,optional"`
	Fallback       []*FallbackCourse `hcl:"fallback,block"`
}

// FallbackCourse is one statically configured recommendation, served when
// the engine is unreachable.
type FallbackCourse struct {
	Key          string `hcl:"key,label"`
	Title        string `hcl:"title"`
	MarketingURL string `hcl:"marketing_url,optional"`
}

// Load parses a configuration file from disk.
func Load(ctx context.Context, path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	return decode(ctx, path, hclFile.Body)
}

// LoadFromBytes parses configuration from an in-memory buffer. The filename
// is used in diagnostics only.
func LoadFromBytes(ctx context.Context, filename string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}
	return decode(ctx, filename, hclFile.Body)
}

func decode(ctx context.Context, name string, body hcl.Body) (*File, error) {
	var cfg File
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", name, diags)
	}
	if cfg.Recommendations != nil && cfg.Recommendations.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("config %s: timeout_seconds must not be negative", name)
	}
	ctxlog.FromContext(ctx).Debug("Configuration file decoded.", "file", name)
	return &cfg, nil
}
