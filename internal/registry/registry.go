package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/coursegraph/internal/descriptor"
)

// ErrPluginLoad indicates that a node requested an explicit handler by name
// and no handler with that name is registered.
var ErrPluginLoad = errors.New("explicitly requested handler is not registered")

// ErrUnresolvedType indicates that no handler could be determined for a
// node: the category is unknown and the store has no default handler.
var ErrUnresolvedType = errors.New("no handler resolved for category")

// Registry holds the category → Handler mapping for a single application
// instance.
type Registry struct {
	handlers map[string]*descriptor.Handler
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]*descriptor.Handler)}
}

// Register adds a handler for its category. Registering the same category
// twice is a programmer error and panics, matching startup-time wiring
// expectations.
func (r *Registry) Register(h *descriptor.Handler) {
	if _, exists := r.handlers[h.Category]; exists {
		panic(fmt.Sprintf("handler for category '%s' already registered", h.Category))
	}
	slog.Debug("Registering category handler.", "category", h.Category)
	r.handlers[h.Category] = h
}

// Lookup returns the handler registered for a category, if any.
func (r *Registry) Lookup(category string) (*descriptor.Handler, bool) {
	h, ok := r.handlers[category]
	return h, ok
}

// Resolve determines the concrete handler for a node.
//
// Precedence: an explicit per-node override name wins and must exist
// (ErrPluginLoad otherwise); then the node's own category; then the
// store-wide default handler; with nothing left, ErrUnresolvedType.
func (r *Registry) Resolve(category, override string, storeDefault *descriptor.Handler) (*descriptor.Handler, error) {
	if override != "" {
		h, ok := r.handlers[override]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPluginLoad, override)
		}
		return h, nil
	}

	if h, ok := r.handlers[category]; ok {
		return h, nil
	}

	if storeDefault != nil {
		return storeDefault, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnresolvedType, category)
}
