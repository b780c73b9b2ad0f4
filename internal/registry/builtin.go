package registry

import "github.com/specialistvlad/coursegraph/internal/descriptor"

// containerCategories are the structural categories whose child elements
// are themselves content nodes.
var containerCategories = []string{"course", "chapter", "sequential", "vertical"}

// leafCategories carry their inner markup as opaque definition data.
var leafCategories = []string{"problem", "video", "html", "discussion"}

// Option customizes a Registry during application wiring.
type Option func(*Registry)

// WithHandler returns an Option registering one additional category handler
// on top of the built-in vocabulary.
func WithHandler(h *descriptor.Handler) Option {
	return func(r *Registry) {
		r.Register(h)
	}
}

// Builtin returns a Registry pre-populated with the standard course content
// vocabulary. Callers may register further handlers on top.
func Builtin() *Registry {
	r := New()
	for _, category := range containerCategories {
		r.Register(&descriptor.Handler{Category: category, Container: true})
	}
	for _, category := range leafCategories {
		r.Register(&descriptor.Handler{Category: category})
	}
	return r
}
