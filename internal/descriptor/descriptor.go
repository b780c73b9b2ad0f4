package descriptor

import (
	"context"
	"sync"

	"github.com/beevik/etree"
	"github.com/spf13/afero"

	"github.com/specialistvlad/coursegraph/internal/location"
)

// System is the capability surface handed to descriptors during a course
// import. It is implemented by the importing store's per-course parse state.
type System interface {
	// ProcessNode parses a single markup element into a Descriptor and
	// registers it with the owning store before returning.
	ProcessNode(ctx context.Context, el *etree.Element) (*Descriptor, error)

	// LoadItem resolves a Location to the Descriptor registered for it,
	// independent of the parsing recursion. Used for cross-references.
	LoadItem(loc location.Location) (*Descriptor, error)

	// Resources is a filesystem scoped to the owning course's directory,
	// for auxiliary files (images, static assets) a node may need.
	Resources() afero.Fs
}

// Handler is the concrete content-type implementation governing one
// category of node. Handlers are registered once at startup; the registry
// package owns the category → Handler mapping.
type Handler struct {
	// Category is the markup tag this handler interprets.
	Category string

	// Container marks categories whose child elements are themselves
	// content nodes (course, chapter, sequential, vertical). Leaf
	// categories keep their inner markup as opaque definition data.
	Container bool

	// Decode, when set, extracts category-specific state from the element
	// after the generic attribute pass. Most handlers do not need it.
	Decode func(el *etree.Element, d *Descriptor) error
}

// Descriptor is one content node in a course's tree.
type Descriptor struct {
	// Location is the node's identity within the store's index.
	Location location.Location

	// Metadata holds the node's attribute settings merged with fields
	// injected by the import (at minimum "data_dir", the owning course's
	// directory name).
	Metadata map[string]string

	// Data is the node's serialized definition markup. Populated for leaf
	// categories only; containers carry structure, not content.
	Data string

	// handler is the content-type implementation resolved for this node.
	handler *Handler

	// system is the import-time capability surface. Retained so that a
	// lazily imported node can still parse its children on demand.
	system System

	// mu guards pending, children and resolved. On a lazily imported tree
	// the first Children call may come from any reader goroutine.
	mu sync.Mutex

	// pending holds the unparsed child elements of a lazily imported
	// container. Drained by the first Children call.
	pending []*etree.Element

	// children are the Locations of parsed child nodes, in document order.
	children []location.Location
	resolved bool
}

// New assembles a Descriptor. Used by the import system; there is no other
// construction path because descriptors only ever exist inside a store.
func New(loc location.Location, handler *Handler, system System, metadata map[string]string) *Descriptor {
	return &Descriptor{
		Location: loc,
		Metadata: metadata,
		handler:  handler,
		system:   system,
	}
}

// Handler returns the content-type implementation governing this node.
func (d *Descriptor) Handler() *Handler {
	return d.handler
}

// Category returns the node's markup tag.
func (d *Descriptor) Category() string {
	return d.Location.Category
}

// SetPendingChildren stores unparsed child elements for lazy resolution.
func (d *Descriptor) SetPendingChildren(els []*etree.Element) {
	d.pending = els
}

// Children returns the Locations of this node's child nodes in document
// order, parsing any still-pending child elements first. On an eagerly
// imported tree this never parses; on a lazy tree the first call per node
// does. A child that fails to parse aborts resolution and leaves the node
// unresolved, so the error surfaces again on retry rather than being
// silently dropped. Safe for concurrent callers; at most one of them
// resolves, the rest see the memoized result.
func (d *Descriptor) Children(ctx context.Context) ([]location.Location, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.resolved {
		return d.children, nil
	}

	children := make([]location.Location, 0, len(d.pending))
	for _, el := range d.pending {
		child, err := d.system.ProcessNode(ctx, el)
		if err != nil {
			return nil, err
		}
		children = append(children, child.Location)
	}

	d.children = children
	d.pending = nil
	d.resolved = true
	return d.children, nil
}

// HasPendingChildren reports whether the node still has unparsed child
// elements. Used by eager imports to decide whether to force resolution.
func (d *Descriptor) HasPendingChildren() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.resolved && len(d.pending) > 0
}

// Resources exposes the course-scoped filesystem this node was imported
// with.
func (d *Descriptor) Resources() afero.Fs {
	return d.system.Resources()
}
