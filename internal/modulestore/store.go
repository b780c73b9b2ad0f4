// Package modulestore defines the interface for looking up course content
// nodes by Location, together with the store's error taxonomy.
//
// # Why the interface lives apart from the implementation
//
// Content handlers and the HTTP layer resolve cross-references by Location
// only; they do not care how the index was built. Keeping the lookup
// contract here lets the XML-backed implementation (internal/xmlstore) be
// swapped for a different backing without touching consumers.
//
// # Mutability
//
// The store contract is a read-only projection of on-disk content. The
// mutation entry points exist so that callers written against a writable
// store fail loudly with ErrReadOnlyStore instead of compiling against a
// narrower interface and failing at a distance.
package modulestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/coursegraph/internal/descriptor"
	"github.com/specialistvlad/coursegraph/internal/location"
)

// ErrReadOnlyStore is returned by every mutation entry point. Content is
// changed by editing source files and reloading, never through the store.
var ErrReadOnlyStore = errors.New("module store is read-only")

// ErrItemNotFound is returned by GetItem when no node is registered at the
// requested Location. It is always surfaced to the caller, never retried.
var ErrItemNotFound = errors.New("no item at location")

// NotFound wraps ErrItemNotFound with the Location that missed, so callers
// logging the failure see which reference was dangling.
func NotFound(loc location.Location) error {
	return fmt.Errorf("%w: %s", ErrItemNotFound, loc)
}

// Store is the read-only lookup contract over loaded course content.
//
// Implementations must be safe for concurrent readers once loading has
// completed. No caller-facing writer path exists after that point; an
// implementation that defers parsing may still extend its index internally
// and must synchronize that with readers.
type Store interface {
	// GetItem returns the node registered at loc. The name segment is
	// normalized before lookup so that a Location built from a raw display
	// name still resolves. depth is a pre-fetch hint only; it never
	// changes which node is returned.
	GetItem(ctx context.Context, loc location.Location, depth int) (*descriptor.Descriptor, error)

	// GetCourses returns the root node of every successfully loaded
	// course, in catalog insertion order.
	GetCourses(ctx context.Context) []*descriptor.Descriptor

	// CreateItem fails with ErrReadOnlyStore.
	CreateItem(ctx context.Context, loc location.Location) error

	// UpdateItem fails with ErrReadOnlyStore.
	UpdateItem(ctx context.Context, loc location.Location, data string) error

	// UpdateChildren fails with ErrReadOnlyStore.
	UpdateChildren(ctx context.Context, loc location.Location, children []location.Location) error

	// UpdateMetadata fails with ErrReadOnlyStore.
	UpdateMetadata(ctx context.Context, loc location.Location, metadata map[string]string) error
}
