package xmlstore

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"github.com/spf13/afero"

	"github.com/specialistvlad/coursegraph/internal/ctxlog"
	"github.com/specialistvlad/coursegraph/internal/descriptor"
	"github.com/specialistvlad/coursegraph/internal/location"
	"github.com/specialistvlad/coursegraph/internal/modulestore"
)

// slugAttr carries a node's explicit identifier; nameAttr its display name.
const (
	slugAttr     = "slug"
	nameAttr     = "name"
	overrideAttr = "class"
)

// importSystem is the parse state of one course load: the unnamed-node
// counter, the used-slug set, and a reference back to the owning store.
// It must not be shared across concurrent loads.
type importSystem struct {
	store     *Store
	courseDir string
	org       string
	course    string
	resources afero.Fs

	unnamed   int
	usedSlugs map[string]struct{}
}

var _ descriptor.System = (*importSystem)(nil)

func newImportSystem(store *Store, courseDir, org, course string, resources afero.Fs) *importSystem {
	return &importSystem{
		store:     store,
		courseDir: courseDir,
		org:       org,
		course:    course,
		resources: resources,
		usedSlugs: make(map[string]struct{}),
	}
}

// ProcessXML parses raw markup text and imports the resulting tree. A
// malformed document is logged with the offending text before the error
// propagates; parse errors are never swallowed here.
func (sys *importSystem) ProcessXML(ctx context.Context, raw string) (*descriptor.Descriptor, error) {
	root, err := parseRoot(ctx, sys.store.opts.ReadSettings, raw)
	if err != nil {
		return nil, err
	}
	return sys.ProcessNode(ctx, root)
}

// parseRoot parses markup text and returns its root element. Malformed
// markup is logged with the offending text and wrapped in MarkupParseError.
func parseRoot(ctx context.Context, settings etree.ReadSettings, raw string) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = settings
	if err := doc.ReadFromString(raw); err != nil {
		ctxlog.FromContext(ctx).Error("Unable to parse xml.", "xml", raw, "error", err)
		return nil, &MarkupParseError{Source: raw, Err: err}
	}
	root := doc.Root()
	if root == nil {
		ctxlog.FromContext(ctx).Error("Unable to parse xml.", "xml", raw, "error", errNoRootElement)
		return nil, &MarkupParseError{Source: raw, Err: errNoRootElement}
	}
	return root, nil
}

// ProcessNode imports a single parsed element: assigns a slug if the node
// lacks one, resolves the node's handler, constructs its Location, injects
// derived metadata, and registers the descriptor into the store's global
// index before children are resolved, so a sibling reference during child
// resolution already finds this node.
func (sys *importSystem) ProcessNode(ctx context.Context, el *etree.Element) (*descriptor.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	slug := el.SelectAttrValue(slugAttr, "")
	if slug == "" {
		// Write the assigned slug back onto the element so the node's
		// Location is derivable from its own attributes.
		slug = sys.assignSlug(el)
		el.CreateAttr(slugAttr, slug)
	}

	handler, err := sys.store.registry.Resolve(el.Tag, el.SelectAttrValue(overrideAttr, ""), sys.store.defaultHandler)
	if err != nil {
		return nil, err
	}

	loc, err := location.New(sys.org, sys.course, el.Tag, slug, "")
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]string, len(el.Attr)+1)
	for _, attr := range el.Attr {
		if attr.Key == slugAttr || attr.Key == overrideAttr {
			continue
		}
		metadata[attr.Key] = attr.Value
	}
	metadata["data_dir"] = sys.courseDir

	d := descriptor.New(loc, handler, sys, metadata)

	if handler.Container {
		d.SetPendingChildren(el.ChildElements())
	} else {
		data, err := serializeElement(el)
		if err != nil {
			return nil, fmt.Errorf("serializing definition of %s: %w", loc, err)
		}
		d.Data = data
	}

	if handler.Decode != nil {
		if err := handler.Decode(el, d); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", loc, err)
		}
	}

	logger.Debug("Importing module.", "location", loc.String())
	sys.store.register(loc, d)

	if sys.store.opts.Eager && d.HasPendingChildren() {
		if _, err := d.Children(ctx); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// assignSlug derives a unique slug for a node that carries none: from its
// cleaned display name when present, otherwise from its tag plus the
// unnamed counter. A collision with an already-used slug is resolved by
// bumping the counter and suffixing it; the counter only grows within one
// load, so the suffixed candidate cannot repeat.
func (sys *importSystem) assignSlug(el *etree.Element) string {
	var slug string
	if name := el.SelectAttrValue(nameAttr, ""); name != "" {
		slug = location.Clean(name)
	} else {
		sys.unnamed++
		slug = fmt.Sprintf("%s_%d", el.Tag, sys.unnamed)
	}

	if _, used := sys.usedSlugs[slug]; used {
		sys.unnamed++
		slug = fmt.Sprintf("%s_%d", slug, sys.unnamed)
	}

	sys.usedSlugs[slug] = struct{}{}
	return slug
}

// LoadItem resolves a cross-reference by Location, independent of the
// parsing recursion.
func (sys *importSystem) LoadItem(loc location.Location) (*descriptor.Descriptor, error) {
	loc.Name = location.Clean(loc.Name)
	d, ok := sys.store.lookup(loc)
	if !ok {
		return nil, modulestore.NotFound(loc)
	}
	return d, nil
}

// Resources is the filesystem scoped to this course's directory.
func (sys *importSystem) Resources() afero.Fs {
	return sys.resources
}

// serializeElement renders a node (tag, attributes, and inner content)
// back to markup text for storage as a leaf's definition data.
func serializeElement(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	return doc.WriteToString()
}
