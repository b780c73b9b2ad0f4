package xmlstore

import (
	"context"
	"sync"

	"github.com/beevik/etree"
	"github.com/spf13/afero"

	"github.com/specialistvlad/coursegraph/internal/ctxlog"
	"github.com/specialistvlad/coursegraph/internal/descriptor"
	"github.com/specialistvlad/coursegraph/internal/fsutil"
	"github.com/specialistvlad/coursegraph/internal/location"
	"github.com/specialistvlad/coursegraph/internal/modulestore"
	"github.com/specialistvlad/coursegraph/internal/registry"
)

// RootFile is the fixed-name markup file whose presence marks a
// subdirectory of the data directory as a course.
const RootFile = "course.xml"

// Options is the construction-time configuration surface of the store.
type Options struct {
	// DataDir is the directory containing one subdirectory per course.
	DataDir string

	// Fs is the filesystem DataDir lives on. Nil means the OS filesystem;
	// tests supply an in-memory one.
	Fs afero.Fs

	// DefaultCategory names the handler used for nodes whose category has
	// no registration of its own. Empty means no fallback: unknown
	// categories fail the owning course's load.
	DefaultCategory string

	// Eager forces every course's full tree to be parsed during New.
	// When false, a container's children are parsed on first request.
	Eager bool

	// CourseDirs restricts loading to the named course directories.
	// Nil loads every course directory found.
	CourseDirs []string

	// ReadSettings configures the XML parser. Threaded explicitly into
	// every parse; there is no process-global parser state.
	ReadSettings etree.ReadSettings
}

// LoadResult records the outcome of loading one course directory.
type LoadResult struct {
	CourseDir string
	Root      *descriptor.Descriptor // nil when Err is set
	Err       error
}

// Store is the XML-backed read-only module store.
type Store struct {
	opts           Options
	fsys           afero.Fs
	registry       *registry.Registry
	defaultHandler *descriptor.Handler

	// mu guards modules. The index still grows after construction when a
	// lazily imported container resolves its children from a reader
	// goroutine.
	mu sync.RWMutex

	// modules is the global index, across all courses.
	modules map[location.Location]*descriptor.Descriptor

	// courses is the root-only catalog in insertion order; courseIndex
	// mirrors it keyed by directory name.
	courses     []*descriptor.Descriptor
	courseIndex map[string]*descriptor.Descriptor

	results []LoadResult
}

var _ modulestore.Store = (*Store)(nil)

// New builds a Store from opts.DataDir, loading every matching course
// directory. Per-course failures are recorded in the results and do not
// abort construction; only failures to enumerate the data directory itself
// or to resolve the configured default category are returned as errors.
func New(ctx context.Context, reg *registry.Registry, opts Options) (*Store, error) {
	logger := ctxlog.FromContext(ctx)

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	s := &Store{
		opts:        opts,
		fsys:        fsys,
		registry:    reg,
		modules:     make(map[location.Location]*descriptor.Descriptor),
		courseIndex: make(map[string]*descriptor.Descriptor),
	}

	if opts.DefaultCategory != "" {
		h, ok := reg.Lookup(opts.DefaultCategory)
		if !ok {
			return nil, &configError{category: opts.DefaultCategory}
		}
		s.defaultHandler = h
	}

	logger.Debug("Initializing XML module store.",
		"data_dir", opts.DataDir, "eager", opts.Eager, "default_category", opts.DefaultCategory)

	dirs, err := fsutil.FindCourseDirs(fsys, opts.DataDir, RootFile)
	if err != nil {
		return nil, err
	}

	var filter map[string]struct{}
	if opts.CourseDirs != nil {
		filter = make(map[string]struct{}, len(opts.CourseDirs))
		for _, d := range opts.CourseDirs {
			filter[d] = struct{}{}
		}
	}

	for _, dir := range dirs {
		if filter != nil {
			if _, ok := filter[dir]; !ok {
				continue
			}
		}

		root, err := s.loadCourse(ctx, dir)
		if err != nil {
			logger.Error("Failed to load course.", "course_dir", dir, "error", err)
			s.results = append(s.results, LoadResult{CourseDir: dir, Err: err})
			continue
		}

		s.courses = append(s.courses, root)
		s.courseIndex[dir] = root
		s.results = append(s.results, LoadResult{CourseDir: dir, Root: root})
	}

	logger.Info("XML module store ready.",
		"courses_loaded", len(s.courses), "courses_attempted", len(s.results), "items_indexed", len(s.modules))

	return s, nil
}

// Results reports the per-course load outcomes, in attempt order.
func (s *Store) Results() []LoadResult {
	return s.results
}

// GetItem returns the node registered at loc. The name segment is cleaned
// before lookup. depth is a pre-fetch hint only and has no effect on which
// node is returned.
func (s *Store) GetItem(ctx context.Context, loc location.Location, depth int) (*descriptor.Descriptor, error) {
	loc.Name = location.Clean(loc.Name)
	d, ok := s.lookup(loc)
	if !ok {
		return nil, modulestore.NotFound(loc)
	}
	return d, nil
}

// register adds a node to the global index. Called by the import system
// during construction and again during lazy child resolution, which may
// run from concurrent reader goroutines.
func (s *Store) register(loc location.Location, d *descriptor.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[loc] = d
}

func (s *Store) lookup(loc location.Location) (*descriptor.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.modules[loc]
	return d, ok
}

// GetCourses returns the root node of every successfully loaded course, in
// catalog insertion order.
func (s *Store) GetCourses(ctx context.Context) []*descriptor.Descriptor {
	out := make([]*descriptor.Descriptor, len(s.courses))
	copy(out, s.courses)
	return out
}

// Course returns the catalog entry for a course directory name, if loaded.
func (s *Store) Course(courseDir string) (*descriptor.Descriptor, bool) {
	d, ok := s.courseIndex[courseDir]
	return d, ok
}

// CreateItem fails: this store is a read-only projection of on-disk content.
func (s *Store) CreateItem(ctx context.Context, loc location.Location) error {
	return modulestore.ErrReadOnlyStore
}

// UpdateItem fails: this store is a read-only projection of on-disk content.
func (s *Store) UpdateItem(ctx context.Context, loc location.Location, data string) error {
	return modulestore.ErrReadOnlyStore
}

// UpdateChildren fails: this store is a read-only projection of on-disk content.
func (s *Store) UpdateChildren(ctx context.Context, loc location.Location, children []location.Location) error {
	return modulestore.ErrReadOnlyStore
}

// UpdateMetadata fails: this store is a read-only projection of on-disk content.
func (s *Store) UpdateMetadata(ctx context.Context, loc location.Location, metadata map[string]string) error {
	return modulestore.ErrReadOnlyStore
}

// configError reports a default category that has no registered handler.
// This is a wiring mistake, caught at construction rather than mid-load.
type configError struct {
	category string
}

func (e *configError) Error() string {
	return "default category '" + e.category + "' has no registered handler"
}
