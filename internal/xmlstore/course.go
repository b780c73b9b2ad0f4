package xmlstore

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/specialistvlad/coursegraph/internal/ctxlog"
	"github.com/specialistvlad/coursegraph/internal/descriptor"
)

// DefaultOrg is used when a course root omits its organization attribute.
const DefaultOrg = "edx"

// loadCourse reads one course directory's root markup file and imports the
// whole course tree (eagerly or lazily per store configuration), returning
// the root descriptor. Any error here is absorbed at the New loop.
func (s *Store) loadCourse(ctx context.Context, courseDir string) (*descriptor.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	raw, err := afero.ReadFile(s.fsys, filepath.Join(s.opts.DataDir, courseDir, RootFile))
	if err != nil {
		return nil, err
	}

	// Parsed here only for the root attributes the import system needs;
	// the import itself goes through ProcessXML below.
	root, err := parseRoot(ctx, s.opts.ReadSettings, string(raw))
	if err != nil {
		return nil, err
	}

	// Malformed root metadata degrades to logged defaults rather than
	// failing the course outright.
	org := root.SelectAttrValue("org", "")
	if org == "" {
		logger.Error("No 'org' attribute set for course. Using default.",
			"course_dir", courseDir, "default", DefaultOrg)
		org = DefaultOrg
	}

	course := root.SelectAttrValue("course", "")
	if course == "" {
		logger.Error("No 'course' attribute set for course. Using directory name.",
			"course_dir", courseDir, "default", courseDir)
		course = courseDir
	}

	sys := newImportSystem(s, courseDir, org, course,
		afero.NewBasePathFs(s.fsys, filepath.Join(s.opts.DataDir, courseDir)))

	rootDesc, err := sys.ProcessXML(ctx, string(raw))
	if err != nil {
		return nil, err
	}

	logger.Debug("Done with course import.", "course_dir", courseDir, "location", rootDesc.Location.String())
	return rootDesc, nil
}
