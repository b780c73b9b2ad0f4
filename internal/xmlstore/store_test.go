package xmlstore

import (
	"context"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/coursegraph/internal/location"
	"github.com/specialistvlad/coursegraph/internal/modulestore"
	"github.com/specialistvlad/coursegraph/internal/registry"
)

func writeCourse(t *testing.T, fsys afero.Fs, courseDir, xml string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, "data/"+courseDir+"/"+RootFile, []byte(xml), 0o644))
}

func newTestStore(t *testing.T, fsys afero.Fs, opts Options) *Store {
	t.Helper()
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	opts.Fs = fsys
	s, err := New(context.Background(), registry.Builtin(), opts)
	require.NoError(t, err)
	return s
}

func TestLoadSingleCourse(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"><problem name="quiz1"/></course>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	ctx := context.Background()

	courses := s.GetCourses(ctx)
	require.Len(t, courses, 1)
	assert.Equal(t, "course", courses[0].Category())

	// The child problem must be reachable at its exact Location.
	want := location.Location{Org: "edx", Course: "101", Category: "problem", Name: "quiz1"}
	d, err := s.GetItem(ctx, want, 0)
	require.NoError(t, err)
	assert.Equal(t, want, d.Location)
}

func TestLoadIsDeterministicAcrossIndependentStores(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101">
		<chapter name="Week 1">
			<problem name="quiz1"/>
			<problem/>
			<problem/>
			<video name="intro"/>
		</chapter>
		<chapter name="Week 1"/>
	</course>`)

	locationsOf := func(s *Store) map[location.Location]bool {
		set := make(map[location.Location]bool, len(s.modules))
		for loc := range s.modules {
			set[loc] = true
		}
		return set
	}

	first := newTestStore(t, fsys, Options{Eager: true})
	second := newTestStore(t, fsys, Options{Eager: true})

	assert.Equal(t, locationsOf(first), locationsOf(second),
		"loading the same unchanged course twice must assign identical locations")
}

func TestSlugAssignment(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101">
		<problem name="quiz one"/>
		<problem slug="explicit_id"/>
		<problem/>
		<problem name="quiz one"/>
	</course>`)

	s := newTestStore(t, fsys, Options{Eager: true})

	names := make(map[string]int)
	for loc := range s.modules {
		if loc.Category == "problem" {
			names[loc.Name]++
		}
	}

	// Derived from display name, cleaned.
	assert.Contains(t, names, "quiz_one")
	// Explicit slugs are trusted verbatim.
	assert.Contains(t, names, "explicit_id")
	// Unnamed node: tag plus counter. The counter is course-wide and the
	// unnamed course root already consumed 1.
	assert.Contains(t, names, "problem_2")
	// Collision on the derived name resolves with a counter suffix.
	assert.Contains(t, names, "quiz_one_3")

	for name, count := range names {
		assert.Equal(t, 1, count, "slug %q assigned more than once", name)
	}
}

func TestRoundTripLookup(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101">
		<chapter name="Week 1">
			<sequential name="Lesson 1">
				<vertical name="Unit 1">
					<problem name="quiz1"/>
					<html name="notes"/>
				</vertical>
			</sequential>
		</chapter>
	</course>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	ctx := context.Background()

	for loc, d := range s.modules {
		got, err := s.GetItem(ctx, loc, 0)
		require.NoError(t, err)
		assert.Same(t, d, got, "GetItem(%s) did not return the registered descriptor", loc)
	}
}

func TestPartialFailureIsolation(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "good1", `<course org="edx" course="g1"/>`)
	writeCourse(t, fsys, "broken", `<course org="edx" course="b1"><problem`)
	writeCourse(t, fsys, "good2", `<course org="edx" course="g2"/>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	ctx := context.Background()

	assert.Len(t, s.GetCourses(ctx), 2)
	_, ok := s.Course("broken")
	assert.False(t, ok)

	results := s.Results()
	require.Len(t, results, 3)
	byDir := make(map[string]LoadResult, len(results))
	for _, r := range results {
		byDir[r.CourseDir] = r
	}
	assert.NoError(t, byDir["good1"].Err)
	assert.NoError(t, byDir["good2"].Err)
	require.Error(t, byDir["broken"].Err)

	var parseErr *MarkupParseError
	assert.ErrorAs(t, byDir["broken"].Err, &parseErr)
	assert.Contains(t, parseErr.Source, "<problem")
}

func TestRootAttributeDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "6002x", `<course/>`)

	s := newTestStore(t, fsys, Options{Eager: true})

	root, ok := s.Course("6002x")
	require.True(t, ok)
	assert.Equal(t, DefaultOrg, root.Location.Org)
	assert.Equal(t, "6002x", root.Location.Course, "course identifier defaults to the directory name")
}

func TestReadOnlyEnforcement(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"/>`)

	s := newTestStore(t, fsys, Options{})
	ctx := context.Background()
	loc := location.Location{Org: "edx", Course: "101", Category: "course", Name: "course_1"}

	assert.ErrorIs(t, s.CreateItem(ctx, loc), modulestore.ErrReadOnlyStore)
	assert.ErrorIs(t, s.UpdateItem(ctx, loc, "<problem/>"), modulestore.ErrReadOnlyStore)
	assert.ErrorIs(t, s.UpdateChildren(ctx, loc, nil), modulestore.ErrReadOnlyStore)
	assert.ErrorIs(t, s.UpdateMetadata(ctx, loc, nil), modulestore.ErrReadOnlyStore)
}

func TestGetItemMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"/>`)

	s := newTestStore(t, fsys, Options{})
	_, err := s.GetItem(context.Background(), location.Location{
		Org: "edx", Course: "101", Category: "problem", Name: "never_registered",
	}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, modulestore.ErrItemNotFound)
}

func TestGetItemNormalizesName(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"><problem name="quiz 1"/></course>`)

	s := newTestStore(t, fsys, Options{Eager: true})

	// A lookup built from the raw display name still resolves.
	d, err := s.GetItem(context.Background(), location.Location{
		Org: "edx", Course: "101", Category: "problem", Name: "quiz 1",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "quiz_1", d.Location.Name)
}

func TestLazyChildrenResolveOnDemand(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"><problem name="quiz1"/></course>`)

	s := newTestStore(t, fsys, Options{Eager: false})
	ctx := context.Background()

	childLoc := location.Location{Org: "edx", Course: "101", Category: "problem", Name: "quiz1"}
	_, err := s.GetItem(ctx, childLoc, 0)
	assert.ErrorIs(t, err, modulestore.ErrItemNotFound, "lazy store must not have parsed children yet")

	root, ok := s.Course("101")
	require.True(t, ok)
	children, err := root.Children(ctx)
	require.NoError(t, err)
	require.Equal(t, []location.Location{childLoc}, children)

	d, err := s.GetItem(ctx, childLoc, 0)
	require.NoError(t, err)
	assert.Equal(t, childLoc, d.Location)

	// A second call must not re-parse.
	again, err := root.Children(ctx)
	require.NoError(t, err)
	assert.Equal(t, children, again)
}

func TestLazyResolutionSafeForConcurrentReaders(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101">
		<chapter name="Week 1"><problem name="quiz1"/><video name="v1"/></chapter>
		<chapter name="Week 2"><problem name="quiz2"/></chapter>
	</course>`)

	s := newTestStore(t, fsys, Options{Eager: false})
	ctx := context.Background()
	root, ok := s.Course("101")
	require.True(t, ok)

	// Hammer first-time child resolution and index lookups from many
	// goroutines at once; run with -race.
	var wg sync.WaitGroup
	errCh := make(chan error, 32)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chapters, err := root.Children(ctx)
			if err != nil {
				errCh <- err
				return
			}
			for _, chapterLoc := range chapters {
				chapter, err := s.GetItem(ctx, chapterLoc, 0)
				if err != nil {
					errCh <- err
					return
				}
				if _, err := chapter.Children(ctx); err != nil {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	for _, name := range []string{"quiz1", "v1", "quiz2"} {
		category := "problem"
		if name == "v1" {
			category = "video"
		}
		_, err := s.GetItem(ctx, location.Location{
			Org: "edx", Course: "101", Category: category, Name: name,
		}, 0)
		assert.NoError(t, err, "node %q missing after concurrent resolution", name)
	}
}

func TestProcessXMLImportsMarkupText(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"/>`)
	s := newTestStore(t, fsys, Options{})
	ctx := context.Background()

	sys := newImportSystem(s, "101", "edx", "101",
		afero.NewBasePathFs(fsys, "data/101"))

	d, err := sys.ProcessXML(ctx, `<problem name="extra"/>`)
	require.NoError(t, err)
	assert.Equal(t, "extra", d.Location.Name)

	got, err := s.GetItem(ctx, d.Location, 0)
	require.NoError(t, err)
	assert.Same(t, d, got, "imported node must be registered in the index")

	_, err = sys.ProcessXML(ctx, `<problem`)
	var parseErr *MarkupParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Source, "<problem")
}

func TestEagerChildrenIndexedImmediately(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101">
		<chapter name="Week 1"><problem name="quiz1"/></chapter>
	</course>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	_, err := s.GetItem(context.Background(), location.Location{
		Org: "edx", Course: "101", Category: "problem", Name: "quiz1",
	}, 0)
	assert.NoError(t, err)
}

func TestChildrenPreserveDocumentOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101">
		<chapter name="b"/><chapter name="a"/><chapter name="c"/>
	</course>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	root, ok := s.Course("101")
	require.True(t, ok)

	children, err := root.Children(context.Background())
	require.NoError(t, err)
	var names []string
	for _, c := range children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestCourseDirFilter(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "wanted", `<course org="edx" course="w"/>`)
	writeCourse(t, fsys, "skipped", `<course org="edx" course="s"/>`)

	s := newTestStore(t, fsys, Options{CourseDirs: []string{"wanted"}})

	assert.Len(t, s.GetCourses(context.Background()), 1)
	_, ok := s.Course("skipped")
	assert.False(t, ok)
	assert.Len(t, s.Results(), 1, "filtered-out courses are not even attempted")
}

func TestDirectoriesWithoutRootFileAreSkipped(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"/>`)
	require.NoError(t, afero.WriteFile(fsys, "data/static/logo.png", []byte{0x89}, 0o644))

	s := newTestStore(t, fsys, Options{})
	assert.Len(t, s.Results(), 1)
}

func TestDefaultCategoryFallback(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"><wordcloud name="fun"/></course>`)

	s := newTestStore(t, fsys, Options{Eager: true, DefaultCategory: "html"})

	d, err := s.GetItem(context.Background(), location.Location{
		Org: "edx", Course: "101", Category: "wordcloud", Name: "fun",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "html", d.Handler().Category)
	// Location keeps the node's own tag even under a fallback handler.
	assert.Equal(t, "wordcloud", d.Location.Category)
}

func TestUnknownCategoryWithoutDefaultFailsCourse(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "bad", `<course org="edx" course="bad"><wordcloud name="fun"/></course>`)
	writeCourse(t, fsys, "good", `<course org="edx" course="good"/>`)

	s := newTestStore(t, fsys, Options{Eager: true})

	assert.Len(t, s.GetCourses(context.Background()), 1)
	for _, r := range s.Results() {
		if r.CourseDir == "bad" {
			assert.ErrorIs(t, r.Err, registry.ErrUnresolvedType)
		}
	}
}

func TestExplicitHandlerOverride(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"><problem name="p" class="html"/></course>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	d, err := s.GetItem(context.Background(), location.Location{
		Org: "edx", Course: "101", Category: "problem", Name: "p",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "html", d.Handler().Category)
}

func TestUnknownExplicitOverrideFailsCourse(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"><problem class="nope"/></course>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	results := s.Results()
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, registry.ErrPluginLoad)
}

func TestMetadataCarriesAttributesAndDataDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "6002x", `<course org="edx" course="101" graceperiod="1 day"><video name="v" youtube="abc123"/></course>`)

	s := newTestStore(t, fsys, Options{Eager: true})

	root, ok := s.Course("6002x")
	require.True(t, ok)
	assert.Equal(t, "6002x", root.Metadata["data_dir"])
	assert.Equal(t, "1 day", root.Metadata["graceperiod"])

	d, err := s.GetItem(context.Background(), location.Location{
		Org: "edx", Course: "101", Category: "video", Name: "v",
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc123", d.Metadata["youtube"])
	assert.Equal(t, "6002x", d.Metadata["data_dir"])
}

func TestLeafDefinitionDataIsSerialized(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"><html name="notes"><p>hello</p></html></course>`)

	s := newTestStore(t, fsys, Options{Eager: true})
	d, err := s.GetItem(context.Background(), location.Location{
		Org: "edx", Course: "101", Category: "html", Name: "notes",
	}, 0)
	require.NoError(t, err)
	assert.Contains(t, d.Data, "<p>hello</p>")
	assert.Empty(t, s.GetCourses(context.Background())[0].Data, "containers carry no definition data")
}

func TestCourseScopedResources(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course org="edx" course="101"/>`)
	require.NoError(t, afero.WriteFile(fsys, "data/101/static/logo.svg", []byte("<svg/>"), 0o644))

	s := newTestStore(t, fsys, Options{})
	root, ok := s.Course("101")
	require.True(t, ok)

	// Paths are relative to the course directory, not the data directory.
	content, err := afero.ReadFile(root.Resources(), "static/logo.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(content))
}

func TestUnknownDefaultCategoryIsAConstructionError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeCourse(t, fsys, "101", `<course/>`)

	_, err := New(context.Background(), registry.Builtin(), Options{
		DataDir: "data", Fs: fsys, DefaultCategory: "nope",
	})
	require.Error(t, err)
}

func TestMissingDataDirIsAConstructionError(t *testing.T) {
	_, err := New(context.Background(), registry.Builtin(), Options{
		DataDir: "missing", Fs: afero.NewMemMapFs(),
	})
	require.Error(t, err)
}
