package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/coursegraph/internal/api"
	"github.com/specialistvlad/coursegraph/internal/config"
	"github.com/specialistvlad/coursegraph/internal/ctxlog"
	"github.com/specialistvlad/coursegraph/internal/recommendations"
	"github.com/specialistvlad/coursegraph/internal/xmlstore"
)

// Run loads the module store and either prints the catalog and returns, or
// serves the HTTP API until ctx is cancelled, depending on configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	store, err := xmlstore.New(ctx, a.registry, xmlstore.Options{
		DataDir:         a.config.DataDir,
		Fs:              a.config.Fs,
		DefaultCategory: a.config.DefaultCategory,
		Eager:           a.config.Eager,
		CourseDirs:      a.config.Courses,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize module store: %w", err)
	}
	a.store = store

	a.printCatalog(ctx)

	if a.config.Listen == "" {
		a.logger.Debug("No listen address configured, exiting after load.")
		return nil
	}

	var recommender api.Recommender
	if rc := a.config.Recommendations; rc != nil {
		client := recommendations.NewClient(
			rc.EngineURL,
			time.Duration(rc.TimeoutSeconds)*time.Second,
			fallbackCourses(rc),
		)
		defer client.Close()
		recommender = client
	}

	return api.New(store, recommender, a.logger).ListenAndServe(ctx, a.config.Listen)
}

// printCatalog writes a human-readable load summary to the output writer.
func (a *App) printCatalog(ctx context.Context) {
	results := a.store.Results()
	loaded := 0
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(a.outW, "FAILED  %s: %v\n", res.CourseDir, res.Err)
			continue
		}
		loaded++
		fmt.Fprintf(a.outW, "loaded  %s -> %s\n", res.CourseDir, res.Root.Location)
	}
	fmt.Fprintf(a.outW, "%d of %d course(s) loaded\n", loaded, len(results))
}

// fallbackCourses converts the statically configured fallback entries into
// engine course payloads.
func fallbackCourses(rc *config.Recommendations) []recommendations.Course {
	out := make([]recommendations.Course, 0, len(rc.Fallback))
	for _, fb := range rc.Fallback {
		course := recommendations.Course{Key: fb.Key, Title: fb.Title}
		if fb.MarketingURL != "" {
			course.ActiveCourseRun = &recommendations.CourseRun{MarketingURL: fb.MarketingURL}
		}
		out = append(out, course)
	}
	return out
}
