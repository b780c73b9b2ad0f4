package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/specialistvlad/coursegraph/internal/modulestore"
	"github.com/specialistvlad/coursegraph/internal/recommendations"
)

// Recommender is the slice of the recommendations client the API consumes.
type Recommender interface {
	Recommendations(ctx context.Context, learnerID string) (recommendations.Result, error)
}

// Server serves the read-only HTTP API over a loaded store.
type Server struct {
	store       modulestore.Store
	recommender Recommender // nil when recommendations are not configured
	logger      *slog.Logger
}

// New assembles a Server. recommender may be nil; the recommendations
// endpoint then reports 503.
func New(store modulestore.Store, recommender Recommender, logger *slog.Logger) *Server {
	return &Server{store: store, recommender: recommender, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/courses", s.handleCourses)
		r.Get("/items", s.handleItem)
		r.Get("/recommendations", s.handleRecommendations)
	})

	return r
}

// ListenAndServe runs the API server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting.", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down API server.")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK\n"))
}
