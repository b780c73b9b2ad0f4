package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/specialistvlad/coursegraph/internal/descriptor"
	"github.com/specialistvlad/coursegraph/internal/location"
	"github.com/specialistvlad/coursegraph/internal/modulestore"
	"github.com/specialistvlad/coursegraph/internal/recommendations"
)

// itemResponse is the wire shape of one content node.
type itemResponse struct {
	Location string            `json:"location"`
	Category string            `json:"category"`
	Metadata map[string]string `json:"metadata"`
	Data     string            `json:"data,omitempty"`
	Children []string          `json:"children,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response.", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) itemToResponse(r *http.Request, d *descriptor.Descriptor) itemResponse {
	resp := itemResponse{
		Location: d.Location.String(),
		Category: d.Category(),
		Metadata: d.Metadata,
		Data:     d.Data,
	}

	children, err := d.Children(r.Context())
	if err != nil {
		// A lazy child that fails to parse is a content defect; the parent
		// is still serveable without its child list.
		s.logger.Error("Failed to resolve children.", "location", d.Location.String(), "error", err)
		return resp
	}
	for _, child := range children {
		resp.Children = append(resp.Children, child.String())
	}
	return resp
}

// handleCourses lists the root node of every loaded course.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	courses := s.store.GetCourses(r.Context())
	out := make([]itemResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, s.itemToResponse(r, c))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleItem resolves a single node by its canonical Location URL, passed
// as the `location` query parameter.
func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("location")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'location' query parameter")
		return
	}

	loc, err := location.Parse(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := s.store.GetItem(r.Context(), loc, 0)
	if err != nil {
		if errors.Is(err, modulestore.ErrItemNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, s.itemToResponse(r, d))
}

// handleRecommendations proxies the recommendation engine, filtered by the
// learner's enrollments and country.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.recommender == nil {
		s.writeError(w, http.StatusServiceUnavailable, "recommendations are not configured")
		return
	}

	query := r.URL.Query()
	learner := query.Get("user")
	if learner == "" {
		s.writeError(w, http.StatusBadRequest, "missing 'user' query parameter")
		return
	}

	result, err := s.recommender.Recommendations(r.Context(), learner)
	if err != nil {
		s.logger.Error("Recommendation lookup failed.", "learner", learner, "error", err)
		s.writeError(w, http.StatusNotFound, "no recommendations available")
		return
	}

	var enrolled []string
	if raw := query.Get("enrolled"); raw != "" {
		enrolled = strings.Split(raw, ",")
	}
	result.Courses = recommendations.Filter(result.Courses, enrolled, query.Get("country"), 0)

	s.writeJSON(w, http.StatusOK, result)
}
