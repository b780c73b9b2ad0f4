package recommendations

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/specialistvlad/coursegraph/internal/ctxlog"
)

// DefaultTimeout bounds a single engine request when no timeout is
// configured.
const DefaultTimeout = 10 * time.Second

// enginePayload is the engine's wire format.
type enginePayload struct {
	Courses   []Course `json:"courses"`
	IsControl *bool    `json:"is_control"`
}

// Client fetches recommendations from the external engine.
type Client struct {
	rest     *resty.Client
	fallback []Course
}

// NewClient builds a Client for the engine at baseURL. fallback, which may
// be empty, is served when the engine cannot be reached.
func NewClient(baseURL string, timeout time.Duration, fallback []Course) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		rest:     resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		fallback: fallback,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.rest.Close()
}

// Recommendations fetches the engine's recommendations for a learner. An
// unreachable or erroring engine degrades to the configured fallback list
// with the failure logged, not surfaced. An error is returned only when the
// engine failed and no fallback is configured.
func (c *Client) Recommendations(ctx context.Context, learnerID string) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	var payload enginePayload
	res, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("user", learnerID).
		SetResult(&payload).
		Get("/api/v1/recommendations")

	if err == nil && !res.IsError() {
		return Result{Courses: payload.Courses, IsControl: payload.IsControl}, nil
	}

	if err == nil {
		err = fmt.Errorf("recommendation engine responded %d", res.StatusCode())
	}

	if len(c.fallback) == 0 {
		return Result{}, err
	}

	logger.Warn("Recommendation engine unavailable, serving fallback.", "learner", learnerID, "error", err)
	return Result{Courses: c.fallback, FromFallback: true}, nil
}
