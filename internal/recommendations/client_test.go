package recommendations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/recommendations", r.URL.Path)
		assert.Equal(t, "learner-42", r.URL.Query().Get("user"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"courses": [
				{"key": "MITx+6.00.1x", "uuid": "4f8cb2c9-589b-4d1e-88c1-b01a02db3a9c",
				 "title": "Title for MITx+6.00.1x",
				 "image": {"src": "https://example.com/logo.png"},
				 "owners": [{"key": "org-1", "name": "org 1", "logo_image_url": "https://example.com/org.png"}],
				 "active_course_run": {"key": "course-v1:Test+2023_T1", "marketing_url": "https://example.com/m"}}
			],
			"is_control": false
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	defer c.Close()

	result, err := c.Recommendations(context.Background(), "learner-42")
	require.NoError(t, err)
	assert.False(t, result.FromFallback)
	require.NotNil(t, result.IsControl)
	assert.False(t, *result.IsControl)
	require.Len(t, result.Courses, 1)
	assert.Equal(t, "MITx+6.00.1x", result.Courses[0].Key)
	require.NotNil(t, result.Courses[0].ActiveCourseRun)
	assert.Equal(t, "course-v1:Test+2023_T1", result.Courses[0].ActiveCourseRun.Key)
}

func TestRecommendationsEngineErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fallback := []Course{{Key: "HarvardX+CS50x", Title: "Introduction to Computer Science"}}
	c := NewClient(srv.URL, 0, fallback)
	defer c.Close()

	result, err := c.Recommendations(context.Background(), "learner-42")
	require.NoError(t, err)
	assert.True(t, result.FromFallback)
	assert.Nil(t, result.IsControl)
	assert.Equal(t, fallback, result.Courses)
}

func TestRecommendationsEngineErrorNoFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	defer c.Close()

	_, err := c.Recommendations(context.Background(), "learner-42")
	require.Error(t, err)
}

func TestRecommendationsUnreachableEngineFallsBack(t *testing.T) {
	fallback := []Course{{Key: "HarvardX+CS50x"}}
	c := NewClient("http://127.0.0.1:1", 0, fallback)
	defer c.Close()

	result, err := c.Recommendations(context.Background(), "learner-42")
	require.NoError(t, err)
	assert.True(t, result.FromFallback)
}
