package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/coursegraph/internal/descriptor"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	h := &descriptor.Handler{Category: "poll"}
	r.Register(h)

	got, ok := r.Lookup("poll")
	require.True(t, ok)
	assert.Same(t, h, got)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.Register(&descriptor.Handler{Category: "poll"})
	assert.Panics(t, func() {
		r.Register(&descriptor.Handler{Category: "poll"})
	})
}

func TestResolvePrecedence(t *testing.T) {
	r := New()
	problem := &descriptor.Handler{Category: "problem"}
	raw := &descriptor.Handler{Category: "raw"}
	fallback := &descriptor.Handler{Category: "html"}
	r.Register(problem)
	r.Register(raw)

	t.Run("explicit override wins over category", func(t *testing.T) {
		h, err := r.Resolve("problem", "raw", fallback)
		require.NoError(t, err)
		assert.Same(t, raw, h)
	})

	t.Run("category match", func(t *testing.T) {
		h, err := r.Resolve("problem", "", fallback)
		require.NoError(t, err)
		assert.Same(t, problem, h)
	})

	t.Run("store default fallback", func(t *testing.T) {
		h, err := r.Resolve("wordcloud", "", fallback)
		require.NoError(t, err)
		assert.Same(t, fallback, h)
	})

	t.Run("unknown override fails even with default", func(t *testing.T) {
		_, err := r.Resolve("problem", "nonexistent", fallback)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPluginLoad)
	})

	t.Run("nothing resolves", func(t *testing.T) {
		_, err := r.Resolve("wordcloud", "", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnresolvedType)
	})
}

func TestBuiltinVocabulary(t *testing.T) {
	r := Builtin()

	course, ok := r.Lookup("course")
	require.True(t, ok)
	assert.True(t, course.Container)

	problem, ok := r.Lookup("problem")
	require.True(t, ok)
	assert.False(t, problem.Container)
}
