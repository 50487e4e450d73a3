package arbitrary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcorp/proptest/arbitrary"
	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/testutil"
)

func TestTypeDescriptorString(t *testing.T) {
	td := arbitrary.Type("map", arbitrary.Type("string"), arbitrary.Type("list", arbitrary.Type("int")))
	assert.Equal(t, "map[string, list[int]]", td.String())
}

func TestDefaultRegistry(t *testing.T) {
	r := arbitrary.DefaultRegistry()
	assert.Same(t, r, arbitrary.DefaultRegistry())
	random := testutil.NewRand(40)

	t.Run("scalars", func(t *testing.T) {
		a, err := arbitrary.ForTypeOf[int8](r, arbitrary.Type("int8"))
		require.NoError(t, err)
		assert.NotPanics(t, func() { a.Generator(100).Next(random) })

		s, err := arbitrary.ForTypeOf[string](r, arbitrary.Type("string"))
		require.NoError(t, err)
		assert.IsType(t, "", s.Generator(100).Next(random).Value())
	})

	t.Run("containers resolve their parameters", func(t *testing.T) {
		a, err := r.ForType(arbitrary.Type("list", arbitrary.Type("bool")))
		require.NoError(t, err)
		values, ok := a.Generator(10).Next(random).Value().([]any)
		require.True(t, ok)
		for _, v := range values {
			assert.IsType(t, true, v)
		}

		m, err := r.ForType(arbitrary.Type("map", arbitrary.Type("uint8"), arbitrary.Type("string")))
		require.NoError(t, err)
		assert.IsType(t, map[any]any{}, m.Generator(10).Next(random).Value())
	})

	t.Run("unknown types", func(t *testing.T) {
		_, err := r.ForType(arbitrary.Type("list", arbitrary.Type("widget")))
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCannotGenerate))

		_, err = r.ForType(arbitrary.Type("list"))
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCannotGenerate))
	})
}

func TestRegistryLifecycle(t *testing.T) {
	r := arbitrary.NewRegistry()
	widget := arbitrary.Type("widget")

	_, err := r.ForType(widget)
	require.Error(t, err)

	r.Register("widgets", arbitrary.ForName("widget", func() arbitrary.Arbitrary[any] {
		return arbitrary.Boxed(arbitrary.Of("gear", "cog"))
	}))
	r.Register("fallback", arbitrary.ForName("widget", func() arbitrary.Arbitrary[any] {
		return arbitrary.Boxed(arbitrary.Just("unused"))
	}))
	assert.Equal(t, []string{"widgets", "fallback"}, r.Names())
	assert.True(t, r.Has("widgets"))

	a, err := arbitrary.ForTypeOf[string](r, widget)
	require.NoError(t, err)
	assert.Contains(t, []string{"gear", "cog"}, a.Generator(10).Next(testutil.NewRand(1)).Value())

	assert.True(t, r.Unregister("widgets"))
	assert.False(t, r.Unregister("widgets"))
	assert.Equal(t, []string{"fallback"}, r.Names())

	a, err = arbitrary.ForTypeOf[string](r, widget)
	require.NoError(t, err)
	assert.Equal(t, "unused", a.Generator(10).Next(testutil.NewRand(1)).Value())
}
