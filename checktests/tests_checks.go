package checktests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softcheck/harness/check"
)

func DoPredicateCheckTests(t *T) {
	t.Run("passing checks have no side effects", func(t *T) {
		r := check.NewRecorder(check.Options{})
		assert.True(t, r.Equal(3, 3, ""))
		assert.True(t, r.NotEqual(3, 5, ""))
		assert.True(t, r.True(true, ""))
		assert.True(t, r.False(false, ""))
		assert.True(t, r.Nil(nil, ""))
		assert.True(t, r.NotNil(3, ""))
		assert.True(t, r.In("b", []string{"a", "b"}, ""))
		assert.True(t, r.NotIn("z", []string{"a", "b"}, ""))
		assert.True(t, r.IsType("s", "t", ""))
		assert.True(t, r.Greater(3, 2, ""))
		assert.True(t, r.LessEqual(2, 2, ""))
		assert.True(t, r.Between(3, 2, 4, "", false, false))
		assert.False(t, r.HasFailures())
		assert.Empty(t, r.Drain())
	})

	t.Run("failing check formats the comparison", func(t *T) {
		r := check.NewRecorder(check.Options{})
		assert.False(t, r.Equal(3, 5, "should match"))
		assert.True(t, r.HasFailures())
		require.Equal(t, []string{"check 3 == 5: should match"}, r.Drain())
	})

	t.Run("failures accumulate in call order", func(t *T) {
		r := check.NewRecorder(check.Options{})
		r.Equal(1, 2, "")
		r.Less(5, 4, "")
		r.In("z", "abc", "")
		require.Equal(t, []string{
			"check 1 == 2",
			"check 5 < 4",
			"check z in abc",
		}, r.Drain())
	})

	t.Run("approximate equality", func(t *T) {
		r := check.NewRecorder(check.Options{})
		assert.True(t, r.AlmostEqual(1.0, 1.0000001, ""))
		assert.True(t, r.AlmostEqualTol(1.0, 1.05, 0.1, 0, ""))
		assert.False(t, r.AlmostEqualTol(1.0, 1.2, 0.1, 0.05, ""))
		assert.True(t, r.NotAlmostEqual(1.0, 2.0, ""))
		require.Equal(t,
			[]string{"check 1 == approx(1.2, rel=0.1, abs=0.05)"},
			r.Drain())
	})

	t.Run("between honors bound inclusion", func(t *T) {
		r := check.NewRecorder(check.Options{})
		assert.False(t, r.Between(2, 2, 4, "", false, false))
		assert.True(t, r.Between(2, 2, 4, "", true, false))
		assert.False(t, r.Between(4, 2, 4, "", true, false))
		assert.True(t, r.Between(4, 2, 4, "", true, true))
		require.Equal(t, []string{
			"check 2 < 2 < 4",
			"check 2 <= 4 < 4",
		}, r.Drain())
	})

	t.Run("checks against the current test's recorder", func(t *T) {
		// These all pass, so they leave no trace in this test's result.
		cs := t.Checks()
		assert.True(t, cs.Equal("a", "a", ""))
		assert.True(t, cs.Between(10, 5, 20, "", false, false))
		assert.False(t, cs.HasFailures())
	})
}
