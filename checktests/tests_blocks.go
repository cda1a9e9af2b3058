package checktests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softcheck/harness/check"
)

func DoCheckedBlockTests(t *T) {
	t.Run("quiet block leaves the log unchanged", func(t *T) {
		r := check.NewRecorder(check.Options{})
		ran := false
		r.Block().Do(func() { ran = true })
		assert.True(t, ran)
		assert.False(t, r.HasFailures())
	})

	t.Run("failure inside a block is logged and suppressed", func(t *T) {
		r := check.NewRecorder(check.Options{})
		resumed := false
		r.Block().Do(func() {
			check.Fail("the widget count is off")
		})
		resumed = true
		assert.True(t, resumed)
		require.Equal(t, []string{"the widget count is off"}, r.Drain())
	})

	t.Run("block message prefixes the failure", func(t *T) {
		r := check.NewRecorder(check.Options{})
		r.Block().Msg("while validating the response").Do(func() {
			check.Failf("field %q missing", "id")
		})
		require.Equal(t,
			[]string{"while validating the response\nfield \"id\" missing"},
			r.Drain())
	})

	t.Run("block message applies to the next entry only", func(t *T) {
		r := check.NewRecorder(check.Options{})
		b := r.Block()
		b.Msg("first entry").Do(func() {})
		b.Do(func() { check.Fail("boom") })
		require.Equal(t, []string{"boom"}, r.Drain())
	})

	t.Run("foreign panics pass through", func(t *T) {
		r := check.NewRecorder(check.Options{})
		caught := false
		func() {
			defer func() {
				caught = recover() != nil
			}()
			r.Block().Do(func() { panic("not an assertion failure") })
		}()
		assert.True(t, caught)
		assert.False(t, r.HasFailures())
	})

	t.Run("stop-on-first lets block failures propagate", func(t *T) {
		r := check.NewRecorder(check.Options{StopOnFail: true})
		propagated := false
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					_, propagated = rec.(*check.Failure)
				}
			}()
			r.Block().Do(func() { check.Fail("boom") })
		}()
		assert.True(t, propagated)
		assert.False(t, r.HasFailures())
	})

	t.Run("check funcs convert failures to booleans", func(t *T) {
		r := check.NewRecorder(check.Options{})
		assert.True(t, r.CheckFunc(func() {}))
		assert.False(t, r.CheckFunc(func() {
			if 1+1 != 3 {
				check.Fail("arithmetic is broken")
			}
		}))
		require.Equal(t, []string{"arithmetic is broken"}, r.Drain())
	})
}
