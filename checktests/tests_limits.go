package checktests

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/softcheck/harness/check"
)

func DoFailureLimitTests(t *T) {
	t.Run("reporting cap retains the first N messages", func(t *T) {
		r := check.NewRecorder(check.Options{MaxReport: ldvalue.NewOptionalInt(2)})
		for i := 0; i < 5; i++ {
			r.Equal(i, i+1, "")
		}
		assert.Equal(t, 5, r.Count())
		assert.True(t, r.HasFailures())
		require.Equal(t, []string{"check 0 == 1", "check 1 == 2"}, r.Drain())
	})

	t.Run("per-test override of the reporting cap", func(t *T) {
		r := check.NewRecorder(check.Options{})
		r.SetMaxReport(1)
		r.Equal(1, 2, "")
		r.Equal(3, 4, "")
		assert.Equal(t, 2, r.Count())
		require.Len(t, r.Drain(), 1)

		// The override must not survive the drain.
		r.Equal(1, 2, "")
		r.Equal(3, 4, "")
		require.Len(t, r.Drain(), 2)
	})

	t.Run("max fail escalates on the Kth failure", func(t *T) {
		r := check.NewRecorder(check.Options{MaxFail: ldvalue.NewOptionalInt(3)})
		assert.False(t, r.Equal(1, 2, ""))
		assert.False(t, r.Equal(3, 4, ""))
		stopped, message := escalates(func() { r.Equal(5, 6, "") })
		require.True(t, stopped)
		assert.Equal(t, "max fail of 3 reached", message)
		assert.Equal(t, 3, r.Count())
		assert.Len(t, r.Failures(), 3)
		r.Reset()
	})

	t.Run("stop-on-first escalates immediately", func(t *T) {
		r := check.NewRecorder(check.Options{StopOnFail: true})
		stopped, message := escalates(func() { r.Equal(1, 2, "") })
		require.True(t, stopped)
		assert.Equal(t, "stopping on first failure", message)
		assert.Equal(t, 1, r.Count())
	})

	t.Run("stop-on-first overrides max fail", func(t *T) {
		r := check.NewRecorder(check.Options{
			MaxFail:    ldvalue.NewOptionalInt(10),
			StopOnFail: true,
		})
		stopped, message := escalates(func() { r.Equal(1, 2, "") })
		require.True(t, stopped)
		assert.Equal(t, "stopping on first failure", message)
	})

	t.Run("drain resets state and limits", func(t *T) {
		r := check.NewRecorder(check.Options{})
		r.SetMaxFail(2)
		r.Equal(1, 2, "")
		stopped, _ := escalates(func() { r.Equal(3, 4, "") })
		require.True(t, stopped)

		msgs := r.Drain()
		assert.Len(t, msgs, 2)
		assert.Equal(t, 0, r.Count())
		assert.False(t, r.HasFailures())

		// With the limit back at the process default there is no escalation.
		for i := 0; i < 10; i++ {
			r.Equal(i, i+1, "")
		}
		assert.Equal(t, 10, r.Count())
		r.Reset()
	})

	t.Run("call-site capture is capped independently", func(t *T) {
		r := check.NewRecorder(check.Options{
			MaxReport:    ldvalue.NewOptionalInt(1),
			MaxCallSites: ldvalue.NewOptionalInt(3),
		})
		for i := 0; i < 5; i++ {
			r.Equal(i, i+1, fmt.Sprintf("attempt %d", i))
		}
		assert.Len(t, r.Failures(), 1)
		sites := r.CallSites()
		require.Len(t, sites, 3)
		for _, s := range sites {
			assert.Contains(t, s.File, "tests_limits.go")
			assert.Greater(t, s.Line, 0)
		}
		r.Reset()
	})

	t.Run("zero max call sites disables capture", func(t *T) {
		r := check.NewRecorder(check.Options{MaxCallSites: ldvalue.NewOptionalInt(0)})
		r.Equal(1, 2, "")
		assert.Empty(t, r.CallSites())
		r.Drain()
	})
}
