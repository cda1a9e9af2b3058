package checktests

import (
	"errors"
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softcheck/harness/check"
)

var errSentinel = errors.New("sentinel failure")

type timeoutError struct {
	after int
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timed out after %dms", e.after)
}

func DoPanicExpectationTests(t *T) {
	t.Run("matching panic is suppressed", func(t *T) {
		r := check.NewRecorder(check.Options{})
		met := r.ExpectPanic(errSentinel).Do(func() {
			panic(errSentinel)
		})
		assert.True(t, met)
		assert.False(t, r.HasFailures())
	})

	t.Run("wrapped errors match the sentinel", func(t *T) {
		r := check.NewRecorder(check.Options{})
		met := r.ExpectPanic(errSentinel).Do(func() {
			panic(fmt.Errorf("while fetching: %w", errSentinel))
		})
		assert.True(t, met)
		assert.False(t, r.HasFailures())
	})

	t.Run("same dynamic type matches", func(t *T) {
		r := check.NewRecorder(check.Options{})
		met := r.ExpectPanic(&timeoutError{after: 100}).Do(func() {
			panic(&timeoutError{after: 250})
		})
		assert.True(t, met)
		assert.False(t, r.HasFailures())
	})

	t.Run("no panic logs one failure", func(t *T) {
		r := check.NewRecorder(check.Options{})
		met := r.ExpectPanic(errSentinel).Do(func() {})
		assert.False(t, met)
		assert.Equal(t, 1, r.Count())
		msgs := r.Drain()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "no panic occurred")
	})

	t.Run("custom message replaces the generated one", func(t *T) {
		r := check.NewRecorder(check.Options{})
		r.ExpectPanic(errSentinel).Msg("the cache should have been poisoned").Do(func() {})
		require.Equal(t, []string{"the cache should have been poisoned"}, r.Drain())
	})

	t.Run("unexpected kind propagates unchanged", func(t *T) {
		r := check.NewRecorder(check.Options{})
		other := errors.New("unrelated failure")
		var recovered interface{}
		func() {
			defer func() { recovered = recover() }()
			r.ExpectPanic(errSentinel).Do(func() { panic(other) })
		}()
		require.NotNil(t, recovered)
		assert.Same(t, other, recovered.(error))
		assert.False(t, r.HasFailures())
	})

	t.Run("direct invocation form", func(t *T) {
		r := check.NewRecorder(check.Options{})
		assert.True(t, r.Panics(func() { panic(errSentinel) }, errSentinel))
		assert.False(t, r.Panics(func() {}, errSentinel))
		assert.Equal(t, 1, r.Count())
		r.Drain()
	})

	t.Run("malformed expectations are usage errors", func(t *T) {
		r := check.NewRecorder(check.Options{})
		for _, fn := range []func(){
			func() { r.ExpectPanic() },
			func() { r.ExpectPanic(errSentinel, nil) },
		} {
			var recovered interface{}
			func() {
				defer func() { recovered = recover() }()
				fn()
			}()
			require.NotNil(t, recovered)
			_, isError := recovered.(error)
			assert.True(t, isError, "usage error should be a plain error")
			assert.False(t, r.HasFailures(), "usage error must not be a soft failure")
		}
	})

	t.Run("stop-on-first aborts when no panic occurs", func(t *T) {
		r := check.NewRecorder(check.Options{StopOnFail: true})
		stopped, _ := escalates(func() {
			r.ExpectPanic(errSentinel).Do(func() {})
		})
		assert.True(t, stopped)
		assert.Equal(t, 1, r.Count())
	})
}
