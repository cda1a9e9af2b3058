package check

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

type timeoutError struct {
	op string
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timed out during %s", e.op)
}

func TestExpectPanicSuppressesMatchingPanic(t *testing.T) {
	r := NewRecorder(Options{})
	ok := r.ExpectPanic(errSentinel).Do(func() {
		panic(errSentinel)
	})
	assert.True(t, ok)
	assert.False(t, r.HasFailures())
}

func TestExpectPanicMatchesWrappedError(t *testing.T) {
	r := NewRecorder(Options{})
	ok := r.ExpectPanic(errSentinel).Do(func() {
		panic(fmt.Errorf("while connecting: %w", errSentinel))
	})
	assert.True(t, ok)
	assert.False(t, r.HasFailures())
}

func TestExpectPanicMatchesSameDynamicType(t *testing.T) {
	r := NewRecorder(Options{})
	ok := r.ExpectPanic(&timeoutError{op: "any"}).Do(func() {
		panic(&timeoutError{op: "read"})
	})
	assert.True(t, ok)
	assert.False(t, r.HasFailures())
}

func TestExpectPanicWithMultipleKinds(t *testing.T) {
	r := NewRecorder(Options{})
	e := r.ExpectPanic(errSentinel, &timeoutError{})
	assert.True(t, e.Matches(errSentinel))
	assert.True(t, e.Matches(&timeoutError{op: "write"}))
	assert.False(t, e.Matches(errors.New("unrelated")))
}

func TestExpectPanicLogsFailureWhenNoPanicOccurs(t *testing.T) {
	r := NewRecorder(Options{})
	ok := r.ExpectPanic(errSentinel).Do(func() {})
	assert.False(t, ok)
	msg := drainOne(t, r)
	assert.Equal(t, fmt.Sprintf(
		"expected a panic with %T (%v), but no panic occurred", errSentinel, errSentinel), msg)
}

func TestExpectPanicCustomMessage(t *testing.T) {
	r := NewRecorder(Options{})
	r.ExpectPanic(errSentinel).Msg("the lookup should have failed").Do(func() {})
	assert.Equal(t, "the lookup should have failed", drainOne(t, r))
}

func TestExpectPanicPropagatesUnexpectedPanics(t *testing.T) {
	r := NewRecorder(Options{})
	other := errors.New("other")
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		r.ExpectPanic(errSentinel).Do(func() { panic(other) })
	}()
	assert.Equal(t, other, recovered)
	assert.False(t, r.HasFailures())
}

func TestExpectPanicPropagatesNonErrorPanics(t *testing.T) {
	r := NewRecorder(Options{})
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		r.ExpectPanic(errSentinel).Do(func() { panic("not an error") })
	}()
	assert.Equal(t, "not an error", recovered)
	assert.False(t, r.HasFailures())
}

func TestPanicsDirectForm(t *testing.T) {
	r := NewRecorder(Options{})
	assert.True(t, r.Panics(func() { panic(errSentinel) }, errSentinel))
	assert.False(t, r.Panics(func() {}, errSentinel))
	assert.Equal(t, 1, r.Count())
	r.Reset()
}

func TestExpectPanicRejectsMalformedExpectations(t *testing.T) {
	r := NewRecorder(Options{})

	// Both usage errors panic with a plain error, not a soft failure.
	for _, call := range []func(){
		func() { r.ExpectPanic() },
		func() { r.ExpectPanic(errSentinel, nil) },
	} {
		var recovered interface{}
		func() {
			defer func() { recovered = recover() }()
			call()
		}()
		require.NotNil(t, recovered)
		_, isErr := recovered.(error)
		assert.True(t, isErr)
		_, isFailure := recovered.(*Failure)
		assert.False(t, isFailure)
	}
	assert.False(t, r.HasFailures())
}

func TestExpectPanicEscalatesInStopOnFailMode(t *testing.T) {
	r := NewRecorder(Options{StopOnFail: true})
	message := expectStop(t, func() {
		r.ExpectPanic(errSentinel).Do(func() {})
	})
	assert.Equal(t, "stopping on first failure", message)
	assert.Equal(t, 1, r.Count())
}

func TestExpectPanicAgainstRealLibraryError(t *testing.T) {
	r := NewRecorder(Options{})
	ok := r.ExpectPanic(os.ErrNotExist).Do(func() {
		if _, err := os.Stat("definitely-not-a-real-file-12345"); err != nil {
			panic(err)
		}
	})
	assert.True(t, ok)
	assert.False(t, r.HasFailures())
}
