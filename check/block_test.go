package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockWithNoFailureIsANoOp(t *testing.T) {
	r := NewRecorder(Options{})
	ran := false
	r.Block().Do(func() { ran = true })
	assert.True(t, ran)
	assert.False(t, r.HasFailures())
}

func TestBlockLogsAndSuppressesFailures(t *testing.T) {
	r := NewRecorder(Options{})
	afterBlock := false
	r.Block().Do(func() {
		Fail("inner failure")
	})
	afterBlock = true

	assert.True(t, afterBlock)
	require.Equal(t, []string{"inner failure"}, r.Drain())
}

func TestBlockMessageIsOneShot(t *testing.T) {
	r := NewRecorder(Options{})
	b := r.Block()

	b.Msg("checking the first thing").Do(func() { Fail("one") })
	b.Do(func() { Fail("two") })

	require.Equal(t, []string{
		"checking the first thing\none",
		"two",
	}, r.Drain())
}

func TestBlockMessageClearedOnSuccessfulExit(t *testing.T) {
	r := NewRecorder(Options{})
	b := r.Block()
	b.Msg("stale message").Do(func() {})
	b.Do(func() { Fail("fresh failure") })
	require.Equal(t, []string{"fresh failure"}, r.Drain())
}

func TestBlockDoesNotInterceptForeignPanics(t *testing.T) {
	r := NewRecorder(Options{})
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		r.Block().Do(func() { panic("boom") })
	}()
	assert.Equal(t, "boom", recovered)
	assert.False(t, r.HasFailures())
}

func TestBlockDoesNotInterceptEscalations(t *testing.T) {
	r := NewRecorder(Options{})
	r.SetMaxFail(1)
	message := expectStop(t, func() {
		r.Block().Do(func() {
			r.Equal(1, 2, "")
		})
	})
	assert.Equal(t, "max fail of 1 reached", message)
}

func TestBlockPropagatesFailureInStopOnFailMode(t *testing.T) {
	r := NewRecorder(Options{StopOnFail: true})
	b := r.Block()
	b.Msg("pending")
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		b.Do(func() { Fail("boom") })
	}()
	f, ok := recovered.(*Failure)
	require.True(t, ok)
	assert.Equal(t, "boom", f.Message)
	assert.False(t, r.HasFailures())

	// The pending message must have been cleared even on the propagation path.
	assert.False(t, b.hasMsg)
}

func TestCheckFuncReturnsTrueOnSuccess(t *testing.T) {
	r := NewRecorder(Options{})
	assert.True(t, r.CheckFunc(func() {}))
	assert.False(t, r.HasFailures())
}

func TestCheckFuncLogsFailuresAndReturnsFalse(t *testing.T) {
	r := NewRecorder(Options{})
	ok := r.CheckFunc(func() {
		Failf("expected %d widgets, found %d", 3, 2)
	})
	assert.False(t, ok)
	require.Equal(t, []string{"expected 3 widgets, found 2"}, r.Drain())
}

func TestCheckFuncEscalatesInStopOnFailMode(t *testing.T) {
	r := NewRecorder(Options{StopOnFail: true})
	expectStop(t, func() {
		r.CheckFunc(func() { Fail("boom") })
	})
	assert.Equal(t, 1, r.Count())
}

func TestCheckFuncDoesNotInterceptForeignPanics(t *testing.T) {
	r := NewRecorder(Options{})
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		r.CheckFunc(func() { panic("boom") })
	}()
	assert.Equal(t, "boom", recovered)
	assert.False(t, r.HasFailures())
}
