package check

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// PanicExpectation verifies that a panic of an expected kind occurs within a
// scope. Expected kinds are non-nil error values; see Matches for the
// matching rules. A handle is created fresh per use and holds nothing beyond
// the expected kinds and an optional custom message.
type PanicExpectation struct {
	r        *Recorder
	kinds    []error
	msg      string
	site     CallSite
	haveSite bool
}

// ExpectPanic returns an expectation handle for a scope that should panic
// with one of the given error kinds.
//
// A malformed expectation (no kinds, or a nil kind) is a defect in the test
// itself, never a soft failure: ExpectPanic panics immediately with a plain
// error, which the framework reports as a hard test error.
func (r *Recorder) ExpectPanic(kinds ...error) *PanicExpectation {
	if len(kinds) == 0 {
		panic(errors.New("ExpectPanic requires at least one expected error kind"))
	}
	for _, k := range kinds {
		if k == nil {
			panic(errors.New("ExpectPanic was given a nil expected error kind"))
		}
	}
	return &PanicExpectation{r: r, kinds: kinds}
}

// Panics is the direct-invocation form of ExpectPanic: it runs action
// immediately, using the expectation as a scope around that single call.
func (r *Recorder) Panics(action func(), kinds ...error) bool {
	e := r.ExpectPanic(kinds...)
	if r.wantCallSite() {
		e.site, e.haveSite = callSite(0)
	}
	return e.Do(action)
}

// Msg sets a custom message to log when the expected panic does not occur.
func (e *PanicExpectation) Msg(msg string) *PanicExpectation {
	e.msg = msg
	return e
}

// Do runs action and reports whether a panic of an expected kind occurred.
//
// A matching panic is suppressed and nothing is logged. A panic of any other
// kind is a real error, not a soft-check failure, and propagates unchanged.
// If no panic occurs the expectation was not met: one soft failure is logged,
// or, in stop-on-first-failure mode, the test aborts.
func (e *PanicExpectation) Do(action func()) bool {
	if !e.haveSite && e.r.wantCallSite() {
		e.site, e.haveSite = callSite(0)
	}

	panicked := false
	func() {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && e.Matches(err) {
				panicked = true
				return
			}
			panic(rec)
		}()
		action()
	}()
	if panicked {
		return true
	}

	desc := e.msg
	if desc == "" {
		desc = fmt.Sprintf("expected a panic with %s, but no panic occurred", describeKinds(e.kinds))
	}
	e.r.recordAt(e.site, e.haveSite, desc, "")
	return false
}

// Matches reports whether err is one of the expected kinds: either errors.Is
// relates the two (a sentinel error, possibly wrapped, which is the ancestor
// rule) or their dynamic types are identical (the exact-type rule).
func (e *PanicExpectation) Matches(err error) bool {
	for _, kind := range e.kinds {
		if errors.Is(err, kind) || reflect.TypeOf(err) == reflect.TypeOf(kind) {
			return true
		}
	}
	return false
}

func describeKinds(kinds []error) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%T (%v)", k, k))
	}
	return strings.Join(parts, " or ")
}
