package checktests

import (
	"github.com/softcheck/harness/check"
	"github.com/softcheck/harness/framework"
)

// T represents a test or subtest in the verification suite.
//
// It implements the same basic functionality as Go's testing.T, but in an
// environment that is outside of the Go test runner. To make test assertions,
// you can use the assert and require packages, passing the *T as if it were a
// *testing.T: assert failures are aggregated softly, require failures abort
// the test.
type T struct {
	*framework.Context
}

// Run executes a subtest.
func (t *T) Run(name string, action func(*T)) {
	t.Context.Run(name, func(c *framework.Context) {
		action(&T{Context: c})
	})
}

// escalates runs fn and reports whether it escalated (aborted with the
// hard-stop condition that max-fail or stop-on-first produces). Any other
// panic propagates.
func escalates(fn func()) (stopped bool, message string) {
	defer func() {
		if rec := recover(); rec != nil {
			s, ok := rec.(*check.StopError)
			if !ok {
				panic(rec)
			}
			stopped = true
			message = s.Message
		}
	}()
	fn()
	return false, ""
}
