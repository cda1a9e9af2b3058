package check

import "fmt"

// Failure is the panic payload for an assertion-style failure raised inside a
// checked block or a function wrapped with CheckFunc. It is raised by Fail and
// Failf, intercepted by Block.Do and Recorder.CheckFunc, and treated as a hard
// test failure by the framework package if it escapes both.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// StopError is the panic payload for an escalation: soft-failure state that
// must abort the current test immediately, either because the max-fail limit
// was reached or because stop-on-first-failure mode is active. Checked blocks
// and CheckFunc never intercept it.
type StopError struct {
	Message string
}

func (s *StopError) Error() string {
	return s.Message
}

// Fail raises an assertion-style failure. Inside a checked block or a
// CheckFunc-wrapped function the failure is logged softly and execution
// continues after the block; anywhere else it aborts the test.
func Fail(message string) {
	panic(&Failure{Message: message})
}

// Failf is Fail with fmt.Sprintf formatting.
func Failf(format string, args ...interface{}) {
	panic(&Failure{Message: fmt.Sprintf(format, args...)})
}
