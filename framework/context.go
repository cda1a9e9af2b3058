package framework

import (
	"errors"
	"fmt"
	"runtime/debug"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/softcheck/harness/check"
)

// Config holds the run-wide settings that the harness reads from its
// configuration once per run.
type Config struct {
	// Checks is the process-wide default configuration for each test's
	// failure recorder.
	Checks check.Options

	// MaxTestFailures, if defined, skips the remaining tests once this many
	// tests have failed.
	MaxTestFailures ldvalue.OptionalInt
}

type environment struct {
	config     Config
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the test execution unit. It is used similarly to *testing.T: it
// has a Run method for subtests, it can skip tests, and it implements
// require.TestingT so standard assertions from the assert and require
// packages can be used against it. Assert failures are aggregated as soft
// failures; require failures abort the test.
//
// Each Context owns a fresh failure recorder, so soft-check state never leaks
// between tests.
type Context struct {
	env              *environment
	id               TestID
	checks           *check.Recorder
	debugLogger      CapturingLogger
	failed           bool
	skipped          bool
	skipReason       string
	expectFail       bool
	expectFailReason string
	errors           []error
}

// Run executes a top-level test function and returns the accumulated results.
// The filter and testLogger parameters may be nil.
func Run(
	config Config,
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		config:     config,
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env, checks: check.NewRecorder(config.Checks)}
	c.run(action)
	return env.results
}

// ID returns the full path of the current test.
func (c *Context) ID() TestID {
	return c.id
}

// Checks returns the failure recorder owned by this test. Predicate checks,
// checked blocks, and panic expectations made through it are aggregated into
// this test's result.
func (c *Context) Checks() *check.Recorder {
	return c.checks
}

// Run executes a subtest, unless it is excluded by the run's filter or the
// run has already reached its failed-test limit.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.child(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	if max := c.env.config.MaxTestFailures; max.IsDefined() && len(c.env.results.Failures) >= max.IntValue() {
		c.env.testLogger.TestSkipped(id, "maxfail limit reached")
		return
	}

	c1 := &Context{
		id:     id,
		env:    c.env,
		checks: check.NewRecorder(c.env.config.Checks),
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		var panicErr error
		if r := recover(); r != nil {
			switch p := r.(type) {
			case *Context:
				// FailNow or Skip
				if !c.skipped {
					c.failed = true
					if len(c.errors) == 0 && !c.checks.HasFailures() {
						panicErr = errors.New("test failed with no failure message")
					}
				}
			case *check.StopError:
				// escalation: max fail reached, or stop-on-first-failure
				c.failed = true
				panicErr = errors.New(p.Message)
			case *check.Failure:
				// an assertion-style failure outside any checked block
				c.failed = true
				panicErr = errors.New(p.Message)
			default:
				c.failed = true
				panicErr = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
		}
		c.finish(panicErr)
	}()

	action(c)
}

// finish implements the end-of-test side of the runner contract: drain the
// recorder, fold its messages into the result, and leave the recorder reset
// regardless of outcome.
func (c *Context) finish(panicErr error) {
	hadCheckFailures := c.checks.HasFailures()
	sites := c.checks.CallSites()
	messages := c.checks.Drain()

	if c.skipped {
		c.env.results.Tests = append(c.env.results.Tests,
			TestResult{TestID: c.id, Skipped: true, SkipReason: c.skipReason})
		return
	}

	if hadCheckFailures {
		c.failed = true
	}
	for _, m := range messages {
		err := errors.New(m)
		c.errors = append(c.errors, err)
		c.env.testLogger.TestError(c.id, err)
	}
	if panicErr != nil {
		c.errors = append(c.errors, panicErr)
		c.env.testLogger.TestError(c.id, panicErr)
	}
	for _, s := range sites {
		c.env.testLogger.TestError(c.id, fmt.Errorf("at %s", s))
	}

	if len(c.id.Path) == 0 && !c.failed {
		// The root context exists only to host the top-level groups; it does
		// not appear in the results unless something failed in it directly.
		return
	}

	result := TestResult{TestID: c.id, Errors: c.errors, CallSites: sites}

	if c.failed && c.expectFail {
		// A test pre-marked as expected-to-fail is reported as skipped, with
		// the expectation's reason attached instead of a failure.
		result.Skipped = true
		result.SkipReason = c.expectFailReason
		c.env.results.Tests = append(c.env.results.Tests, result)
		return
	}

	c.env.results.Tests = append(c.env.results.Tests, result)
	if c.failed {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
}

// Errorf records a soft failure, through the same path as a failed predicate
// check. Together with FailNow this satisfies require.TestingT.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.checks.Record(fmt.Sprintf(format, args...), "")
}

// FailNow aborts the current test immediately.
func (c *Context) FailNow() {
	panic(c)
}

// Skip marks the current test as skipped and aborts it.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

// SkipWithReason is Skip with an explanation attached to the result.
func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// ExpectFailure pre-marks the current test as expected to fail. If the test
// then accumulates failures, it is reported as skipped with the given reason
// rather than failed. A test that passes anyway is reported normally.
func (c *Context) ExpectFailure(reason string) {
	c.expectFail = true
	c.expectFailReason = reason
}

// Debug writes a message to the test's captured debug log.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

// DebugLogger returns the test's captured debug log as a Logger.
func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
