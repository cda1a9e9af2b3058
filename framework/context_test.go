package framework

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/softcheck/harness/check"
)

// eventLogger records the TestLogger callbacks as flat strings so tests can
// assert on both content and ordering.
type eventLogger struct {
	events []string
}

func (l *eventLogger) TestStarted(id TestID) {
	l.events = append(l.events, fmt.Sprintf("started:%s", id))
}

func (l *eventLogger) TestError(id TestID, err error) {
	l.events = append(l.events, fmt.Sprintf("error:%s:%s", id, err))
}

func (l *eventLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	l.events = append(l.events, fmt.Sprintf("finished:%s:failed=%t", id, failed))
}

func (l *eventLogger) TestSkipped(id TestID, reason string) {
	l.events = append(l.events, fmt.Sprintf("skipped:%s:%s", id, reason))
}

func errorMessages(errs []error) []string {
	ret := make([]string, 0, len(errs))
	for _, e := range errs {
		ret = append(ret, e.Error())
	}
	return ret
}

func findResult(t *testing.T, results Results, name string) TestResult {
	t.Helper()
	for _, r := range results.Tests {
		if r.TestID.String() == name {
			return r
		}
	}
	t.Fatalf("no result for test %q in %+v", name, results.Tests)
	return TestResult{}
}

func TestPassingTestsProduceOKResults(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("first", func(c *Context) {
			c.Checks().Equal(1, 1, "")
		})
		c.Run("second", func(c *Context) {})
	})
	assert.True(t, results.OK())
	assert.Len(t, results.Tests, 2)
	assert.Empty(t, results.Failures)
}

func TestFailedChecksAggregateIntoOneResult(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			cs := c.Checks()
			cs.Equal(3, 5, "should match")
			cs.True(false, "")
			cs.Equal("a", "a", "")
		})
	})
	require.Len(t, results.Failures, 1)
	r := findResult(t, results, "subject")
	assert.Equal(t, []string{
		"check 3 == 5: should match",
		"check value is true",
	}, errorMessages(r.Errors))
	require.Len(t, r.CallSites, 1)
	assert.Contains(t, r.CallSites[0].File, "context_test.go")
}

func TestSoftFailuresDoNotAbortTheTest(t *testing.T) {
	reachedEnd := false
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			c.Checks().Equal(1, 2, "")
			reachedEnd = true
		})
	})
	assert.True(t, reachedEnd)
	assert.False(t, results.OK())
}

func TestEscalationMarkerIsAppendedLast(t *testing.T) {
	afterEscalation := false
	results := Run(Config{Checks: check.Options{MaxFail: ldvalue.NewOptionalInt(2)}},
		nil, nil, func(c *Context) {
			c.Run("subject", func(c *Context) {
				cs := c.Checks()
				cs.Equal(1, 2, "")
				cs.Equal(3, 4, "")
				afterEscalation = true
			})
		})
	assert.False(t, afterEscalation)
	r := findResult(t, results, "subject")
	assert.Equal(t, []string{
		"check 1 == 2",
		"check 3 == 4",
		"max fail of 2 reached",
	}, errorMessages(r.Errors))
}

func TestStopOnFirstFailureAbortsTheTest(t *testing.T) {
	results := Run(Config{Checks: check.Options{StopOnFail: true}},
		nil, nil, func(c *Context) {
			c.Run("subject", func(c *Context) {
				c.Checks().Equal(1, 2, "")
				c.Errorf("never reached")
			})
		})
	r := findResult(t, results, "subject")
	assert.Equal(t, []string{
		"check 1 == 2",
		"stopping on first failure",
	}, errorMessages(r.Errors))
}

func TestBareAssertionFailureIsAHardError(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			check.Fail("no block around this")
		})
	})
	r := findResult(t, results, "subject")
	assert.Equal(t, []string{"no block around this"}, errorMessages(r.Errors))
	assert.False(t, results.OK())
}

func TestFailNowWithoutAnyMessage(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			c.FailNow()
		})
	})
	r := findResult(t, results, "subject")
	assert.Equal(t, []string{"test failed with no failure message"}, errorMessages(r.Errors))
}

func TestRequireStyleAssertionsAbortTheTest(t *testing.T) {
	reachedEnd := false
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			require.Equal(c, 1, 2)
			reachedEnd = true
		})
	})
	assert.False(t, reachedEnd)
	assert.False(t, results.OK())
	r := findResult(t, results, "subject")
	assert.NotEmpty(t, r.Errors)
}

func TestAssertStyleAssertionsAreSoft(t *testing.T) {
	reachedEnd := false
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			assert.Equal(c, 1, 2)
			reachedEnd = true
		})
	})
	assert.True(t, reachedEnd)
	assert.False(t, results.OK())
}

func TestUnexpectedPanicIsReportedAsFailure(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			panic("surprise")
		})
	})
	r := findResult(t, results, "subject")
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0].Error(), "unexpected panic in test: surprise")
}

func TestSkippedTestIsNotAFailure(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("subject", func(c *Context) {
			c.SkipWithReason("not supported here")
			c.Errorf("never reached")
		})
	})
	assert.True(t, results.OK())
	r := findResult(t, results, "subject")
	assert.True(t, r.Skipped)
	assert.Equal(t, "not supported here", r.SkipReason)
	assert.Empty(t, r.Errors)
}

func TestExpectedFailureIsReportedAsSkipped(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("known bug", func(c *Context) {
			c.ExpectFailure("tracked as issue 42")
			c.Checks().Equal(1, 2, "")
		})
		c.Run("fixed already", func(c *Context) {
			c.ExpectFailure("tracked as issue 43")
			c.Checks().Equal(1, 1, "")
		})
	})
	assert.True(t, results.OK())

	known := findResult(t, results, "known bug")
	assert.True(t, known.Skipped)
	assert.Equal(t, "tracked as issue 42", known.SkipReason)

	fixed := findResult(t, results, "fixed already")
	assert.False(t, fixed.Skipped)
}

func TestCheckStateDoesNotLeakBetweenTests(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("failing", func(c *Context) {
			c.Checks().Equal(1, 2, "")
		})
		c.Run("clean", func(c *Context) {
			assert.False(t, c.Checks().HasFailures())
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "failing", results.Failures[0].TestID.String())
	clean := findResult(t, results, "clean")
	assert.Empty(t, clean.Errors)
}

func TestSubtestIDsAreHierarchical(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) {
				c.Checks().Equal(1, 2, "")
			})
			c.Run("other", func(c *Context) {})
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "outer/inner", results.Failures[0].TestID.String())
	findResult(t, results, "outer/other")
}

func TestFilterExcludesTests(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^excluded"))

	ran := []string{}
	logger := &eventLogger{}
	Run(Config{}, filters.AsFilter, logger, func(c *Context) {
		c.Run("included", func(c *Context) { ran = append(ran, "included") })
		c.Run("excluded", func(c *Context) { ran = append(ran, "excluded") })
	})
	assert.Equal(t, []string{"included"}, ran)
	assert.Contains(t, logger.events, "skipped:excluded:excluded by filter parameters")
}

func TestMaxTestFailuresSkipsRemainingTests(t *testing.T) {
	logger := &eventLogger{}
	results := Run(Config{MaxTestFailures: ldvalue.NewOptionalInt(1)},
		nil, logger, func(c *Context) {
			c.Run("first", func(c *Context) {
				c.Checks().Equal(1, 2, "")
			})
			c.Run("second", func(c *Context) {
				c.Errorf("should not run")
			})
		})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "first", results.Failures[0].TestID.String())
	assert.Contains(t, logger.events, "skipped:second:maxfail limit reached")
}

func TestLoggerReceivesErrorsBeforeFinish(t *testing.T) {
	logger := &eventLogger{}
	Run(Config{}, nil, logger, func(c *Context) {
		c.Run("subject", func(c *Context) {
			c.Debug("some debug detail %d", 1)
			c.Checks().Equal(1, 2, "oops")
		})
	})
	require.Len(t, logger.events, 4)
	assert.Equal(t, "started:subject", logger.events[0])
	assert.Equal(t, "error:subject:check 1 == 2: oops", logger.events[1])
	assert.Contains(t, logger.events[2], "error:subject:at ")
	assert.Equal(t, "finished:subject:failed=true", logger.events[3])
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	var captured CapturedOutput
	logger := &eventLogger{}
	Run(Config{}, nil, testFinishedCapture{logger, &captured}, func(c *Context) {
		c.Run("subject", func(c *Context) {
			c.Debug("step %d", 1)
			c.DebugLogger().Printf("step %d", 2)
		})
	})
	require.Len(t, captured, 2)
	assert.Equal(t, "step 1", captured[0].Message)
	assert.Equal(t, "step 2", captured[1].Message)
}

type testFinishedCapture struct {
	*eventLogger
	dest *CapturedOutput
}

func (l testFinishedCapture) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	*l.dest = debugOutput
	l.eventLogger.TestFinished(id, failed, debugOutput)
}

func TestRootContextFailureIsRecorded(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Errorf("setup failed")
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "", results.Failures[0].TestID.String())
	assert.Equal(t, []string{"setup failed"}, errorMessages(results.Failures[0].Errors))
}

func TestRootContextSuppressedWhenClean(t *testing.T) {
	results := Run(Config{}, nil, nil, func(c *Context) {
		c.Run("only", func(c *Context) {})
	})
	assert.Len(t, results.Tests, 1)
	assert.Equal(t, "only", results.Tests[0].TestID.String())
}
