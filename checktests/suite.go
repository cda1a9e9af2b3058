package checktests

import (
	"github.com/softcheck/harness/framework"
)

// RunTestSuite runs the verification suite and returns its results.
func RunTestSuite(
	config framework.Config,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(config, filter, testLogger, func(c *framework.Context) {
		t := &T{Context: c}

		t.Run("predicate checks", DoPredicateCheckTests)
		t.Run("checked blocks", DoCheckedBlockTests)
		t.Run("panic expectations", DoPanicExpectationTests)
		t.Run("failure limits", DoFailureLimitTests)
		t.Run("HTTP responses", DoHTTPResponseTests)
	})
}
