package framework

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/softcheck/harness/check"
)

// Results accumulates the outcome of a whole test run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of a single test: its aggregated failure
// messages (in the order they were observed) and any call-site diagnostics
// that were captured for them.
type TestResult struct {
	TestID     TestID
	Errors     []error
	CallSites  []check.CallSite
	Skipped    bool
	SkipReason string
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func (t TestID) child(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults prints a summary of a completed run to standard output.
func PrintResults(results Results) {
	if results.OK() {
		fmt.Println(color.GreenString("PASS: %d tests", len(results.Tests)))
		return
	}

	fmt.Println(color.RedString("FAIL: %d tests, %d failures", len(results.Tests), len(results.Failures)))
	fmt.Println()
	fmt.Println("Failed tests:")
	for _, f := range results.Failures {
		fmt.Printf("* %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}
}
