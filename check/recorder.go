package check

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const defaultMaxCallSites = 1

// Options are the process-wide defaults for a Recorder. The host runner reads
// them from its configuration once per run; the Recorder restores them
// whenever its per-test state is reset, so a per-test override never leaks
// into the next test.
type Options struct {
	// MaxFail, if defined, escalates to a hard test abort when the number of
	// recorded failures reaches this value.
	MaxFail ldvalue.OptionalInt

	// MaxReport, if defined, caps how many failure messages are retained for
	// display. Failures past the cap still count.
	MaxReport ldvalue.OptionalInt

	// MaxCallSites caps how many call-site diagnostics are attached per test,
	// independently of MaxReport. Zero disables capture entirely. If not
	// defined, one call site is captured.
	MaxCallSites ldvalue.OptionalInt

	// StopOnFail makes the very first recorded failure abort the test.
	StopOnFail bool

	// UseColor wraps retained failure messages in red. Presentation only;
	// it never affects counting.
	UseColor bool
}

// Recorder is the failure log for one test execution unit. It accumulates
// soft-check failures so that the test can surface any number of independent
// mismatches as a single aggregated failure.
//
// A Recorder is not safe for concurrent use. A host that runs tests in
// parallel must give each worker its own Recorder; within one worker, tests
// run sequentially and resetting at test boundaries is sufficient.
type Recorder struct {
	defaults Options

	maxFail      ldvalue.OptionalInt
	maxReport    ldvalue.OptionalInt
	maxCallSites int
	stopOnFail   bool
	useColor     bool

	numFailures int
	messages    []string
	callSites   []CallSite
}

// NewRecorder creates a Recorder with empty per-test state and limits taken
// from opts. The same opts are restored by every Reset or Drain.
func NewRecorder(opts Options) *Recorder {
	r := &Recorder{defaults: opts}
	r.restoreDefaults()
	return r
}

func (r *Recorder) restoreDefaults() {
	r.maxFail = r.defaults.MaxFail
	r.maxReport = r.defaults.MaxReport
	r.maxCallSites = r.defaults.MaxCallSites.OrElse(defaultMaxCallSites)
	r.stopOnFail = r.defaults.StopOnFail
	r.useColor = r.defaults.UseColor
}

// SetMaxFail overrides the max-fail limit for the current test only.
func (r *Recorder) SetMaxFail(n int) {
	r.maxFail = ldvalue.NewOptionalInt(n)
}

// SetMaxReport overrides the reporting cap for the current test only.
func (r *Recorder) SetMaxReport(n int) {
	r.maxReport = ldvalue.NewOptionalInt(n)
}

// SetMaxCallSites overrides the call-site cap for the current test only.
func (r *Recorder) SetMaxCallSites(n int) {
	r.maxCallSites = n
}

// SetStopOnFail overrides stop-on-first-failure mode for the current test only.
func (r *Recorder) SetStopOnFail(on bool) {
	r.stopOnFail = on
}

// HasFailures reports whether any failure has been recorded in the current
// test. This is based on the true failure count, so it stays accurate even
// when the reporting cap has stopped message retention.
func (r *Recorder) HasFailures() bool {
	return r.numFailures > 0
}

// Count returns the number of failures recorded in the current test,
// including failures past the reporting cap.
func (r *Recorder) Count() int {
	return r.numFailures
}

// Failures returns a copy of the retained failure messages without resetting
// anything.
func (r *Recorder) Failures() []string {
	ret := make([]string, len(r.messages))
	copy(ret, r.messages)
	return ret
}

// CallSites returns a copy of the call-site diagnostics captured so far.
func (r *Recorder) CallSites() []CallSite {
	ret := make([]CallSite, len(r.callSites))
	copy(ret, r.callSites)
	return ret
}

// Drain returns the retained failure messages and then resets all per-test
// state, restoring the limits to the process-wide defaults. The host runner
// calls this exactly once per test, after the test body has finished.
func (r *Recorder) Drain() []string {
	ret := r.messages
	r.Reset()
	return ret
}

// Reset clears the per-test state and restores the limits to the process-wide
// defaults. The host runner calls this before each test begins.
func (r *Recorder) Reset() {
	r.messages = nil
	r.callSites = nil
	r.numFailures = 0
	r.restoreDefaults()
}

// Record logs one soft failure. desc describes the failed condition; detail
// is an optional user-supplied message appended as ": detail". Recording past
// the reporting cap is legal and only stops retaining display text.
//
// Record panics with *StopError when the failure must abort the test:
// unconditionally in stop-on-first mode, or when the true failure count
// reaches the max-fail limit.
func (r *Recorder) Record(desc, detail string) {
	r.record(1, desc, detail)
}

func (r *Recorder) record(skip int, desc, detail string) {
	var site CallSite
	haveSite := false
	if r.wantCallSite() {
		site, haveSite = callSite(skip)
	}
	r.recordAt(site, haveSite, desc, detail)
}

func (r *Recorder) wantCallSite() bool {
	return r.maxCallSites > 0 && len(r.callSites) < r.maxCallSites
}

func (r *Recorder) recordAt(site CallSite, haveSite bool, desc, detail string) {
	r.numFailures++

	msg := strings.TrimSpace(desc)
	if detail != "" {
		msg = msg + ": " + detail
	}

	if !r.maxReport.IsDefined() || r.numFailures <= r.maxReport.IntValue() {
		if r.useColor {
			c := color.New(color.FgRed)
			c.EnableColor()
			msg = c.Sprint(msg)
		}
		r.messages = append(r.messages, msg)
	}

	if haveSite && len(r.callSites) < r.maxCallSites {
		r.callSites = append(r.callSites, site)
	}

	// Stop-on-first is strictly stronger than max-fail: it escalates on the
	// very first failure regardless of the max-fail value.
	if r.stopOnFail {
		panic(&StopError{Message: "stopping on first failure"})
	}
	if r.maxFail.IsDefined() && r.numFailures >= r.maxFail.IntValue() {
		panic(&StopError{Message: fmt.Sprintf("max fail of %d reached", r.numFailures)})
	}
}

// logCheckFailure is the single choke point through which every predicate
// check channels its failure path, so log interaction and message formatting
// stay uniform.
func (r *Recorder) logCheckFailure(desc, msg string) bool {
	r.record(2, desc, msg)
	return false
}
