// Package check implements the soft-assertion aggregation engine used by the
// test harness.
//
// The central type is Recorder: a per-test failure log. Predicate checks
// (Equal, Less, In, and so on), checked blocks, and panic expectations all
// write into the Recorder instead of aborting the test, so a single test can
// report any number of independent mismatches. At the end of the test, the
// host runner drains the Recorder and turns the accumulated messages into one
// aggregated failure.
//
// Two kinds of failure deliberately do abort the test: an escalation (the
// configured max-fail limit was reached, or stop-on-first-failure mode is
// active), and a usage error such as a malformed panic expectation. Both
// propagate as panics through the same channel the framework package uses for
// its own hard assertions.
package check
