// Package framework contains the test-execution layer of the harness: the
// host-runner side of the soft-check contract.
//
// The general model is:
//
// 1. There is a notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and
// to accumulate success/failure results.
//
// 2. Each context owns a failure recorder from the check package. Soft-check
// failures accumulate there while the test runs; when the test finishes, the
// context drains the recorder and turns the accumulated messages into the
// test's aggregated result, then resets it for the next test.
//
// 3. The results of a whole run are collected into a Results value which the
// command-line tool renders and turns into an exit status.
package framework
