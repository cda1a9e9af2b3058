// Package checktests contains the harness's built-in verification suite: a
// set of contract tests for the soft-check engine itself, run by the
// command-line tool on top of the framework package.
//
// Most tests create their own inner check.Recorder so they can observe
// failure-log behavior (including escalations) without failing themselves;
// tests of the happy path use the recorder owned by the current test.
package checktests
