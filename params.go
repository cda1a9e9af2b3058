package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/mattn/go-isatty"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/softcheck/harness/framework"
)

type commandParams struct {
	filters           framework.RegexFilters
	checkMaxFail      int
	checkMaxReport    int
	checkMaxCallSites int
	maxFail           int
	colorMode         string
	debug             bool
	debugAll          bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.IntVar(&c.checkMaxFail, "check-max-fail", 0, "max check failures per test before the test aborts (0 for no limit)")
	fs.IntVar(&c.checkMaxReport, "check-max-report", 0, "max check failures to report per test (0 for no limit)")
	fs.IntVar(&c.checkMaxCallSites, "check-max-callsites", 1, "max call-site diagnostics per test (0 to disable)")
	fs.IntVar(&c.maxFail, "maxfail", 0,
		"stop the run after this many failing tests; 1 also stops each test at its first check failure (0 for no limit)")
	fs.StringVar(&c.colorMode, "color", "auto", `colorize failure messages: "auto", "yes", or "no"`)
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	switch c.colorMode {
	case "auto", "yes", "no":
	default:
		fmt.Fprintf(os.Stderr, "invalid -color value %q\n", c.colorMode)
		fs.Usage()
		return false
	}
	return true
}

// config translates the command line into the run-wide configuration,
// seeding the process-wide check defaults once per run.
func (c commandParams) config() framework.Config {
	var cfg framework.Config
	if c.checkMaxFail > 0 {
		cfg.Checks.MaxFail = ldvalue.NewOptionalInt(c.checkMaxFail)
	}
	if c.checkMaxReport > 0 {
		cfg.Checks.MaxReport = ldvalue.NewOptionalInt(c.checkMaxReport)
	}
	cfg.Checks.MaxCallSites = ldvalue.NewOptionalInt(c.checkMaxCallSites)
	if c.maxFail > 0 {
		cfg.MaxTestFailures = ldvalue.NewOptionalInt(c.maxFail)
		if c.maxFail == 1 {
			cfg.Checks.StopOnFail = true
		}
	}
	cfg.Checks.UseColor = c.useColor()
	return cfg
}

func (c commandParams) useColor() bool {
	switch c.colorMode {
	case "yes":
		return true
	case "no":
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// describeCommand returns a copy-pasteable command line that reproduces the
// effective settings of this run.
func (c commandParams) describeCommand() string {
	var b commandBuilder
	b.add(os.Args[0])
	for _, p := range c.filters.MustMatch.Patterns() {
		b.add("-run", p)
	}
	for _, p := range c.filters.MustNotMatch.Patterns() {
		b.add("-skip", p)
	}
	if c.checkMaxFail > 0 {
		b.add("-check-max-fail", strconv.Itoa(c.checkMaxFail))
	}
	if c.checkMaxReport > 0 {
		b.add("-check-max-report", strconv.Itoa(c.checkMaxReport))
	}
	if c.checkMaxCallSites != 1 {
		b.add("-check-max-callsites", strconv.Itoa(c.checkMaxCallSites))
	}
	if c.maxFail > 0 {
		b.add("-maxfail", strconv.Itoa(c.maxFail))
	}
	if c.colorMode != "auto" {
		b.add("-color", c.colorMode)
	}
	if c.debug {
		b.add("-debug")
	}
	if c.debugAll {
		b.add("-debug-all")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
