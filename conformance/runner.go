package conformance

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ippvm/source"
	"ippvm/stream"
	"ippvm/types"
	"ippvm/vm"
)

// DefaultTimeout bounds a single program run
const DefaultTimeout = 5 * time.Second

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Outcome is what a program run produced
type Outcome struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Runner executes conformance tests
type Runner struct {
	Timeout time.Duration
}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{Timeout: DefaultTimeout}
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: reason,
		}
	}

	formatName := test.Test.Format
	if formatName == "" {
		formatName = test.Suite.Format
	}
	format, err := source.ParseFormat(formatName)
	if err != nil {
		return TestResult{Test: test, Error: err}
	}

	outcome := r.Execute(test.Test.Program, format, test.Test.Input)
	passed, err := checkExpectation(test.Test.Expect, outcome)
	return TestResult{
		Test:   test,
		Passed: passed,
		Error:  err,
	}
}

// Execute loads and runs a program. Load failures are reported the same way
// as run-time failures.
func (r *Runner) Execute(program string, format source.Format, input string) Outcome {
	prog, err := source.LoadString(program, format)
	if err != nil {
		return Outcome{ExitCode: types.CodeOf(err).ExitCode(), Err: err}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	machine := vm.NewVM(prog, stream.NewLineReader(strings.NewReader(input)),
		stream.NewUnbuffered(&stdout), stream.NewUnbuffered(&stderr))
	code, err := machine.Run(ctx)

	return Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
		Err:      err,
	}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

// checkExpectation checks if the outcome matches the expected one
func checkExpectation(expect Expectation, got Outcome) (bool, error) {
	if expect.Error != "" {
		code, ok := types.ErrorFromString(expect.Error)
		if !ok {
			return false, fmt.Errorf("unknown error name %q in expectation", expect.Error)
		}
		if got.Err == nil {
			return false, fmt.Errorf("expected %s, program succeeded (exit %d)", expect.Error, got.ExitCode)
		}
		if actual := types.CodeOf(got.Err); actual != code {
			return false, fmt.Errorf("expected %s, got %s: %v", code, actual, got.Err)
		}
		if got.ExitCode != code.ExitCode() {
			return false, fmt.Errorf("expected exit code %d, got %d", code.ExitCode(), got.ExitCode)
		}
	} else if got.Err != nil {
		return false, fmt.Errorf("unexpected error: %v", got.Err)
	}

	if expect.Exit != nil && got.ExitCode != *expect.Exit {
		return false, fmt.Errorf("expected exit code %d, got %d", *expect.Exit, got.ExitCode)
	}

	if expect.Stdout != nil && got.Stdout != *expect.Stdout {
		return false, fmt.Errorf("expected stdout %q, got %q", *expect.Stdout, got.Stdout)
	}

	if expect.Match != "" {
		re, err := regexp.Compile(expect.Match)
		if err != nil {
			return false, fmt.Errorf("invalid match pattern %q: %w", expect.Match, err)
		}
		if !re.MatchString(got.Stdout) {
			return false, fmt.Errorf("stdout %q does not match %q", got.Stdout, expect.Match)
		}
	}

	if expect.StderrContains != "" && !strings.Contains(got.Stderr, expect.StderrContains) {
		return false, fmt.Errorf("stderr %q does not contain %q", got.Stderr, expect.StderrContains)
	}

	return true, nil
}
