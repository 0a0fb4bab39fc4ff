package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/querylens/internal/explain"
)

// Result summarizes one scenario run.
type Result struct {
	Scenario string       `json:"scenario"`
	Passed   bool         `json:"passed"`
	Steps    []StepResult `json:"steps"`
}

// StepResult records the pipeline output and expectation verdict for
// one step.
type StepResult struct {
	Query    string   `json:"query"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`

	// Output fields, populated on successful parses.
	DeterministicText string `json:"deterministic_text,omitempty"`
	NarrativeText     string `json:"narrative_text,omitempty"`

	// Error is the pipeline rejection message, when the query was
	// rejected.
	Error string `json:"error,omitempty"`
}

// Runner runs scenarios against a pipeline.
type Runner struct {
	parser *explain.Parser
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner builds a Runner around the given pipeline.
func NewRunner(parser *explain.Parser, opts ...RunnerOption) *Runner {
	r := &Runner{
		parser: parser,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // callers opt in via WithLogger
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates every step of the scenario. A scenario passes when all
// steps pass; a failing step never aborts the remaining steps.
func (r *Runner) Run(sc *Scenario) *Result {
	result := &Result{
		Scenario: sc.Name,
		Passed:   true,
		Steps:    make([]StepResult, 0, len(sc.Steps)),
	}

	for _, step := range sc.Steps {
		sr := r.runStep(step)
		if !sr.Passed {
			result.Passed = false
		}
		result.Steps = append(result.Steps, sr)
	}

	r.logger.Info("scenario complete",
		"scenario", sc.Name,
		"steps", len(result.Steps),
		"passed", result.Passed)

	return result
}

// RunAll runs each scenario in order and reports whether all passed.
func (r *Runner) RunAll(scenarios []*Scenario) ([]*Result, bool) {
	results := make([]*Result, 0, len(scenarios))
	allPassed := true
	for _, sc := range scenarios {
		res := r.Run(sc)
		if !res.Passed {
			allPassed = false
		}
		results = append(results, res)
	}
	return results, allPassed
}

func (r *Runner) runStep(step Step) StepResult {
	sr := StepResult{Query: step.Query, Passed: true}

	qr, err := r.parser.Parse(step.Query)
	if err != nil {
		sr.Error = err.Error()
		if !step.WantError {
			sr.Passed = false
			sr.Failures = append(sr.Failures, fmt.Sprintf("unexpected rejection: %v", err))
		}
		return sr
	}

	sr.DeterministicText = qr.DeterministicText
	sr.NarrativeText = qr.NarrativeText

	if step.WantError {
		sr.Passed = false
		sr.Failures = append(sr.Failures, "expected rejection, query parsed")
		return sr
	}
	if step.Deterministic != "" && qr.DeterministicText != step.Deterministic {
		sr.Passed = false
		sr.Failures = append(sr.Failures, fmt.Sprintf(
			"deterministic text mismatch:\n  want %q\n  got  %q",
			step.Deterministic, qr.DeterministicText))
	}
	if step.Narrative != "" && qr.NarrativeText != step.Narrative {
		sr.Passed = false
		sr.Failures = append(sr.Failures, fmt.Sprintf(
			"narrative text mismatch:\n  want %q\n  got  %q",
			step.Narrative, qr.NarrativeText))
	}

	return sr
}
