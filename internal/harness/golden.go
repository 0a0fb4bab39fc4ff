package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/querylens/internal/astjson"
	"github.com/roach88/querylens/internal/explain"
)

// PipelineSnapshot captures the complete pipeline output for a
// scenario. The AST uses canonical JSON so golden comparison stays
// byte-stable across runs.
type PipelineSnapshot struct {
	ScenarioName string         `json:"scenario_name"`
	Steps        []StepSnapshot `json:"steps"`
}

// StepSnapshot records the pipeline output for one step. Rejected
// queries carry only the error message. AST holds the canonical JSON
// encoding as a single line so the snapshot itself stays flat.
type StepSnapshot struct {
	Query             string `json:"query"`
	DeterministicText string `json:"deterministic_text,omitempty"`
	NarrativeText     string `json:"narrative_text,omitempty"`
	AST               string `json:"ast,omitempty"`
	Error             string `json:"error,omitempty"`
}

// Snapshot runs every step of the scenario through the pipeline and
// assembles the snapshot. Expectations are not evaluated; golden
// comparison is the check.
func Snapshot(p *explain.Parser, sc *Scenario) (*PipelineSnapshot, error) {
	snap := &PipelineSnapshot{
		ScenarioName: sc.Name,
		Steps:        make([]StepSnapshot, 0, len(sc.Steps)),
	}

	for i, step := range sc.Steps {
		ss := StepSnapshot{Query: step.Query}

		qr, err := p.Parse(step.Query)
		if err != nil {
			ss.Error = err.Error()
			snap.Steps = append(snap.Steps, ss)
			continue
		}

		astBytes, err := astjson.MarshalCanonical(qr.ASTJSON)
		if err != nil {
			return nil, fmt.Errorf("step %d: canonical AST: %w", i, err)
		}

		ss.DeterministicText = qr.DeterministicText
		ss.NarrativeText = qr.NarrativeText
		ss.AST = string(astBytes)
		snap.Steps = append(snap.Steps, ss)
	}

	return snap, nil
}

// RunWithGolden runs a scenario and compares the full pipeline
// snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, p *explain.Parser, sc *Scenario) error {
	t.Helper()

	snap, err := Snapshot(p, sc)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)

	return nil
}
