// Package harness provides a conformance testing framework for the
// explanation pipeline.
//
// Scenarios are YAML files listing queries with expected deterministic
// and narrative output (or an expected rejection). The harness runs
// each step through a real pipeline and evaluates the expectations;
// golden-file comparison of full pipeline snapshots comes on top for
// regression pinning.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Steps are evaluated in order, each independently.
	Steps []Step `yaml:"steps"`
}

// Step is one query with its expectations. Expectation fields left
// empty are not checked; a step may also expect rejection instead.
type Step struct {
	// Query is the raw query to run through the pipeline.
	Query string `yaml:"query"`

	// Deterministic is the expected deterministic text, if set.
	Deterministic string `yaml:"deterministic,omitempty"`

	// Narrative is the expected narrative text, if set.
	Narrative string `yaml:"narrative,omitempty"`

	// WantError expects the pipeline to reject the query.
	WantError bool `yaml:"want_error,omitempty"`
}

// LoadScenario reads one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one step is required", path)
	}
	for i, step := range sc.Steps {
		if step.Query == "" {
			return nil, fmt.Errorf("scenario %s: step %d: query is required", path, i)
		}
		if step.WantError && (step.Deterministic != "" || step.Narrative != "") {
			return nil, fmt.Errorf("scenario %s: step %d: want_error excludes output expectations", path, i)
		}
	}

	return &sc, nil
}

// LoadScenarios reads every .yaml scenario under dir, sorted by file
// name for deterministic run order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario directory: %w", err)
	}

	var paths []string
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		if ext := filepath.Ext(d.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, d.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
