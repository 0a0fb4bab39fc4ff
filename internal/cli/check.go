package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/querylens/internal/explain"
	"github.com/roach88/querylens/internal/grammar"
	"github.com/roach88/querylens/internal/harness"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <scenarios-dir>",
		Short: "Run conformance scenarios against the pipeline",
		Long: `Load YAML scenario files from a directory and evaluate every step's
expectations against the live pipeline. Exits non-zero when any step fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenarios, err := harness.LoadScenarios(dir)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading scenarios", err)
	}

	runner := harness.NewRunner(explain.New(grammar.Default()))
	results, allPassed := runner.RunAll(scenarios)

	if formatter.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
		if !allPassed {
			return NewExitError(ExitFailure, "scenario check failed")
		}
		return nil
	}

	failed := 0
	for _, res := range results {
		if res.Passed {
			fmt.Fprintf(formatter.Writer, "✓ %s (%d steps)\n", res.Scenario, len(res.Steps))
			continue
		}
		failed++
		fmt.Fprintf(formatter.Writer, "✗ %s\n", res.Scenario)
		for _, sr := range res.Steps {
			if sr.Passed {
				continue
			}
			fmt.Fprintf(formatter.Writer, "  query: %s\n", sr.Query)
			for _, failure := range sr.Failures {
				fmt.Fprintf(formatter.Writer, "    %s\n", failure)
			}
		}
	}

	fmt.Fprintf(formatter.Writer, "\n%d scenario(s), %d failed\n", len(results), failed)

	if !allPassed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", failed))
	}
	return nil
}
