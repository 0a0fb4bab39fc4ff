package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/querylens/internal/explain"
	"github.com/roach88/querylens/internal/grammar"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	FailFast bool
}

// BatchLineResult is the outcome for one input line.
type BatchLineResult struct {
	Line              int    `json:"line"`
	Query             string `json:"query"`
	DeterministicText string `json:"deterministic_text,omitempty"`
	NarrativeText     string `json:"narrative_text,omitempty"`
	Error             string `json:"error,omitempty"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Results  []BatchLineResult `json:"results"`
	Total    int               `json:"total"`
	Rejected int               `json:"rejected"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Explain a file of queries, one per line",
		Long: `Read newline-delimited queries from a file and run each through the
pipeline. Blank lines and lines starting with # are skipped.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop at the first rejected query")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	file, err := os.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, fmt.Sprintf("opening query file: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening query file", err)
	}
	defer file.Close()

	parser := explain.New(grammar.Default())
	batch := &BatchResult{}

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		query := strings.TrimSpace(scanner.Text())
		if query == "" || strings.HasPrefix(query, "#") {
			continue
		}

		formatter.VerboseLog("line %d: %s", lineNo, query)

		lr := BatchLineResult{Line: lineNo, Query: query}
		result, err := parser.Parse(query)
		if err != nil {
			lr.Error = err.Error()
			batch.Rejected++
		} else {
			lr.DeterministicText = result.DeterministicText
			lr.NarrativeText = result.NarrativeText
		}
		batch.Results = append(batch.Results, lr)
		batch.Total++

		if err != nil && opts.FailFast {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		_ = formatter.Error(ErrCodeInput, fmt.Sprintf("reading query file: %v", err), nil)
		return WrapExitError(ExitCommandError, "reading query file", err)
	}

	if batch.Total == 0 {
		_ = formatter.Error(ErrCodeInput, "no queries found in file", nil)
		return NewExitError(ExitCommandError, "no queries found in file")
	}

	return outputBatchResult(formatter, batch)
}

func outputBatchResult(formatter *OutputFormatter, batch *BatchResult) error {
	if formatter.Format == "json" {
		if err := formatter.Success(batch); err != nil {
			return err
		}
		if batch.Rejected > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d of %d queries rejected", batch.Rejected, batch.Total))
		}
		return nil
	}

	for _, lr := range batch.Results {
		if lr.Error != "" {
			fmt.Fprintf(formatter.Writer, "✗ line %d: %s\n    %s\n", lr.Line, lr.Query, lr.Error)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✓ line %d: %s\n    %s\n", lr.Line, lr.Query, lr.NarrativeText)
	}
	fmt.Fprintf(formatter.Writer, "\n%d quer%s, %d rejected\n",
		batch.Total, pluralIES(batch.Total), batch.Rejected)

	if batch.Rejected > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d queries rejected", batch.Rejected, batch.Total))
	}
	return nil
}

func pluralIES(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
