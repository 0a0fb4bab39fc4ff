package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/querylens/internal/astjson"
	"github.com/roach88/querylens/internal/explain"
	"github.com/roach88/querylens/internal/grammar"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	ShowAST bool
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Explain a single query",
		Long: `Parse one Lucene-style query and print its deterministic rendering,
narrative explanation, and optionally the serialized syntax tree.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowAST, "ast", false, "include the canonical syntax tree JSON")

	return cmd
}

func runParse(opts *ParseOptions, query string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	parser := explain.New(grammar.Default())

	result, err := parser.Parse(query)
	if err != nil {
		return outputSyntaxError(formatter, query, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Query:         %s\n", result.Query)
	fmt.Fprintf(formatter.Writer, "Deterministic: %s\n", result.DeterministicText)
	fmt.Fprintf(formatter.Writer, "Narrative:     %s\n", result.NarrativeText)

	if opts.ShowAST {
		canonical, err := astjson.MarshalCanonical(result.ASTJSON)
		if err != nil {
			return WrapExitError(ExitCommandError, "encoding syntax tree", err)
		}
		fmt.Fprintf(formatter.Writer, "AST:           %s\n", canonical)
	}

	return nil
}

// outputSyntaxError reports a rejected query and maps it to exit code 1.
func outputSyntaxError(formatter *OutputFormatter, query string, err error) error {
	var synErr *explain.SyntaxError
	if errors.As(err, &synErr) {
		_ = formatter.Error(ErrCodeSyntax, synErr.Error(), map[string]string{"query": query})
		return WrapExitError(ExitFailure, synErr.Error(), nil)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitFailure, err.Error(), err)
}
