package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/roach88/querylens/internal/astjson"
	"github.com/roach88/querylens/internal/explain"
	"github.com/roach88/querylens/internal/grammar"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive query explanation shell",
		Long: `Start an interactive prompt. Every line is parsed as a query and
explained; "ast <query>" also prints the canonical syntax tree.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd)
		},
	}

	return cmd
}

// repl holds the interactive session state.
type repl struct {
	parser *explain.Parser
	out    io.Writer
}

func runREPL(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "querylens REPL")
	fmt.Fprintln(out)
	printREPLHelp(out)
	fmt.Fprintln(out)

	r := &repl{
		parser: explain.New(grammar.Default()),
		out:    out,
	}

	p := prompt.New(
		r.executor,
		replCompleter,
		prompt.OptionPrefix("querylens >> "),
		prompt.OptionTitle("querylens"),
	)
	p.Run()
	return nil
}

func printREPLHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  <query>       - Explain a query")
	fmt.Fprintln(out, "  ast <query>   - Explain a query and print its syntax tree")
	fmt.Fprintln(out, "  help          - Show this help")
	fmt.Fprintln(out, "  quit          - Exit")
}

func (r *repl) executor(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	switch {
	case input == "help":
		printREPLHelp(r.out)
	case input == "quit" || input == "exit":
		os.Exit(0)
	case strings.HasPrefix(input, "ast "):
		r.explain(strings.TrimSpace(strings.TrimPrefix(input, "ast ")), true)
	default:
		r.explain(input, false)
	}
}

func (r *repl) explain(query string, showAST bool) {
	result, err := r.parser.Parse(query)
	if err != nil {
		fmt.Fprintf(r.out, "✗ %v\n", err)
		return
	}

	fmt.Fprintf(r.out, "Deterministic: %s\n", result.DeterministicText)
	fmt.Fprintf(r.out, "Narrative:     %s\n", result.NarrativeText)
	if showAST {
		canonical, err := astjson.MarshalCanonical(result.ASTJSON)
		if err != nil {
			fmt.Fprintf(r.out, "✗ encoding syntax tree: %v\n", err)
			return
		}
		fmt.Fprintf(r.out, "AST:           %s\n", canonical)
	}
}

var replSuggestions = []prompt.Suggest{
	{Text: "AND", Description: "all operands must match"},
	{Text: "OR", Description: "any operand may match"},
	{Text: "NOT", Description: "exclude the operand"},
	{Text: "ast", Description: "print the syntax tree too"},
	{Text: "help", Description: "show commands"},
	{Text: "quit", Description: "exit the REPL"},
}

// replCompleter suggests operators and REPL commands for the word
// under the cursor.
func replCompleter(d prompt.Document) []prompt.Suggest {
	return prompt.FilterHasPrefix(replSuggestions, d.GetWordBeforeCursor(), true)
}
