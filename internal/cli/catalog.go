package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/querylens/internal/astjson"
	"github.com/roach88/querylens/internal/catalog"
	"github.com/roach88/querylens/internal/explain"
	"github.com/roach88/querylens/internal/grammar"
	"github.com/roach88/querylens/internal/store"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Import       bool
	DatabasePath string
}

// CatalogEntryResult is one verified catalog entry.
type CatalogEntryResult struct {
	Name          string   `json:"name"`
	Query         string   `json:"query"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	NarrativeText string   `json:"narrative_text,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog <dir>",
		Short: "Verify a CUE catalog of saved searches",
		Long: `Load a directory of CUE catalog files, run every declared query
through the pipeline, and optionally import the valid ones into the
saved-search store.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Import, "import", false, "save valid entries into the store")
	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "SQLite database path (required with --import)")

	return cmd
}

func runCatalog(opts *CatalogOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Import && opts.DatabasePath == "" {
		_ = formatter.Error(ErrCodeStore, "--import requires --db", nil)
		return NewExitError(ExitCommandError, "--import requires --db")
	}

	entries, err := catalog.Load(dir)
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading catalog", err)
	}

	formatter.VerboseLog("Loaded %d catalog entr%s from %s", len(entries), pluralIES(len(entries)), dir)

	parser := explain.New(grammar.Default())
	results := make([]CatalogEntryResult, 0, len(entries))
	invalid := 0

	for _, entry := range entries {
		er := CatalogEntryResult{
			Name:        entry.Name,
			Query:       entry.Query,
			Description: entry.Description,
			Tags:        entry.Tags,
		}
		qr, err := parser.Parse(entry.Query)
		if err != nil {
			er.Error = err.Error()
			invalid++
		} else {
			er.NarrativeText = qr.NarrativeText
		}
		results = append(results, er)
	}

	if opts.Import {
		if invalid > 0 {
			_ = formatter.Error(ErrCodeCatalog,
				fmt.Sprintf("refusing to import: %d entr%s invalid", invalid, pluralIES(invalid)), nil)
			return NewExitError(ExitFailure, "catalog contains invalid queries")
		}
		if err := importEntries(cmd.Context(), opts.DatabasePath, parser, entries); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "importing catalog", err)
		}
		formatter.VerboseLog("Imported %d entr%s into %s", len(entries), pluralIES(len(entries)), opts.DatabasePath)
	}

	return outputCatalogResults(formatter, results, invalid, opts.Import)
}

// importEntries persists every catalog entry as a saved search. Ids
// are derived from the entry name, so re-running an import is a no-op
// at the store level.
func importEntries(ctx context.Context, dbPath string, parser *explain.Parser, entries []catalog.Entry) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	for _, entry := range entries {
		qr, err := parser.Parse(entry.Query)
		if err != nil {
			return fmt.Errorf("entry %s: %w", entry.Name, err)
		}
		canonical, err := astjson.MarshalCanonical(qr.ASTJSON)
		if err != nil {
			return fmt.Errorf("entry %s: %w", entry.Name, err)
		}
		saved := &store.SavedSearch{
			ID:                catalogEntryID(entry.Name),
			Name:              entry.Name,
			Query:             entry.Query,
			DeterministicText: qr.DeterministicText,
			NarrativeText:     qr.NarrativeText,
			ASTJSON:           string(canonical),
		}
		if err := st.Save(ctx, saved); err != nil {
			return fmt.Errorf("saving entry %s: %w", entry.Name, err)
		}
	}
	return nil
}

// catalogEntryID derives a stable id from the entry name.
func catalogEntryID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("querylens:catalog:"+name)).String()
}

func outputCatalogResults(formatter *OutputFormatter, results []CatalogEntryResult, invalid int, imported bool) error {
	if formatter.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
		if invalid > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d catalog entr%s invalid", invalid, pluralIES(invalid)))
		}
		return nil
	}

	for _, er := range results {
		if er.Error != "" {
			fmt.Fprintf(formatter.Writer, "✗ %s: %s\n    %s\n", er.Name, er.Query, er.Error)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✓ %s: %s\n    %s\n", er.Name, er.Query, er.NarrativeText)
	}

	fmt.Fprintf(formatter.Writer, "\n%d entr%s, %d invalid\n", len(results), pluralIES(len(results)), invalid)
	if imported && invalid == 0 {
		fmt.Fprintf(formatter.Writer, "Imported %d entr%s\n", len(results), pluralIES(len(results)))
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d catalog entr%s invalid", invalid, pluralIES(invalid)))
	}
	return nil
}
