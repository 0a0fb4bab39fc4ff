// Package catalog loads saved-search catalogs written in CUE.
//
// A catalog file declares named searches under a top-level "catalog"
// struct:
//
//	catalog: {
//		mlPapers: {
//			query:       "title:(\"Machine Learning\" OR \"AI\")"
//			description: "Recent ML and AI papers"
//			tags: ["research", "ml"]
//		}
//	}
//
// Uses the CUE SDK's Go API directly (not CLI subprocess). The catalog
// only carries raw query strings; parsing and validation of the queries
// themselves happens in the explain pipeline.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// Entry is one named search from a catalog.
type Entry struct {
	Name        string
	Query       string
	Description string
	Tags        []string
}

// CompileError is a positioned error from catalog compilation.
type CompileError struct {
	Entry   string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	where := e.Field
	if e.Entry != "" {
		where = e.Entry + "." + e.Field
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// Load reads and compiles every CUE file in a directory into catalog
// entries, sorted by name for deterministic output.
func Load(dir string) ([]Entry, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("catalog directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning catalog directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	return Compile(value)
}

// Compile extracts catalog entries from an already-built CUE value.
func Compile(v cue.Value) ([]Entry, error) {
	catalogVal := v.LookupPath(cue.ParsePath("catalog"))
	if !catalogVal.Exists() {
		return nil, &CompileError{Field: "catalog", Message: "top-level catalog struct is required", Pos: v.Pos()}
	}

	iter, err := catalogVal.Fields()
	if err != nil {
		return nil, &CompileError{Field: "catalog", Message: err.Error(), Pos: catalogVal.Pos()}
	}

	var entries []Entry
	for iter.Next() {
		name := iter.Selector().Unquoted()
		entry, err := compileEntry(name, iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// compileEntry parses one named search definition.
func compileEntry(name string, v cue.Value) (Entry, error) {
	entry := Entry{Name: name}

	queryVal := v.LookupPath(cue.ParsePath("query"))
	if !queryVal.Exists() {
		return Entry{}, &CompileError{Entry: name, Field: "query", Message: "query is required", Pos: v.Pos()}
	}
	query, err := queryVal.String()
	if err != nil {
		return Entry{}, &CompileError{Entry: name, Field: "query", Message: err.Error(), Pos: queryVal.Pos()}
	}
	if strings.TrimSpace(query) == "" {
		return Entry{}, &CompileError{Entry: name, Field: "query", Message: "query must not be empty", Pos: queryVal.Pos()}
	}
	entry.Query = query

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return Entry{}, &CompileError{Entry: name, Field: "description", Message: err.Error(), Pos: descVal.Pos()}
		}
		entry.Description = desc
	}

	if tagsVal := v.LookupPath(cue.ParsePath("tags")); tagsVal.Exists() {
		iter, err := tagsVal.List()
		if err != nil {
			return Entry{}, &CompileError{Entry: name, Field: "tags", Message: err.Error(), Pos: tagsVal.Pos()}
		}
		for iter.Next() {
			tag, err := iter.Value().String()
			if err != nil {
				return Entry{}, &CompileError{Entry: name, Field: "tags", Message: err.Error(), Pos: iter.Value().Pos()}
			}
			entry.Tags = append(entry.Tags, tag)
		}
	}

	return entry, nil
}

// findCUEFiles returns all .cue files directly under dir.
func findCUEFiles(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, d := range dirents {
		if !d.IsDir() && filepath.Ext(d.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, d.Name()))
		}
	}
	return files, nil
}
