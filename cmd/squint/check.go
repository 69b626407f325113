package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/squintdb/squint/compiler"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "path to a YAML catalog file")
	quiet := fs.Bool("q", false, "suppress inferred column output")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("check: no input files")
	}
	model, err := loadModel(*schemaPath)
	if err != nil {
		return err
	}

	type fileResult struct {
		path     string
		analyses []*compiler.Analysis
		err      error
	}
	results := make([]fileResult, fs.NArg())
	var group errgroup.Group
	for i, path := range fs.Args() {
		i, path := i, path
		group.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				results[i] = fileResult{path: path, err: err}
				return nil
			}
			analyses, err := compiler.AnalyzeScript(string(src), model)
			results[i] = fileResult{path: path, analyses: analyses, err: err}
			return nil
		})
	}
	group.Wait()

	var failures error
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(os.Stderr, "%s:\n%s\n", res.path, res.err)
			failures = multierr.Append(failures, fmt.Errorf("%s: %w", res.path, res.err))
			continue
		}
		if *quiet {
			continue
		}
		for i, analysis := range res.analyses {
			fmt.Printf("%s statement %d:\n", res.path, i+1)
			printColumns(analysis)
		}
	}
	if failures != nil {
		return fmt.Errorf("%d of %d files failed", len(multierr.Errors(failures)), len(results))
	}
	return nil
}

func printColumns(analysis *compiler.Analysis) {
	for i, col := range analysis.Query.Columns {
		typ := analysis.Types[i]
		var b strings.Builder
		fmt.Fprintf(&b, "  %s %s", columnName(col.Name), typ)
		if col.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if col.From != "" {
			fmt.Fprintf(&b, " (from %s)", col.From)
		}
		fmt.Println(b.String())
	}
	if refs := analysis.References; len(refs) > 0 {
		names := make([]string, len(refs))
		for i, t := range refs {
			names[i] = t.Name
		}
		fmt.Printf("  reads: %s\n", strings.Join(names, ", "))
	}
}

func columnName(name string) string {
	if name == "" {
		return "?"
	}
	return name
}
