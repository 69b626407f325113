// Package compiler ties the parser and the semantic checker together
// behind a small facade used by the CLI and the analysis service.
package compiler

import (
	"github.com/squintdb/squint/compiler/ast"
	"github.com/squintdb/squint/compiler/parser"
	"github.com/squintdb/squint/compiler/semantic"
	"github.com/squintdb/squint/schema"
)

// Analysis is the outcome of checking one statement: the AST, the inferred
// result columns with their concrete types, and the catalog tables read.
type Analysis struct {
	Select     *ast.Select
	Source     *parser.Source
	Query      *semantic.InferredQuery
	Types      []schema.ColumnType
	References []*schema.Table
}

// Parse parses a single SELECT statement.
func Parse(src string) (*ast.Select, *parser.Source, error) {
	return parser.Parse(src)
}

// Analyze checks a parsed statement against model.
func Analyze(sel *ast.Select, source *parser.Source, model schema.Model) (*Analysis, error) {
	a := semantic.NewAnalyzer(model)
	q, err := a.Query(sel)
	if err != nil {
		return nil, err
	}
	types := make([]schema.ColumnType, len(q.Columns))
	for i, col := range q.Columns {
		types[i] = a.ConcreteType(col.Type)
	}
	return &Analysis{
		Select:     sel,
		Source:     source,
		Query:      q,
		Types:      types,
		References: a.References(),
	}, nil
}

// AnalyzeString parses and checks src.  Failures come back as localized
// errors carrying line and column information.
func AnalyzeString(src string, model schema.Model) (*Analysis, error) {
	sel, source, err := Parse(src)
	if err != nil {
		return nil, source.LocalizeError(err)
	}
	analysis, err := Analyze(sel, source, model)
	if err != nil {
		return nil, source.LocalizeError(err)
	}
	return analysis, nil
}

// AnalyzeScript parses and checks a script of semicolon-separated
// statements, returning one Analysis per statement.  The first failing
// statement aborts the script.
func AnalyzeScript(src string, model schema.Model) ([]*Analysis, error) {
	stmts, source, err := parser.ParseAll(src)
	if err != nil {
		return nil, source.LocalizeError(err)
	}
	analyses := make([]*Analysis, 0, len(stmts))
	for _, sel := range stmts {
		analysis, err := Analyze(sel, source, model)
		if err != nil {
			return nil, source.LocalizeError(err)
		}
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}
