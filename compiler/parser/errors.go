package parser

import (
	"fmt"
	"strings"

	"github.com/squintdb/squint/compiler/ast"
	"go.uber.org/multierr"
)

// PositionalError is an error that knows the span of source text it refers
// to.  Both syntax errors and semantic analysis errors implement it.
type PositionalError interface {
	error
	ast.Node
	Message() string
}

// SyntaxError is a parse failure at a token.
type SyntaxError struct {
	Msg    string
	PosVal int
	EndVal int
}

func (e *SyntaxError) Error() string   { return e.Msg }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Pos() int        { return e.PosVal }
func (e *SyntaxError) End() int        { return e.EndVal }

// LocalizeError rewrites every PositionalError inside errs as a
// LocalizedError carrying line/column info and the offending source line.
// If any component error has no position, errs is returned unchanged.
func (s *Source) LocalizeError(errs error) error {
	var list LocalizedErrors
	for _, err := range multierr.Errors(errs) {
		perr, ok := err.(PositionalError)
		if !ok {
			return errs
		}
		list = append(list, newLocalizedError(s, perr))
	}
	if len(list) > 0 {
		return list
	}
	return nil
}

// LocalizedError is an analysis error with nice formatting.  It includes
// the source code line containing the error.
type LocalizedError struct {
	Kind  string   `json:"kind"`
	Line  string   `json:"line"` // contains no newlines
	Open  Position `json:"open"`
	Close Position `json:"close"`
	Msg   string   `json:"error"`
}

var _ PositionalError = (*LocalizedError)(nil)

func newLocalizedError(s *Source, perr PositionalError) *LocalizedError {
	start := s.Position(perr.Pos())
	end := s.Position(perr.End())
	var line string
	if start.IsValid() {
		line = s.LineOfPos(perr.Pos())
	}
	return &LocalizedError{
		Kind:  "LocalizedError",
		Open:  start,
		Close: end,
		Line:  line,
		Msg:   perr.Message(),
	}
}

func (e *LocalizedError) Message() string { return e.Msg }
func (e *LocalizedError) Pos() int        { return e.Open.Pos }
func (e *LocalizedError) End() int        { return e.Close.Pos }

func (e *LocalizedError) Error() string {
	if !e.Open.IsValid() {
		return e.Msg
	}
	var b strings.Builder
	b.WriteString(e.Msg)
	fmt.Fprintf(&b, " (line %d, column %d):\n", e.Open.Line, e.Open.Column)
	b.WriteString(e.errorContext())
	return b.String()
}

func (e *LocalizedError) errorContext() string {
	var b strings.Builder
	b.WriteString(e.Line + "\n")
	col := e.Open.Column - 1
	if col > len(e.Line) {
		col = len(e.Line)
	}
	b.WriteString(strings.Repeat(" ", col))
	width := 1
	if e.Close.IsValid() && e.Close.Line == e.Open.Line && e.Close.Column > e.Open.Column {
		width = e.Close.Column - e.Open.Column
	}
	b.WriteString(strings.Repeat("~", width))
	return b.String()
}

type LocalizedErrors []*LocalizedError

func (e LocalizedErrors) Error() string {
	var b strings.Builder
	for i, err := range e {
		if i != 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}
