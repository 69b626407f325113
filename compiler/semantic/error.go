package semantic

import (
	"errors"
	"fmt"

	"github.com/squintdb/squint/compiler/ast"
)

// Kind classifies an analysis failure.
type Kind int

const (
	// NotFound reports an unknown table, column, function, or type.
	NotFound Kind = iota
	// Ambiguous reports an unqualified column name that resolves in more
	// than one FROM source.
	Ambiguous
	// TypeConflict reports a unification failure.
	TypeConflict
	// ArityMismatch reports a width mismatch: function arguments, VALUES
	// rows, compound query sides, or a subquery used where one column is
	// required.
	ArityMismatch
	// Structural reports an ill-formed construct, e.g. a NATURAL JOIN
	// with an explicit constraint or a wildcard with no FROM clause.
	Structural
	// Unsupported reports a construct the checker does not handle.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Ambiguous:
		return "ambiguous"
	case TypeConflict:
		return "type conflict"
	case ArityMismatch:
		return "arity mismatch"
	case Structural:
		return "structural"
	case Unsupported:
		return "unsupported"
	}
	return "unknown"
}

// Error is an analysis failure positioned at the smallest enclosing AST
// node.  It implements parser.PositionalError.
type Error struct {
	Kind Kind
	Msg  string
	pos  int
	end  int
}

func (e *Error) Error() string   { return e.Msg }
func (e *Error) Message() string { return e.Msg }
func (e *Error) Pos() int        { return e.pos }
func (e *Error) End() int        { return e.end }

// KindOf returns the Kind of an analysis error, or ok=false if err did not
// originate from this package.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), pos: -1, end: -1}
}

func errorAt(n ast.Node, kind Kind, format string, args ...interface{}) *Error {
	e := errorf(kind, format, args...)
	if n != nil {
		e.pos, e.end = n.Pos(), n.End()
	}
	return e
}

// positioned pins err to node n if it does not already carry a position.
func positioned(err error, n ast.Node) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.pos < 0 && n != nil {
		e.pos, e.end = n.Pos(), n.End()
	}
	return err
}
