// Package semantic implements the scope resolver and type checker for the
// SELECT dialect.  Given a parsed statement and a read-only schema model it
// infers the statement's result columns, validates joins and name
// references, and records which catalog tables the statement reads.
package semantic

import (
	"github.com/squintdb/squint/compiler/ast"
	"github.com/squintdb/squint/schema"
)

// Analyze checks one SELECT statement against model, returning the
// inferred result columns.  Analysis is all-or-nothing: the first fault
// aborts the check.
func Analyze(sel *ast.Select, model schema.Model) (*InferredQuery, error) {
	a := NewAnalyzer(model)
	return a.Query(sel)
}

// Analyzer checks one statement.  It owns the statement's inference
// context and accumulates the set of referenced tables.  An Analyzer is
// single use and not safe for concurrent access; the schema model it reads
// may be shared.
type Analyzer struct {
	model      schema.Model
	ctx        *Context
	fromScopes map[ast.TableExpr]*FromScope
	refs       []*schema.Table
	refseen    map[*schema.Table]bool
	writes     []*schema.Table
}

func NewAnalyzer(model schema.Model) *Analyzer {
	return &Analyzer{
		model:      model,
		ctx:        NewContext(),
		fromScopes: make(map[ast.TableExpr]*FromScope),
		refseen:    make(map[*schema.Table]bool),
	}
}

// Query checks a full SELECT statement in a fresh top-level scope.
func (a *Analyzer) Query(sel *ast.Select) (*InferredQuery, error) {
	return a.semSelect(NewScope(a.model), sel)
}

// ConcreteType resolves an inferred column type to its concrete form.
func (a *Analyzer) ConcreteType(t Type) schema.ColumnType {
	return a.ctx.ConcreteType(t)
}

// References returns the catalog tables read by the statement, in first
// reference order without duplicates.
func (a *Analyzer) References() []*schema.Table {
	return a.refs
}

// Writes returns the catalog tables written by the statement.  The SELECT
// checker never records writes; the DML checkers layered on top of it do.
func (a *Analyzer) Writes() []*schema.Table {
	return a.writes
}

func (a *Analyzer) reference(t *schema.Table) {
	if !a.refseen[t] {
		a.refseen[t] = true
		a.refs = append(a.refs, t)
	}
}

// Write records a table mutation for statement kinds that modify data.
func (a *Analyzer) Write(t *schema.Table) {
	a.writes = append(a.writes, t)
}

// requireExprType infers e and constrains it to the given base type,
// discarding the refined type but surfacing conflicts.
func (a *Analyzer) requireExprType(s *Scope, e ast.Expr, base schema.BaseType) error {
	t, err := a.semExpr(s, e)
	if err != nil {
		return err
	}
	_, err = a.ctx.UnifyBase(t, base)
	return positioned(err, e)
}
