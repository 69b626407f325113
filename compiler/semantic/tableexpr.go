package semantic

import (
	"github.com/squintdb/squint/compiler/ast"
	"github.com/squintdb/squint/schema"
)

// tableExprScope recursively builds the FROM bindings for a table
// expression.  Each subtree's scope is memoized so join validation can
// inspect the wildcard of either side without re-resolving tables.
func (a *Analyzer) tableExprScope(s *Scope, te ast.TableExpr) (*FromScope, error) {
	f, err := a.buildFromScope(s, te)
	if err != nil {
		return nil, err
	}
	a.fromScopes[te] = f
	return f, nil
}

func (a *Analyzer) buildFromScope(s *Scope, te ast.TableExpr) (*FromScope, error) {
	switch te := te.(type) {
	case *ast.TableRef:
		if te.HasArgs {
			return nil, errorAt(te, Unsupported,
				"table-valued function %q is not supported", te.Table.Name)
		}
		q, err := s.resolveTable(te.Table, a.reference)
		if err != nil {
			return nil, err
		}
		name := te.Alias
		if name == "" {
			name = te.Table.Name
		}
		q = q.withFrom(name)
		f := newFromScope()
		f.bind(name, q)
		f.wildcard.Columns = append(f.wildcard.Columns, q.Columns...)
		return f, nil
	case *ast.SubqueryTable:
		q, err := a.semSelect(s.child(), te.Query)
		if err != nil {
			return nil, err
		}
		q = q.withFrom(te.Alias)
		f := newFromScope()
		if te.Alias != "" {
			f.bind(te.Alias, q)
		}
		f.wildcard.Columns = append(f.wildcard.Columns, q.Columns...)
		return f, nil
	case *ast.Join:
		left, err := a.tableExprScope(s, te.Left)
		if err != nil {
			return nil, err
		}
		right, err := a.tableExprScope(s, te.Right)
		if err != nil {
			return nil, err
		}
		f := newFromScope()
		f.merge(left)
		if dup, ok := f.merge(right); !ok {
			return nil, errorAt(te.Right, Structural, "duplicate table name or alias %q in FROM", dup)
		}
		return f, nil
	}
	return nil, errorAt(te, Unsupported, "unsupported table expression")
}

// validateTableExpr checks join constraints after the full FROM scope has
// been installed in s, so ON expressions see every binding of the clause.
func (a *Analyzer) validateTableExpr(s *Scope, te ast.TableExpr) error {
	join, ok := te.(*ast.Join)
	if !ok {
		return nil
	}
	if err := a.validateTableExpr(s, join.Left); err != nil {
		return err
	}
	if err := a.validateTableExpr(s, join.Right); err != nil {
		return err
	}
	left, right := a.fromScopes[join.Left], a.fromScopes[join.Right]
	if join.Natural {
		if join.Constraint != nil {
			return errorAt(join.Constraint, Structural,
				"NATURAL JOIN cannot have an ON or USING constraint")
		}
		if len(commonColumns(left, right)) == 0 {
			return errorAt(join, Structural,
				"NATURAL JOIN has no columns in common")
		}
		return nil
	}
	switch con := join.Constraint.(type) {
	case nil:
		return nil
	case *ast.OnConstraint:
		return a.requireExprType(s, con.Expr, schema.Boolean)
	case *ast.UsingConstraint:
		for _, name := range con.Names {
			if _, n := left.wildcard.column(name); n == 0 {
				return errorAt(con, NotFound,
					"USING column %q is missing from the left side of the join", name)
			}
			if _, n := right.wildcard.column(name); n == 0 {
				return errorAt(con, NotFound,
					"USING column %q is missing from the right side of the join", name)
			}
		}
		return nil
	}
	return nil
}

func commonColumns(left, right *FromScope) []string {
	seen := make(map[string]bool)
	for _, col := range left.wildcard.Columns {
		seen[schema.Fold(col.Name)] = true
	}
	var common []string
	for _, col := range right.wildcard.Columns {
		if seen[schema.Fold(col.Name)] {
			common = append(common, col.Name)
		}
	}
	return common
}
