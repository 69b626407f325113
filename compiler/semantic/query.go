package semantic

import (
	"github.com/squintdb/squint/compiler/ast"
	"github.com/squintdb/squint/schema"
)

// semSelect checks a full SELECT statement: WITH bindings, the compound
// body, and the trailing ORDER BY / LIMIT / OFFSET clauses.
func (a *Analyzer) semSelect(s *Scope, sel *ast.Select) (*InferredQuery, error) {
	// Each CTE is checked under the scope extended with the CTEs before
	// it, so later CTEs may reference earlier ones.
	for _, cte := range sel.With {
		q, err := a.semSelect(s, cte.Query)
		if err != nil {
			return nil, err
		}
		if len(cte.Columns) > 0 {
			if len(cte.Columns) != len(q.Columns) {
				return nil, errorAt(cte, ArityMismatch,
					"CTE %q declares %d columns but its query produces %d",
					cte.Name, len(cte.Columns), len(q.Columns))
			}
			q = q.Rename(cte.Columns)
		}
		s = s.withCTE(cte.Name, q)
	}
	q, bodyScope, err := a.semCompound(s, sel.Body)
	if err != nil {
		return nil, err
	}
	// ORDER BY terms resolve against the left-most SELECT core of the
	// body; LIMIT and OFFSET are evaluated in the outer scope, not the
	// statement's internal FROM scope.
	for _, term := range sel.OrderBy {
		if _, err := a.semExpr(bodyScope, term.Expr); err != nil {
			return nil, err
		}
	}
	if sel.Limit != nil {
		if err := a.requireExprType(s, sel.Limit, schema.Integer); err != nil {
			return nil, err
		}
	}
	if sel.Offset != nil {
		if err := a.requireExprType(s, sel.Offset, schema.Integer); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// semCompound checks a compound expression, returning the inferred query
// and the scope of its left-most term for ORDER BY resolution.
func (a *Analyzer) semCompound(s *Scope, ce ast.CompoundExpr) (*InferredQuery, *Scope, error) {
	switch ce := ce.(type) {
	case *ast.SelectCore:
		return a.semSelectCore(s, ce)
	case *ast.Values:
		q, err := a.semValues(s, ce)
		return q, s, err
	case *ast.CompoundSelect:
		left, leftScope, err := a.semCompound(s, ce.Left)
		if err != nil {
			return nil, nil, err
		}
		right, _, err := a.semCompound(s, ce.Right)
		if err != nil {
			return nil, nil, err
		}
		if len(left.Columns) != len(right.Columns) {
			return nil, nil, errorAt(ce, ArityMismatch,
				"%s sides have %d and %d columns", ce.Op, len(left.Columns), len(right.Columns))
		}
		out := &InferredQuery{Columns: make([]InferredColumn, len(left.Columns))}
		copy(out.Columns, left.Columns)
		for i := range out.Columns {
			t, err := a.ctx.Unify(left.Columns[i].Type, right.Columns[i].Type)
			if err != nil {
				return nil, nil, positioned(err, ce)
			}
			out.Columns[i].Type = t
		}
		return out, leftScope, nil
	}
	return nil, nil, errorAt(ce, Unsupported, "unsupported compound expression")
}

// semSelectCore checks one SELECT term and assembles its result columns.
func (a *Analyzer) semSelectCore(s *Scope, core *ast.SelectCore) (*InferredQuery, *Scope, error) {
	scope := s
	if core.From != nil {
		f, err := a.tableExprScope(s, core.From)
		if err != nil {
			return nil, nil, err
		}
		scope = s.withFrom(f)
		if err := a.validateTableExpr(scope, core.From); err != nil {
			return nil, nil, err
		}
	}
	if core.Where != nil {
		if err := a.requireExprType(scope, core.Where, schema.Boolean); err != nil {
			return nil, nil, err
		}
	}
	for _, e := range core.GroupBy {
		if _, err := a.semExpr(scope, e); err != nil {
			return nil, nil, err
		}
	}
	if core.Having != nil {
		if err := a.requireExprType(scope, core.Having, schema.Boolean); err != nil {
			return nil, nil, err
		}
	}
	q := &InferredQuery{}
	for _, col := range core.Columns {
		switch col := col.(type) {
		case *ast.Star:
			if core.From == nil {
				return nil, nil, errorAt(col, Structural, "SELECT * requires a FROM clause")
			}
			q.Columns = append(q.Columns, scope.from.wildcard.Columns...)
		case *ast.TableStar:
			if core.From == nil {
				return nil, nil, errorAt(col, Structural, "SELECT %s.* requires a FROM clause", col.Table)
			}
			src, ok := scope.from.table(col.Table)
			if !ok {
				return nil, nil, errorAt(col, NotFound,
					"no table %q in FROM clause%s", col.Table, didYouMean(col.Table, scope.from.names))
			}
			q.Columns = append(q.Columns, src.Columns...)
		case *ast.ExprColumn:
			if ref, ok := col.Expr.(*ast.ColumnRef); ok {
				resolved, err := scope.resolveColumn(ref)
				if err != nil {
					return nil, nil, err
				}
				if col.Alias != "" {
					resolved.Name = col.Alias
				}
				q.Columns = append(q.Columns, resolved)
				continue
			}
			t, err := a.semExpr(scope, col.Expr)
			if err != nil {
				return nil, nil, err
			}
			if col.Alias == "" {
				return nil, nil, errorAt(col, Structural,
					"expression result column requires an alias")
			}
			q.Columns = append(q.Columns, InferredColumn{Name: col.Alias, Type: t})
		}
	}
	return q, scope, nil
}

// semValues checks a VALUES block.  The first row fixes the column count
// and seeds the per-column types; every later row must match the width and
// unify column-wise.
func (a *Analyzer) semValues(s *Scope, v *ast.Values) (*InferredQuery, error) {
	if len(v.Rows) == 0 || len(v.Rows[0]) == 0 {
		return nil, errorAt(v, Structural, "VALUES requires at least one expression")
	}
	q := &InferredQuery{Columns: make([]InferredColumn, len(v.Rows[0]))}
	for i, e := range v.Rows[0] {
		t, err := a.semExpr(s, e)
		if err != nil {
			return nil, err
		}
		q.Columns[i] = InferredColumn{Type: t}
	}
	for _, row := range v.Rows[1:] {
		if len(row) != len(q.Columns) {
			return nil, errorAt(v, ArityMismatch,
				"VALUES rows have mismatched widths: %d and %d", len(q.Columns), len(row))
		}
		for i, e := range row {
			t, err := a.semExpr(s, e)
			if err != nil {
				return nil, err
			}
			if q.Columns[i].Type, err = a.ctx.Unify(q.Columns[i].Type, t); err != nil {
				return nil, positioned(err, e)
			}
		}
	}
	return q, nil
}
