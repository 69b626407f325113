package semantic

import (
	"strings"

	"github.com/squintdb/squint/compiler/ast"
	"github.com/squintdb/squint/schema"
)

// semExpr infers the type of an expression in scope s.
func (a *Analyzer) semExpr(s *Scope, e ast.Expr) (Type, error) {
	switch e := e.(type) {
	case *ast.Null:
		return &Concrete{Base: schema.Any, Nullable: true}, nil
	case *ast.Number:
		if e.Float {
			return &Concrete{Base: schema.Float}, nil
		}
		return &Concrete{Base: schema.Integer}, nil
	case *ast.String:
		return &Concrete{Base: schema.Text}, nil
	case *ast.Blob:
		return &Concrete{Base: schema.Blob}, nil
	case *ast.CurrentTime:
		return &Concrete{Base: schema.DateTime}, nil
	case *ast.BindParam:
		return a.ctx.Param(e.Name), nil
	case *ast.ColumnRef:
		col, err := s.resolveColumn(e)
		if err != nil {
			return nil, err
		}
		return col.Type, nil
	case *ast.UnaryExpr:
		return a.semUnary(s, e)
	case *ast.BinaryExpr:
		return a.semBinary(s, e)
	case *ast.IsNull:
		if _, err := a.semExpr(s, e.Operand); err != nil {
			return nil, err
		}
		return &Concrete{Base: schema.Boolean}, nil
	case *ast.Similarity:
		return a.semSimilarity(s, e)
	case *ast.Between:
		input, err := a.semExpr(s, e.Input)
		if err != nil {
			return nil, err
		}
		lo, err := a.semExpr(s, e.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := a.semExpr(s, e.Hi)
		if err != nil {
			return nil, err
		}
		t, err := a.ctx.Unify(input, lo)
		if err != nil {
			return nil, positioned(err, e)
		}
		if t, err = a.ctx.Unify(t, hi); err != nil {
			return nil, positioned(err, e)
		}
		return &Dependent{Parent: t, Base: schema.Boolean}, nil
	case *ast.In:
		return a.semIn(s, e)
	case *ast.Exists:
		if _, err := a.semSelect(s.child(), e.Query); err != nil {
			return nil, err
		}
		return &Concrete{Base: schema.Boolean}, nil
	case *ast.Case:
		return a.semCase(s, e)
	case *ast.Cast:
		return a.semCast(s, e)
	case *ast.Collate:
		t, err := a.semExpr(s, e.Expr)
		if err != nil {
			return nil, err
		}
		t, err = a.ctx.Unify(t, TextType)
		return t, positioned(err, e)
	case *ast.Call:
		return a.semCall(s, e)
	case *ast.Subquery:
		q, err := a.semSelect(s.child(), e.Query)
		if err != nil {
			return nil, err
		}
		if len(q.Columns) != 1 {
			return nil, errorAt(e, ArityMismatch,
				"scalar subquery must produce exactly one column, not %d", len(q.Columns))
		}
		return q.Columns[0].Type, nil
	case *ast.Raise:
		if e.Message != nil {
			if err := a.requireExprType(s, e.Message, schema.Text); err != nil {
				return nil, err
			}
		}
		return AnyType, nil
	}
	return nil, errorAt(e, Unsupported, "unsupported expression")
}

func (a *Analyzer) semUnary(s *Scope, e *ast.UnaryExpr) (Type, error) {
	t, err := a.semExpr(s, e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-", "+", "~":
		t, err = a.ctx.Unify(t, NumberType)
	case "not":
		t, err = a.ctx.Unify(t, BooleanType)
	default:
		return nil, errorAt(e, Unsupported, "unsupported unary operator %q", e.Op)
	}
	return t, positioned(err, e)
}

func (a *Analyzer) semBinary(s *Scope, e *ast.BinaryExpr) (Type, error) {
	lhs, err := a.semExpr(s, e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := a.semExpr(s, e.RHS)
	if err != nil {
		return nil, err
	}
	t, err := a.ctx.Unify(lhs, rhs)
	if err != nil {
		return nil, positioned(err, e)
	}
	switch e.Op {
	case "||":
		t, err = a.ctx.Unify(t, TextType)
	case "*", "/", "+", "-":
		t, err = a.ctx.Unify(t, NumberType)
	case "%", "<<", ">>", "&", "|":
		t, err = a.ctx.Unify(t, IntegerType)
	case "<", "<=", ">", ">=", "=", "<>", "is", "is not":
		return &Dependent{Parent: t, Base: schema.Boolean}, nil
	case "and", "or":
		t, err = a.ctx.Unify(t, BooleanType)
	default:
		return nil, errorAt(e, Unsupported, "unsupported binary operator %q", e.Op)
	}
	return t, positioned(err, e)
}

func (a *Analyzer) semSimilarity(s *Scope, e *ast.Similarity) (Type, error) {
	input, err := a.semExpr(s, e.Input)
	if err != nil {
		return nil, err
	}
	if input, err = a.ctx.Unify(input, TextType); err != nil {
		return nil, positioned(err, e.Input)
	}
	pattern, err := a.semExpr(s, e.Pattern)
	if err != nil {
		return nil, err
	}
	if pattern, err = a.ctx.Unify(pattern, TextType); err != nil {
		return nil, positioned(err, e.Pattern)
	}
	if e.Escape != nil {
		escape, err := a.semExpr(s, e.Escape)
		if err != nil {
			return nil, err
		}
		if _, err := a.ctx.Unify(escape, TextType); err != nil {
			return nil, positioned(err, e.Escape)
		}
	}
	t, err := a.ctx.Unify(input, pattern)
	if err != nil {
		return nil, positioned(err, e)
	}
	return &Dependent{Parent: t, Base: schema.Boolean}, nil
}

func (a *Analyzer) semIn(s *Scope, e *ast.In) (Type, error) {
	input, err := a.semExpr(s, e.Input)
	if err != nil {
		return nil, err
	}
	switch set := e.Set.(type) {
	case *ast.InList:
		for _, item := range set.Exprs {
			t, err := a.semExpr(s, item)
			if err != nil {
				return nil, err
			}
			if input, err = a.ctx.Unify(input, t); err != nil {
				return nil, positioned(err, item)
			}
		}
	case *ast.InQuery:
		q, err := a.semSelect(s.child(), set.Query)
		if err != nil {
			return nil, err
		}
		if len(q.Columns) != 1 {
			return nil, errorAt(set, ArityMismatch,
				"IN subquery must produce exactly one column, not %d", len(q.Columns))
		}
		if input, err = a.ctx.Unify(input, q.Columns[0].Type); err != nil {
			return nil, positioned(err, set)
		}
	case *ast.InTable:
		q, err := s.resolveTable(set.Table, a.reference)
		if err != nil {
			return nil, err
		}
		if len(q.Columns) != 1 {
			return nil, errorAt(set, ArityMismatch,
				"IN table %q must have exactly one column, not %d", set.Table.Name, len(q.Columns))
		}
		if input, err = a.ctx.Unify(input, q.Columns[0].Type); err != nil {
			return nil, positioned(err, set)
		}
	}
	return &Dependent{Parent: input, Base: schema.Boolean}, nil
}

func (a *Analyzer) semCase(s *Scope, e *ast.Case) (Type, error) {
	var input Type
	if e.Input != nil {
		var err error
		if input, err = a.semExpr(s, e.Input); err != nil {
			return nil, err
		}
	}
	var output Type = AnyType
	for _, when := range e.Whens {
		cond, err := a.semExpr(s, when.Cond)
		if err != nil {
			return nil, err
		}
		if input != nil {
			if input, err = a.ctx.Unify(input, cond); err != nil {
				return nil, positioned(err, when.Cond)
			}
		} else if _, err := a.ctx.Unify(cond, BooleanType); err != nil {
			return nil, positioned(err, when.Cond)
		}
		then, err := a.semExpr(s, when.Then)
		if err != nil {
			return nil, err
		}
		if output, err = a.ctx.Unify(output, then); err != nil {
			return nil, positioned(err, when.Then)
		}
	}
	if e.Else != nil {
		alt, err := a.semExpr(s, e.Else)
		if err != nil {
			return nil, err
		}
		if output, err = a.ctx.Unify(output, alt); err != nil {
			return nil, positioned(err, e.Else)
		}
	} else {
		// A CASE that can fall through every WHEN produces NULL.
		var err error
		if output, err = a.ctx.Unify(output, &Concrete{Base: schema.Any, Nullable: true}); err != nil {
			return nil, positioned(err, e)
		}
	}
	return output, nil
}

func (a *Analyzer) semCast(s *Scope, e *ast.Cast) (Type, error) {
	t, err := a.semExpr(s, e.Expr)
	if err != nil {
		return nil, err
	}
	name := e.Type
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	base, ok := schema.BaseTypeOf(name)
	if !ok {
		return nil, errorAt(e, NotFound, "unknown type name %q", e.Type)
	}
	return &Dependent{Parent: t, Base: base}, nil
}
