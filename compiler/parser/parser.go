// Package parser implements a hand-written lexer and recursive-descent
// parser for the SQLite-flavored SELECT dialect checked by the semantic
// package.
package parser

import (
	"fmt"
	"strings"

	"github.com/squintdb/squint/compiler/ast"
)

// Parse parses a single SELECT statement, tolerating one trailing
// semicolon.
func Parse(src string) (*ast.Select, *Source, error) {
	source := NewSource(src)
	tokens, err := lex(src)
	if err != nil {
		return nil, source, err
	}
	p := &parser{tokens: tokens}
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, source, err
	}
	if p.tok().isOp(";") {
		p.next()
	}
	if p.tok().kind != tokenEOF {
		return nil, source, p.errorf("unexpected %q after statement", p.tok().raw)
	}
	return sel, source, nil
}

// ParseAll parses a script of semicolon-separated SELECT statements.
func ParseAll(src string) ([]*ast.Select, *Source, error) {
	source := NewSource(src)
	tokens, err := lex(src)
	if err != nil {
		return nil, source, err
	}
	p := &parser{tokens: tokens}
	var stmts []*ast.Select
	for {
		for p.tok().isOp(";") {
			p.next()
		}
		if p.tok().kind == tokenEOF {
			return stmts, source, nil
		}
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, source, err
		}
		stmts = append(stmts, sel)
		if !p.tok().isOp(";") && p.tok().kind != tokenEOF {
			return nil, source, p.errorf("unexpected %q after statement", p.tok().raw)
		}
	}
}

type parser struct {
	tokens []token
	k      int
}

func (p *parser) tok() token { return p.tokens[p.k] }

func (p *parser) peek() token {
	if p.k+1 < len(p.tokens) {
		return p.tokens[p.k+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() token {
	t := p.tokens[p.k]
	if p.k+1 < len(p.tokens) {
		p.k++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) error {
	t := p.tok()
	end := t.end()
	if t.kind == tokenEOF {
		end = t.pos + 1
	}
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), PosVal: t.pos, EndVal: end}
}

func (p *parser) takeKeyword(kw string) bool {
	if p.tok().isKeyword(kw) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	if !p.takeKeyword(kw) {
		return p.errorf("expected %s, found %q", strings.ToUpper(kw), p.tok().raw)
	}
	return nil
}

func (p *parser) takeOp(op string) bool {
	if p.tok().isOp(op) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectOp(op string) (token, error) {
	if !p.tok().isOp(op) {
		return token{}, p.errorf("expected %q, found %q", op, p.tok().raw)
	}
	return p.next(), nil
}

// reserved are keywords that cannot serve as a bare alias.
var reserved = map[string]bool{
	"all": true, "and": true, "as": true, "asc": true, "between": true,
	"by": true, "case": true, "cast": true, "collate": true, "cross": true,
	"current_date": true, "current_time": true, "current_timestamp": true,
	"desc": true, "distinct": true, "else": true, "end": true, "escape": true,
	"except": true, "exists": true, "from": true, "glob": true, "group": true,
	"having": true, "in": true, "inner": true, "intersect": true, "is": true,
	"isnull": true, "join": true, "left": true, "like": true, "limit": true,
	"match": true, "natural": true, "not": true, "notnull": true, "null": true,
	"offset": true, "on": true, "or": true, "order": true, "outer": true,
	"raise": true, "regexp": true, "select": true, "then": true, "union": true,
	"using": true, "values": true, "when": true, "where": true, "with": true,
}

func (p *parser) bareName() (token, bool) {
	t := p.tok()
	if t.kind != tokenID {
		return token{}, false
	}
	if !t.quoted && reserved[strings.ToLower(t.text)] {
		return token{}, false
	}
	return p.next(), true
}

func (p *parser) expectName(what string) (token, error) {
	t, ok := p.bareName()
	if !ok {
		return token{}, p.errorf("expected %s, found %q", what, p.tok().raw)
	}
	return t, nil
}

// --- statements ---

func (p *parser) parseSelectStmt() (*ast.Select, error) {
	sel := &ast.Select{Kind: "Select"}
	if p.tok().isKeyword("with") {
		sel.WithPos = p.next().pos
		p.takeKeyword("recursive")
		for {
			cte, err := p.parseCTE()
			if err != nil {
				return nil, err
			}
			sel.With = append(sel.With, cte)
			if !p.takeOp(",") {
				break
			}
		}
	}
	body, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	sel.Body = body
	if p.tok().isKeyword("order") {
		p.next()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			term := ast.OrderTerm{Kind: "OrderTerm", Expr: e}
			if p.takeKeyword("desc") {
				term.Desc = true
			} else {
				p.takeKeyword("asc")
			}
			sel.OrderBy = append(sel.OrderBy, term)
			if !p.takeOp(",") {
				break
			}
		}
	}
	if p.takeKeyword("limit") {
		limit, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if p.takeKeyword("offset") {
			sel.Limit = limit
			if sel.Offset, err = p.parseExpr(1); err != nil {
				return nil, err
			}
		} else if p.takeOp(",") {
			// LIMIT o, l is LIMIT l OFFSET o.
			sel.Offset = limit
			if sel.Limit, err = p.parseExpr(1); err != nil {
				return nil, err
			}
		} else {
			sel.Limit = limit
		}
	}
	return sel, nil
}

func (p *parser) parseCTE() (*ast.CTE, error) {
	name, err := p.expectName("CTE name")
	if err != nil {
		return nil, err
	}
	cte := &ast.CTE{Kind: "CTE", Name: name.text, NamePos: name.pos}
	if p.takeOp("(") {
		for {
			col, err := p.expectName("column name")
			if err != nil {
				return nil, err
			}
			cte.Columns = append(cte.Columns, col.text)
			if !p.takeOp(",") {
				break
			}
		}
		if _, err := p.expectOp(")"); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}
	if cte.Query, err = p.parseSelectStmt(); err != nil {
		return nil, err
	}
	rparen, err := p.expectOp(")")
	if err != nil {
		return nil, err
	}
	cte.Rparen = rparen.pos
	return cte, nil
}

func (p *parser) parseCompound() (ast.CompoundExpr, error) {
	left, err := p.parseCompoundTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.tok().isKeyword("union"):
			p.next()
			op = "union"
			if p.takeKeyword("all") {
				op = "union all"
			}
		case p.tok().isKeyword("intersect"):
			p.next()
			op = "intersect"
		case p.tok().isKeyword("except"):
			p.next()
			op = "except"
		default:
			return left, nil
		}
		right, err := p.parseCompoundTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.CompoundSelect{Kind: "CompoundSelect", Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseCompoundTerm() (ast.CompoundExpr, error) {
	switch {
	case p.tok().isKeyword("values"):
		return p.parseValues()
	case p.tok().isKeyword("select"):
		return p.parseSelectCore()
	}
	return nil, p.errorf("expected SELECT or VALUES, found %q", p.tok().raw)
}

func (p *parser) parseValues() (*ast.Values, error) {
	v := &ast.Values{Kind: "Values", ValuesPos: p.next().pos}
	for {
		if _, err := p.expectOp("("); err != nil {
			return nil, err
		}
		var row []ast.Expr
		if !p.tok().isOp(")") {
			for {
				e, err := p.parseExpr(1)
				if err != nil {
					return nil, err
				}
				row = append(row, e)
				if !p.takeOp(",") {
					break
				}
			}
		}
		rparen, err := p.expectOp(")")
		if err != nil {
			return nil, err
		}
		v.EndPos = rparen.pos + 1
		v.Rows = append(v.Rows, row)
		if !p.takeOp(",") {
			return v, nil
		}
	}
}

func (p *parser) parseSelectCore() (*ast.SelectCore, error) {
	core := &ast.SelectCore{Kind: "SelectCore", SelectPos: p.next().pos}
	if p.takeKeyword("distinct") {
		core.Distinct = true
	} else {
		p.takeKeyword("all")
	}
	for {
		col, err := p.parseResultColumn()
		if err != nil {
			return nil, err
		}
		core.Columns = append(core.Columns, col)
		core.EndPos = col.End()
		if !p.takeOp(",") {
			break
		}
	}
	if p.takeKeyword("from") {
		from, err := p.parseTableExpr()
		if err != nil {
			return nil, err
		}
		core.From = from
		core.EndPos = from.End()
	}
	if p.takeKeyword("where") {
		where, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		core.Where = where
		core.EndPos = where.End()
	}
	if p.tok().isKeyword("group") {
		p.next()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			core.GroupBy = append(core.GroupBy, e)
			core.EndPos = e.End()
			if !p.takeOp(",") {
				break
			}
		}
		if p.takeKeyword("having") {
			having, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			core.Having = having
			core.EndPos = having.End()
		}
	}
	return core, nil
}

func (p *parser) parseResultColumn() (ast.ResultColumn, error) {
	if p.tok().isOp("*") {
		star := p.next()
		return &ast.Star{Kind: "Star", StarPos: star.pos}, nil
	}
	if p.tok().kind == tokenID && p.peek().isOp(".") {
		if p.k+2 < len(p.tokens) && p.tokens[p.k+2].isOp("*") {
			table := p.next()
			p.next() // "."
			star := p.next()
			return &ast.TableStar{
				Kind:     "TableStar",
				Table:    table.text,
				TablePos: table.pos,
				StarPos:  star.pos,
			}, nil
		}
	}
	e, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	col := &ast.ExprColumn{Kind: "ExprColumn", Expr: e}
	if p.takeKeyword("as") {
		name, err := p.expectName("column alias")
		if err != nil {
			return nil, err
		}
		col.Alias, col.AliasEnd = name.text, name.end()
	} else if name, ok := p.bareName(); ok {
		col.Alias, col.AliasEnd = name.text, name.end()
	}
	return col, nil
}

// --- table expressions ---

func (p *parser) parseTableExpr() (ast.TableExpr, error) {
	left, err := p.parseTableItem()
	if err != nil {
		return nil, err
	}
	for {
		join := &ast.Join{Kind: "Join", Left: left}
		switch {
		case p.tok().isOp(","):
			p.next()
			join.Op = ","
		case p.tok().isKeyword("natural") || p.tok().isKeyword("left") ||
			p.tok().isKeyword("inner") || p.tok().isKeyword("cross") ||
			p.tok().isKeyword("join"):
			join.Natural = p.takeKeyword("natural")
			switch {
			case p.takeKeyword("left"):
				p.takeKeyword("outer")
				join.Op = "left"
			case p.takeKeyword("inner"):
				join.Op = "inner"
			case p.takeKeyword("cross"):
				join.Op = "cross"
			default:
				join.Op = "inner"
			}
			if err := p.expectKeyword("join"); err != nil {
				return nil, err
			}
		default:
			return left, nil
		}
		if join.Right, err = p.parseTableItem(); err != nil {
			return nil, err
		}
		switch {
		case p.tok().isKeyword("on"):
			on := p.next()
			expr, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}
			join.Constraint = &ast.OnConstraint{Kind: "OnConstraint", OnPos: on.pos, Expr: expr}
		case p.tok().isKeyword("using"):
			using := p.next()
			if _, err := p.expectOp("("); err != nil {
				return nil, err
			}
			uc := &ast.UsingConstraint{Kind: "UsingConstraint", UsingPos: using.pos}
			for {
				name, err := p.expectName("column name")
				if err != nil {
					return nil, err
				}
				uc.Names = append(uc.Names, name.text)
				if !p.takeOp(",") {
					break
				}
			}
			rparen, err := p.expectOp(")")
			if err != nil {
				return nil, err
			}
			uc.Rparen = rparen.pos
			join.Constraint = uc
		}
		left = join
	}
}

func (p *parser) parseTableItem() (ast.TableExpr, error) {
	if p.tok().isOp("(") {
		lparen := p.next()
		sub, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		rparen, err := p.expectOp(")")
		if err != nil {
			return nil, err
		}
		st := &ast.SubqueryTable{
			Kind:   "SubqueryTable",
			Query:  sub,
			Lparen: lparen.pos,
			Rparen: rparen.pos,
		}
		st.Alias, st.AliasEnd = p.parseAlias()
		return st, nil
	}
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	ref := &ast.TableRef{Kind: "TableRef", Table: name}
	if p.tok().isOp("(") {
		p.next()
		ref.HasArgs = true
		if !p.tok().isOp(")") {
			for {
				arg, err := p.parseExpr(1)
				if err != nil {
					return nil, err
				}
				ref.Args = append(ref.Args, arg)
				if !p.takeOp(",") {
					break
				}
			}
		}
		if _, err := p.expectOp(")"); err != nil {
			return nil, err
		}
	}
	ref.Alias, ref.AliasEnd = p.parseAlias()
	return ref, nil
}

func (p *parser) parseTableName() (*ast.TableName, error) {
	name, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}
	tn := &ast.TableName{Kind: "TableName", Name: name.text, NamePos: name.pos, NameEnd: name.end()}
	if p.tok().isOp(".") && p.peek().kind == tokenID {
		p.next()
		obj, err := p.expectName("table name")
		if err != nil {
			return nil, err
		}
		tn.Schema, tn.Name, tn.NameEnd = tn.Name, obj.text, obj.end()
	}
	return tn, nil
}

func (p *parser) parseAlias() (string, int) {
	if p.takeKeyword("as") {
		if name, ok := p.bareName(); ok {
			return name.text, name.end()
		}
		return "", 0
	}
	if name, ok := p.bareName(); ok {
		return name.text, name.end()
	}
	return "", 0
}

// --- expressions ---

// Binary operator precedence, loosest to tightest.  The comparison family
// (=, <>, IS, IN, LIKE, BETWEEN, ...) sits at precedence 4; NOT at 3.
func binaryPrec(t token) (string, int) {
	if t.isKeyword("or") {
		return "or", 1
	}
	if t.isKeyword("and") {
		return "and", 2
	}
	if t.kind == tokenOp {
		switch t.text {
		case "=", "==":
			return "=", 4
		case "!=", "<>":
			return "<>", 4
		case "<", "<=", ">", ">=":
			return t.text, 5
		case "<<", ">>", "&", "|":
			return t.text, 6
		case "+", "-":
			return t.text, 7
		case "*", "/", "%":
			return t.text, 8
		case "||":
			return "||", 9
		}
	}
	return "", 0
}

const (
	precNot     = 3
	precCompare = 4
	precCollate = 10
)

func (p *parser) parseExpr(min int) (ast.Expr, error) {
	var lhs ast.Expr
	var err error
	if p.tok().isKeyword("not") && !p.peek().isKeyword("exists") && min <= precNot {
		op := p.next()
		operand, err := p.parseExpr(precNot)
		if err != nil {
			return nil, err
		}
		lhs = &ast.UnaryExpr{Kind: "UnaryExpr", Op: "not", OpPos: op.pos, Operand: operand}
	} else {
		if lhs, err = p.parseUnary(); err != nil {
			return nil, err
		}
	}
	for {
		t := p.tok()
		switch {
		case t.isKeyword("collate") && min <= precCollate:
			p.next()
			name, err := p.expectName("collation name")
			if err != nil {
				return nil, err
			}
			lhs = &ast.Collate{Kind: "Collate", Expr: lhs, Collation: name.text, EndPos: name.end()}
			continue
		case t.isKeyword("isnull") && min <= precCompare:
			kw := p.next()
			lhs = &ast.IsNull{Kind: "IsNull", Operand: lhs, EndPos: kw.end()}
			continue
		case t.isKeyword("notnull") && min <= precCompare:
			kw := p.next()
			lhs = &ast.IsNull{Kind: "IsNull", Not: true, Operand: lhs, EndPos: kw.end()}
			continue
		case t.isKeyword("is") && min <= precCompare:
			p.next()
			not := p.takeKeyword("not")
			if p.tok().isKeyword("null") {
				kw := p.next()
				lhs = &ast.IsNull{Kind: "IsNull", Not: not, Operand: lhs, EndPos: kw.end()}
				continue
			}
			rhs, err := p.parseExpr(precCompare + 1)
			if err != nil {
				return nil, err
			}
			op := "is"
			if not {
				op = "is not"
			}
			lhs = &ast.BinaryExpr{Kind: "BinaryExpr", Op: op, LHS: lhs, RHS: rhs}
			continue
		case (t.isKeyword("not") || t.isKeyword("between") || t.isKeyword("in") ||
			t.isKeyword("like") || t.isKeyword("glob") || t.isKeyword("match") ||
			t.isKeyword("regexp")) && min <= precCompare:
			not := p.takeKeyword("not")
			switch {
			case p.takeKeyword("between"):
				lo, err := p.parseExpr(precCompare + 1)
				if err != nil {
					return nil, err
				}
				if err := p.expectKeyword("and"); err != nil {
					return nil, err
				}
				hi, err := p.parseExpr(precCompare + 1)
				if err != nil {
					return nil, err
				}
				lhs = &ast.Between{Kind: "Between", Not: not, Input: lhs, Lo: lo, Hi: hi}
			case p.tok().isKeyword("in"):
				p.next()
				set, err := p.parseInSet()
				if err != nil {
					return nil, err
				}
				lhs = &ast.In{Kind: "In", Not: not, Input: lhs, Set: set}
			case p.tok().isKeyword("like") || p.tok().isKeyword("glob") ||
				p.tok().isKeyword("match") || p.tok().isKeyword("regexp"):
				op := strings.ToLower(p.next().text)
				pattern, err := p.parseExpr(precCompare + 1)
				if err != nil {
					return nil, err
				}
				sim := &ast.Similarity{Kind: "Similarity", Op: op, Not: not, Input: lhs, Pattern: pattern}
				if p.takeKeyword("escape") {
					if sim.Escape, err = p.parseExpr(precCompare + 1); err != nil {
						return nil, err
					}
				}
				lhs = sim
			default:
				return nil, p.errorf("expected BETWEEN, IN, or a pattern operator after NOT, found %q", p.tok().raw)
			}
			continue
		}
		op, prec := binaryPrec(t)
		if prec == 0 || prec < min {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Kind: "BinaryExpr", Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	t := p.tok()
	if t.isOp("-") || t.isOp("+") || t.isOp("~") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Kind: "UnaryExpr", Op: t.text, OpPos: t.pos, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parseInSet() (ast.InSet, error) {
	if p.tok().isOp("(") {
		lparen := p.next()
		if p.tok().isKeyword("select") || p.tok().isKeyword("values") || p.tok().isKeyword("with") {
			sub, err := p.parseSelectStmt()
			if err != nil {
				return nil, err
			}
			rparen, err := p.expectOp(")")
			if err != nil {
				return nil, err
			}
			return &ast.InQuery{Kind: "InQuery", Query: sub, Lparen: lparen.pos, Rparen: rparen.pos}, nil
		}
		list := &ast.InList{Kind: "InList", Lparen: lparen.pos}
		if !p.tok().isOp(")") {
			for {
				e, err := p.parseExpr(1)
				if err != nil {
					return nil, err
				}
				list.Exprs = append(list.Exprs, e)
				if !p.takeOp(",") {
					break
				}
			}
		}
		rparen, err := p.expectOp(")")
		if err != nil {
			return nil, err
		}
		list.Rparen = rparen.pos
		return list, nil
	}
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	return &ast.InTable{Kind: "InTable", Table: name}, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	t := p.tok()
	switch {
	case t.kind == tokenNumber:
		p.next()
		return &ast.Number{Kind: "Number", Text: t.text, TextPos: t.pos, Float: t.float}, nil
	case t.kind == tokenString:
		p.next()
		return &ast.String{Kind: "String", Text: t.text, Raw: t.raw, TextPos: t.pos}, nil
	case t.kind == tokenBlob:
		p.next()
		return &ast.Blob{Kind: "Blob", Text: t.text, TextPos: t.pos}, nil
	case t.kind == tokenBind:
		p.next()
		return &ast.BindParam{Kind: "BindParam", Name: t.text, Raw: t.raw, NamePos: t.pos}, nil
	case t.isKeyword("null"):
		p.next()
		return &ast.Null{Kind: "Null", TextPos: t.pos}, nil
	case t.isKeyword("current_date") || t.isKeyword("current_time") || t.isKeyword("current_timestamp"):
		p.next()
		return &ast.CurrentTime{Kind: "CurrentTime", Name: strings.ToLower(t.text), NamePos: t.pos}, nil
	case t.isKeyword("case"):
		return p.parseCase()
	case t.isKeyword("cast"):
		return p.parseCast()
	case t.isKeyword("exists") || t.isKeyword("not") && p.peek().isKeyword("exists"):
		not := p.takeKeyword("not")
		kw := p.next()
		if _, err := p.expectOp("("); err != nil {
			return nil, err
		}
		sub, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		rparen, err := p.expectOp(")")
		if err != nil {
			return nil, err
		}
		var e ast.Expr = &ast.Exists{Kind: "Exists", KeywordPos: kw.pos, Query: sub, Rparen: rparen.pos}
		if not {
			e = &ast.UnaryExpr{Kind: "UnaryExpr", Op: "not", OpPos: t.pos, Operand: e}
		}
		return e, nil
	case t.isKeyword("raise"):
		return p.parseRaise()
	case t.isOp("("):
		lparen := p.next()
		if p.tok().isKeyword("select") || p.tok().isKeyword("values") || p.tok().isKeyword("with") {
			sub, err := p.parseSelectStmt()
			if err != nil {
				return nil, err
			}
			rparen, err := p.expectOp(")")
			if err != nil {
				return nil, err
			}
			return &ast.Subquery{Kind: "Subquery", Query: sub, Lparen: lparen.pos, Rparen: rparen.pos}, nil
		}
		e, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if _, err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return e, nil
	case t.kind == tokenID && (t.quoted || !reserved[strings.ToLower(t.text)]):
		return p.parseRef()
	}
	return nil, p.errorf("unexpected %q in expression", t.raw)
}

func (p *parser) parseRef() (ast.Expr, error) {
	name := p.next()
	if p.tok().isOp("(") {
		p.next()
		call := &ast.Call{Kind: "Call", Name: name.text, NamePos: name.pos}
		if p.tok().isOp("*") {
			p.next()
			call.Wildcard = true
		} else if !p.tok().isOp(")") {
			if p.takeKeyword("distinct") {
				call.Distinct = true
			}
			for {
				arg, err := p.parseExpr(1)
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if !p.takeOp(",") {
					break
				}
			}
		}
		rparen, err := p.expectOp(")")
		if err != nil {
			return nil, err
		}
		call.Rparen = rparen.pos
		return call, nil
	}
	ref := &ast.ColumnRef{Kind: "ColumnRef", Name: name.text, NamePos: name.pos, NameEnd: name.end()}
	if p.tok().isOp(".") && p.peek().kind == tokenID {
		p.next()
		col := p.next()
		ref.Table, ref.Name, ref.NameEnd = ref.Name, col.text, col.end()
	}
	return ref, nil
}

func (p *parser) parseCase() (ast.Expr, error) {
	kw := p.next()
	c := &ast.Case{Kind: "Case", CasePos: kw.pos}
	if !p.tok().isKeyword("when") {
		input, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		c.Input = input
	}
	for p.takeKeyword("when") {
		cond, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("then"); err != nil {
			return nil, err
		}
		then, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		c.Whens = append(c.Whens, ast.When{Kind: "When", Cond: cond, Then: then})
	}
	if len(c.Whens) == 0 {
		return nil, p.errorf("CASE with no WHEN clause")
	}
	if p.takeKeyword("else") {
		e, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		c.Else = e
	}
	endKw := p.tok()
	if err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	c.EndPos = endKw.end()
	return c, nil
}

func (p *parser) parseCast() (ast.Expr, error) {
	kw := p.next()
	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}
	e, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	typ, err := p.expectName("type name")
	if err != nil {
		return nil, err
	}
	name := typ.text
	// Multi-word type names (e.g. UNSIGNED BIG INT) and width suffixes
	// (e.g. VARCHAR(30)) collapse onto the leading name.
	for {
		if extra, ok := p.bareName(); ok {
			name += " " + extra.text
			continue
		}
		break
	}
	if p.takeOp("(") {
		for !p.tok().isOp(")") && p.tok().kind != tokenEOF {
			p.next()
		}
		if _, err := p.expectOp(")"); err != nil {
			return nil, err
		}
	}
	rparen, err := p.expectOp(")")
	if err != nil {
		return nil, err
	}
	return &ast.Cast{
		Kind:    "Cast",
		CastPos: kw.pos,
		Expr:    e,
		Type:    name,
		TypePos: typ.pos,
		Rparen:  rparen.pos,
	}, nil
}

func (p *parser) parseRaise() (ast.Expr, error) {
	kw := p.next()
	if _, err := p.expectOp("("); err != nil {
		return nil, err
	}
	action := p.tok()
	switch {
	case action.isKeyword("ignore"), action.isKeyword("rollback"),
		action.isKeyword("abort"), action.isKeyword("fail"):
		p.next()
	default:
		return nil, p.errorf("expected IGNORE, ROLLBACK, ABORT, or FAIL, found %q", action.raw)
	}
	r := &ast.Raise{Kind: "Raise", RaisePos: kw.pos, Action: strings.ToLower(action.text)}
	if p.takeOp(",") {
		msg, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		r.Message = msg
	}
	rparen, err := p.expectOp(")")
	if err != nil {
		return nil, err
	}
	r.Rparen = rparen.pos
	return r, nil
}
