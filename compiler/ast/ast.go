// Package ast declares the types used to represent syntax trees for
// SQLite-flavored SQL queries.
package ast

// This module is derived from the GO AST design pattern in
// https://golang.org/pkg/go/ast/

type Node interface {
	Pos() int // Position of first character belonging to the node.
	End() int // Position of first character immediately after the node.
}

// Expr is the interface implemented by all AST expression nodes.
type Expr interface {
	Node
	ExprAST()
}

// Null is the NULL literal.
type Null struct {
	Kind    string `json:"kind"`
	TextPos int    `json:"text_pos"`
}

func (n *Null) Pos() int { return n.TextPos }
func (n *Null) End() int { return n.TextPos + len("null") }

// Number is an integer or floating point literal.
type Number struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	TextPos int    `json:"text_pos"`
	Float   bool   `json:"float"`
}

func (n *Number) Pos() int { return n.TextPos }
func (n *Number) End() int { return n.TextPos + len(n.Text) }

// String is a string literal.  Text holds the decoded value; Raw the
// original token including quotes.
type String struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Raw     string `json:"raw"`
	TextPos int    `json:"text_pos"`
}

func (s *String) Pos() int { return s.TextPos }
func (s *String) End() int { return s.TextPos + len(s.Raw) }

// Blob is a blob literal, e.g. x'0a1b'.  Text holds the hex digits.
type Blob struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	TextPos int    `json:"text_pos"`
}

func (b *Blob) Pos() int { return b.TextPos }
func (b *Blob) End() int { return b.TextPos + len(b.Text) + len("x''") }

// CurrentTime is one of the CURRENT_DATE, CURRENT_TIME, and
// CURRENT_TIMESTAMP keywords.
type CurrentTime struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	NamePos int    `json:"name_pos"`
}

func (c *CurrentTime) Pos() int { return c.NamePos }
func (c *CurrentTime) End() int { return c.NamePos + len(c.Name) }

// BindParam is a bind parameter such as ?, :name, @name, or $name.
// Anonymous ? parameters are assigned ordinal names ?1, ?2, ... by the
// parser.
type BindParam struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Raw     string `json:"raw"`
	NamePos int    `json:"name_pos"`
}

func (b *BindParam) Pos() int { return b.NamePos }
func (b *BindParam) End() int { return b.NamePos + len(b.Raw) }

// ColumnRef is a possibly table-qualified column reference.
type ColumnRef struct {
	Kind    string `json:"kind"`
	Table   string `json:"table,omitempty"`
	Name    string `json:"name"`
	NamePos int    `json:"name_pos"`
	NameEnd int    `json:"name_end"`
}

func (c *ColumnRef) Pos() int { return c.NamePos }
func (c *ColumnRef) End() int { return c.NameEnd }

type UnaryExpr struct {
	Kind    string `json:"kind"`
	Op      string `json:"op"` // "-", "+", "~", "not"
	OpPos   int    `json:"op_pos"`
	Operand Expr   `json:"operand"`
}

func (u *UnaryExpr) Pos() int { return u.OpPos }
func (u *UnaryExpr) End() int { return u.Operand.End() }

// A BinaryExpr is any expression of the form "lhs op rhs" including
// arithmetic (+, -, *, /, %), bitwise (<<, >>, &, |), concatenation (||),
// comparisons (=, <>, <, <=, >, >=, is, is not), and logical operators
// (and, or).
type BinaryExpr struct {
	Kind string `json:"kind"`
	Op   string `json:"op"`
	LHS  Expr   `json:"lhs"`
	RHS  Expr   `json:"rhs"`
}

func (b *BinaryExpr) Pos() int { return b.LHS.Pos() }
func (b *BinaryExpr) End() int { return b.RHS.End() }

// IsNull is the postfix ISNULL / NOTNULL / IS [NOT] NULL test.
type IsNull struct {
	Kind    string `json:"kind"`
	Not     bool   `json:"not"`
	Operand Expr   `json:"operand"`
	EndPos  int    `json:"end_pos"`
}

func (i *IsNull) Pos() int { return i.Operand.Pos() }
func (i *IsNull) End() int { return i.EndPos }

// Similarity is a LIKE, GLOB, MATCH, or REGEXP pattern test.
type Similarity struct {
	Kind    string `json:"kind"`
	Op      string `json:"op"` // "like", "glob", "match", "regexp"
	Not     bool   `json:"not"`
	Input   Expr   `json:"input"`
	Pattern Expr   `json:"pattern"`
	Escape  Expr   `json:"escape,omitempty"`
}

func (s *Similarity) Pos() int { return s.Input.Pos() }

func (s *Similarity) End() int {
	if s.Escape != nil {
		return s.Escape.End()
	}
	return s.Pattern.End()
}

type Between struct {
	Kind  string `json:"kind"`
	Not   bool   `json:"not"`
	Input Expr   `json:"input"`
	Lo    Expr   `json:"lo"`
	Hi    Expr   `json:"hi"`
}

func (b *Between) Pos() int { return b.Input.Pos() }
func (b *Between) End() int { return b.Hi.End() }

// InSet is the right-hand side of an IN expression: a parenthesized
// expression list, a subquery, or a table reference.
type InSet interface {
	Node
	InSetAST()
}

type InList struct {
	Kind   string `json:"kind"`
	Exprs  []Expr `json:"exprs"`
	Lparen int    `json:"lparen"`
	Rparen int    `json:"rparen"`
}

func (l *InList) Pos() int { return l.Lparen }
func (l *InList) End() int { return l.Rparen + 1 }

type InQuery struct {
	Kind   string  `json:"kind"`
	Query  *Select `json:"query"`
	Lparen int     `json:"lparen"`
	Rparen int     `json:"rparen"`
}

func (q *InQuery) Pos() int { return q.Lparen }
func (q *InQuery) End() int { return q.Rparen + 1 }

type InTable struct {
	Kind  string     `json:"kind"`
	Table *TableName `json:"table"`
}

func (t *InTable) Pos() int { return t.Table.Pos() }
func (t *InTable) End() int { return t.Table.End() }

func (*InList) InSetAST()  {}
func (*InQuery) InSetAST() {}
func (*InTable) InSetAST() {}

type In struct {
	Kind  string `json:"kind"`
	Not   bool   `json:"not"`
	Input Expr   `json:"input"`
	Set   InSet  `json:"set"`
}

func (i *In) Pos() int { return i.Input.Pos() }
func (i *In) End() int { return i.Set.End() }

type Exists struct {
	Kind       string  `json:"kind"`
	KeywordPos int     `json:"keyword_pos"`
	Query      *Select `json:"query"`
	Rparen     int     `json:"rparen"`
}

func (e *Exists) Pos() int { return e.KeywordPos }
func (e *Exists) End() int { return e.Rparen + 1 }

type When struct {
	Kind string `json:"kind"`
	Cond Expr   `json:"cond"`
	Then Expr   `json:"then"`
}

type Case struct {
	Kind    string `json:"kind"`
	CasePos int    `json:"case_pos"`
	Input   Expr   `json:"input,omitempty"`
	Whens   []When `json:"whens"`
	Else    Expr   `json:"else,omitempty"`
	EndPos  int    `json:"end_pos"`
}

func (c *Case) Pos() int { return c.CasePos }
func (c *Case) End() int { return c.EndPos }

type Cast struct {
	Kind    string `json:"kind"`
	CastPos int    `json:"cast_pos"`
	Expr    Expr   `json:"expr"`
	Type    string `json:"type"`
	TypePos int    `json:"type_pos"`
	Rparen  int    `json:"rparen"`
}

func (c *Cast) Pos() int { return c.CastPos }
func (c *Cast) End() int { return c.Rparen + 1 }

type Collate struct {
	Kind      string `json:"kind"`
	Expr      Expr   `json:"expr"`
	Collation string `json:"collation"`
	EndPos    int    `json:"end_pos"`
}

func (c *Collate) Pos() int { return c.Expr.Pos() }
func (c *Collate) End() int { return c.EndPos }

// Call is a function invocation.  Wildcard marks f(*).
type Call struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	NamePos  int    `json:"name_pos"`
	Distinct bool   `json:"distinct"`
	Wildcard bool   `json:"wildcard"`
	Args     []Expr `json:"args"`
	Rparen   int    `json:"rparen"`
}

func (c *Call) Pos() int { return c.NamePos }
func (c *Call) End() int { return c.Rparen + 1 }

// Subquery is a parenthesized scalar subquery in expression position.
type Subquery struct {
	Kind   string  `json:"kind"`
	Query  *Select `json:"query"`
	Lparen int     `json:"lparen"`
	Rparen int     `json:"rparen"`
}

func (s *Subquery) Pos() int { return s.Lparen }
func (s *Subquery) End() int { return s.Rparen + 1 }

// Raise is a RAISE(...) expression, legal only inside triggers; its type
// is Any.
type Raise struct {
	Kind     string `json:"kind"`
	RaisePos int    `json:"raise_pos"`
	Action   string `json:"action"` // "ignore", "rollback", "abort", "fail"
	Message  Expr   `json:"message,omitempty"`
	Rparen   int    `json:"rparen"`
}

func (r *Raise) Pos() int { return r.RaisePos }
func (r *Raise) End() int { return r.Rparen + 1 }

func (*Null) ExprAST()        {}
func (*Number) ExprAST()      {}
func (*String) ExprAST()      {}
func (*Blob) ExprAST()        {}
func (*CurrentTime) ExprAST() {}
func (*BindParam) ExprAST()   {}
func (*ColumnRef) ExprAST()   {}
func (*UnaryExpr) ExprAST()   {}
func (*BinaryExpr) ExprAST()  {}
func (*IsNull) ExprAST()      {}
func (*Similarity) ExprAST()  {}
func (*Between) ExprAST()     {}
func (*In) ExprAST()          {}
func (*Exists) ExprAST()      {}
func (*Case) ExprAST()        {}
func (*Cast) ExprAST()        {}
func (*Collate) ExprAST()     {}
func (*Call) ExprAST()        {}
func (*Subquery) ExprAST()    {}
func (*Raise) ExprAST()       {}
