package ast

// TableExpr is the interface implemented by FROM-clause nodes.
type TableExpr interface {
	Node
	TableAST()
}

// TableName is a possibly schema-qualified table name.
type TableName struct {
	Kind    string `json:"kind"`
	Schema  string `json:"schema,omitempty"`
	Name    string `json:"name"`
	NamePos int    `json:"name_pos"`
	NameEnd int    `json:"name_end"`
}

func (t *TableName) Pos() int { return t.NamePos }
func (t *TableName) End() int { return t.NameEnd }

// TableRef is a table invocation in a FROM clause.  HasArgs is set when
// the source was written as a table-valued function call, schema.tbl(...);
// Args holds that call's arguments and is nil for an empty list.
type TableRef struct {
	Kind     string     `json:"kind"`
	Table    *TableName `json:"table"`
	Args     []Expr     `json:"args,omitempty"`
	HasArgs  bool       `json:"has_args"`
	Alias    string     `json:"alias,omitempty"`
	AliasEnd int        `json:"alias_end,omitempty"`
}

func (t *TableRef) Pos() int { return t.Table.Pos() }

func (t *TableRef) End() int {
	if t.Alias != "" {
		return t.AliasEnd
	}
	return t.Table.End()
}

// SubqueryTable is a parenthesized subquery in a FROM clause.
type SubqueryTable struct {
	Kind     string  `json:"kind"`
	Query    *Select `json:"query"`
	Lparen   int     `json:"lparen"`
	Rparen   int     `json:"rparen"`
	Alias    string  `json:"alias,omitempty"`
	AliasEnd int     `json:"alias_end,omitempty"`
}

func (s *SubqueryTable) Pos() int { return s.Lparen }

func (s *SubqueryTable) End() int {
	if s.Alias != "" {
		return s.AliasEnd
	}
	return s.Rparen + 1
}

// JoinConstraint is nil (unconstrained), an ON expression, or a USING
// column list.
type JoinConstraint interface {
	Node
	JoinConstraintAST()
}

type OnConstraint struct {
	Kind  string `json:"kind"`
	OnPos int    `json:"on_pos"`
	Expr  Expr   `json:"expr"`
}

func (o *OnConstraint) Pos() int { return o.OnPos }
func (o *OnConstraint) End() int { return o.Expr.End() }

type UsingConstraint struct {
	Kind     string   `json:"kind"`
	UsingPos int      `json:"using_pos"`
	Names    []string `json:"names"`
	Rparen   int      `json:"rparen"`
}

func (u *UsingConstraint) Pos() int { return u.UsingPos }
func (u *UsingConstraint) End() int { return u.Rparen + 1 }

func (*OnConstraint) JoinConstraintAST()    {}
func (*UsingConstraint) JoinConstraintAST() {}

// Join combines two table expressions.  Op is "inner", "left", "cross", or
// "," for the comma join.
type Join struct {
	Kind       string         `json:"kind"`
	Op         string         `json:"op"`
	Natural    bool           `json:"natural"`
	Left       TableExpr      `json:"left"`
	Right      TableExpr      `json:"right"`
	Constraint JoinConstraint `json:"constraint,omitempty"`
}

func (j *Join) Pos() int { return j.Left.Pos() }

func (j *Join) End() int {
	if j.Constraint != nil {
		return j.Constraint.End()
	}
	return j.Right.End()
}

func (*TableRef) TableAST()      {}
func (*SubqueryTable) TableAST() {}
func (*Join) TableAST()          {}

// ResultColumn is one entry of a SELECT list: *, table.*, or an expression
// with an optional alias.
type ResultColumn interface {
	Node
	ResultColumnAST()
}

type Star struct {
	Kind    string `json:"kind"`
	StarPos int    `json:"star_pos"`
}

func (s *Star) Pos() int { return s.StarPos }
func (s *Star) End() int { return s.StarPos + 1 }

type TableStar struct {
	Kind     string `json:"kind"`
	Table    string `json:"table"`
	TablePos int    `json:"table_pos"`
	StarPos  int    `json:"star_pos"`
}

func (t *TableStar) Pos() int { return t.TablePos }
func (t *TableStar) End() int { return t.StarPos + 1 }

type ExprColumn struct {
	Kind     string `json:"kind"`
	Expr     Expr   `json:"expr"`
	Alias    string `json:"alias,omitempty"`
	AliasEnd int    `json:"alias_end,omitempty"`
}

func (e *ExprColumn) Pos() int { return e.Expr.Pos() }

func (e *ExprColumn) End() int {
	if e.Alias != "" {
		return e.AliasEnd
	}
	return e.Expr.End()
}

func (*Star) ResultColumnAST()       {}
func (*TableStar) ResultColumnAST()  {}
func (*ExprColumn) ResultColumnAST() {}

// CompoundExpr is a term or tree of set operations over SELECT cores and
// VALUES blocks.
type CompoundExpr interface {
	Node
	CompoundAST()
}

// SelectCore is a single SELECT ... FROM ... WHERE ... GROUP BY ... HAVING
// term.
type SelectCore struct {
	Kind      string         `json:"kind"`
	SelectPos int            `json:"select_pos"`
	Distinct  bool           `json:"distinct"`
	Columns   []ResultColumn `json:"columns"`
	From      TableExpr      `json:"from,omitempty"`
	Where     Expr           `json:"where,omitempty"`
	GroupBy   []Expr         `json:"group_by,omitempty"`
	Having    Expr           `json:"having,omitempty"`
	EndPos    int            `json:"end_pos"`
}

func (s *SelectCore) Pos() int { return s.SelectPos }
func (s *SelectCore) End() int { return s.EndPos }

// Values is a VALUES (..), (..) block.
type Values struct {
	Kind      string   `json:"kind"`
	ValuesPos int      `json:"values_pos"`
	Rows      [][]Expr `json:"rows"`
	EndPos    int      `json:"end_pos"`
}

func (v *Values) Pos() int { return v.ValuesPos }
func (v *Values) End() int { return v.EndPos }

// CompoundSelect applies a set operation to two compound expressions.
// Op is "union", "union all", "intersect", or "except".
type CompoundSelect struct {
	Kind  string       `json:"kind"`
	Op    string       `json:"op"`
	Left  CompoundExpr `json:"left"`
	Right CompoundExpr `json:"right"`
}

func (c *CompoundSelect) Pos() int { return c.Left.Pos() }
func (c *CompoundSelect) End() int { return c.Right.End() }

func (*SelectCore) CompoundAST()     {}
func (*Values) CompoundAST()         {}
func (*CompoundSelect) CompoundAST() {}

// CTE is one WITH-clause table.
type CTE struct {
	Kind    string   `json:"kind"`
	Name    string   `json:"name"`
	NamePos int      `json:"name_pos"`
	Columns []string `json:"columns,omitempty"`
	Query   *Select  `json:"query"`
	Rparen  int      `json:"rparen"`
}

func (c *CTE) Pos() int { return c.NamePos }
func (c *CTE) End() int { return c.Rparen + 1 }

type OrderTerm struct {
	Kind string `json:"kind"`
	Expr Expr   `json:"expr"`
	Desc bool   `json:"desc"`
}

// Select is a full SELECT statement: optional WITH clause, a compound
// expression, and the trailing ORDER BY / LIMIT / OFFSET clauses.
type Select struct {
	Kind    string       `json:"kind"`
	WithPos int          `json:"with_pos,omitempty"`
	With    []*CTE       `json:"with,omitempty"`
	Body    CompoundExpr `json:"body"`
	OrderBy []OrderTerm  `json:"order_by,omitempty"`
	Limit   Expr         `json:"limit,omitempty"`
	Offset  Expr         `json:"offset,omitempty"`
}

func (s *Select) Pos() int {
	if len(s.With) > 0 {
		return s.WithPos
	}
	return s.Body.Pos()
}

func (s *Select) End() int {
	if s.Offset != nil {
		return s.Offset.End()
	}
	if s.Limit != nil {
		return s.Limit.End()
	}
	if n := len(s.OrderBy); n > 0 {
		return s.OrderBy[n-1].Expr.End()
	}
	return s.Body.End()
}
