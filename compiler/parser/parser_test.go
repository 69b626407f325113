package parser

import (
	"testing"

	"github.com/squintdb/squint/compiler/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) *ast.Select {
	t.Helper()
	sel, _, err := Parse(src)
	require.NoError(t, err, "parse: %s", src)
	return sel
}

func TestParseSimpleSelect(t *testing.T) {
	sel := parseOne(t, "SELECT id, name FROM users")
	core, ok := sel.Body.(*ast.SelectCore)
	require.True(t, ok)
	require.Len(t, core.Columns, 2)
	first, ok := core.Columns[0].(*ast.ExprColumn)
	require.True(t, ok)
	ref, ok := first.Expr.(*ast.ColumnRef)
	require.True(t, ok)
	assert.Equal(t, "id", ref.Name)
	from, ok := core.From.(*ast.TableRef)
	require.True(t, ok)
	assert.Equal(t, "users", from.Table.Name)
}

func TestParseAliases(t *testing.T) {
	sel := parseOne(t, "SELECT u.name AS n, count(*) total FROM users u")
	core := sel.Body.(*ast.SelectCore)
	require.Len(t, core.Columns, 2)
	assert.Equal(t, "n", core.Columns[0].(*ast.ExprColumn).Alias)
	assert.Equal(t, "total", core.Columns[1].(*ast.ExprColumn).Alias)
	call := core.Columns[1].(*ast.ExprColumn).Expr.(*ast.Call)
	assert.True(t, call.Wildcard)
	assert.Equal(t, "u", core.From.(*ast.TableRef).Alias)
}

func TestParsePrecedence(t *testing.T) {
	sel := parseOne(t, "SELECT 1 AS x FROM t WHERE a + 1 > 2 AND NOT b = 3")
	core := sel.Body.(*ast.SelectCore)
	and, ok := core.Where.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "and", and.Op)
	gt := and.LHS.(*ast.BinaryExpr)
	assert.Equal(t, ">", gt.Op)
	plus := gt.LHS.(*ast.BinaryExpr)
	assert.Equal(t, "+", plus.Op)
	not := and.RHS.(*ast.UnaryExpr)
	assert.Equal(t, "not", not.Op)
	eq := not.Operand.(*ast.BinaryExpr)
	assert.Equal(t, "=", eq.Op)
}

func TestParseJoins(t *testing.T) {
	sel := parseOne(t,
		"SELECT 1 AS x FROM a NATURAL JOIN b LEFT OUTER JOIN c ON c.id = a.id, d")
	core := sel.Body.(*ast.SelectCore)
	comma := core.From.(*ast.Join)
	assert.Equal(t, ",", comma.Op)
	left := comma.Left.(*ast.Join)
	assert.Equal(t, "left", left.Op)
	require.NotNil(t, left.Constraint)
	_, ok := left.Constraint.(*ast.OnConstraint)
	assert.True(t, ok)
	natural := left.Left.(*ast.Join)
	assert.True(t, natural.Natural)
	assert.Equal(t, "inner", natural.Op)
}

func TestParseUsing(t *testing.T) {
	sel := parseOne(t, "SELECT 1 AS x FROM a JOIN b USING (id, name)")
	join := sel.Body.(*ast.SelectCore).From.(*ast.Join)
	using := join.Constraint.(*ast.UsingConstraint)
	assert.Equal(t, []string{"id", "name"}, using.Names)
}

func TestParseCompound(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t UNION ALL SELECT b FROM u INTERSECT VALUES (1)")
	// Set operators associate left.
	outer := sel.Body.(*ast.CompoundSelect)
	assert.Equal(t, "intersect", outer.Op)
	inner := outer.Left.(*ast.CompoundSelect)
	assert.Equal(t, "union all", inner.Op)
	_, ok := outer.Right.(*ast.Values)
	assert.True(t, ok)
}

func TestParseWith(t *testing.T) {
	sel := parseOne(t, "WITH t(a, b) AS (SELECT 1 AS x, 2 AS y), s AS (SELECT a FROM t) SELECT a FROM s")
	require.Len(t, sel.With, 2)
	assert.Equal(t, "t", sel.With[0].Name)
	assert.Equal(t, []string{"a", "b"}, sel.With[0].Columns)
	assert.Empty(t, sel.With[1].Columns)
}

func TestParseOrderLimit(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t ORDER BY a DESC, b LIMIT 10 OFFSET 2")
	require.Len(t, sel.OrderBy, 2)
	assert.True(t, sel.OrderBy[0].Desc)
	assert.False(t, sel.OrderBy[1].Desc)
	require.NotNil(t, sel.Limit)
	require.NotNil(t, sel.Offset)

	// LIMIT o, l is the offset-first spelling.
	sel = parseOne(t, "SELECT a FROM t LIMIT 2, 10")
	assert.Equal(t, "10", sel.Limit.(*ast.Number).Text)
	assert.Equal(t, "2", sel.Offset.(*ast.Number).Text)
}

func TestParseLiterals(t *testing.T) {
	sel := parseOne(t, `SELECT 1 AS a, 2.5 AS b, 'it''s' AS c, x'0af3' AS d, NULL AS e, CURRENT_TIMESTAMP AS f FROM t`)
	core := sel.Body.(*ast.SelectCore)
	require.Len(t, core.Columns, 6)
	num := core.Columns[0].(*ast.ExprColumn).Expr.(*ast.Number)
	assert.False(t, num.Float)
	flt := core.Columns[1].(*ast.ExprColumn).Expr.(*ast.Number)
	assert.True(t, flt.Float)
	str := core.Columns[2].(*ast.ExprColumn).Expr.(*ast.String)
	assert.Equal(t, "it's", str.Text)
	blob := core.Columns[3].(*ast.ExprColumn).Expr.(*ast.Blob)
	assert.Equal(t, "0af3", blob.Text)
	_, ok := core.Columns[4].(*ast.ExprColumn).Expr.(*ast.Null)
	assert.True(t, ok)
	cur := core.Columns[5].(*ast.ExprColumn).Expr.(*ast.CurrentTime)
	assert.Equal(t, "current_timestamp", cur.Name)
}

func TestParseBindParams(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t WHERE a = :x AND b = ? AND c = ? AND d = @y")
	core := sel.Body.(*ast.SelectCore)
	var names []string
	collectBinds(core.Where, &names)
	assert.Equal(t, []string{":x", "?1", "?2", "@y"}, names)
}

func collectBinds(e ast.Expr, names *[]string) {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		collectBinds(e.LHS, names)
		collectBinds(e.RHS, names)
	case *ast.BindParam:
		*names = append(*names, e.Name)
	}
}

func TestParseQuotedIdentifiers(t *testing.T) {
	sel := parseOne(t, "SELECT \"select\", [group], `order` FROM \"my table\"")
	core := sel.Body.(*ast.SelectCore)
	require.Len(t, core.Columns, 3)
	assert.Equal(t, "select", core.Columns[0].(*ast.ExprColumn).Expr.(*ast.ColumnRef).Name)
	assert.Equal(t, "group", core.Columns[1].(*ast.ExprColumn).Expr.(*ast.ColumnRef).Name)
	assert.Equal(t, "order", core.Columns[2].(*ast.ExprColumn).Expr.(*ast.ColumnRef).Name)
	assert.Equal(t, "my table", core.From.(*ast.TableRef).Table.Name)
}

func TestParseCaseCastIn(t *testing.T) {
	sel := parseOne(t, `
		SELECT CASE WHEN a > 0 THEN 'pos' ELSE 'neg' END AS sign,
		       CAST(a AS TEXT) AS s
		FROM t
		WHERE a IN (1, 2) AND b NOT IN (SELECT c FROM u) AND d IN v`)
	core := sel.Body.(*ast.SelectCore)
	c := core.Columns[0].(*ast.ExprColumn).Expr.(*ast.Case)
	require.Len(t, c.Whens, 1)
	require.NotNil(t, c.Else)
	cast := core.Columns[1].(*ast.ExprColumn).Expr.(*ast.Cast)
	assert.Equal(t, "TEXT", cast.Type)

	var ins []*ast.In
	collectIns(core.Where, &ins)
	require.Len(t, ins, 3)
	_, ok := ins[0].Set.(*ast.InList)
	assert.True(t, ok)
	assert.False(t, ins[0].Not)
	_, ok = ins[1].Set.(*ast.InQuery)
	assert.True(t, ok)
	assert.True(t, ins[1].Not)
	_, ok = ins[2].Set.(*ast.InTable)
	assert.True(t, ok)
}

func collectIns(e ast.Expr, ins *[]*ast.In) {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		collectIns(e.LHS, ins)
		collectIns(e.RHS, ins)
	case *ast.In:
		*ins = append(*ins, e)
	}
}

func TestParseComments(t *testing.T) {
	parseOne(t, `
		-- line comment
		SELECT a /* block
		comment */ FROM t`)
}

func TestParseAll(t *testing.T) {
	stmts, _, err := ParseAll("SELECT a FROM t; SELECT b FROM u;")
	require.NoError(t, err)
	assert.Len(t, stmts, 2)
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"SELECT",
		"SELECT FROM t",
		"SELECT a FROM",
		"SELECT a FROM t WHERE",
		"SELECT a FROM t GROUP",
		"FOO BAR",
		"SELECT a FROM t JOIN",
		"SELECT 'unterminated FROM t",
		"SELECT a FROM t extra junk",
		"SELECT x'0g' FROM t",
		"SELECT CASE END FROM t",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, _, err := Parse(src)
			require.Error(t, err)
			perr, ok := err.(PositionalError)
			require.True(t, ok, "error is not positional: %v", err)
			assert.GreaterOrEqual(t, perr.Pos(), 0)
		})
	}
}

func TestSourcePositions(t *testing.T) {
	src := "SELECT a\nFROM t\nWHERE b = 1"
	source := NewSource(src)
	pos := source.Position(len("SELECT a\nFROM t\nWHERE "))
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 7, pos.Column)
	assert.Equal(t, "WHERE b = 1", source.LineOfPos(pos.Pos))
}

func TestLocalizeError(t *testing.T) {
	source := NewSource("SELECT a FROM\nwhere")
	err := source.LocalizeError(&SyntaxError{Msg: "expected table name", PosVal: 14, EndVal: 19})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "expected table name")
}
