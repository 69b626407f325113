// Package schema models the catalog a statement is checked against: the
// tables and columns visible to a query along with the signatures of the
// built-in functions.  A Model is read-only and may be shared freely across
// concurrent statement checks.
package schema

import (
	"strings"
)

// BaseType is the base of a column type.  Any is the top of the lattice,
// Number sits above Integer and Float, and the remaining types are
// incomparable leaves.
type BaseType int

const (
	Any BaseType = iota
	Integer
	Float
	Number
	Text
	Blob
	Boolean
	DateTime
	DateTimeOffset
)

func (t BaseType) String() string {
	switch t {
	case Any:
		return "ANY"
	case Integer:
		return "INT"
	case Float:
		return "FLOAT"
	case Number:
		return "NUM"
	case Text:
		return "STRING"
	case Blob:
		return "BLOB"
	case Boolean:
		return "BOOL"
	case DateTime:
		return "DATETIME"
	case DateTimeOffset:
		return "DATETIMEOFFSET"
	}
	return "unknown"
}

// BaseTypeOf maps a type name as written in DDL or a catalog document to a
// BaseType.  Matching is case-insensitive and recognizes the common SQLite
// spellings.
func BaseTypeOf(name string) (BaseType, bool) {
	switch strings.ToUpper(name) {
	case "ANY":
		return Any, true
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT":
		return Integer, true
	case "FLOAT", "REAL", "DOUBLE":
		return Float, true
	case "NUM", "NUMERIC":
		return Number, true
	case "STRING", "TEXT", "VARCHAR", "CHAR", "NVARCHAR", "CLOB":
		return Text, true
	case "BLOB":
		return Blob, true
	case "BOOL", "BOOLEAN":
		return Boolean, true
	case "DATETIME", "TIMESTAMP":
		return DateTime, true
	case "DATETIMEOFFSET":
		return DateTimeOffset, true
	}
	return Any, false
}

// ColumnType is a fully known column type: a base paired with nullability.
type ColumnType struct {
	Base     BaseType
	Nullable bool
}

func (t ColumnType) String() string {
	if t.Nullable {
		return t.Base.String() + " NULL"
	}
	return t.Base.String()
}

// Column describes one column of a catalog table.
type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
}

// Table describes a catalog table.  Column order is the declaration order
// and is significant to wildcard expansion.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// Column returns the named column, matched case-insensitively.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if Fold(c.Name) == Fold(name) {
			return c, true
		}
	}
	return Column{}, false
}

// ArgType is one position of a function signature: either a concrete column
// type or a named type variable shared across positions of the signature.
type ArgType struct {
	Type ColumnType
	Var  string // non-empty for a type variable
}

// ConcreteArg returns an ArgType for a known column type.
func ConcreteArg(base BaseType, nullable bool) ArgType {
	return ArgType{Type: ColumnType{Base: base, Nullable: nullable}}
}

// VarArg returns an ArgType for the signature-scoped type variable name.
func VarArg(name string) ArgType {
	return ArgType{Var: name}
}

// FuncSig is the signature of a built-in function.  Fixed holds the required
// argument types in order; Variadic, when non-nil, accommodates any number
// of additional arguments.
type FuncSig struct {
	Name     string
	Fixed    []ArgType
	Variadic *ArgType
	Out      ArgType
	Wildcard bool // allows f(*), e.g. count(*)
	Distinct bool // allows f(DISTINCT x)
	Agg      bool
}

// Model is the read-only catalog interface consumed by the checker.
type Model interface {
	// FindTable looks up a table by optional schema name and table name.
	// Both are matched case-insensitively.  It returns nil if no such
	// table exists.
	FindTable(schema, name string) *Table
	// Function looks up a built-in function signature by name,
	// case-insensitively, returning nil if unknown.
	Function(name string) *FuncSig
}

// Fold normalizes an identifier for comparison.  SQLite folds only ASCII
// letters when matching identifiers.
func Fold(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// MemModel is an immutable in-memory Model.
type MemModel struct {
	tables map[string]*Table
	order  []*Table
	funcs  map[string]*FuncSig
}

// NewMemModel builds a MemModel over tables and the built-in function
// catalog.  The default schema name for unqualified tables is "main".
func NewMemModel(tables []*Table) *MemModel {
	m := &MemModel{
		tables: make(map[string]*Table),
		funcs:  Builtins(),
	}
	for _, t := range tables {
		m.order = append(m.order, t)
		m.tables[tableKey(t.Schema, t.Name)] = t
	}
	return m
}

func tableKey(schema, name string) string {
	if schema == "" {
		schema = "main"
	}
	return Fold(schema) + "." + Fold(name)
}

func (m *MemModel) FindTable(schema, name string) *Table {
	return m.tables[tableKey(schema, name)]
}

func (m *MemModel) Function(name string) *FuncSig {
	return m.funcs[Fold(name)]
}

// Tables returns the catalog tables in declaration order.
func (m *MemModel) Tables() []*Table {
	return m.order
}
