package semantic

import (
	"strconv"
	"strings"

	"github.com/squintdb/squint/schema"
)

// Type is an inferred expression type.  A Type is one of Concrete,
// Variable, Dependent, or OneOf.
type Type interface {
	typeNode()
	String() string
}

// Concrete is a fully known column type.
type Concrete struct {
	Base     schema.BaseType
	Nullable bool
}

func (c *Concrete) String() string {
	return schema.ColumnType{Base: c.Base, Nullable: c.Nullable}.String()
}

// ColumnType converts c to the schema representation.
func (c *Concrete) ColumnType() schema.ColumnType {
	return schema.ColumnType{Base: c.Base, Nullable: c.Nullable}
}

func concrete(t schema.ColumnType) *Concrete {
	return &Concrete{Base: t.Base, Nullable: t.Nullable}
}

// Variable is a unification variable owned by a Context.  It starts
// unbound and may later be bound to another type.
type Variable struct {
	id int
}

func (v *Variable) String() string {
	return "<T" + strconv.Itoa(v.id) + ">"
}

// Dependent is a type whose nullability is inherited from Parent but whose
// base is fixed, e.g. the Boolean produced by a = b inheriting the
// nullability of its operands.
type Dependent struct {
	Parent Type
	Base   schema.BaseType
}

func (d *Dependent) String() string { return d.Base.String() }

// OneOf constrains a type to unify with one of the listed concrete types.
// It expresses family constraints such as "a number, either nullability".
type OneOf struct {
	Types []schema.ColumnType
}

func (o *OneOf) String() string {
	names := make([]string, len(o.Types))
	for i, t := range o.Types {
		names[i] = t.String()
	}
	return "one of " + strings.Join(names, ", ")
}

func (*Concrete) typeNode()  {}
func (*Variable) typeNode()  {}
func (*Dependent) typeNode() {}
func (*OneOf) typeNode()     {}

// oneOf builds the shorthand constraint for a base type: the non-nullable
// concrete listed first so concretion defaults to it.
func oneOf(base schema.BaseType) *OneOf {
	return &OneOf{Types: []schema.ColumnType{
		{Base: base, Nullable: false},
		{Base: base, Nullable: true},
	}}
}

// Predefined shorthand constraints.  These are immutable; unification
// never modifies a OneOf in place.
var (
	AnyType     = oneOf(schema.Any)
	TextType    = oneOf(schema.Text)
	NumberType  = oneOf(schema.Number)
	IntegerType = oneOf(schema.Integer)
	BooleanType = oneOf(schema.Boolean)
)

// meet computes the greatest lower bound of two bases in the lattice:
// Any absorbs anything, Number refines to Integer or Float, and equal
// leaves meet at themselves.
func meet(a, b schema.BaseType) (schema.BaseType, bool) {
	if a == b {
		return a, true
	}
	if a == schema.Any {
		return b, true
	}
	if b == schema.Any {
		return a, true
	}
	if a == schema.Number && (b == schema.Integer || b == schema.Float) {
		return b, true
	}
	if b == schema.Number && (a == schema.Integer || a == schema.Float) {
		return a, true
	}
	return 0, false
}
