package semantic

import (
	"github.com/squintdb/squint/schema"
)

// Context owns the inference variables allocated while checking one
// top-level statement.  It is not safe for concurrent use; each statement
// check owns its Context exclusively.
type Context struct {
	bindings []Type // indexed by Variable.id; nil means unbound
	params   map[string]*Variable
}

func NewContext() *Context {
	return &Context{params: make(map[string]*Variable)}
}

// Fresh allocates a new unbound inference variable.
func (c *Context) Fresh() Type {
	v := &Variable{id: len(c.bindings)}
	c.bindings = append(c.bindings, nil)
	return v
}

// Param returns the variable for a bind parameter name.  The same name
// always yields the same variable within a statement.
func (c *Context) Param(name string) Type {
	key := schema.Fold(name)
	if v, ok := c.params[key]; ok {
		return v
	}
	v := c.Fresh().(*Variable)
	c.params[key] = v
	return v
}

// resolve chases variable-to-variable bindings, returning either an
// unbound variable, a variable bound to a non-variable type, or a
// non-variable type.
func (c *Context) resolve(t Type) Type {
	for {
		v, ok := t.(*Variable)
		if !ok {
			return t
		}
		b := c.bindings[v.id]
		if b == nil {
			return v
		}
		if bv, ok := b.(*Variable); ok {
			t = bv
			continue
		}
		return v
	}
}

// Unify computes the most general type refining both a and b, binding
// variables as needed.  On conflict it returns a TypeConflict error with
// no position; the caller pins the error to the offending node.
func (c *Context) Unify(a, b Type) (Type, error) {
	a, b = c.resolve(a), c.resolve(b)
	if a == b {
		return a, nil
	}
	if v, ok := a.(*Variable); ok {
		return c.unifyVariable(v, b)
	}
	if v, ok := b.(*Variable); ok {
		return c.unifyVariable(v, a)
	}
	return c.unifyShapes(a, b)
}

func (c *Context) unifyVariable(v *Variable, t Type) (Type, error) {
	if bound := c.bindings[v.id]; bound != nil {
		r, err := c.Unify(bound, t)
		if err != nil {
			return nil, err
		}
		if r != v {
			c.bindings[v.id] = r
		}
		return v, nil
	}
	// A base constraint whose parent is v itself would knot the binding
	// forest; record it as the equivalent family constraint instead.
	if d, ok := t.(*Dependent); ok && c.resolve(d.Parent) == v {
		c.bindings[v.id] = oneOf(d.Base)
		return v, nil
	}
	c.bindings[v.id] = t
	return v, nil
}

func (c *Context) unifyShapes(a, b Type) (Type, error) {
	if d, ok := a.(*Dependent); ok {
		return c.unifyDependent(d, b)
	}
	if d, ok := b.(*Dependent); ok {
		return c.unifyDependent(d, a)
	}
	if o, ok := a.(*OneOf); ok {
		return c.unifyOneOf(o, b)
	}
	if o, ok := b.(*OneOf); ok {
		return c.unifyOneOf(o, a)
	}
	x, y := a.(*Concrete), b.(*Concrete)
	base, ok := meet(x.Base, y.Base)
	if !ok {
		return nil, errorf(TypeConflict, "type %s conflicts with %s", x, y)
	}
	return &Concrete{Base: base, Nullable: x.Nullable || y.Nullable}, nil
}

// unifyDependent constrains the base of a Dependent against t and folds
// t's nullability, where known, into the parent.  Parents are not unified
// with each other: two comparisons may share a Boolean base while
// inheriting nullability from unrelated operands.
func (c *Context) unifyDependent(d *Dependent, t Type) (Type, error) {
	base, ok := meet(d.Base, baseOf(t))
	if !ok {
		return nil, errorf(TypeConflict, "type %s conflicts with %s", d, t)
	}
	parent := d.Parent
	if c.isNullable(t) {
		p, err := c.Unify(d.Parent, &Concrete{Base: schema.Any, Nullable: true})
		if err != nil {
			return nil, err
		}
		parent = p
	}
	return &Dependent{Parent: parent, Base: base}, nil
}

// baseOf returns the base a type is currently committed to, with Any for
// an unconstrained OneOf spanning several bases.
func baseOf(t Type) schema.BaseType {
	switch t := t.(type) {
	case *Concrete:
		return t.Base
	case *Dependent:
		return t.Base
	case *OneOf:
		base := t.Types[0].Base
		for _, m := range t.Types[1:] {
			if m.Base != base {
				return schema.Any
			}
		}
		return base
	}
	return schema.Any
}

// isNullable reports whether t is already known to be nullable.
func (c *Context) isNullable(t Type) bool {
	t = c.resolve(t)
	if v, ok := t.(*Variable); ok {
		if b := c.bindings[v.id]; b != nil {
			t = b
		}
	}
	switch t := t.(type) {
	case *Concrete:
		return t.Nullable
	case *Dependent:
		return c.isNullable(t.Parent)
	case *OneOf:
		for _, m := range t.Types {
			if !m.Nullable {
				return false
			}
		}
		return true
	}
	return false
}

// unifyOneOf filters the constraint set down to members compatible with t.
// An empty result is a conflict; a singleton collapses to that concrete.
func (c *Context) unifyOneOf(o *OneOf, t Type) (Type, error) {
	var members []schema.ColumnType
	add := func(m schema.ColumnType) {
		for _, seen := range members {
			if seen == m {
				return
			}
		}
		members = append(members, m)
	}
	switch t := t.(type) {
	case *Concrete:
		for _, m := range o.Types {
			if base, ok := meet(m.Base, t.Base); ok {
				add(schema.ColumnType{Base: base, Nullable: m.Nullable || t.Nullable})
			}
		}
	case *OneOf:
		for _, m := range o.Types {
			for _, n := range t.Types {
				if base, ok := meet(m.Base, n.Base); ok {
					add(schema.ColumnType{Base: base, Nullable: m.Nullable || n.Nullable})
				}
			}
		}
	default:
		return nil, errorf(TypeConflict, "type %s conflicts with %s", o, t)
	}
	if len(members) == 0 {
		return nil, errorf(TypeConflict, "type %s conflicts with %s", o, t)
	}
	if len(members) == 1 {
		return concrete(members[0]), nil
	}
	return &OneOf{Types: members}, nil
}

// UnifyBase imposes a base-type constraint on t without affecting its
// nullability.
func (c *Context) UnifyBase(t Type, base schema.BaseType) (Type, error) {
	r := c.resolve(t)
	if v, ok := r.(*Variable); ok {
		if bound := c.bindings[v.id]; bound != nil {
			refined, err := c.UnifyBase(bound, base)
			if err != nil {
				return nil, err
			}
			c.bindings[v.id] = refined
			return v, nil
		}
		c.bindings[v.id] = oneOf(base)
		return v, nil
	}
	switch r := r.(type) {
	case *Concrete:
		b, ok := meet(r.Base, base)
		if !ok {
			return nil, errorf(TypeConflict, "type %s conflicts with %s", r, base)
		}
		return &Concrete{Base: b, Nullable: r.Nullable}, nil
	case *Dependent:
		b, ok := meet(r.Base, base)
		if !ok {
			return nil, errorf(TypeConflict, "type %s conflicts with %s", r, base)
		}
		return &Dependent{Parent: r.Parent, Base: b}, nil
	case *OneOf:
		return c.unifyOneOf(r, oneOf(base))
	}
	return nil, errorf(TypeConflict, "type %s conflicts with %s", r, base)
}

// UnifyAll left-folds Unify over types with the Any constraint as seed.
func (c *Context) UnifyAll(types []Type) (Type, error) {
	var result Type = AnyType
	for _, t := range types {
		var err error
		if result, err = c.Unify(result, t); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ConcreteType resolves t to a concrete column type: unbound variables
// default to nullable Any and a OneOf defaults to its first listed member.
func (c *Context) ConcreteType(t Type) schema.ColumnType {
	t = c.resolve(t)
	if v, ok := t.(*Variable); ok {
		if b := c.bindings[v.id]; b != nil {
			t = b
		}
	}
	switch t := t.(type) {
	case *Variable:
		return schema.ColumnType{Base: schema.Any, Nullable: true}
	case *Concrete:
		return t.ColumnType()
	case *OneOf:
		return t.Types[0]
	case *Dependent:
		parent := c.ConcreteType(t.Parent)
		return schema.ColumnType{Base: t.Base, Nullable: parent.Nullable}
	}
	return schema.ColumnType{Base: schema.Any, Nullable: true}
}
