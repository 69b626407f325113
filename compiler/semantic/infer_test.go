package semantic

import (
	"testing"

	"github.com/squintdb/squint/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyConcrete(t *testing.T) {
	cases := []struct {
		name    string
		a, b    schema.ColumnType
		want    schema.ColumnType
		wantErr bool
	}{
		{
			name: "equal leaves",
			a:    schema.ColumnType{Base: schema.Integer},
			b:    schema.ColumnType{Base: schema.Integer},
			want: schema.ColumnType{Base: schema.Integer},
		},
		{
			name: "nullability is a disjunction",
			a:    schema.ColumnType{Base: schema.Text, Nullable: true},
			b:    schema.ColumnType{Base: schema.Text},
			want: schema.ColumnType{Base: schema.Text, Nullable: true},
		},
		{
			name: "any absorbs",
			a:    schema.ColumnType{Base: schema.Any},
			b:    schema.ColumnType{Base: schema.Blob},
			want: schema.ColumnType{Base: schema.Blob},
		},
		{
			name: "number refines to integer",
			a:    schema.ColumnType{Base: schema.Number},
			b:    schema.ColumnType{Base: schema.Integer},
			want: schema.ColumnType{Base: schema.Integer},
		},
		{
			name: "number refines to float",
			a:    schema.ColumnType{Base: schema.Number, Nullable: true},
			b:    schema.ColumnType{Base: schema.Float},
			want: schema.ColumnType{Base: schema.Float, Nullable: true},
		},
		{
			name:    "leaves conflict",
			a:       schema.ColumnType{Base: schema.Text},
			b:       schema.ColumnType{Base: schema.Integer},
			wantErr: true,
		},
		{
			name:    "datetime is not a number",
			a:       schema.ColumnType{Base: schema.DateTime},
			b:       schema.ColumnType{Base: schema.Number},
			wantErr: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := NewContext()
			got, err := ctx.Unify(concrete(c.a), concrete(c.b))
			if c.wantErr {
				require.Error(t, err)
				kind, ok := KindOf(err)
				require.True(t, ok)
				assert.Equal(t, TypeConflict, kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, ctx.ConcreteType(got))
		})
	}
}

func TestUnifyIdempotent(t *testing.T) {
	ctx := NewContext()
	a := concrete(schema.ColumnType{Base: schema.Integer, Nullable: true})
	got, err := ctx.Unify(a, a)
	require.NoError(t, err)
	assert.Equal(t, schema.ColumnType{Base: schema.Integer, Nullable: true}, ctx.ConcreteType(got))

	// unify(unify(a, b), b) == unify(a, b)
	b := concrete(schema.ColumnType{Base: schema.Number})
	ab, err := ctx.Unify(a, b)
	require.NoError(t, err)
	abb, err := ctx.Unify(ab, b)
	require.NoError(t, err)
	assert.Equal(t, ctx.ConcreteType(ab), ctx.ConcreteType(abb))
}

func TestUnifyVariables(t *testing.T) {
	ctx := NewContext()
	v := ctx.Fresh()
	_, err := ctx.Unify(v, concrete(schema.ColumnType{Base: schema.Text, Nullable: true}))
	require.NoError(t, err)
	assert.Equal(t, schema.ColumnType{Base: schema.Text, Nullable: true}, ctx.ConcreteType(v))

	// A bound variable keeps refining through later unifications.
	w := ctx.Fresh()
	_, err = ctx.Unify(w, NumberType)
	require.NoError(t, err)
	_, err = ctx.Unify(w, concrete(schema.ColumnType{Base: schema.Integer}))
	require.NoError(t, err)
	assert.Equal(t, schema.ColumnType{Base: schema.Integer}, ctx.ConcreteType(w))

	// Conflicts surface through the variable.
	_, err = ctx.Unify(w, concrete(schema.ColumnType{Base: schema.Blob}))
	require.Error(t, err)
}

func TestUnifyUnboundDefaults(t *testing.T) {
	ctx := NewContext()
	v := ctx.Fresh()
	assert.Equal(t, schema.ColumnType{Base: schema.Any, Nullable: true}, ctx.ConcreteType(v))
	assert.Equal(t, schema.ColumnType{Base: schema.Number}, ctx.ConcreteType(NumberType))
}

func TestUnifyBaseKeepsNullability(t *testing.T) {
	ctx := NewContext()
	t1 := concrete(schema.ColumnType{Base: schema.Integer, Nullable: true})
	got, err := ctx.UnifyBase(t1, schema.Number)
	require.NoError(t, err)
	assert.Equal(t, schema.ColumnType{Base: schema.Integer, Nullable: true}, ctx.ConcreteType(got))

	t2 := concrete(schema.ColumnType{Base: schema.Integer})
	got, err = ctx.UnifyBase(t2, schema.Number)
	require.NoError(t, err)
	assert.False(t, ctx.ConcreteType(got).Nullable)

	_, err = ctx.UnifyBase(t2, schema.Text)
	require.Error(t, err)
}

func TestUnifyBaseOnVariable(t *testing.T) {
	ctx := NewContext()
	v := ctx.Fresh()
	_, err := ctx.UnifyBase(v, schema.Integer)
	require.NoError(t, err)
	// The constraint pins the base but leaves nullability open.
	assert.Equal(t, schema.ColumnType{Base: schema.Integer}, ctx.ConcreteType(v))
	_, err = ctx.Unify(v, concrete(schema.ColumnType{Base: schema.Integer, Nullable: true}))
	require.NoError(t, err)
	assert.Equal(t, schema.ColumnType{Base: schema.Integer, Nullable: true}, ctx.ConcreteType(v))
}

func TestUnifyDependent(t *testing.T) {
	ctx := NewContext()
	parent := concrete(schema.ColumnType{Base: schema.Integer, Nullable: true})
	d := &Dependent{Parent: parent, Base: schema.Boolean}
	assert.Equal(t, schema.ColumnType{Base: schema.Boolean, Nullable: true}, ctx.ConcreteType(d))

	// Unifying against a concrete Boolean preserves the dependent base.
	got, err := ctx.Unify(d, concrete(schema.ColumnType{Base: schema.Boolean}))
	require.NoError(t, err)
	assert.Equal(t, schema.Boolean, ctx.ConcreteType(got).Base)

	_, err = ctx.Unify(d, concrete(schema.ColumnType{Base: schema.Text}))
	require.Error(t, err)
}

func TestParamVariablesAreKeyedByName(t *testing.T) {
	ctx := NewContext()
	a := ctx.Param(":x")
	b := ctx.Param(":X")
	c := ctx.Param(":y")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	_, err := ctx.Unify(a, concrete(schema.ColumnType{Base: schema.Integer}))
	require.NoError(t, err)
	assert.Equal(t, schema.Integer, ctx.ConcreteType(b).Base)
}

func TestUnifyAll(t *testing.T) {
	ctx := NewContext()
	got, err := ctx.UnifyAll([]Type{
		concrete(schema.ColumnType{Base: schema.Integer}),
		concrete(schema.ColumnType{Base: schema.Number, Nullable: true}),
	})
	require.NoError(t, err)
	assert.Equal(t, schema.ColumnType{Base: schema.Integer, Nullable: true}, ctx.ConcreteType(got))

	_, err = ctx.UnifyAll([]Type{
		concrete(schema.ColumnType{Base: schema.Integer}),
		concrete(schema.ColumnType{Base: schema.Text}),
	})
	require.Error(t, err)
}
