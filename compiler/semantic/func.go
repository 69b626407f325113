package semantic

import (
	"github.com/squintdb/squint/compiler/ast"
	"github.com/squintdb/squint/schema"
	"golang.org/x/exp/maps"
)

// instantiation maps a signature's type variable names to fresh inference
// variables, giving each invocation its own polymorphic instance.
type instantiation struct {
	ctx  *Context
	vars map[string]Type
}

func (inst *instantiation) arg(at schema.ArgType) Type {
	if at.Var == "" {
		return concrete(at.Type)
	}
	if t, ok := inst.vars[at.Var]; ok {
		return t
	}
	t := inst.ctx.Fresh()
	inst.vars[at.Var] = t
	return t
}

// semCall types a function invocation against its catalog signature,
// unifying each actual argument with the instantiated formal type.
func (a *Analyzer) semCall(s *Scope, call *ast.Call) (Type, error) {
	sig := a.model.Function(call.Name)
	if sig == nil {
		return nil, errorAt(call, NotFound,
			"no such function %q%s", call.Name, didYouMean(call.Name, a.functionNames()))
	}
	inst := &instantiation{ctx: a.ctx, vars: make(map[string]Type)}
	if call.Wildcard {
		if !sig.Wildcard {
			return nil, errorAt(call, Structural, "%s does not accept a * argument", sig.Name)
		}
		return inst.arg(sig.Out), nil
	}
	if call.Distinct && !sig.Distinct {
		return nil, errorAt(call, Structural, "%s does not accept DISTINCT", sig.Name)
	}
	if len(call.Args) < len(sig.Fixed) {
		return nil, errorAt(call, ArityMismatch,
			"%s expects at least %d arguments, found %d", sig.Name, len(sig.Fixed), len(call.Args))
	}
	if len(call.Args) > len(sig.Fixed) && sig.Variadic == nil {
		return nil, errorAt(call, ArityMismatch,
			"%s expects %d arguments, found %d", sig.Name, len(sig.Fixed), len(call.Args))
	}
	for i, arg := range call.Args {
		var expected Type
		if i < len(sig.Fixed) {
			expected = inst.arg(sig.Fixed[i])
		} else {
			expected = inst.arg(*sig.Variadic)
		}
		actual, err := a.semExpr(s, arg)
		if err != nil {
			return nil, err
		}
		if _, err := a.ctx.Unify(actual, expected); err != nil {
			return nil, positioned(err, arg)
		}
	}
	return inst.arg(sig.Out), nil
}

func (a *Analyzer) functionNames() []string {
	return maps.Keys(schema.Builtins())
}
