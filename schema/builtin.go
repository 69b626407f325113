package schema

// Builtins returns the SQLite built-in function catalog keyed by folded
// name.  Signatures use type variables for polymorphic positions, e.g.
// coalesce(T, T...) -> T, so that a call site unifies all arguments with a
// single invocation-local inference variable.
func Builtins() map[string]*FuncSig {
	sigs := []*FuncSig{
		{Name: "abs", Fixed: []ArgType{ConcreteArg(Number, true)}, Out: ConcreteArg(Number, true)},
		{Name: "changes", Out: ConcreteArg(Integer, false)},
		{Name: "char", Variadic: argp(ConcreteArg(Integer, false)), Out: ConcreteArg(Text, false)},
		{Name: "coalesce", Fixed: []ArgType{VarArg("a"), VarArg("a")}, Variadic: argp(VarArg("a")), Out: VarArg("a")},
		{Name: "glob", Fixed: []ArgType{ConcreteArg(Text, true), ConcreteArg(Text, true)}, Out: ConcreteArg(Boolean, true)},
		{Name: "hex", Fixed: []ArgType{ConcreteArg(Blob, true)}, Out: ConcreteArg(Text, false)},
		{Name: "ifnull", Fixed: []ArgType{VarArg("a"), VarArg("a")}, Out: VarArg("a")},
		{Name: "instr", Fixed: []ArgType{ConcreteArg(Text, true), ConcreteArg(Text, true)}, Out: ConcreteArg(Integer, true)},
		{Name: "julianday", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, false)), Out: ConcreteArg(Float, true)},
		{Name: "last_insert_rowid", Out: ConcreteArg(Integer, false)},
		{Name: "length", Fixed: []ArgType{VarArg("a")}, Out: ConcreteArg(Integer, true)},
		{Name: "like", Fixed: []ArgType{ConcreteArg(Text, true), ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, true)), Out: ConcreteArg(Boolean, true)},
		{Name: "likelihood", Fixed: []ArgType{VarArg("a"), ConcreteArg(Float, false)}, Out: VarArg("a")},
		{Name: "likely", Fixed: []ArgType{VarArg("a")}, Out: VarArg("a")},
		{Name: "lower", Fixed: []ArgType{ConcreteArg(Text, true)}, Out: ConcreteArg(Text, true)},
		{Name: "ltrim", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, true)), Out: ConcreteArg(Text, true)},
		{Name: "nullif", Fixed: []ArgType{VarArg("a"), VarArg("a")}, Out: VarArg("a")},
		{Name: "printf", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Any, true)), Out: ConcreteArg(Text, true)},
		{Name: "quote", Fixed: []ArgType{ConcreteArg(Any, true)}, Out: ConcreteArg(Text, false)},
		{Name: "random", Out: ConcreteArg(Integer, false)},
		{Name: "randomblob", Fixed: []ArgType{ConcreteArg(Integer, false)}, Out: ConcreteArg(Blob, false)},
		{Name: "replace", Fixed: []ArgType{ConcreteArg(Text, true), ConcreteArg(Text, true), ConcreteArg(Text, true)}, Out: ConcreteArg(Text, true)},
		{Name: "round", Fixed: []ArgType{ConcreteArg(Float, true)}, Variadic: argp(ConcreteArg(Integer, false)), Out: ConcreteArg(Float, true)},
		{Name: "rtrim", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, true)), Out: ConcreteArg(Text, true)},
		{Name: "sqlite_version", Out: ConcreteArg(Text, false)},
		{Name: "strftime", Fixed: []ArgType{ConcreteArg(Text, true), ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, false)), Out: ConcreteArg(Text, true)},
		{Name: "substr", Fixed: []ArgType{ConcreteArg(Text, true), ConcreteArg(Integer, false)}, Variadic: argp(ConcreteArg(Integer, false)), Out: ConcreteArg(Text, true)},
		{Name: "trim", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, true)), Out: ConcreteArg(Text, true)},
		{Name: "typeof", Fixed: []ArgType{ConcreteArg(Any, true)}, Out: ConcreteArg(Text, false)},
		{Name: "unicode", Fixed: []ArgType{ConcreteArg(Text, true)}, Out: ConcreteArg(Integer, true)},
		{Name: "unlikely", Fixed: []ArgType{VarArg("a")}, Out: VarArg("a")},
		{Name: "upper", Fixed: []ArgType{ConcreteArg(Text, true)}, Out: ConcreteArg(Text, true)},
		{Name: "zeroblob", Fixed: []ArgType{ConcreteArg(Integer, false)}, Out: ConcreteArg(Blob, false)},

		// Date and time functions.
		{Name: "date", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, false)), Out: ConcreteArg(Text, true)},
		{Name: "time", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, false)), Out: ConcreteArg(Text, true)},
		{Name: "datetime", Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, false)), Out: ConcreteArg(DateTime, true)},

		// Aggregates.
		{Name: "avg", Agg: true, Distinct: true, Fixed: []ArgType{ConcreteArg(Number, true)}, Out: ConcreteArg(Float, true)},
		{Name: "count", Agg: true, Distinct: true, Wildcard: true, Fixed: []ArgType{ConcreteArg(Any, true)}, Out: ConcreteArg(Integer, false)},
		{Name: "group_concat", Agg: true, Distinct: true, Fixed: []ArgType{ConcreteArg(Text, true)}, Variadic: argp(ConcreteArg(Text, true)), Out: ConcreteArg(Text, true)},
		{Name: "max", Agg: true, Distinct: true, Fixed: []ArgType{VarArg("a")}, Out: VarArg("a")},
		{Name: "min", Agg: true, Distinct: true, Fixed: []ArgType{VarArg("a")}, Out: VarArg("a")},
		{Name: "sum", Agg: true, Distinct: true, Fixed: []ArgType{ConcreteArg(Number, true)}, Out: ConcreteArg(Number, true)},
		{Name: "total", Agg: true, Distinct: true, Fixed: []ArgType{ConcreteArg(Number, true)}, Out: ConcreteArg(Float, false)},
	}
	m := make(map[string]*FuncSig, len(sigs))
	for _, sig := range sigs {
		m[Fold(sig.Name)] = sig
	}
	return m
}

func argp(a ArgType) *ArgType {
	return &a
}
