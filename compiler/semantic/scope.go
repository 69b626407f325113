package semantic

import (
	"github.com/squintdb/squint/compiler/ast"
	"github.com/squintdb/squint/schema"
)

// InferredColumn is one result column of a checked query: its name, the
// FROM alias it came from (empty for computed columns), its inferred type,
// and whether it is a primary key column.
type InferredColumn struct {
	Name       string
	From       string
	Type       Type
	PrimaryKey bool
}

// InferredQuery is the ordered result column list of a checked query.
type InferredQuery struct {
	Columns []InferredColumn
}

// Rename returns a copy of q with its columns renamed, as for a CTE
// declared WITH t(a, b) AS (...).
func (q *InferredQuery) Rename(names []string) *InferredQuery {
	out := &InferredQuery{Columns: make([]InferredColumn, len(q.Columns))}
	copy(out.Columns, q.Columns)
	for i := range names {
		out.Columns[i].Name = names[i]
	}
	return out
}

// withFrom returns a copy of q with every column's From set to alias.
func (q *InferredQuery) withFrom(alias string) *InferredQuery {
	out := &InferredQuery{Columns: make([]InferredColumn, len(q.Columns))}
	copy(out.Columns, q.Columns)
	for i := range out.Columns {
		out.Columns[i].From = alias
	}
	return out
}

// column returns the column with the given name, matched
// case-insensitively, along with how many columns match.
func (q *InferredQuery) column(name string) (InferredColumn, int) {
	var found InferredColumn
	n := 0
	for _, col := range q.Columns {
		if schema.Fold(col.Name) == schema.Fold(name) {
			if n == 0 {
				found = col
			}
			n++
		}
	}
	return found, n
}

// FromScope is the table bindings built from one FROM clause: named
// sources in binding order plus the ordered wildcard column list.
type FromScope struct {
	names    []string
	tables   map[string]*InferredQuery
	wildcard *InferredQuery
}

func newFromScope() *FromScope {
	return &FromScope{
		tables:   make(map[string]*InferredQuery),
		wildcard: &InferredQuery{},
	}
}

func (f *FromScope) bind(name string, q *InferredQuery) bool {
	key := schema.Fold(name)
	if _, ok := f.tables[key]; ok {
		return false
	}
	f.names = append(f.names, name)
	f.tables[key] = q
	return true
}

func (f *FromScope) table(name string) (*InferredQuery, bool) {
	q, ok := f.tables[schema.Fold(name)]
	return q, ok
}

// merge folds other into f, returning the first duplicate binding name if
// any.
func (f *FromScope) merge(other *FromScope) (string, bool) {
	for _, name := range other.names {
		if !f.bind(name, other.tables[schema.Fold(name)]) {
			return name, false
		}
	}
	f.wildcard.Columns = append(f.wildcard.Columns, other.wildcard.Columns...)
	return "", true
}

// Scope resolves table and column names for one SELECT.  Scopes nest:
// subqueries extend their enclosing scope so correlated references resolve
// through the parent chain.
type Scope struct {
	parent *Scope
	model  schema.Model
	ctes   map[string]*InferredQuery
	from   *FromScope
}

func NewScope(model schema.Model) *Scope {
	return &Scope{model: model}
}

// withCTE returns a scope extending s with one CTE binding.
func (s *Scope) withCTE(name string, q *InferredQuery) *Scope {
	child := &Scope{parent: s.parent, model: s.model, from: s.from}
	child.ctes = make(map[string]*InferredQuery, len(s.ctes)+1)
	for k, v := range s.ctes {
		child.ctes[k] = v
	}
	child.ctes[schema.Fold(name)] = q
	return child
}

// withFrom returns a child scope whose FROM clause is f.
func (s *Scope) withFrom(f *FromScope) *Scope {
	return &Scope{parent: s, model: s.model, from: f}
}

// child returns a scope for a subquery: empty, with s as parent.
func (s *Scope) child() *Scope {
	return &Scope{parent: s, model: s.model}
}

func (s *Scope) cte(name string) (*InferredQuery, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if q, ok := sc.ctes[schema.Fold(name)]; ok {
			return q, true
		}
	}
	return nil, false
}

// resolveColumn resolves a possibly qualified column reference.  An
// unqualified name is searched across the FROM sources in binding order;
// more than one match is ambiguous.  Unresolved names recurse into the
// parent scope so correlated subqueries see enclosing columns.
func (s *Scope) resolveColumn(ref *ast.ColumnRef) (InferredColumn, error) {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.from == nil {
			continue
		}
		if ref.Table != "" {
			q, ok := sc.from.table(ref.Table)
			if !ok {
				continue
			}
			col, n := q.column(ref.Name)
			if n == 0 {
				return InferredColumn{}, errorAt(ref, NotFound,
					"no column %q in %q%s", ref.Name, ref.Table, didYouMean(ref.Name, columnNames(q)))
			}
			return col, nil
		}
		var found InferredColumn
		matches := 0
		for _, name := range sc.from.names {
			q := sc.from.tables[schema.Fold(name)]
			if col, n := q.column(ref.Name); n > 0 {
				if matches == 0 {
					found = col
				}
				matches += n
			}
		}
		if matches > 1 {
			return InferredColumn{}, errorAt(ref, Ambiguous, "ambiguous column %q", ref.Name)
		}
		if matches == 1 {
			return found, nil
		}
	}
	return InferredColumn{}, errorAt(ref, NotFound,
		"no such column %q%s", ref.Name, didYouMean(ref.Name, s.visibleColumns()))
}

// visibleColumns collects every column name in scope for error
// suggestions.
func (s *Scope) visibleColumns() []string {
	var names []string
	for sc := s; sc != nil; sc = sc.parent {
		if sc.from == nil {
			continue
		}
		for _, col := range sc.from.wildcard.Columns {
			names = append(names, col.Name)
		}
	}
	return names
}

func columnNames(q *InferredQuery) []string {
	names := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		names[i] = col.Name
	}
	return names
}

// resolveTable resolves a table name to its inferred query: a CTE when the
// name is unqualified and bound in scope, else a schema table.  onRef is
// invoked for schema tables so the checker can record the read.
func (s *Scope) resolveTable(tn *ast.TableName, onRef func(*schema.Table)) (*InferredQuery, error) {
	if tn.Schema == "" {
		if q, ok := s.cte(tn.Name); ok {
			return q, nil
		}
	}
	table := s.model.FindTable(tn.Schema, tn.Name)
	if table == nil {
		return nil, errorAt(tn, NotFound,
			"no such table %q%s", tn.Name, didYouMean(tn.Name, s.tableNames()))
	}
	if onRef != nil {
		onRef(table)
	}
	q := &InferredQuery{Columns: make([]InferredColumn, len(table.Columns))}
	for i, col := range table.Columns {
		q.Columns[i] = InferredColumn{
			Name:       col.Name,
			Type:       concrete(col.Type),
			PrimaryKey: col.PrimaryKey,
		}
	}
	return q, nil
}

// tableNames collects candidate table names (CTEs and catalog tables) for
// error suggestions.
func (s *Scope) tableNames() []string {
	var names []string
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.ctes {
			names = append(names, name)
		}
	}
	if m, ok := s.model.(*schema.MemModel); ok {
		for _, t := range m.Tables() {
			names = append(names, t.Name)
		}
	}
	return names
}
