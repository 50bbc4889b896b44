package core

// CommandTree is an engine-neutral description of one database operation.
//
// The set of variants is closed: *QueryTree, *InsertTree, *UpdateTree and
// *DeleteTree. Consumers switch on the concrete type.
type CommandTree interface {
	// Parameters returns the declared parameters in declaration order.
	Parameters() []ParameterDecl
	commandTree()
}

// ParameterDecl declares a named, typed parameter of a command tree.
type ParameterDecl struct {
	Name string
	Type TypeUsage
}

// QueryTree is a read-only query.
type QueryTree struct {
	Params []ParameterDecl
	Query  *SelectStmt
}

// Parameters implements CommandTree.
func (t *QueryTree) Parameters() []ParameterDecl { return t.Params }

func (*QueryTree) commandTree() {}

// InsertTree inserts one row into Target.
type InsertTree struct {
	Params     []ParameterDecl
	Target     *TableName
	SetClauses []SetClause
	OnConflict *OnConflict
	Returning  []Expr
}

// Parameters implements CommandTree.
func (t *InsertTree) Parameters() []ParameterDecl { return t.Params }

func (*InsertTree) commandTree() {}

// UpdateTree updates the rows of Target matching Predicate.
type UpdateTree struct {
	Params     []ParameterDecl
	Target     *TableName
	SetClauses []SetClause
	Predicate  Expr
	Returning  []Expr
}

// Parameters implements CommandTree.
func (t *UpdateTree) Parameters() []ParameterDecl { return t.Params }

func (*UpdateTree) commandTree() {}

// DeleteTree deletes the rows of Target matching Predicate.
type DeleteTree struct {
	Params    []ParameterDecl
	Target    *TableName
	Predicate Expr
	Returning []Expr
}

// Parameters implements CommandTree.
func (t *DeleteTree) Parameters() []ParameterDecl { return t.Params }

func (*DeleteTree) commandTree() {}

// SetClause assigns Value to Column.
type SetClause struct {
	Column string
	Value  Expr
}

// OnConflict is the conflict action of an insert. An empty Updates list
// means DO NOTHING.
type OnConflict struct {
	Columns []string
	Updates []SetClause
}

// KindOf returns the operation kind of a command tree ("query", "insert",
// "update", "delete"), or "unknown".
func KindOf(tree CommandTree) string {
	switch tree.(type) {
	case *QueryTree:
		return "query"
	case *InsertTree:
		return "insert"
	case *UpdateTree:
		return "update"
	case *DeleteTree:
		return "delete"
	default:
		return "unknown"
	}
}

// IsNil reports whether tree is nil, including a nil pointer of a known variant.
func IsNil(tree CommandTree) bool {
	switch t := tree.(type) {
	case nil:
		return true
	case *QueryTree:
		return t == nil
	case *InsertTree:
		return t == nil
	case *UpdateTree:
		return t == nil
	case *DeleteTree:
		return t == nil
	default:
		return false
	}
}
