package core

// ---------- Table Reference Types ----------

// TableName represents a table name reference.
type TableName struct {
	Schema string
	Name   string
	Alias  string
}

func (*TableName) tableRefNode() {}

// DerivedTable represents a subquery in FROM clause.
type DerivedTable struct {
	Select *SelectStmt
	Alias  string
}

func (*DerivedTable) tableRefNode() {}
