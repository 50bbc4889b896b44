package core

// Expr is a marker interface for expression nodes.
type Expr interface {
	exprNode() // Marker method to distinguish expressions
}

// TableRef is a marker interface for FROM clause sources.
type TableRef interface {
	tableRefNode()
}
