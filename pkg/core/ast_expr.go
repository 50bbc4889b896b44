package core

import "github.com/leapstack-labs/cratesql/pkg/token"

// ---------- Expression Types ----------

// ColumnRef represents a column reference (possibly qualified).
type ColumnRef struct {
	Table  string // optional table/alias qualifier
	Column string
}

func (*ColumnRef) exprNode() {}

// Constant is a literal value carried by the command tree. A nil Value is
// SQL NULL regardless of Kind.
//
// Accepted Go values per kind: bool for Boolean; any signed or unsigned
// integer for the integral kinds; float32/float64 for Single and Double;
// float64, string or an integer for Decimal; string for String and Guid;
// []byte for Binary; time.Time for DateTime and DateTimeOffset;
// time.Duration for Time.
type Constant struct {
	Kind  PrimitiveKind
	Value any
}

func (*Constant) exprNode() {}

// IsNull reports whether the constant is SQL NULL.
func (c *Constant) IsNull() bool { return c.Value == nil }

// ParamRef references a declared parameter by name.
type ParamRef struct {
	Name string
}

func (*ParamRef) exprNode() {}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a unary expression (NOT, unary minus).
type UnaryExpr struct {
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall represents a function call.
type FuncCall struct {
	Name     string
	Distinct bool
	Args     []Expr
	Star     bool // COUNT(*)
}

func (*FuncCall) exprNode() {}

// CaseExpr represents a searched or simple CASE expression.
type CaseExpr struct {
	Operand Expr // nil for searched CASE
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// WhenClause represents a WHEN clause in CASE.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CastExpr represents a CAST expression.
type CastExpr struct {
	Expr     Expr
	TypeName string
}

func (*CastExpr) exprNode() {}

// InExpr represents an IN expression over a value list or a subquery.
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
}

func (*InExpr) exprNode() {}

// BetweenExpr represents a BETWEEN expression.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// IsNullExpr represents IS NULL / IS NOT NULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// LikeExpr represents a LIKE expression. CaseInsensitive requests ILIKE
// semantics; how that is rendered depends on the dialect.
type LikeExpr struct {
	Expr            Expr
	Not             bool
	Pattern         Expr
	CaseInsensitive bool
}

func (*LikeExpr) exprNode() {}

// ExistsExpr represents EXISTS (subquery).
type ExistsExpr struct {
	Not    bool
	Select *SelectStmt
}

func (*ExistsExpr) exprNode() {}

// SubqueryExpr represents a scalar subquery.
type SubqueryExpr struct {
	Select *SelectStmt
}

func (*SubqueryExpr) exprNode() {}
