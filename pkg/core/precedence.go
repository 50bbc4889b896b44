package core

import "github.com/leapstack-labs/cratesql/pkg/token"

// Operator precedence levels (higher binds tighter).
const (
	PrecedenceNone       = 0
	PrecedenceOr         = 1
	PrecedenceAnd        = 2
	PrecedenceNot        = 3
	PrecedenceComparison = 4 // =, <>, <, >, <=, >=, LIKE, ILIKE, IN, BETWEEN
	PrecedenceConcat     = 5 // ||
	PrecedenceAddition   = 6 // +, -
	PrecedenceMultiply   = 7 // *, /, %
	PrecedenceUnary      = 8 // unary -
)

// OperatorDef binds an operator token to its precedence.
type OperatorDef struct {
	Token      token.TokenType
	Precedence int
}
