package dialect

import (
	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

// ANSIOperators contains standard SQL operators with their precedence.
var ANSIOperators = []core.OperatorDef{
	// Logical operators (lowest precedence)
	{Token: token.OR, Precedence: core.PrecedenceOr},
	{Token: token.AND, Precedence: core.PrecedenceAnd},
	{Token: token.NOT, Precedence: core.PrecedenceNot},

	// Comparison operators
	{Token: token.EQ, Precedence: core.PrecedenceComparison},
	{Token: token.NE, Precedence: core.PrecedenceComparison},
	{Token: token.LT, Precedence: core.PrecedenceComparison},
	{Token: token.GT, Precedence: core.PrecedenceComparison},
	{Token: token.LE, Precedence: core.PrecedenceComparison},
	{Token: token.GE, Precedence: core.PrecedenceComparison},

	// Arithmetic operators
	{Token: token.PLUS, Precedence: core.PrecedenceAddition},
	{Token: token.MINUS, Precedence: core.PrecedenceAddition},

	// || binds looser than + and - in PostgreSQL
	{Token: token.DPIPE, Precedence: core.PrecedenceConcat},

	// Multiplicative operators (highest precedence for binary ops)
	{Token: token.STAR, Precedence: core.PrecedenceMultiply},
	{Token: token.SLASH, Precedence: core.PrecedenceMultiply},
	{Token: token.PERCENT, Precedence: core.PrecedenceMultiply},
}
