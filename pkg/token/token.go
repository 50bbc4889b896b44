// Package token defines the keyword and operator tokens shared by the
// command-tree AST and the SQL generators.
//
// Tokens are plain integer constants so generators can switch on them and
// print them without string comparisons.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a SQL token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
const (
	// Special tokens
	ILLEGAL TokenType = iota

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	DPIPE   // ||
	EQ      // =
	NE      // <>
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=

	// Keywords (alphabetical)
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	CONFLICT
	CROSS
	DEFAULT
	DELETE
	DESC
	DISTINCT
	DO
	ELSE
	END
	EXISTS
	FALSE
	FETCH
	FIRST
	FROM
	FULL
	GROUP
	HAVING
	ILIKE
	IN
	INNER
	INSERT
	INTO
	IS
	JOIN
	LAST
	LEFT
	LIKE
	LIMIT
	NOT
	NOTHING
	NULL
	NULLS
	OFFSET
	ON
	ONLY
	OR
	ORDER
	OUTER
	RETURNING
	RIGHT
	ROWS
	SELECT
	SET
	THEN
	TRUE
	UPDATE
	VALUES
	WHEN
	WHERE
)

// String returns the SQL text of the token.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their SQL text.
var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	DPIPE:   "||",
	EQ:      "=",
	NE:      "<>",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",

	ALL:       "ALL",
	AND:       "AND",
	AS:        "AS",
	ASC:       "ASC",
	BETWEEN:   "BETWEEN",
	BY:        "BY",
	CASE:      "CASE",
	CAST:      "CAST",
	CONFLICT:  "CONFLICT",
	CROSS:     "CROSS",
	DEFAULT:   "DEFAULT",
	DELETE:    "DELETE",
	DESC:      "DESC",
	DISTINCT:  "DISTINCT",
	DO:        "DO",
	ELSE:      "ELSE",
	END:       "END",
	EXISTS:    "EXISTS",
	FALSE:     "FALSE",
	FETCH:     "FETCH",
	FIRST:     "FIRST",
	FROM:      "FROM",
	FULL:      "FULL",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	ILIKE:     "ILIKE",
	IN:        "IN",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INTO:      "INTO",
	IS:        "IS",
	JOIN:      "JOIN",
	LAST:      "LAST",
	LEFT:      "LEFT",
	LIKE:      "LIKE",
	LIMIT:     "LIMIT",
	NOT:       "NOT",
	NOTHING:   "NOTHING",
	NULL:      "NULL",
	NULLS:     "NULLS",
	OFFSET:    "OFFSET",
	ON:        "ON",
	ONLY:      "ONLY",
	OR:        "OR",
	ORDER:     "ORDER",
	OUTER:     "OUTER",
	RETURNING: "RETURNING",
	RIGHT:     "RIGHT",
	ROWS:      "ROWS",
	SELECT:    "SELECT",
	SET:       "SET",
	THEN:      "THEN",
	TRUE:      "TRUE",
	UPDATE:    "UPDATE",
	VALUES:    "VALUES",
	WHEN:      "WHEN",
	WHERE:     "WHERE",
}

// operators maps operator spellings to their token types. Both spellings of
// inequality are accepted.
var operators = map[string]TokenType{
	"+":  PLUS,
	"-":  MINUS,
	"*":  STAR,
	"/":  SLASH,
	"%":  PERCENT,
	"||": DPIPE,
	"=":  EQ,
	"<>": NE,
	"!=": NE,
	"<":  LT,
	">":  GT,
	"<=": LE,
	">=": GE,
}

// keywordOperators are the keywords that may appear in binary or unary
// operator position.
var keywordOperators = map[string]TokenType{
	"and": AND,
	"or":  OR,
	"not": NOT,
}

// LookupOperator returns the token for an operator spelling such as "=" or
// "and". It returns ILLEGAL and false for anything else.
func LookupOperator(s string) (TokenType, bool) {
	if tok, ok := operators[s]; ok {
		return tok, true
	}
	if tok, ok := keywordOperators[strings.ToLower(s)]; ok {
		return tok, true
	}
	return ILLEGAL, false
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= ALL && t <= WHERE
}

// IsOperator returns true if the token type is a symbolic operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= GE
}

// IsBinaryOperator returns true for the tokens a binary expression may
// join: symbolic operators plus AND and OR. LIKE, IN, BETWEEN and IS have
// their own expression forms.
func IsBinaryOperator(t TokenType) bool {
	return IsOperator(t) || t == AND || t == OR
}

// IsComparison returns true for the comparison operators.
func IsComparison(t TokenType) bool {
	return t >= EQ && t <= GE
}
