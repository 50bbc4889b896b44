package sqlgen

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

const precedenceAtom = 100

// Function and type names are written unquoted, so they are restricted to
// plain (optionally schema-qualified) identifiers. Type names may carry a
// multi-word spelling, a precision modifier and array brackets.
var (
	funcNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
	typeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?( [A-Za-z_][A-Za-z0-9_]*)*(\(\d+( ?, ?\d+)?\))?( [A-Za-z_][A-Za-z0-9_]*)*(\[\])*$`)
)

func (p *printer) formatExpr(e core.Expr) {
	if p.err != nil {
		return
	}

	switch expr := e.(type) {
	case *core.Constant:
		p.constant(expr)
	case *core.ParamRef:
		p.paramRef(expr)
	case *core.ColumnRef:
		p.formatColumnRef(expr)
	case *core.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *core.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *core.FuncCall:
		p.formatFuncCall(expr)
	case *core.CaseExpr:
		p.formatCaseExpr(expr)
	case *core.CastExpr:
		p.formatCastExpr(expr)
	case *core.InExpr:
		p.formatInExpr(expr)
	case *core.BetweenExpr:
		p.formatBetweenExpr(expr)
	case *core.IsNullExpr:
		p.formatIsNullExpr(expr)
	case *core.LikeExpr:
		p.formatLikeExpr(expr)
	case *core.ExistsExpr:
		p.formatExistsExpr(expr)
	case *core.SubqueryExpr:
		p.write("(")
		p.formatSelect(expr.Select)
		p.write(")")
	case nil:
		p.fail(fmt.Errorf("%w: missing expression", core.ErrInvalidCommandTree))
	default:
		p.fail(fmt.Errorf("%w: unsupported expression %T", core.ErrInvalidCommandTree, e))
	}
}

// precedence returns how tightly e binds when printed.
func (p *printer) precedence(e core.Expr) int {
	switch expr := e.(type) {
	case *core.BinaryExpr:
		return p.dialect.Precedence(expr.Op)
	case *core.UnaryExpr:
		if expr.Op == token.NOT {
			return core.PrecedenceNot
		}
		return core.PrecedenceUnary
	case *core.InExpr, *core.BetweenExpr, *core.IsNullExpr, *core.LikeExpr:
		return core.PrecedenceComparison
	case *core.ExistsExpr:
		if expr.Not {
			return core.PrecedenceNot
		}
		return precedenceAtom
	case *core.Constant:
		if !p.parameterize && isNegativeLiteral(expr) {
			return core.PrecedenceUnary
		}
		return precedenceAtom
	default:
		return precedenceAtom
	}
}

// operand prints e, parenthesized when it binds looser than minPrec.
func (p *printer) operand(e core.Expr, minPrec int) {
	if p.precedence(e) < minPrec {
		p.write("(")
		p.formatExpr(e)
		p.write(")")
		return
	}
	p.formatExpr(e)
}

// associative operators may repeat on the right without parentheses.
func associative(op token.TokenType) bool {
	switch op {
	case token.AND, token.OR, token.PLUS, token.STAR, token.DPIPE:
		return true
	}
	return false
}

func (p *printer) formatColumnRef(col *core.ColumnRef) {
	if col.Table != "" {
		p.ident(col.Table)
		p.write(".")
	}
	p.ident(col.Column)
}

func (p *printer) formatBinaryExpr(expr *core.BinaryExpr) {
	prec := p.dialect.Precedence(expr.Op)
	if !token.IsBinaryOperator(expr.Op) || prec == core.PrecedenceNone {
		p.fail(fmt.Errorf("%w: %s is not a binary operator", core.ErrInvalidCommandTree, expr.Op))
		return
	}

	// Comparisons do not chain.
	left := prec
	if token.IsComparison(expr.Op) {
		left = prec + 1
	}
	p.operand(expr.Left, left)

	p.space()
	p.kw(expr.Op)
	p.space()

	right := prec + 1
	if r, ok := expr.Right.(*core.BinaryExpr); ok && r.Op == expr.Op && associative(expr.Op) {
		right = prec
	}
	p.operand(expr.Right, right)
}

func (p *printer) formatUnaryExpr(expr *core.UnaryExpr) {
	switch expr.Op {
	case token.NOT:
		p.kw(token.NOT)
		p.space()
		p.operand(expr.Expr, core.PrecedenceNot)
	case token.MINUS, token.PLUS:
		p.kw(expr.Op)
		p.operand(expr.Expr, core.PrecedenceUnary+1)
	default:
		p.fail(fmt.Errorf("%w: %s is not a unary operator", core.ErrInvalidCommandTree, expr.Op))
	}
}

func (p *printer) formatFuncCall(fn *core.FuncCall) {
	if !funcNamePattern.MatchString(fn.Name) {
		p.fail(fmt.Errorf("%w: invalid function name %q", core.ErrInvalidCommandTree, fn.Name))
		return
	}
	p.write(fn.Name)
	p.write("(")

	if fn.Distinct {
		p.kw(token.DISTINCT)
		p.space()
	}

	if fn.Star {
		p.write("*")
	} else {
		p.formatList(len(fn.Args), func(i int) { p.formatExpr(fn.Args[i]) }, ", ")
	}

	p.write(")")
}

func (p *printer) formatCaseExpr(expr *core.CaseExpr) {
	if len(expr.Whens) == 0 {
		p.fail(fmt.Errorf("%w: CASE without WHEN", core.ErrInvalidCommandTree))
		return
	}

	p.kw(token.CASE)
	if expr.Operand != nil {
		p.space()
		p.formatExpr(expr.Operand)
	}
	for _, w := range expr.Whens {
		p.space()
		p.kw(token.WHEN)
		p.space()
		p.formatExpr(w.Condition)
		p.space()
		p.kw(token.THEN)
		p.space()
		p.formatExpr(w.Result)
	}
	if expr.Else != nil {
		p.space()
		p.kw(token.ELSE)
		p.space()
		p.formatExpr(expr.Else)
	}
	p.space()
	p.kw(token.END)
}

func (p *printer) formatCastExpr(expr *core.CastExpr) {
	if !typeNamePattern.MatchString(expr.TypeName) {
		p.fail(fmt.Errorf("%w: invalid type name %q", core.ErrInvalidCommandTree, expr.TypeName))
		return
	}
	p.kw(token.CAST)
	p.write("(")
	p.formatExpr(expr.Expr)
	p.space()
	p.kw(token.AS)
	p.space()
	p.write(expr.TypeName)
	p.write(")")
}

func (p *printer) formatInExpr(expr *core.InExpr) {
	if expr.Query == nil && len(expr.Values) == 0 {
		p.fail(fmt.Errorf("%w: IN without values", core.ErrInvalidCommandTree))
		return
	}

	p.operand(expr.Expr, core.PrecedenceComparison+1)
	p.space()
	if expr.Not {
		p.kw(token.NOT)
		p.space()
	}
	p.kw(token.IN)
	p.write(" (")
	if expr.Query != nil {
		p.formatSelect(expr.Query)
	} else {
		p.formatList(len(expr.Values), func(i int) { p.formatExpr(expr.Values[i]) }, ", ")
	}
	p.write(")")
}

func (p *printer) formatBetweenExpr(expr *core.BetweenExpr) {
	p.operand(expr.Expr, core.PrecedenceComparison+1)
	p.space()
	if expr.Not {
		p.kw(token.NOT)
		p.space()
	}
	p.kw(token.BETWEEN)
	p.space()
	p.operand(expr.Low, core.PrecedenceComparison+1)
	p.space()
	p.kw(token.AND)
	p.space()
	p.operand(expr.High, core.PrecedenceComparison+1)
}

func (p *printer) formatIsNullExpr(expr *core.IsNullExpr) {
	p.operand(expr.Expr, core.PrecedenceComparison+1)
	p.space()
	p.kw(token.IS)
	if expr.Not {
		p.space()
		p.kw(token.NOT)
	}
	p.space()
	p.kw(token.NULL)
}

// formatLikeExpr prints LIKE, or its case-insensitive form: ILIKE where the
// dialect has it, otherwise lower() on both operands.
func (p *printer) formatLikeExpr(expr *core.LikeExpr) {
	lower := expr.CaseInsensitive && !p.dialect.SupportsIlike

	if lower {
		p.formatFuncCall(&core.FuncCall{Name: "lower", Args: []core.Expr{expr.Expr}})
	} else {
		p.operand(expr.Expr, core.PrecedenceComparison+1)
	}
	p.space()
	if expr.Not {
		p.kw(token.NOT)
		p.space()
	}
	if expr.CaseInsensitive && !lower {
		p.kw(token.ILIKE)
	} else {
		p.kw(token.LIKE)
	}
	p.space()
	if lower {
		p.formatFuncCall(&core.FuncCall{Name: "lower", Args: []core.Expr{expr.Pattern}})
	} else {
		p.operand(expr.Pattern, core.PrecedenceComparison+1)
	}
}

func (p *printer) formatExistsExpr(expr *core.ExistsExpr) {
	if expr.Not {
		p.kw(token.NOT)
		p.space()
	}
	p.kw(token.EXISTS)
	p.write(" (")
	p.formatSelect(expr.Select)
	p.write(")")
}
