package sqlgen

import (
	"fmt"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/provider"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

// SelectGenerator compiles query trees. It never synthesizes parameters.
type SelectGenerator struct {
	base
	tree *core.QueryTree
}

// Name implements Generator.
func (g *SelectGenerator) Name() string { return "select" }

// BuildCommand implements Generator.
func (g *SelectGenerator) BuildCommand(cmd *provider.Command) error {
	return g.build(cmd, false, func(p *printer) {
		p.formatSelect(g.tree.Query)
	})
}

func (p *printer) formatSelect(stmt *core.SelectStmt) {
	if stmt == nil {
		p.fail(fmt.Errorf("%w: missing SELECT", core.ErrInvalidCommandTree))
		return
	}

	p.kw(token.SELECT)
	if stmt.Distinct {
		p.space()
		p.kw(token.DISTINCT)
	}
	p.space()
	if len(stmt.Columns) == 0 {
		p.write("*")
	} else {
		p.formatList(len(stmt.Columns), func(i int) { p.formatSelectItem(stmt.Columns[i]) }, ", ")
	}

	if stmt.From != nil {
		p.space()
		p.kw(token.FROM)
		p.space()
		p.formatTableRef(stmt.From.Source)
		for _, join := range stmt.From.Joins {
			p.formatJoin(join)
		}
	}

	if stmt.Where != nil {
		p.space()
		p.kw(token.WHERE)
		p.space()
		p.formatExpr(stmt.Where)
	}

	if len(stmt.GroupBy) > 0 {
		p.space()
		p.kw(token.GROUP, token.BY)
		p.space()
		p.formatList(len(stmt.GroupBy), func(i int) { p.formatExpr(stmt.GroupBy[i]) }, ", ")
	}

	if stmt.Having != nil {
		p.space()
		p.kw(token.HAVING)
		p.space()
		p.formatExpr(stmt.Having)
	}

	if len(stmt.OrderBy) > 0 {
		p.space()
		p.kw(token.ORDER, token.BY)
		p.space()
		p.formatList(len(stmt.OrderBy), func(i int) { p.formatOrderByItem(stmt.OrderBy[i]) }, ", ")
	}

	p.formatPagination(stmt.Limit, stmt.Offset)
}

func (p *printer) formatSelectItem(item core.SelectItem) {
	switch {
	case item.Star:
		p.write("*")
	case item.TableStar != "":
		p.ident(item.TableStar)
		p.write(".*")
	default:
		p.formatExpr(item.Expr)
		if item.Alias != "" {
			p.space()
			p.kw(token.AS)
			p.space()
			p.ident(item.Alias)
		}
	}
}

func (p *printer) formatTableName(t *core.TableName) {
	if t == nil || t.Name == "" {
		p.fail(fmt.Errorf("%w: missing table name", core.ErrInvalidCommandTree))
		return
	}
	p.write(p.dialect.QuoteQualified(t.Schema, t.Name))
	if t.Alias != "" {
		p.space()
		p.kw(token.AS)
		p.space()
		p.ident(t.Alias)
	}
}

func (p *printer) formatTableRef(ref core.TableRef) {
	switch t := ref.(type) {
	case *core.TableName:
		p.formatTableName(t)
	case *core.DerivedTable:
		p.write("(")
		p.formatSelect(t.Select)
		p.write(")")
		if t.Alias != "" {
			p.space()
			p.kw(token.AS)
			p.space()
			p.ident(t.Alias)
		}
	default:
		p.fail(fmt.Errorf("%w: unsupported table reference %T", core.ErrInvalidCommandTree, ref))
	}
}

func (p *printer) formatJoin(join *core.Join) {
	p.space()
	switch join.Type {
	case core.JoinLeft:
		p.kw(token.LEFT)
	case core.JoinRight:
		p.kw(token.RIGHT)
	case core.JoinFull:
		p.kw(token.FULL)
	case core.JoinCross:
		p.kw(token.CROSS)
	case core.JoinInner, "":
		p.kw(token.INNER)
	default:
		p.fail(fmt.Errorf("%w: unknown join type %q", core.ErrInvalidCommandTree, join.Type))
		return
	}
	p.space()
	p.kw(token.JOIN)
	p.space()
	p.formatTableRef(join.Right)

	if join.Type == core.JoinCross {
		return
	}
	if join.Condition == nil {
		p.fail(fmt.Errorf("%w: %s JOIN without ON", core.ErrInvalidCommandTree, join.Type))
		return
	}
	p.space()
	p.kw(token.ON)
	p.space()
	p.formatExpr(join.Condition)
}

func (p *printer) formatOrderByItem(item core.OrderByItem) {
	p.formatExpr(item.Expr)
	if item.Desc {
		p.space()
		p.kw(token.DESC)
	}
	if item.NullsFirst != nil {
		p.space()
		if *item.NullsFirst {
			p.kw(token.NULLS, token.FIRST)
		} else {
			p.kw(token.NULLS, token.LAST)
		}
	}
}

// formatPagination prints OFFSET/FETCH FIRST on servers that have it and
// LIMIT/OFFSET before that.
func (p *printer) formatPagination(limit, offset core.Expr) {
	if limit == nil && offset == nil {
		return
	}

	if p.manifest.AtLeast(dialect.VersionFetchFirst) {
		if offset != nil {
			p.space()
			p.kw(token.OFFSET)
			p.space()
			p.formatExpr(offset)
			p.space()
			p.kw(token.ROWS)
		}
		if limit != nil {
			p.space()
			p.kw(token.FETCH, token.FIRST)
			p.space()
			p.operand(limit, precedenceAtom)
			p.space()
			p.kw(token.ROWS, token.ONLY)
		}
		return
	}

	if limit != nil {
		p.space()
		p.kw(token.LIMIT)
		p.space()
		p.formatExpr(limit)
	}
	if offset != nil {
		p.space()
		p.kw(token.OFFSET)
		p.space()
		p.formatExpr(offset)
	}
}
