package sqlgen

import (
	"fmt"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/provider"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

// InsertGenerator compiles insert trees.
type InsertGenerator struct {
	base
	tree *core.InsertTree
}

// Name implements Generator.
func (g *InsertGenerator) Name() string { return "insert" }

// BuildCommand implements Generator.
func (g *InsertGenerator) BuildCommand(cmd *provider.Command) error {
	return g.build(cmd, g.opts.CreateParametersForConstants, func(p *printer) {
		p.formatInsert(g.tree)
	})
}

// UpdateGenerator compiles update trees.
type UpdateGenerator struct {
	base
	tree *core.UpdateTree
}

// Name implements Generator.
func (g *UpdateGenerator) Name() string { return "update" }

// BuildCommand implements Generator.
func (g *UpdateGenerator) BuildCommand(cmd *provider.Command) error {
	return g.build(cmd, g.opts.CreateParametersForConstants, func(p *printer) {
		p.formatUpdate(g.tree)
	})
}

// DeleteGenerator compiles delete trees.
type DeleteGenerator struct {
	base
	tree *core.DeleteTree
}

// Name implements Generator.
func (g *DeleteGenerator) Name() string { return "delete" }

// BuildCommand implements Generator.
func (g *DeleteGenerator) BuildCommand(cmd *provider.Command) error {
	return g.build(cmd, g.opts.CreateParametersForConstants, func(p *printer) {
		p.formatDelete(g.tree)
	})
}

func (p *printer) formatInsert(tree *core.InsertTree) {
	p.kw(token.INSERT, token.INTO)
	p.space()
	p.formatTableName(tree.Target)
	p.space()

	if len(tree.SetClauses) == 0 {
		p.kw(token.DEFAULT, token.VALUES)
	} else {
		p.write("(")
		p.formatList(len(tree.SetClauses), func(i int) { p.ident(tree.SetClauses[i].Column) }, ",")
		p.write(") ")
		p.kw(token.VALUES)
		p.write(" (")
		p.formatList(len(tree.SetClauses), func(i int) { p.formatExpr(tree.SetClauses[i].Value) }, ", ")
		p.write(")")
	}

	if tree.OnConflict != nil {
		p.formatOnConflict(tree.OnConflict)
	}
	p.formatReturning(tree.Returning)
}

func (p *printer) formatOnConflict(oc *core.OnConflict) {
	if !p.require("ON CONFLICT", dialect.VersionOnConflict) {
		return
	}
	if len(oc.Updates) > 0 && len(oc.Columns) == 0 {
		p.fail(fmt.Errorf("%w: ON CONFLICT DO UPDATE needs conflict columns", core.ErrInvalidCommandTree))
		return
	}

	p.space()
	p.kw(token.ON, token.CONFLICT)
	if len(oc.Columns) > 0 {
		p.write(" (")
		p.formatList(len(oc.Columns), func(i int) { p.ident(oc.Columns[i]) }, ",")
		p.write(")")
	}
	p.space()
	p.kw(token.DO)
	p.space()
	if len(oc.Updates) == 0 {
		p.kw(token.NOTHING)
		return
	}
	p.kw(token.UPDATE, token.SET)
	p.space()
	p.formatAssignments(oc.Updates)
}

func (p *printer) formatUpdate(tree *core.UpdateTree) {
	if len(tree.SetClauses) == 0 {
		p.fail(fmt.Errorf("%w: UPDATE without SET clauses", core.ErrInvalidCommandTree))
		return
	}

	p.kw(token.UPDATE)
	p.space()
	p.formatTableName(tree.Target)
	p.space()
	p.kw(token.SET)
	p.space()
	p.formatAssignments(tree.SetClauses)
	p.formatWhere(tree.Predicate)
	p.formatReturning(tree.Returning)
}

func (p *printer) formatDelete(tree *core.DeleteTree) {
	p.kw(token.DELETE, token.FROM)
	p.space()
	p.formatTableName(tree.Target)
	p.formatWhere(tree.Predicate)
	p.formatReturning(tree.Returning)
}

func (p *printer) formatAssignments(sets []core.SetClause) {
	p.formatList(len(sets), func(i int) {
		p.ident(sets[i].Column)
		p.write(" = ")
		p.formatExpr(sets[i].Value)
	}, ", ")
}

func (p *printer) formatWhere(pred core.Expr) {
	if pred == nil {
		return
	}
	p.space()
	p.kw(token.WHERE)
	p.space()
	p.formatExpr(pred)
}

func (p *printer) formatReturning(exprs []core.Expr) {
	if len(exprs) == 0 {
		return
	}
	if !p.require("RETURNING", dialect.VersionReturning) {
		return
	}
	p.space()
	p.kw(token.RETURNING)
	p.space()
	p.formatList(len(exprs), func(i int) { p.formatExpr(exprs[i]) }, ", ")
}
