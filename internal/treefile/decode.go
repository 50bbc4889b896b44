package treefile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/token"
)

type treeDoc struct {
	Name       string       `yaml:"name"`
	Kind       string       `yaml:"kind"`
	Params     []paramDoc   `yaml:"params"`
	Query      *selectDoc   `yaml:"query"`
	Target     *tableDoc    `yaml:"target"`
	Set        []setDoc     `yaml:"set"`
	Where      *exprDoc     `yaml:"where"`
	Returning  []*exprDoc   `yaml:"returning"`
	OnConflict *conflictDoc `yaml:"on_conflict"`
}

type paramDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

type tableDoc struct {
	Schema string `yaml:"schema"`
	Name   string `yaml:"name"`
	Alias  string `yaml:"alias"`
}

type setDoc struct {
	Column string   `yaml:"column"`
	Value  *exprDoc `yaml:"value"`
}

type conflictDoc struct {
	Columns []string `yaml:"columns"`
	Update  []setDoc `yaml:"update"`
}

type selectDoc struct {
	Distinct bool       `yaml:"distinct"`
	Columns  []itemDoc  `yaml:"columns"`
	From     *fromDoc   `yaml:"from"`
	Where    *exprDoc   `yaml:"where"`
	GroupBy  []*exprDoc `yaml:"group_by"`
	Having   *exprDoc   `yaml:"having"`
	OrderBy  []orderDoc `yaml:"order_by"`
	Limit    *exprDoc   `yaml:"limit"`
	Offset   *exprDoc   `yaml:"offset"`
}

type itemDoc struct {
	Star      bool     `yaml:"star"`
	TableStar string   `yaml:"table_star"`
	Expr      *exprDoc `yaml:"expr"`
	As        string   `yaml:"as"`
}

type tableRefDoc struct {
	Table  *tableDoc  `yaml:"table"`
	Select *selectDoc `yaml:"select"`
	Alias  string     `yaml:"alias"`
}

type fromDoc struct {
	tableRefDoc `yaml:",inline"`
	Joins       []joinDoc `yaml:"joins"`
}

type joinDoc struct {
	Type        string `yaml:"type"`
	tableRefDoc `yaml:",inline"`
	On          *exprDoc `yaml:"on"`
}

type orderDoc struct {
	Expr  *exprDoc `yaml:"expr"`
	Desc  bool     `yaml:"desc"`
	Nulls string   `yaml:"nulls"`
}

type exprDoc struct {
	Col      string      `yaml:"col"`
	Table    string      `yaml:"table"`
	Const    any         `yaml:"const"`
	Null     bool        `yaml:"null"`
	Type     string      `yaml:"type"`
	Param    string      `yaml:"param"`
	Binary   *binaryDoc  `yaml:"binary"`
	Unary    *unaryDoc   `yaml:"unary"`
	Func     *funcDoc    `yaml:"func"`
	Case     *caseDoc    `yaml:"case"`
	Cast     *castDoc    `yaml:"cast"`
	In       *inDoc      `yaml:"in"`
	Between  *betweenDoc `yaml:"between"`
	IsNull   *negDoc     `yaml:"is_null"`
	Like     *likeDoc    `yaml:"like"`
	Exists   *existsDoc  `yaml:"exists"`
	Subquery *selectDoc  `yaml:"subquery"`
}

type binaryDoc struct {
	Op    string   `yaml:"op"`
	Left  *exprDoc `yaml:"left"`
	Right *exprDoc `yaml:"right"`
}

type unaryDoc struct {
	Op   string   `yaml:"op"`
	Expr *exprDoc `yaml:"expr"`
}

type funcDoc struct {
	Name     string     `yaml:"name"`
	Distinct bool       `yaml:"distinct"`
	Star     bool       `yaml:"star"`
	Args     []*exprDoc `yaml:"args"`
}

type caseDoc struct {
	Operand *exprDoc  `yaml:"operand"`
	When    []whenDoc `yaml:"when"`
	Else    *exprDoc  `yaml:"else"`
}

type whenDoc struct {
	Cond *exprDoc `yaml:"cond"`
	Then *exprDoc `yaml:"then"`
}

type castDoc struct {
	Expr *exprDoc `yaml:"expr"`
	Type string   `yaml:"type"`
}

type inDoc struct {
	Expr   *exprDoc   `yaml:"expr"`
	Not    bool       `yaml:"not"`
	Values []*exprDoc `yaml:"values"`
	Query  *selectDoc `yaml:"query"`
}

type betweenDoc struct {
	Expr *exprDoc `yaml:"expr"`
	Not  bool     `yaml:"not"`
	Low  *exprDoc `yaml:"low"`
	High *exprDoc `yaml:"high"`
}

type negDoc struct {
	Expr *exprDoc `yaml:"expr"`
	Not  bool     `yaml:"not"`
}

type likeDoc struct {
	Expr    *exprDoc `yaml:"expr"`
	Not     bool     `yaml:"not"`
	Pattern *exprDoc `yaml:"pattern"`
	CI      bool     `yaml:"ci"`
}

type existsDoc struct {
	Not   bool       `yaml:"not"`
	Query *selectDoc `yaml:"query"`
}

var errMissingExpr = errors.New("missing expression")

func (d *treeDoc) build() (core.CommandTree, error) {
	params, err := buildParams(d.Params)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(d.Kind) {
	case "query", "select":
		if d.Query == nil {
			return nil, errors.New("query tree needs a query")
		}
		q, err := d.Query.build()
		if err != nil {
			return nil, err
		}
		return &core.QueryTree{Params: params, Query: q}, nil

	case "insert":
		target, sets, err := d.dmlParts()
		if err != nil {
			return nil, err
		}
		tree := &core.InsertTree{Params: params, Target: target, SetClauses: sets}
		if d.OnConflict != nil {
			updates, err := buildSets(d.OnConflict.Update)
			if err != nil {
				return nil, fmt.Errorf("on_conflict: %w", err)
			}
			tree.OnConflict = &core.OnConflict{Columns: d.OnConflict.Columns, Updates: updates}
		}
		if tree.Returning, err = buildExprs(d.Returning); err != nil {
			return nil, fmt.Errorf("returning: %w", err)
		}
		return tree, nil

	case "update":
		target, sets, err := d.dmlParts()
		if err != nil {
			return nil, err
		}
		tree := &core.UpdateTree{Params: params, Target: target, SetClauses: sets}
		if tree.Predicate, err = buildOptional(d.Where); err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		if tree.Returning, err = buildExprs(d.Returning); err != nil {
			return nil, fmt.Errorf("returning: %w", err)
		}
		return tree, nil

	case "delete":
		target, _, err := d.dmlParts()
		if err != nil {
			return nil, err
		}
		tree := &core.DeleteTree{Params: params, Target: target}
		if tree.Predicate, err = buildOptional(d.Where); err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		if tree.Returning, err = buildExprs(d.Returning); err != nil {
			return nil, fmt.Errorf("returning: %w", err)
		}
		return tree, nil

	case "":
		return nil, errors.New("kind is required")
	default:
		return nil, fmt.Errorf("unknown kind %q", d.Kind)
	}
}

func (d *treeDoc) dmlParts() (*core.TableName, []core.SetClause, error) {
	if d.Target == nil {
		return nil, nil, fmt.Errorf("%s tree needs a target", d.Kind)
	}
	if d.Query != nil {
		return nil, nil, fmt.Errorf("%s tree does not take a query", d.Kind)
	}
	if strings.EqualFold(d.Kind, "delete") && len(d.Set) > 0 {
		return nil, nil, errors.New("delete tree does not take set")
	}
	sets, err := buildSets(d.Set)
	if err != nil {
		return nil, nil, fmt.Errorf("set: %w", err)
	}
	return d.Target.build(), sets, nil
}

func buildParams(docs []paramDoc) ([]core.ParameterDecl, error) {
	params := make([]core.ParameterDecl, 0, len(docs))
	for _, p := range docs {
		if p.Name == "" {
			return nil, errors.New("parameter without name")
		}
		kind, ok := core.ParsePrimitiveKind(p.Type)
		if !ok {
			return nil, fmt.Errorf("parameter %q: unknown type %q", p.Name, p.Type)
		}
		params = append(params, core.ParameterDecl{
			Name: p.Name,
			Type: core.TypeUsage{Kind: kind, Nullable: p.Nullable},
		})
	}
	return params, nil
}

func buildSets(docs []setDoc) ([]core.SetClause, error) {
	sets := make([]core.SetClause, 0, len(docs))
	for _, s := range docs {
		if s.Column == "" {
			return nil, errors.New("assignment without column")
		}
		v, err := s.Value.build()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", s.Column, err)
		}
		sets = append(sets, core.SetClause{Column: s.Column, Value: v})
	}
	return sets, nil
}

func (t *tableDoc) build() *core.TableName {
	return &core.TableName{Schema: t.Schema, Name: t.Name, Alias: t.Alias}
}

func (s *selectDoc) build() (*core.SelectStmt, error) {
	stmt := &core.SelectStmt{Distinct: s.Distinct}

	for i, item := range s.Columns {
		si := core.SelectItem{Star: item.Star, TableStar: item.TableStar, Alias: item.As}
		if !item.Star && item.TableStar == "" {
			e, err := item.Expr.build()
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			si.Expr = e
		}
		stmt.Columns = append(stmt.Columns, si)
	}

	if s.From != nil {
		src, err := s.From.build()
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		stmt.From = &core.FromClause{Source: src}
		for i, j := range s.From.Joins {
			right, err := j.build()
			if err != nil {
				return nil, fmt.Errorf("join %d: %w", i, err)
			}
			on, err := buildOptional(j.On)
			if err != nil {
				return nil, fmt.Errorf("join %d: %w", i, err)
			}
			stmt.From.Joins = append(stmt.From.Joins, &core.Join{
				Type:      core.JoinType(strings.ToUpper(j.Type)),
				Right:     right,
				Condition: on,
			})
		}
	}

	var err error
	if stmt.Where, err = buildOptional(s.Where); err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	if stmt.GroupBy, err = buildExprs(s.GroupBy); err != nil {
		return nil, fmt.Errorf("group_by: %w", err)
	}
	if stmt.Having, err = buildOptional(s.Having); err != nil {
		return nil, fmt.Errorf("having: %w", err)
	}
	for i, o := range s.OrderBy {
		e, err := o.Expr.build()
		if err != nil {
			return nil, fmt.Errorf("order_by %d: %w", i, err)
		}
		item := core.OrderByItem{Expr: e, Desc: o.Desc}
		switch strings.ToLower(o.Nulls) {
		case "":
		case "first":
			first := true
			item.NullsFirst = &first
		case "last":
			first := false
			item.NullsFirst = &first
		default:
			return nil, fmt.Errorf("order_by %d: nulls must be first or last, got %q", i, o.Nulls)
		}
		stmt.OrderBy = append(stmt.OrderBy, item)
	}
	if stmt.Limit, err = buildOptional(s.Limit); err != nil {
		return nil, fmt.Errorf("limit: %w", err)
	}
	if stmt.Offset, err = buildOptional(s.Offset); err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	return stmt, nil
}

func (r *tableRefDoc) build() (core.TableRef, error) {
	switch {
	case r.Table != nil && r.Select != nil:
		return nil, errors.New("table and select are exclusive")
	case r.Table != nil:
		t := r.Table.build()
		if r.Alias != "" {
			t.Alias = r.Alias
		}
		return t, nil
	case r.Select != nil:
		sel, err := r.Select.build()
		if err != nil {
			return nil, err
		}
		return &core.DerivedTable{Select: sel, Alias: r.Alias}, nil
	default:
		return nil, errors.New("table or select is required")
	}
}

func buildOptional(e *exprDoc) (core.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return e.build()
}

func buildExprs(docs []*exprDoc) ([]core.Expr, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	exprs := make([]core.Expr, len(docs))
	for i, d := range docs {
		e, err := d.build()
		if err != nil {
			return nil, fmt.Errorf("%d: %w", i, err)
		}
		exprs[i] = e
	}
	return exprs, nil
}

func (e *exprDoc) variants() int {
	n := 0
	for _, set := range []bool{
		e.Col != "", e.Const != nil, e.Null, e.Param != "",
		e.Binary != nil, e.Unary != nil, e.Func != nil, e.Case != nil,
		e.Cast != nil, e.In != nil, e.Between != nil, e.IsNull != nil,
		e.Like != nil, e.Exists != nil, e.Subquery != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func (e *exprDoc) build() (core.Expr, error) {
	if e == nil {
		return nil, errMissingExpr
	}
	if n := e.variants(); n != 1 {
		return nil, fmt.Errorf("expression needs exactly one of col, const, null, param, binary, unary, func, case, cast, in, between, is_null, like, exists, subquery (got %d)", n)
	}

	switch {
	case e.Col != "":
		return &core.ColumnRef{Table: e.Table, Column: e.Col}, nil
	case e.Null:
		kind := core.KindString
		if e.Type != "" {
			k, ok := core.ParsePrimitiveKind(e.Type)
			if !ok {
				return nil, fmt.Errorf("unknown type %q", e.Type)
			}
			kind = k
		}
		return &core.Constant{Kind: kind}, nil
	case e.Const != nil:
		return buildConstant(e.Const, e.Type)
	case e.Param != "":
		return &core.ParamRef{Name: e.Param}, nil
	case e.Binary != nil:
		op, ok := token.LookupOperator(e.Binary.Op)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", e.Binary.Op)
		}
		l, err := e.Binary.Left.build()
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		r, err := e.Binary.Right.build()
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		return &core.BinaryExpr{Left: l, Op: op, Right: r}, nil
	case e.Unary != nil:
		op, ok := token.LookupOperator(e.Unary.Op)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", e.Unary.Op)
		}
		inner, err := e.Unary.Expr.build()
		if err != nil {
			return nil, err
		}
		return &core.UnaryExpr{Op: op, Expr: inner}, nil
	case e.Func != nil:
		args, err := buildExprs(e.Func.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Func.Name, err)
		}
		return &core.FuncCall{Name: e.Func.Name, Distinct: e.Func.Distinct, Star: e.Func.Star, Args: args}, nil
	case e.Case != nil:
		return e.Case.build()
	case e.Cast != nil:
		inner, err := e.Cast.Expr.build()
		if err != nil {
			return nil, err
		}
		if e.Cast.Type == "" {
			return nil, errors.New("cast needs a type")
		}
		return &core.CastExpr{Expr: inner, TypeName: e.Cast.Type}, nil
	case e.In != nil:
		return e.In.build()
	case e.Between != nil:
		inner, err := e.Between.Expr.build()
		if err != nil {
			return nil, err
		}
		low, err := e.Between.Low.build()
		if err != nil {
			return nil, fmt.Errorf("low: %w", err)
		}
		high, err := e.Between.High.build()
		if err != nil {
			return nil, fmt.Errorf("high: %w", err)
		}
		return &core.BetweenExpr{Expr: inner, Not: e.Between.Not, Low: low, High: high}, nil
	case e.IsNull != nil:
		inner, err := e.IsNull.Expr.build()
		if err != nil {
			return nil, err
		}
		return &core.IsNullExpr{Expr: inner, Not: e.IsNull.Not}, nil
	case e.Like != nil:
		inner, err := e.Like.Expr.build()
		if err != nil {
			return nil, err
		}
		pattern, err := e.Like.Pattern.build()
		if err != nil {
			return nil, fmt.Errorf("pattern: %w", err)
		}
		return &core.LikeExpr{Expr: inner, Not: e.Like.Not, Pattern: pattern, CaseInsensitive: e.Like.CI}, nil
	case e.Exists != nil:
		if e.Exists.Query == nil {
			return nil, errors.New("exists needs a query")
		}
		sel, err := e.Exists.Query.build()
		if err != nil {
			return nil, err
		}
		return &core.ExistsExpr{Not: e.Exists.Not, Select: sel}, nil
	default:
		sel, err := e.Subquery.build()
		if err != nil {
			return nil, err
		}
		return &core.SubqueryExpr{Select: sel}, nil
	}
}

func (c *caseDoc) build() (core.Expr, error) {
	expr := &core.CaseExpr{}
	var err error
	if expr.Operand, err = buildOptional(c.Operand); err != nil {
		return nil, fmt.Errorf("operand: %w", err)
	}
	for i, w := range c.When {
		cond, err := w.Cond.build()
		if err != nil {
			return nil, fmt.Errorf("when %d: %w", i, err)
		}
		then, err := w.Then.build()
		if err != nil {
			return nil, fmt.Errorf("then %d: %w", i, err)
		}
		expr.Whens = append(expr.Whens, core.WhenClause{Condition: cond, Result: then})
	}
	if expr.Else, err = buildOptional(c.Else); err != nil {
		return nil, fmt.Errorf("else: %w", err)
	}
	return expr, nil
}

func (d *inDoc) build() (core.Expr, error) {
	inner, err := d.Expr.build()
	if err != nil {
		return nil, err
	}
	expr := &core.InExpr{Expr: inner, Not: d.Not}
	if d.Query != nil {
		if expr.Query, err = d.Query.build(); err != nil {
			return nil, err
		}
		return expr, nil
	}
	if expr.Values, err = buildExprs(d.Values); err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	return expr, nil
}

// buildConstant converts a YAML scalar into a constant of the named type.
// Without a type the kind follows the scalar.
func buildConstant(v any, typeName string) (*core.Constant, error) {
	if typeName == "" {
		kind, err := inferKind(v)
		if err != nil {
			return nil, err
		}
		return &core.Constant{Kind: kind, Value: v}, nil
	}

	kind, ok := core.ParsePrimitiveKind(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
	value, err := convertValue(kind, v)
	if err != nil {
		return nil, err
	}
	return &core.Constant{Kind: kind, Value: value}, nil
}

func inferKind(v any) (core.PrimitiveKind, error) {
	switch n := v.(type) {
	case bool:
		return core.KindBoolean, nil
	case int:
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return core.KindInt32, nil
		}
		return core.KindInt64, nil
	case float64:
		return core.KindDouble, nil
	case string:
		return core.KindString, nil
	case time.Time:
		return core.KindDateTime, nil
	}
	return core.KindInvalid, fmt.Errorf("cannot infer a type for %T constant", v)
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02"}

func convertValue(kind core.PrimitiveKind, v any) (any, error) {
	switch kind {
	case core.KindSingle, core.KindDouble:
		if n, ok := v.(int); ok {
			return float64(n), nil
		}
	case core.KindBinary:
		if s, ok := v.(string); ok {
			b, err := hex.DecodeString(strings.TrimPrefix(s, `\x`))
			if err != nil {
				return nil, fmt.Errorf("binary constant: %w", err)
			}
			return b, nil
		}
	case core.KindDateTime, core.KindDateTimeOffset:
		if s, ok := v.(string); ok {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("cannot parse %q as a timestamp", s)
		}
	case core.KindGuid:
		if s, ok := v.(string); ok {
			u, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("guid constant: %w", err)
			}
			return u, nil
		}
	case core.KindTime:
		switch d := v.(type) {
		case string:
			parsed, err := time.ParseDuration(d)
			if err != nil {
				return nil, fmt.Errorf("time constant: %w", err)
			}
			return parsed, nil
		case int:
			return time.Duration(d) * time.Second, nil
		}
	}
	return v, nil
}
