// Package sqlgen compiles command trees into PostgreSQL-family SQL.
//
// New picks the generator matching the concrete command tree variant.
// Generators walk the tree, write the SQL text into a provider.Command and
// append any parameters they synthesize from constants. Version-gated
// constructs are decided against the Manifest passed in Options.
package sqlgen

import (
	"errors"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/provider"
)

// ErrManifestRequired is returned by New when Options has no manifest.
var ErrManifestRequired = errors.New("sqlgen: manifest is required")

// Options configures a generator.
type Options struct {
	// Manifest supplies the target dialect and server version.
	Manifest *dialect.Manifest

	// CreateParametersForConstants turns non-NULL constants of insert,
	// update and delete trees into synthesized parameters. Queries always
	// inline their constants.
	CreateParametersForConstants bool
}

// Generator writes the SQL for one command tree.
type Generator interface {
	// Name identifies the generator: "select", "insert", "update" or "delete".
	Name() string

	// BuildCommand sets cmd.Text and appends synthesized parameters. cmd
	// must already hold the tree's declared parameters. On error cmd is
	// left unchanged.
	BuildCommand(cmd *provider.Command) error

	// References returns the parameter names the last successful build
	// referenced, in order of first use.
	References() []string
}

// New returns the generator for tree.
func New(tree core.CommandTree, opts Options) (Generator, error) {
	if opts.Manifest == nil {
		return nil, ErrManifestRequired
	}

	switch t := tree.(type) {
	case *core.QueryTree:
		if t == nil {
			break
		}
		return &SelectGenerator{base: base{opts: opts}, tree: t}, nil
	case *core.InsertTree:
		if t == nil {
			break
		}
		return &InsertGenerator{base: base{opts: opts}, tree: t}, nil
	case *core.UpdateTree:
		if t == nil {
			break
		}
		return &UpdateGenerator{base: base{opts: opts}, tree: t}, nil
	case *core.DeleteTree:
		if t == nil {
			break
		}
		return &DeleteGenerator{base: base{opts: opts}, tree: t}, nil
	}
	return nil, &core.UnsupportedCommandTreeShapeError{Tree: tree}
}

// base holds what every generator shares.
type base struct {
	opts Options
	refs []string
}

// References implements Generator.
func (b *base) References() []string { return b.refs }

// build runs emit on a fresh printer and commits the result to cmd.
func (b *base) build(cmd *provider.Command, parameterize bool, emit func(p *printer)) error {
	if err := b.opts.Manifest.RequireSupported(); err != nil {
		return err
	}
	p := newPrinter(b.opts.Manifest, cmd, parameterize)
	emit(p)
	if err := p.commit(cmd); err != nil {
		return err
	}
	b.refs = p.refs
	return nil
}
