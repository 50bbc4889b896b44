// Package services is the entry point for compiling command trees.
//
// A Services value binds a tree's declared parameters, dispatches it to the
// matching sqlgen generator for a server version and returns the finished
// command. It also answers the provider questions a data-access framework
// asks around compilation: which manifest applies to a version hint, which
// hint a live server reports, and the database lifecycle stubs.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-version"

	"github.com/leapstack-labs/cratesql/pkg/core"
	"github.com/leapstack-labs/cratesql/pkg/dialect"
	"github.com/leapstack-labs/cratesql/pkg/dialects/postgres"
	"github.com/leapstack-labs/cratesql/pkg/provider"
	"github.com/leapstack-labs/cratesql/pkg/sqlgen"
)

// ErrNoVersionSource is returned by ProviderManifestToken when no
// VersionSource was configured.
var ErrNoVersionSource = errors.New("services: no version source configured")

// VersionSource reports the version string of the server behind a target.
// Implementations own the connection they open for it.
type VersionSource interface {
	DiscoverVersionHint(ctx context.Context, target core.AdapterConfig) (string, error)
}

// Services compiles command trees. It holds no per-call state and is safe
// for concurrent use.
type Services struct {
	logger       *slog.Logger
	dialect      *dialect.Dialect
	placeholder  core.PlaceholderStyle
	styleSet     bool
	parameterize bool
	versions     VersionSource
}

// Option configures Services.
type Option func(*Services)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Services) {
		s.logger = logger
	}
}

// WithDialect sets the target dialect. The default is PostgreSQL.
func WithDialect(d *dialect.Dialect) Option {
	return func(s *Services) {
		s.dialect = d
	}
}

// WithPlaceholder overrides the dialect's placeholder style for commands
// created by CreateCommand and CreateCommandDefinition.
func WithPlaceholder(style core.PlaceholderStyle) Option {
	return func(s *Services) {
		s.placeholder = style
		s.styleSet = true
	}
}

// WithParameterizeConstants controls whether constants in insert, update
// and delete trees become parameters. It defaults to true.
func WithParameterizeConstants(on bool) Option {
	return func(s *Services) {
		s.parameterize = on
	}
}

// WithVersionSource sets the collaborator used by ProviderManifestToken.
func WithVersionSource(src VersionSource) Option {
	return func(s *Services) {
		s.versions = src
	}
}

// New creates a Services value.
func New(opts ...Option) *Services {
	s := &Services{parameterize: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.dialect == nil {
		s.dialect = postgres.Postgres
	}
	if !s.styleSet {
		s.placeholder = s.dialect.Placeholder
	}
	return s
}

// Dialect returns the target dialect.
func (s *Services) Dialect() *dialect.Dialect {
	return s.dialect
}

// CreateCommand compiles tree for a server of version v. On failure the
// returned command is nil.
func (s *Services) CreateCommand(v *version.Version, tree core.CommandTree) (*provider.Command, error) {
	if core.IsNil(tree) {
		return nil, core.ErrNullCommandTree
	}
	if v == nil {
		return nil, core.ErrNullVersionHint
	}

	cmd := provider.NewCommand(s.placeholder)
	if err := s.TranslateCommandTree(dialect.ForDialectVersion(s.dialect, v), tree, cmd, s.parameterize); err != nil {
		return nil, err
	}
	return cmd, nil
}

// CreateCommandDefinition compiles tree against manifest and wraps the
// result so every use gets its own copy.
func (s *Services) CreateCommandDefinition(manifest *dialect.Manifest, tree core.CommandTree) (*provider.CommandDefinition, error) {
	cmd := provider.NewCommand(s.placeholder)
	if err := s.TranslateCommandTree(manifest, tree, cmd, s.parameterize); err != nil {
		return nil, err
	}
	return provider.NewCommandDefinition(cmd), nil
}

// TranslateCommandTree compiles tree into cmd. The tree's declared
// parameters are appended to cmd's, followed by any parameters synthesized
// from constants when createParametersForNonSelect is set. cmd is only
// modified when translation succeeds.
func (s *Services) TranslateCommandTree(manifest *dialect.Manifest, tree core.CommandTree, cmd *provider.Command, createParametersForNonSelect bool) error {
	if core.IsNil(tree) {
		return core.ErrNullCommandTree
	}
	if manifest == nil || manifest.Version == nil {
		return core.ErrNullVersionHint
	}

	params, err := provider.BindParameters(tree)
	if err != nil {
		return err
	}

	work := cmd.Clone()
	for _, p := range params {
		if err := work.AddParameter(p); err != nil {
			return err
		}
	}

	gen, err := sqlgen.New(tree, sqlgen.Options{
		Manifest:                     manifest,
		CreateParametersForConstants: createParametersForNonSelect,
	})
	if err != nil {
		return err
	}
	if err := gen.BuildCommand(work); err != nil {
		return fmt.Errorf("%s: %w", gen.Name(), err)
	}
	if err := checkBinding(params, gen.References()); err != nil {
		return err
	}

	s.logger.Debug("compiled command tree",
		slog.String("kind", core.KindOf(tree)),
		slog.String("generator", gen.Name()),
		slog.String("version", manifest.Version.String()),
		slog.Int("params", len(work.Parameters)))

	*cmd = *work
	return nil
}

// checkBinding fails when a declared parameter never appears in the text.
func checkBinding(declared []*provider.Parameter, refs []string) error {
	used := make(map[string]struct{}, len(refs))
	for _, name := range refs {
		used[name] = struct{}{}
	}
	for _, p := range declared {
		if _, ok := used[p.Name]; !ok {
			return &core.OrphanParameterError{Name: p.Name}
		}
	}
	return nil
}

// ProviderManifest resolves a version hint against the target dialect.
func (s *Services) ProviderManifest(hint string) (*dialect.Manifest, error) {
	return dialect.ResolveFor(s.dialect, hint)
}

// ProviderManifestToken asks the configured VersionSource for the version
// hint of the server behind target.
func (s *Services) ProviderManifestToken(ctx context.Context, target core.AdapterConfig) (string, error) {
	if s.versions == nil {
		return "", ErrNoVersionSource
	}
	hint, err := s.versions.DiscoverVersionHint(ctx, target)
	if err != nil {
		return "", fmt.Errorf("discover server version: %w", err)
	}
	s.logger.Debug("discovered server version", slog.String("hint", hint), slog.String("host", target.Host))
	return hint, nil
}

// DatabaseExists always reports true. CrateDB has no per-connection
// database lifecycle.
func (s *Services) DatabaseExists(_ context.Context, _ core.AdapterConfig) bool {
	return true
}

// CreateDatabase does nothing.
func (s *Services) CreateDatabase(_ context.Context, _ core.AdapterConfig) {}

// DeleteDatabase does nothing.
func (s *Services) DeleteDatabase(_ context.Context, _ core.AdapterConfig) {}
