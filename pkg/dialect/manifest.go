package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/leapstack-labs/cratesql/pkg/core"
)

// Server versions at which version-gated constructs become available.
const (
	VersionReturning  = "8.2.0" // INSERT/UPDATE/DELETE ... RETURNING
	VersionFetchFirst = "8.4.0" // OFFSET n ROWS FETCH FIRST m ROWS ONLY
	VersionOnConflict = "9.5.0" // INSERT ... ON CONFLICT
)

// Manifest describes what a given server release of a dialect can do.
// It is not modified after creation.
type Manifest struct {
	Hint    string
	Version *version.Version
	Dialect *Dialect
}

// InvalidVersionHintError is returned when a version hint cannot be parsed.
type InvalidVersionHintError struct {
	Hint string
	Err  error
}

func (e *InvalidVersionHintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid version hint %q: %v", e.Hint, e.Err)
	}
	return fmt.Sprintf("invalid version hint %q", e.Hint)
}

func (e *InvalidVersionHintError) Unwrap() error { return e.Err }

// leadingVersion matches the release number at the start of a server
// version string, optionally after a product name ("PostgreSQL 14.1 on ...").
var leadingVersion = regexp.MustCompile(`^(?:[A-Za-z]+\s+)?(\d+(?:\.\d+)*)`)

// NormalizeHint extracts the dotted release number from a server version
// string such as "10.5 (Ubuntu 10.5-1)". It returns "" when none is found.
func NormalizeHint(hint string) string {
	m := leadingVersion.FindStringSubmatch(strings.TrimSpace(hint))
	if m == nil {
		return ""
	}
	return m[1]
}

// Resolve builds a manifest for the default dialect from a version hint.
func Resolve(hint string) (*Manifest, error) {
	return ResolveFor(nil, hint)
}

// ResolveFor builds a manifest for d from a version hint. A nil dialect
// means the default dialect.
func ResolveFor(d *Dialect, hint string) (*Manifest, error) {
	if strings.TrimSpace(hint) == "" {
		return nil, core.ErrNullVersionHint
	}
	normalized := NormalizeHint(hint)
	if normalized == "" {
		return nil, &InvalidVersionHintError{Hint: hint}
	}
	v, err := version.NewVersion(normalized)
	if err != nil {
		return nil, &InvalidVersionHintError{Hint: hint, Err: err}
	}
	return &Manifest{Hint: hint, Version: v, Dialect: orDefault(d)}, nil
}

// ForVersion builds a manifest for the default dialect directly from a
// version value.
func ForVersion(v *version.Version) *Manifest {
	return ForDialectVersion(nil, v)
}

// ForDialectVersion builds a manifest for d from a version value. A nil
// dialect means the default dialect.
func ForDialectVersion(d *Dialect, v *version.Version) *Manifest {
	return &Manifest{Hint: v.Original(), Version: v, Dialect: orDefault(d)}
}

func orDefault(d *Dialect) *Dialect {
	if d != nil {
		return d
	}
	return Default()
}

// AtLeast reports whether the server version is at or above threshold.
// An unparseable threshold is never reached.
func (m *Manifest) AtLeast(threshold string) bool {
	t, err := version.NewVersion(threshold)
	if err != nil {
		return false
	}
	return m.Version.GreaterThanOrEqual(t)
}

// Below reports whether the server version is below threshold.
func (m *Manifest) Below(threshold string) bool {
	return !m.AtLeast(threshold)
}

// SupportsReturning reports whether DML statements may carry RETURNING.
func (m *Manifest) SupportsReturning() bool { return m.AtLeast(VersionReturning) }

// SupportsFetchFirst reports whether the standard OFFSET/FETCH FIRST
// pagination is available.
func (m *Manifest) SupportsFetchFirst() bool { return m.AtLeast(VersionFetchFirst) }

// SupportsOnConflict reports whether INSERT ... ON CONFLICT is available.
func (m *Manifest) SupportsOnConflict() bool { return m.AtLeast(VersionOnConflict) }

// Supported reports whether the server is at or above the oldest release
// the dialect targets.
func (m *Manifest) Supported() bool {
	return m.RequireSupported() == nil
}

// RequireSupported fails with an *core.UnsupportedOnServerVersionError when
// the server is older than the dialect's MinServerVersion.
func (m *Manifest) RequireSupported() error {
	if m.Dialect == nil || m.Dialect.MinServerVersion == "" {
		return nil
	}
	return m.Require("the "+m.Dialect.Name+" dialect", m.Dialect.MinServerVersion)
}

// Require returns an *core.UnsupportedOnServerVersionError when the server
// is below threshold.
func (m *Manifest) Require(feature, threshold string) error {
	if m.AtLeast(threshold) {
		return nil
	}
	return &core.UnsupportedOnServerVersionError{
		Feature:  feature,
		Required: threshold,
		Actual:   m.Version.String(),
	}
}
