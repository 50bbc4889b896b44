package core

import (
	"errors"
	"fmt"
)

// Error kinds of command compilation. Typed errors below unwrap to these so
// callers can test with errors.Is.
var (
	ErrNullCommandTree             = errors.New("command tree is nil")
	ErrNullVersionHint             = errors.New("version hint is empty")
	ErrUnsupportedCommandTreeShape = errors.New("unsupported command tree shape")
	ErrUnsupportedTypeKind         = errors.New("unsupported primitive type kind")
	ErrUnsupportedOnServerVersion  = errors.New("feature not supported on server version")
	ErrDuplicateParameter          = errors.New("duplicate parameter")
	ErrUndeclaredParameter         = errors.New("undeclared parameter")
	ErrOrphanParameter             = errors.New("orphan parameter")
	ErrInvalidCommandTree          = errors.New("invalid command tree")
)

// UnsupportedTypeKindError is returned when a primitive kind has no provider type.
type UnsupportedTypeKindError struct {
	Kind PrimitiveKind
}

func (e *UnsupportedTypeKindError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnsupportedTypeKind, e.Kind)
}

// Unwrap returns ErrUnsupportedTypeKind.
func (e *UnsupportedTypeKindError) Unwrap() error { return ErrUnsupportedTypeKind }

// UnsupportedCommandTreeShapeError is returned for a tree that is none of the
// known variants.
type UnsupportedCommandTreeShapeError struct {
	Tree CommandTree
}

func (e *UnsupportedCommandTreeShapeError) Error() string {
	return fmt.Sprintf("%v: %T", ErrUnsupportedCommandTreeShape, e.Tree)
}

// Unwrap returns ErrUnsupportedCommandTreeShape.
func (e *UnsupportedCommandTreeShapeError) Unwrap() error { return ErrUnsupportedCommandTreeShape }

// UnsupportedOnServerVersionError is returned when a construct needs a newer server.
type UnsupportedOnServerVersionError struct {
	Feature  string
	Required string
	Actual   string
}

func (e *UnsupportedOnServerVersionError) Error() string {
	return fmt.Sprintf("%s requires server version %s or later (have %s)", e.Feature, e.Required, e.Actual)
}

// Unwrap returns ErrUnsupportedOnServerVersion.
func (e *UnsupportedOnServerVersionError) Unwrap() error { return ErrUnsupportedOnServerVersion }

// DuplicateParameterError is returned when a tree declares a name twice.
type DuplicateParameterError struct {
	Name string
}

func (e *DuplicateParameterError) Error() string {
	return fmt.Sprintf("%v %q", ErrDuplicateParameter, e.Name)
}

// Unwrap returns ErrDuplicateParameter.
func (e *DuplicateParameterError) Unwrap() error { return ErrDuplicateParameter }

// UndeclaredParameterError is returned when an expression references a
// parameter the tree does not declare.
type UndeclaredParameterError struct {
	Name string
}

func (e *UndeclaredParameterError) Error() string {
	return fmt.Sprintf("%v %q", ErrUndeclaredParameter, e.Name)
}

// Unwrap returns ErrUndeclaredParameter.
func (e *UndeclaredParameterError) Unwrap() error { return ErrUndeclaredParameter }

// OrphanParameterError is returned when a declared parameter is never
// referenced by the generated SQL.
type OrphanParameterError struct {
	Name string
}

func (e *OrphanParameterError) Error() string {
	return fmt.Sprintf("%v %q: declared but not referenced", ErrOrphanParameter, e.Name)
}

// Unwrap returns ErrOrphanParameter.
func (e *OrphanParameterError) Unwrap() error { return ErrOrphanParameter }
