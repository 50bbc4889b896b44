package provider

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/leapstack-labs/cratesql/pkg/core"
)

// Parameter is a bound command parameter.
type Parameter struct {
	Name  string
	Type  DbType
	Value any

	// Synthesized is set for parameters a generator created from a constant.
	Synthesized bool
}

// Command is a compiled SQL command: text plus ordered parameters.
type Command struct {
	Text        string
	Parameters  []*Parameter
	Placeholder core.PlaceholderStyle
}

// NewCommand returns an empty command using the given placeholder style.
func NewCommand(style core.PlaceholderStyle) *Command {
	return &Command{Placeholder: style}
}

// AddParameter appends p. Names must be valid identifiers and unique
// within a command.
func (c *Command) AddParameter(p *Parameter) error {
	if err := ValidateParameterName(p.Name); err != nil {
		return err
	}
	if c.IndexOf(p.Name) >= 0 {
		return &core.DuplicateParameterError{Name: p.Name}
	}
	c.Parameters = append(c.Parameters, p)
	return nil
}

// IndexOf returns the position of the named parameter, or -1.
func (c *Command) IndexOf(name string) int {
	for i, p := range c.Parameters {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the named parameter.
func (c *Command) Lookup(name string) (*Parameter, bool) {
	if i := c.IndexOf(name); i >= 0 {
		return c.Parameters[i], true
	}
	return nil, false
}

// SetValue assigns a value to a declared parameter.
func (c *Command) SetValue(name string, value any) error {
	p, ok := c.Lookup(name)
	if !ok {
		return &core.UndeclaredParameterError{Name: name}
	}
	p.Value = value
	return nil
}

// Args returns the parameter values in order, for positional placeholders.
func (c *Command) Args() []any {
	args := make([]any, len(c.Parameters))
	for i, p := range c.Parameters {
		args[i] = p.Value
	}
	return args
}

// NamedArgs returns the parameter values keyed by name, for commands using
// @name placeholders.
func (c *Command) NamedArgs() pgx.NamedArgs {
	args := make(pgx.NamedArgs, len(c.Parameters))
	for _, p := range c.Parameters {
		args[p.Name] = p.Value
	}
	return args
}

// ExecArgs returns the arguments to pass alongside Text to a pgx or
// database/sql call. Colon placeholders are not understood by any driver.
func (c *Command) ExecArgs() ([]any, error) {
	switch c.Placeholder {
	case core.PlaceholderDollar:
		return c.Args(), nil
	case core.PlaceholderAt:
		if len(c.Parameters) == 0 {
			return nil, nil
		}
		return []any{c.NamedArgs()}, nil
	default:
		return nil, fmt.Errorf("commands with %s placeholders cannot be executed directly; compile with the at or dollar style", c.Placeholder)
	}
}

// Clone returns a deep copy of the command.
func (c *Command) Clone() *Command {
	cp := &Command{Text: c.Text, Placeholder: c.Placeholder}
	cp.Parameters = make([]*Parameter, len(c.Parameters))
	for i, p := range c.Parameters {
		pc := *p
		cp.Parameters[i] = &pc
	}
	return cp
}

// CommandDefinition is a compiled command that hands out independent
// copies, so callers can set parameter values without sharing state.
type CommandDefinition struct {
	prototype *Command
}

// NewCommandDefinition wraps a compiled command.
func NewCommandDefinition(cmd *Command) *CommandDefinition {
	return &CommandDefinition{prototype: cmd.Clone()}
}

// CreateCommand returns a fresh copy of the compiled command.
func (d *CommandDefinition) CreateCommand() *Command {
	return d.prototype.Clone()
}
