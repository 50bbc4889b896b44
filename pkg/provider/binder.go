package provider

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/cratesql/pkg/core"
)

var parameterName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateParameterName fails with core.ErrInvalidCommandTree unless name
// is a plain identifier. Names are written into the SQL text verbatim.
func ValidateParameterName(name string) error {
	if !parameterName.MatchString(name) {
		return fmt.Errorf("%w: invalid parameter name %q", core.ErrInvalidCommandTree, name)
	}
	return nil
}

// BindParameters creates one parameter per declaration of tree, in
// declaration order.
func BindParameters(tree core.CommandTree) ([]*Parameter, error) {
	if core.IsNil(tree) {
		return nil, core.ErrNullCommandTree
	}

	decls := tree.Parameters()
	params := make([]*Parameter, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))
	for _, decl := range decls {
		if err := ValidateParameterName(decl.Name); err != nil {
			return nil, err
		}
		if _, dup := seen[decl.Name]; dup {
			return nil, &core.DuplicateParameterError{Name: decl.Name}
		}
		seen[decl.Name] = struct{}{}

		typ, err := MapPrimitive(decl.Type.Kind)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", decl.Name, err)
		}
		params = append(params, &Parameter{Name: decl.Name, Type: typ})
	}
	return params, nil
}
