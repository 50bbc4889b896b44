// Package core defines the shared language of the cratesql system.
//
// This package contains:
//   - Command trees (QueryTree, InsertTree, UpdateTree, DeleteTree)
//   - The expression and table-reference AST the trees are built from
//   - Primitive kinds and parameter declarations
//   - Dialect configuration data and the error kinds of compilation
//   - Service interfaces (Adapter) and configuration types
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
