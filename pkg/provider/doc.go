// Package provider holds the provider side of a compiled command: the
// PostgreSQL parameter types, bound parameters, and the command object the
// SQL generators populate.
package provider
