// Package treefile reads command trees from YAML documents.
//
// A document describes one tree:
//
//	kind: insert
//	params:
//	  - {name: id, type: int32}
//	target: {name: orders}
//	set:
//	  - {column: id, value: {param: id}}
//	  - {column: total, value: {const: "19.99", type: decimal}}
//
// Expressions are maps with one discriminating key: col, const, null, param,
// binary, unary, func, case, cast, in, between, is_null, like, exists or
// subquery. A file may hold several documents separated by "---".
package treefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/cratesql/pkg/core"
)

// Document is a decoded command tree together with its origin.
type Document struct {
	// Name is the document's name field, or "<file>#<index>".
	Name string
	Tree core.CommandTree
}

// ParseError reports a document that could not be turned into a tree.
type ParseError struct {
	File  string
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: document %d: %v", e.File, e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadFile decodes every document in path.
func ReadFile(path string) ([]Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user on the command line
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse decodes every document in data. file names the source in errors.
func Parse(file string, data []byte) ([]Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var docs []Document
	for i := 0; ; i++ {
		var raw treeDoc
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{File: file, Index: i, Err: err}
		}

		tree, err := raw.build()
		if err != nil {
			return nil, &ParseError{File: file, Index: i, Err: err}
		}

		name := raw.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", file, i)
		}
		docs = append(docs, Document{Name: name, Tree: tree})
	}
	return docs, nil
}
