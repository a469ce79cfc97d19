/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"net/http"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/dgraph-io/gqlparser/v2/validator"
	_ "github.com/dgraph-io/gqlparser/v2/validator/rules" // register the validation rules via init()
	"github.com/pkg/errors"
)

// A Request represents a GraphQL request. It makes no guarantees that the
// request is valid.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
	Header        http.Header
}

// Operation validates the request against the schema and returns the
// single operation to execute. Zero operations or an ambiguous operation
// name is an error.
func (s *schema) Operation(r *Request) (Operation, error) {
	if r == nil || r.Query == "" {
		return nil, errors.New("no query string supplied in request")
	}

	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: r.Query})
	if gqlErr != nil {
		return nil, gqlErr
	}

	listErr := validator.Validate(s.schema, doc, r.Variables)
	if len(listErr) != 0 {
		return nil, listErr
	}

	op := doc.Operations.ForName(r.OperationName)
	if op == nil {
		return nil, errors.Errorf("operation %s not found", r.OperationName)
	}

	vars, gqlErr := validator.VariableValues(s.schema, op, r.Variables)
	if gqlErr != nil {
		return nil, gqlErr
	}

	return &operation{
		op:       op,
		vars:     vars,
		inSchema: s,
	}, nil
}
