/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"encoding/json"
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"

	"github.com/chirp-social/chirp/x"
)

// Wrap the gqlparser ast definitions so the resolution algorithm depends
// on behaviours we expect from a validated GraphQL request, not on the
// exact structure in gqlparser. This also hooks up bookkeeping that's
// otherwise no fun: getting values for field arguments requires the
// variable map from the operation, so they get resolved by magic here
// instead of carrying vars through every resolver.

// Schema represents a valid GraphQL schema.
type Schema interface {
	Operation(r *Request) (Operation, error)
	Queries() []string
	Mutations() []string
}

// An Operation is a single valid GraphQL operation. It contains either
// Queries or Mutations, but not both.
type Operation interface {
	Queries() []Query
	Mutations() []Mutation
	Schema() Schema
	IsQuery() bool
	IsMutation() bool
}

// A Field is one field from an Operation.
type Field interface {
	Name() string
	Alias() string
	ResponseName() string
	Arguments() map[string]interface{}
	ArgValue(name string) interface{}
	IntArg(name string) (uint64, error)
	StringArg(name string) (string, bool)
	Skip() bool
	Include() bool
	Type() Type
	SelectionSet() []Field
	Location() x.Location
	Operation() Operation
}

// A Query is a field from the schema's Query type in an Operation.
type Query interface {
	Field
}

// A Mutation is a field from the schema's Mutation type in an Operation.
type Mutation interface {
	Field
}

// A Type is a GraphQL type like: Int, T, T! and [T!]!. If it's not a
// list, ListType is nil.
type Type interface {
	Name() string
	Nullable() bool
	ListType() Type
	String() string
}

type schema struct {
	schema *ast.Schema
}

type operation struct {
	op       *ast.OperationDefinition
	vars     map[string]interface{}
	inSchema *schema
}

type field struct {
	field *ast.Field
	op    *operation
	// arguments contains the computed values for arguments taking into
	// account the values for the GraphQL variables supplied in the query.
	arguments map[string]interface{}
}

type mutation field
type query field

type astType struct {
	typ *ast.Type
}

// AsSchema wraps an ast.Schema.
func AsSchema(s *ast.Schema) Schema {
	return &schema{schema: s}
}

func (s *schema) Queries() []string {
	if s.schema.Query == nil {
		return nil
	}
	var result []string
	for _, q := range s.schema.Query.Fields {
		if !strings.HasPrefix(q.Name, "__") {
			result = append(result, q.Name)
		}
	}
	return result
}

func (s *schema) Mutations() []string {
	if s.schema.Mutation == nil {
		return nil
	}
	var result []string
	for _, m := range s.schema.Mutation.Fields {
		result = append(result, m.Name)
	}
	return result
}

func (o *operation) IsQuery() bool {
	return o.op.Operation == ast.Query
}

func (o *operation) IsMutation() bool {
	return o.op.Operation == ast.Mutation
}

func (o *operation) Schema() Schema {
	return o.inSchema
}

func (o *operation) Queries() (qs []Query) {
	if !o.IsQuery() {
		return
	}
	for _, s := range o.op.SelectionSet {
		if f, ok := s.(*ast.Field); ok {
			qs = append(qs, (*query)(&field{field: f, op: o}))
		}
	}
	return
}

func (o *operation) Mutations() (ms []Mutation) {
	if !o.IsMutation() {
		return
	}
	for _, s := range o.op.SelectionSet {
		if f, ok := s.(*ast.Field); ok {
			ms = append(ms, (*mutation)(&field{field: f, op: o}))
		}
	}
	return
}

func responseName(f *ast.Field) string {
	if f.Alias == "" {
		return f.Name
	}
	return f.Alias
}

func (f *field) Name() string {
	return f.field.Name
}

func (f *field) Alias() string {
	return f.field.Alias
}

func (f *field) ResponseName() string {
	return responseName(f.field)
}

func (f *field) Arguments() map[string]interface{} {
	if f.arguments == nil {
		// Compute and cache the map first time this function is called
		// for a field.
		f.arguments = f.field.ArgumentMap(f.op.vars)
	}
	return f.arguments
}

func (f *field) ArgValue(name string) interface{} {
	return f.Arguments()[name]
}

// IntArg reads an Int-typed argument as an id. Ids are opaque positive
// integers; anything else is an error.
func (f *field) IntArg(name string) (uint64, error) {
	val := f.ArgValue(name)
	if val == nil {
		return 0, x.GqlErrorf("%s argument missing in %s", name, f.Name()).
			WithLocations(f.Location())
	}

	var i int64
	var err error
	switch v := val.(type) {
	case int64:
		i = v
	case json.Number:
		i, err = v.Int64()
	case float64:
		i = int64(v)
	default:
		return 0, x.GqlErrorf("%s argument of %s was not able to be parsed as an id",
			name, f.Name()).WithLocations(f.Location())
	}
	if err != nil || i < 1 {
		return 0, x.GqlErrorf("%s argument of %s was not able to be parsed as an id",
			name, f.Name()).WithLocations(f.Location())
	}
	return uint64(i), nil
}

// StringArg reads a String-typed argument. ok is false when the argument
// was absent or explicitly null.
func (f *field) StringArg(name string) (string, bool) {
	s, ok := f.ArgValue(name).(string)
	return s, ok
}

func (f *field) Skip() bool {
	dir := f.field.Directives.ForName("skip")
	if dir == nil {
		return false
	}
	b, _ := dir.ArgumentMap(f.op.vars)["if"].(bool)
	return b
}

func (f *field) Include() bool {
	dir := f.field.Directives.ForName("include")
	if dir == nil {
		return true
	}
	b, _ := dir.ArgumentMap(f.op.vars)["if"].(bool)
	return b
}

func (f *field) Type() Type {
	return &astType{typ: f.field.Definition.Type}
}

func (f *field) SelectionSet() (flds []Field) {
	for _, s := range f.field.SelectionSet {
		flds = append(flds, selectionFields(s, f.op)...)
	}
	return
}

// selectionFields flattens fragments into plain fields. The schema has no
// interfaces or unions, so a fragment's selections always apply.
func selectionFields(sel ast.Selection, op *operation) (flds []Field) {
	switch s := sel.(type) {
	case *ast.Field:
		flds = append(flds, &field{field: s, op: op})
	case *ast.InlineFragment:
		for _, inner := range s.SelectionSet {
			flds = append(flds, selectionFields(inner, op)...)
		}
	case *ast.FragmentSpread:
		if s.Definition != nil {
			for _, inner := range s.Definition.SelectionSet {
				flds = append(flds, selectionFields(inner, op)...)
			}
		}
	}
	return
}

func (f *field) Location() x.Location {
	return x.Location{
		Line:   f.field.Position.Line,
		Column: f.field.Position.Column,
	}
}

func (f *field) Operation() Operation {
	return f.op
}

func (q *query) Name() string                        { return (*field)(q).Name() }
func (q *query) Alias() string                       { return (*field)(q).Alias() }
func (q *query) ResponseName() string                { return (*field)(q).ResponseName() }
func (q *query) Arguments() map[string]interface{}   { return (*field)(q).Arguments() }
func (q *query) ArgValue(name string) interface{}    { return (*field)(q).ArgValue(name) }
func (q *query) IntArg(name string) (uint64, error)  { return (*field)(q).IntArg(name) }
func (q *query) StringArg(name string) (string, bool) { return (*field)(q).StringArg(name) }
func (q *query) Skip() bool                          { return false }
func (q *query) Include() bool                       { return true }
func (q *query) Type() Type                          { return (*field)(q).Type() }
func (q *query) SelectionSet() []Field               { return (*field)(q).SelectionSet() }
func (q *query) Location() x.Location                { return (*field)(q).Location() }
func (q *query) Operation() Operation                { return (*field)(q).Operation() }

func (m *mutation) Name() string                        { return (*field)(m).Name() }
func (m *mutation) Alias() string                       { return (*field)(m).Alias() }
func (m *mutation) ResponseName() string                { return (*field)(m).ResponseName() }
func (m *mutation) Arguments() map[string]interface{}   { return (*field)(m).Arguments() }
func (m *mutation) ArgValue(name string) interface{}    { return (*field)(m).ArgValue(name) }
func (m *mutation) IntArg(name string) (uint64, error)  { return (*field)(m).IntArg(name) }
func (m *mutation) StringArg(name string) (string, bool) { return (*field)(m).StringArg(name) }
func (m *mutation) Skip() bool                          { return false }
func (m *mutation) Include() bool                       { return true }
func (m *mutation) Type() Type                          { return (*field)(m).Type() }
func (m *mutation) SelectionSet() []Field               { return (*field)(m).SelectionSet() }
func (m *mutation) Location() x.Location                { return (*field)(m).Location() }
func (m *mutation) Operation() Operation                { return (*field)(m).Operation() }

func (t *astType) Name() string {
	if t.typ.NamedType == "" {
		return t.typ.Elem.NamedType
	}
	return t.typ.NamedType
}

func (t *astType) Nullable() bool {
	return !t.typ.NonNull
}

func (t *astType) ListType() Type {
	if t.typ.Elem == nil {
		return nil
	}
	return &astType{typ: t.typ.Elem}
}

func (t *astType) String() string {
	if t == nil {
		return ""
	}

	var sb strings.Builder
	// give it enough space in case it happens to be `[t.Name()!]!`
	sb.Grow(len(t.Name()) + 4)

	if t.ListType() == nil {
		sb.WriteString(t.Name())
	} else {
		// There's no lists of lists, so this needn't be recursive
		sb.WriteRune('[')
		sb.WriteString(t.Name())
		if !t.ListType().Nullable() {
			sb.WriteRune('!')
		}
		sb.WriteRune(']')
	}

	if !t.Nullable() {
		sb.WriteRune('!')
	}

	return sb.String()
}
