/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/golang/glog"

	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/x"
)

// Completion turns the Go values a walker produced into the JSON a GraphQL
// client expects, enforcing the schema's types as it goes. GraphQL error
// propagation means a missing value for a non-nullable field can't just be
// null: the error "bubbles" to the nearest nullable enclosing field, which
// becomes null, and an error with the path of the break gets added to the
// response.

// DataResult builds the Resolved for a field that resolved to val. val is
// either nil, a scalar, a map keyed by response name, or a list of those.
func DataResult(f schema.Field, val interface{}, err error) *Resolved {
	path := []interface{}{f.ResponseName()}
	b, errs := completeValue(path, f, val)

	var buf bytes.Buffer
	x.Check2(buf.WriteString(`"`))
	x.Check2(buf.WriteString(f.ResponseName()))
	x.Check2(buf.WriteString(`":`))
	if b == nil {
		x.Check2(buf.WriteString("null"))
	} else {
		x.Check2(buf.Write(b))
	}

	if len(errs) > 0 {
		err = schema.AppendGQLErrs(err, errs)
	}
	return &Resolved{
		Data:  buf.Bytes(),
		Field: f,
		Err:   err,
	}
}

// EmptyResult nulls out the result for a field and records err against it.
func EmptyResult(f schema.Field, err error) *Resolved {
	return &Resolved{
		Data:  []byte(fmt.Sprintf(`"%s":null`, f.ResponseName())),
		Field: f,
		Err:   schema.AsGQLErrors(err),
	}
}

// completeValue applies the GraphQL json completion algorithm to val.
// A nil byte result means the value violated a non-null and the enclosing
// value has to handle the propagation.
func completeValue(path []interface{}, f schema.Field, val interface{}) ([]byte, x.GqlErrorList) {
	switch val := val.(type) {
	case map[string]interface{}:
		return completeObject(path, f.SelectionSet(), val)
	case []interface{}:
		return completeList(path, f, val)
	case nil:
		if f.Type().Nullable() {
			return []byte("null"), nil
		}
		gqlErr := x.GqlErrorf(
			"Non-nullable field '%s' (type %s) was not present in result. "+
				"GraphQL error propagation triggered.", f.Name(), f.Type()).
			WithLocations(f.Location()).
			WithPath(copyPath(path))
		return nil, x.GqlErrorList{gqlErr}
	default:
		b, err := json.Marshal(val)
		if err != nil {
			glog.Errorf("marshalling scalar for field %s: %v", f.Name(), err)
			return completeValue(path, f, nil)
		}
		return b, nil
	}
}

// completeObject builds the json for one object, keyed by the response
// names of the selection set. If any non-nullable field of the object is
// missing, the whole object is in error and the result is nil.
func completeObject(
	path []interface{}, sels []schema.Field, res map[string]interface{}) ([]byte, x.GqlErrorList) {

	var errs x.GqlErrorList
	var buf bytes.Buffer

	x.Check2(buf.WriteRune('{'))
	comma := ""
	for _, f := range sels {
		if f.Skip() || !f.Include() {
			continue
		}

		b, fieldErrs := completeValue(appendPath(path, f.ResponseName()), f, res[f.ResponseName()])
		errs = append(errs, fieldErrs...)
		if b == nil {
			if !f.Type().Nullable() {
				// this object is now in error, so it's fully null
				return nil, errs
			}
			b = []byte("null")
		}

		x.Check2(buf.WriteString(comma))
		x.Check2(buf.WriteRune('"'))
		x.Check2(buf.WriteString(f.ResponseName()))
		x.Check2(buf.WriteString(`":`))
		x.Check2(buf.Write(b))
		comma = ","
	}
	x.Check2(buf.WriteRune('}'))

	return buf.Bytes(), errs
}

// completeList builds the json for a list value. A broken non-nullable
// list element nulls the entire list and propagation continues upward from
// there.
func completeList(
	path []interface{}, f schema.Field, vals []interface{}) ([]byte, x.GqlErrorList) {

	var errs x.GqlErrorList
	var buf bytes.Buffer
	elemNullable := true
	if lt := f.Type().ListType(); lt != nil {
		elemNullable = lt.Nullable()
	}

	x.Check2(buf.WriteRune('['))
	for i, val := range vals {
		if i != 0 {
			x.Check2(buf.WriteRune(','))
		}

		elPath := appendPath(path, i)
		var b []byte
		var elErrs x.GqlErrorList
		switch val := val.(type) {
		case map[string]interface{}:
			b, elErrs = completeObject(elPath, f.SelectionSet(), val)
		case nil:
			b = nil
		default:
			var err error
			b, err = json.Marshal(val)
			if err != nil {
				glog.Errorf("marshalling list element for field %s: %v", f.Name(), err)
				b = nil
			}
		}
		errs = append(errs, elErrs...)

		if b == nil {
			if !elemNullable {
				if len(elErrs) == 0 {
					errs = append(errs, x.GqlErrorf(
						"Non-nullable list element (field '%s', type %s) was not present "+
							"in result. GraphQL error propagation triggered.",
						f.Name(), f.Type()).
						WithLocations(f.Location()).
						WithPath(copyPath(elPath)))
				}
				return nil, errs
			}
			b = []byte("null")
		}
		x.Check2(buf.Write(b))
	}
	x.Check2(buf.WriteRune(']'))

	return buf.Bytes(), errs
}

// appendPath never reuses the input's backing array. Paths end up stored
// in errors, so sibling fields can't share one.
func appendPath(path []interface{}, p interface{}) []interface{} {
	out := make([]interface{}, 0, len(path)+1)
	out = append(out, path...)
	return append(out, p)
}

func copyPath(path []interface{}) []interface{} {
	out := make([]interface{}, len(path))
	copy(out, path)
	return out
}
