/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/golang/glog"

	"github.com/chirp-social/chirp/x"
)

// A Response is a GraphQL response.
type Response struct {
	Errors x.GqlErrorList
	Data   bytes.Buffer
}

// ErrorResponse formats an error as a list of GraphQL errors and builds a
// response with that error list and no data.
func ErrorResponse(err error) *Response {
	return &Response{
		Errors: AsGQLErrors(err),
	}
}

// WithError generates GraphQL errors from err and records those in r.
func (r *Response) WithError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, AsGQLErrors(err)...)
}

// AddData adds p to the response's data. If the response already has data,
// p is joined to it with a comma, so callers should be adding new fields of
// the top level result object.
func (r *Response) AddData(p []byte) {
	if r == nil || len(p) == 0 {
		return
	}

	if r.Data.Len() > 0 {
		x.Check2(r.Data.WriteRune(','))
	}

	x.Check2(r.Data.Write(p))
}

// WriteTo writes the response as unindented JSON to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	if r == nil {
		i, err := w.Write([]byte(
			`{"errors":[{"message":"Internal error - no response to write."}],"data":null}`))
		return int64(i), err
	}

	var b bytes.Buffer
	x.Check2(b.WriteString(`{`))

	if len(r.Errors) > 0 {
		errs, err := json.Marshal(r.Errors)
		if err != nil {
			glog.Errorf("error marshalling response errors: %v", err)
			errs = []byte(`[{"message":"Internal error - failed to marshal errors."}]`)
		}
		x.Check2(b.WriteString(`"errors":`))
		x.Check2(b.Write(errs))
		x.Check2(b.WriteRune(','))
	}

	x.Check2(b.WriteString(`"data":`))
	if r.Data.Len() > 0 {
		x.Check2(b.WriteRune('{'))
		x.Check2(b.Write(r.Data.Bytes()))
		x.Check2(b.WriteRune('}'))
	} else {
		x.Check2(b.WriteString("null"))
	}
	x.Check2(b.WriteString(`}`))

	i, err := w.Write(b.Bytes())
	return int64(i), err
}
