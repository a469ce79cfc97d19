/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"fmt"
	"strings"
)

// Error codes surfaced to API clients in the standard GraphQL
// extensions.code slot.
const (
	CodeUnauthenticated    = "Unauthenticated"
	CodeAlreadyExists      = "AlreadyExists"
	CodeInvalidCredentials = "InvalidCredentials"
	CodeNotFound           = "NotFound"
	CodePermissionDenied   = "PermissionDenied"
)

// Location is the line and column of an error in a GraphQL document.
type Location struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

// GqlError is a GraphQL spec compliant error. It can carry positions in
// the request document and a path into the response where the error was
// found.
type GqlError struct {
	Message    string                 `json:"message"`
	Locations  []Location             `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// GqlErrorList is a list of GraphQL errors, as would make up the errors
// list of a response.
type GqlErrorList []*GqlError

// GqlErrorf returns a new GqlError with the message and args Sprintf'd as
// the message.
func GqlErrorf(message string, args ...interface{}) *GqlError {
	return &GqlError{
		Message: fmt.Sprintf(message, args...),
	}
}

func (gqlErr *GqlError) Error() string {
	if gqlErr == nil {
		return ""
	}
	return gqlErr.Message
}

func (errList GqlErrorList) Error() string {
	var msgs []string
	for _, err := range errList {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// ToError returns the list as an error, or nil when the list is empty.
// A nil-valued GqlErrorList stuffed into an error interface isn't nil, so
// callers that may have collected nothing use this instead.
func (errList GqlErrorList) ToError() error {
	if len(errList) == 0 {
		return nil
	}
	return errList
}

// WithLocations adds a list of locations to a GqlError and returns the
// same GqlError (fluent style).
func (gqlErr *GqlError) WithLocations(locs ...Location) *GqlError {
	if gqlErr == nil {
		return nil
	}
	gqlErr.Locations = append(gqlErr.Locations, locs...)
	return gqlErr
}

// WithPath adds a path to a GqlError and returns the same GqlError.
func (gqlErr *GqlError) WithPath(path []interface{}) *GqlError {
	if gqlErr == nil {
		return nil
	}
	gqlErr.Path = path
	return gqlErr
}

// WithCode records an error code in the error's extensions and returns
// the same GqlError.
func (gqlErr *GqlError) WithCode(code string) *GqlError {
	if gqlErr == nil {
		return nil
	}
	if gqlErr.Extensions == nil {
		gqlErr.Extensions = make(map[string]interface{})
	}
	gqlErr.Extensions["code"] = code
	return gqlErr
}

// Code returns the error code recorded in the error's extensions, or ""
// if there isn't one.
func (gqlErr *GqlError) Code() string {
	if gqlErr == nil || gqlErr.Extensions == nil {
		return ""
	}
	code, _ := gqlErr.Extensions["code"].(string)
	return code
}
