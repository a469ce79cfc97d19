/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package api holds pieces shared across the GraphQL layer.
package api

import (
	"runtime/debug"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// PanicHandler catches panics to make sure that we recover from panics
// during GraphQL request execution and the server does not crash.
func PanicHandler(fn func(error)) {
	if err := recover(); err != nil {
		// Log the panic along with a stack trace to be able to debug the
		// cause.
		stack := string(debug.Stack())
		glog.Errorf("panic: %s.\n trace: %s", err, stack)
		fn(errors.Errorf("Internal Server Error - a panic was trapped. " +
			"This indicates a bug in the GraphQL server. A stack trace was logged. " +
			"Please let us know by filing an issue with the stack trace."))
	}
}
