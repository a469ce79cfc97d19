/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"github.com/chirp-social/chirp/chirp/cmd"
)

func main() {
	cmd.Execute()
}
