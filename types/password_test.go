/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	crypted, err := GenerateFromPassword("password1")
	require.NoError(t, err)
	require.NotEqual(t, "password1", crypted)

	require.NoError(t, VerifyPassword("password1", crypted))
	require.Error(t, VerifyPassword("password2", crypted))
}

func TestPasswordTooShort(t *testing.T) {
	_, err := GenerateFromPassword("tiny")
	require.Error(t, err)
}

func TestVerifyPasswordBadInput(t *testing.T) {
	crypted, err := GenerateFromPassword("password1")
	require.NoError(t, err)

	require.Error(t, VerifyPassword("tiny", crypted))
	require.Error(t, VerifyPassword("password1", ""))
}
