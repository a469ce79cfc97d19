/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package types

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/chirp-social/chirp/x"
)

const pwdLenLimit = 6

// GenerateFromPassword hashes a plaintext password with bcrypt. The salt
// and cost are incorporated in the result, so nothing else needs storing.
func GenerateFromPassword(password string) (string, error) {
	if len(password) < pwdLenLimit {
		return "", x.GqlErrorf("Password too short, i.e. should have at least 6 chars")
	}
	byt, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(byt), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt
// hash. The comparison is constant time; the plaintext is never compared
// directly.
func VerifyPassword(password, crypted string) error {
	if len(password) < pwdLenLimit || len(crypted) == 0 {
		return x.GqlErrorf("invalid password/crypted string")
	}
	return bcrypt.CompareHashAndPassword([]byte(crypted), []byte(password))
}
