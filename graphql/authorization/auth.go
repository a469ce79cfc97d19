/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package authorization

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type ctxKey string

const (
	// AuthJwtCtxKey is the key with which the raw token from the request
	// header is attached to the request context.
	AuthJwtCtxKey = ctxKey("authorizationJwt")

	defaultHeader = "Authorization"
)

// AuthMeta describes how tokens are minted and verified.
type AuthMeta struct {
	// Secret signs and verifies tokens (HMAC-SHA256).
	Secret []byte
	// Header is the request header the token is read from. Defaults to
	// Authorization when empty.
	Header string
	// Expiry is how long a minted token stays valid.
	Expiry time.Duration
}

func (a *AuthMeta) header() string {
	if a == nil || a.Header == "" {
		return defaultHeader
	}
	return a.Header
}

// Sign mints a signed token asserting the given user as the subject.
func (a *AuthMeta) Sign(userID uint64) (string, error) {
	if a == nil || len(a.Secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
	}
	if a.Expiry > 0 {
		claims["exp"] = now.Add(a.Expiry).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// AttachAuthToken reads the configured header from r and attaches its
// value to the context. The token isn't verified here, that happens when
// a resolver asks for the subject.
func (a *AuthMeta) AttachAuthToken(ctx context.Context, r *http.Request) context.Context {
	if authToken := r.Header.Get(a.header()); authToken != "" {
		return context.WithValue(ctx, AuthJwtCtxKey, authToken)
	}
	return ctx
}

// ExtractSubject verifies the token attached to ctx and returns the user
// id it asserts. A request with no token is anonymous: (0, nil). A token
// that fails verification returns an error, and the caller decides whether
// that means anonymous or a denied request.
func (a *AuthMeta) ExtractSubject(ctx context.Context) (uint64, error) {
	authToken, ok := ctx.Value(AuthJwtCtxKey).(string)
	if !ok || authToken == "" {
		return 0, nil
	}
	authToken = strings.TrimPrefix(authToken, "Bearer ")

	if a == nil || len(a.Secret) == 0 {
		return 0, errors.New("jwt secret is not configured")
	}

	token, err := jwt.Parse(authToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "unable to parse jwt token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.Errorf("claims in jwt token is not map claims")
	}

	sub, ok := claims["userId"].(float64)
	if !ok || sub < 1 {
		return 0, errors.Errorf("userId claim is missing from jwt token")
	}

	return uint64(sub), nil
}
