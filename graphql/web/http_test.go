/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package web

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chirp-social/chirp/graphql/authorization"
	"github.com/chirp-social/chirp/graphql/resolve"
	"github.com/chirp-social/chirp/graphql/rules"
	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/store"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()

	s, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	auth := &authorization.AuthMeta{Secret: []byte("testsecret"), Expiry: time.Hour}
	fns := &resolve.ResolverFns{
		Store:         s,
		Auth:          auth,
		Rules:         rules.Default(),
		MaxReplyDepth: 1,
	}
	sch, err := schema.FromString(schema.ChirpSchema)
	require.NoError(t, err)
	resolver := resolve.New(sch, resolve.StdResolverFactory(sch, fns))

	return NewServer(resolver, auth).HTTPHandler()
}

type gqlBody struct {
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
	Data map[string]interface{} `json:"data"`
}

func decodeBody(t *testing.T, body io.Reader) gqlBody {
	t.Helper()
	var out gqlBody
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func postJSON(t *testing.T, handler http.Handler, token, query string) gqlBody {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	return decodeBody(t, w.Body)
}

func TestPostSignupThenAuthedMutation(t *testing.T) {
	handler := testServer(t)

	res := postJSON(t, handler, "",
		`mutation { signup(name: "alice", email: "a@x.com", password: "password1") { token } }`)
	require.Empty(t, res.Errors)
	token := res.Data["signup"].(map[string]interface{})["token"].(string)

	res = postJSON(t, handler, token,
		`mutation { createTweet(content: "hello") { id content } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, "hello",
		res.Data["createTweet"].(map[string]interface{})["content"])

	res = postJSON(t, handler, "", `mutation { createTweet(content: "nope") { id } }`)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "Could not authenticate user.", res.Errors[0].Message)
}

func TestGetQuery(t *testing.T) {
	handler := testServer(t)

	target := "/graphql?query=" + url.QueryEscape(`query { tweets { id } }`)
	r := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	res := decodeBody(t, w.Body)
	require.Empty(t, res.Errors)
	require.Contains(t, res.Data, "tweets")
}

func TestGetQueryWithVariables(t *testing.T) {
	handler := testServer(t)

	target := fmt.Sprintf("/graphql?query=%s&variables=%s",
		url.QueryEscape(`query q($id: Int) { tweet(id: $id) { id } }`),
		url.QueryEscape(`{"id": 1}`))
	r := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	res := decodeBody(t, w.Body)
	require.Empty(t, res.Errors)
	require.Nil(t, res.Data["tweet"])
}

func TestGzipResponse(t *testing.T) {
	handler := testServer(t)

	body, err := json.Marshal(map[string]string{"query": `query { tweets { id } }`})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	res := decodeBody(t, zr)
	require.Empty(t, res.Errors)
}

func TestGzipRequest(t *testing.T) {
	handler := testServer(t)

	body, err := json.Marshal(map[string]string{"query": `query { tweets { id } }`})
	require.NoError(t, err)
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r := httptest.NewRequest(http.MethodPost, "/graphql", &buf)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	res := decodeBody(t, w.Body)
	require.Empty(t, res.Errors)
}

func TestApplicationGraphqlBody(t *testing.T) {
	handler := testServer(t)

	r := httptest.NewRequest(http.MethodPost, "/graphql",
		bytes.NewReader([]byte(`query { tweets { id } }`)))
	r.Header.Set("Content-Type", "application/graphql")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	res := decodeBody(t, w.Body)
	require.Empty(t, res.Errors)
}

func TestBadRequests(t *testing.T) {
	handler := testServer(t)

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
	}{
		{"bad content type", http.MethodPost, "text/plain", `{}`},
		{"bad json", http.MethodPost, "application/json", `{not json`},
		{"bad method", http.MethodPut, "application/json", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/graphql",
				bytes.NewReader([]byte(tt.body)))
			r.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			res := decodeBody(t, w.Body)
			require.NotEmpty(t, res.Errors)
			require.Nil(t, res.Data)
		})
	}
}

func TestOptionsPreflight(t *testing.T) {
	handler := testServer(t)

	r := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
