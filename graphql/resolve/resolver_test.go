/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chirp-social/chirp/graphql/authorization"
	"github.com/chirp-social/chirp/graphql/rules"
	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/store"
	"github.com/chirp-social/chirp/types"
	"github.com/chirp-social/chirp/x"
)

// testPipeline wires the full parse -> gate -> resolve -> complete stack
// over an in-memory store.
func testPipeline(t *testing.T) (*ResolverFns, *RequestResolver) {
	t.Helper()

	s, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	fns := &ResolverFns{
		Store:         s,
		Auth:          &authorization.AuthMeta{Secret: []byte("testsecret"), Expiry: time.Hour},
		Rules:         rules.Default(),
		MaxReplyDepth: 1,
	}
	sch, err := schema.FromString(schema.ChirpSchema)
	require.NoError(t, err)

	return fns, New(sch, StdResolverFactory(sch, fns))
}

type gqlResult struct {
	Errors x.GqlErrorList         `json:"errors"`
	Data   map[string]interface{} `json:"data"`
}

func doRequest(t *testing.T, resolver *RequestResolver, token, query string) gqlResult {
	t.Helper()

	ctx := context.Background()
	if token != "" {
		ctx = context.WithValue(ctx, authorization.AuthJwtCtxKey, token)
	}
	resp := resolver.Resolve(ctx, &schema.Request{Query: query})

	var buf bytes.Buffer
	_, err := resp.WriteTo(&buf)
	require.NoError(t, err)

	var out gqlResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func signupUser(t *testing.T, resolver *RequestResolver, name, email string) (string, uint64) {
	t.Helper()

	res := doRequest(t, resolver, "", fmt.Sprintf(
		`mutation { signup(name: %q, email: %q, password: "password1") {
			token user { id }
		} }`, name, email))
	require.Empty(t, res.Errors)

	payload := res.Data["signup"].(map[string]interface{})
	token := payload["token"].(string)
	id := uint64(payload["user"].(map[string]interface{})["id"].(float64))
	require.NotEmpty(t, token)
	require.NotZero(t, id)
	return token, id
}

func entityID(t *testing.T, res gqlResult, mutation string) uint64 {
	t.Helper()
	require.Empty(t, res.Errors)
	return uint64(res.Data[mutation].(map[string]interface{})["id"].(float64))
}

func requireErrCode(t *testing.T, res gqlResult, code, message string) {
	t.Helper()
	require.Len(t, res.Errors, 1)
	require.Equal(t, message, res.Errors[0].Message)
	require.Equal(t, code, res.Errors[0].Code())
}

func TestSignupLoginRoundtrip(t *testing.T) {
	fns, resolver := testPipeline(t)

	_, id := signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, "",
		`mutation { login(email: "a@x.com", password: "password1") { token user { id name } } }`)
	require.Empty(t, res.Errors)

	payload := res.Data["login"].(map[string]interface{})
	require.Equal(t, "alice", payload["user"].(map[string]interface{})["name"])

	// The token must decode back to the same subject.
	ctx := context.WithValue(context.Background(),
		authorization.AuthJwtCtxKey, payload["token"].(string))
	subject, err := fns.Auth.ExtractSubject(ctx)
	require.NoError(t, err)
	require.Equal(t, id, subject)
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, resolver := testPipeline(t)

	signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, "",
		`mutation { signup(name: "other", email: "a@x.com", password: "password1") { token } }`)
	requireErrCode(t, res, x.CodeAlreadyExists, "User already exists")
	require.Nil(t, res.Data["signup"])

	// No second row was written.
	users := doRequest(t, resolver, "", `query { allUsers { id } }`)
	require.Empty(t, users.Errors)
	require.Len(t, users.Data["allUsers"], 1)
}

func TestSignupDuplicateName(t *testing.T) {
	_, resolver := testPipeline(t)

	signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, "",
		`mutation { signup(name: "alice", email: "other@x.com", password: "password1") { token } }`)
	requireErrCode(t, res, x.CodeAlreadyExists, "This name is already taken")
}

func TestLoginFailures(t *testing.T) {
	_, resolver := testPipeline(t)

	signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, "",
		`mutation { login(email: "a@x.com", password: "wrongpass") { token } }`)
	requireErrCode(t, res, x.CodeInvalidCredentials, "Invalid email or password")

	res = doRequest(t, resolver, "",
		`mutation { login(email: "nobody@x.com", password: "password1") { token } }`)
	requireErrCode(t, res, x.CodeInvalidCredentials, "Invalid email or password")
}

func TestUnauthenticatedMutationWritesNothing(t *testing.T) {
	_, resolver := testPipeline(t)

	res := doRequest(t, resolver, "",
		`mutation { createTweet(content: "hello") { id } }`)
	requireErrCode(t, res, x.CodeUnauthenticated, "Could not authenticate user.")
	require.Nil(t, res.Data["createTweet"])

	// A garbage token counts as anonymous too.
	res = doRequest(t, resolver, "not.a.token",
		`mutation { createTweet(content: "hello") { id } }`)
	requireErrCode(t, res, x.CodeUnauthenticated, "Could not authenticate user.")

	tweets := doRequest(t, resolver, "", `query { tweets { id } }`)
	require.Empty(t, tweets.Errors)
	require.Empty(t, tweets.Data["tweets"])
}

func TestMeQuery(t *testing.T) {
	_, resolver := testPipeline(t)

	token, id := signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, "", `query { me { id } }`)
	require.Empty(t, res.Errors)
	require.Nil(t, res.Data["me"])

	res = doRequest(t, resolver, token, `query { me { id name email } }`)
	require.Empty(t, res.Errors)
	me := res.Data["me"].(map[string]interface{})
	require.Equal(t, id, uint64(me["id"].(float64)))
	require.Equal(t, "alice", me["name"])
}

func TestLikeScenario(t *testing.T) {
	_, resolver := testPipeline(t)

	aliceToken, _ := signupUser(t, resolver, "alice", "a@x.com")
	bobToken, bobID := signupUser(t, resolver, "bob", "b@x.com")

	tweetID := entityID(t, doRequest(t, resolver, aliceToken,
		`mutation { createTweet(content: "hello world") { id } }`), "createTweet")

	res := doRequest(t, resolver, bobToken, fmt.Sprintf(
		`mutation { likeTweet(id: %d) { id tweet { id } User { id } } }`, tweetID))
	require.Empty(t, res.Errors)

	likes := doRequest(t, resolver, "", fmt.Sprintf(
		`query { tweet(id: %d) { likes { id User { id name } } } }`, tweetID))
	require.Empty(t, likes.Errors)

	likeList := likes.Data["tweet"].(map[string]interface{})["likes"].([]interface{})
	require.Len(t, likeList, 1)
	liker := likeList[0].(map[string]interface{})["User"].(map[string]interface{})
	require.Equal(t, bobID, uint64(liker["id"].(float64)))
	require.Equal(t, "bob", liker["name"])
}

func TestLikeTweetFailures(t *testing.T) {
	_, resolver := testPipeline(t)

	aliceToken, _ := signupUser(t, resolver, "alice", "a@x.com")
	bobToken, _ := signupUser(t, resolver, "bob", "b@x.com")

	tweetID := entityID(t, doRequest(t, resolver, aliceToken,
		`mutation { createTweet(content: "hi") { id } }`), "createTweet")

	res := doRequest(t, resolver, bobToken,
		`mutation { likeTweet(id: 999) { id } }`)
	requireErrCode(t, res, x.CodeNotFound, "Tweet not found")

	res = doRequest(t, resolver, bobToken, fmt.Sprintf(
		`mutation { likeTweet(id: %d) { id } }`, tweetID))
	require.Empty(t, res.Errors)

	res = doRequest(t, resolver, bobToken, fmt.Sprintf(
		`mutation { likeTweet(id: %d) { id } }`, tweetID))
	requireErrCode(t, res, x.CodeAlreadyExists, "Tweet already liked")
}

func TestCreateReplyScenario(t *testing.T) {
	_, resolver := testPipeline(t)

	token, _ := signupUser(t, resolver, "alice", "a@x.com")

	tweetID := entityID(t, doRequest(t, resolver, token,
		`mutation { createTweet(content: "post") { id } }`), "createTweet")
	commentID := entityID(t, doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { createComment(content: "first", id: %d) { id } }`, tweetID)),
		"createComment")

	res := doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { createReply(content: "hi", id: %d, commentId: %d) {
			id commentId Tweet { id }
		} }`, tweetID, commentID))
	require.Empty(t, res.Errors)

	reply := res.Data["createReply"].(map[string]interface{})
	require.Equal(t, commentID, uint64(reply["commentId"].(float64)))
	require.Equal(t, tweetID,
		uint64(reply["Tweet"].(map[string]interface{})["id"].(float64)))
	replyID := uint64(reply["id"].(float64))

	// The reply shows up under its parent comment, and the depth bound
	// stops the walk one level down: the reply's own comments are null.
	tree := doRequest(t, resolver, "", fmt.Sprintf(
		`query { tweet(id: %d) { comments { id comments { id comments { id } } } } }`,
		tweetID))
	require.Empty(t, tree.Errors)

	comments := tree.Data["tweet"].(map[string]interface{})["comments"].([]interface{})
	var parent map[string]interface{}
	for _, c := range comments {
		if cm := c.(map[string]interface{}); uint64(cm["id"].(float64)) == commentID {
			parent = cm
		}
	}
	require.NotNil(t, parent)

	replies := parent["comments"].([]interface{})
	require.Len(t, replies, 1)
	gotReply := replies[0].(map[string]interface{})
	require.Equal(t, replyID, uint64(gotReply["id"].(float64)))
	require.Nil(t, gotReply["comments"])
}

func TestReplyFailures(t *testing.T) {
	_, resolver := testPipeline(t)

	token, _ := signupUser(t, resolver, "alice", "a@x.com")
	tweetID := entityID(t, doRequest(t, resolver, token,
		`mutation { createTweet(content: "post") { id } }`), "createTweet")

	res := doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { createReply(content: "hi", id: %d, commentId: 999) { id } }`, tweetID))
	requireErrCode(t, res, x.CodeNotFound, "Comment not found")

	res = doRequest(t, resolver, token,
		`mutation { createComment(content: "hi", id: 999) { id } }`)
	requireErrCode(t, res, x.CodeNotFound, "Tweet not found")
}

func TestDeleteCommentLeavesDanglingReply(t *testing.T) {
	_, resolver := testPipeline(t)

	token, _ := signupUser(t, resolver, "alice", "a@x.com")
	tweetID := entityID(t, doRequest(t, resolver, token,
		`mutation { createTweet(content: "post") { id } }`), "createTweet")
	commentID := entityID(t, doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { createComment(content: "parent", id: %d) { id } }`, tweetID)),
		"createComment")
	replyID := entityID(t, doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { createReply(content: "child", id: %d, commentId: %d) { id } }`,
		tweetID, commentID)), "createReply")

	res := doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { deleteComment(id: %d) { id } }`, commentID))
	require.Empty(t, res.Errors)

	// The reply survives with its parent reference dangling.
	tree := doRequest(t, resolver, "", fmt.Sprintf(
		`query { tweet(id: %d) { comments { id commentId } } }`, tweetID))
	require.Empty(t, tree.Errors)

	comments := tree.Data["tweet"].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, comments, 1)
	got := comments[0].(map[string]interface{})
	require.Equal(t, replyID, uint64(got["id"].(float64)))
	require.Equal(t, commentID, uint64(got["commentId"].(float64)))
}

func TestFollowersQuery(t *testing.T) {
	_, resolver := testPipeline(t)

	aliceToken, aliceID := signupUser(t, resolver, "alice", "a@x.com")
	bobToken, bobID := signupUser(t, resolver, "bob", "b@x.com")
	carolToken, _ := signupUser(t, resolver, "carol", "c@x.com")

	for _, token := range []string{bobToken, carolToken} {
		res := doRequest(t, resolver, token, fmt.Sprintf(
			`mutation { follow(name: "alice", followId: %d) { id } }`, aliceID))
		require.Empty(t, res.Errors)
	}
	// alice follows bob, which must not show up among her followers
	res := doRequest(t, resolver, aliceToken, fmt.Sprintf(
		`mutation { follow(name: "bob", followId: %d) { id } }`, bobID))
	require.Empty(t, res.Errors)

	followers := doRequest(t, resolver, "", fmt.Sprintf(
		`query { followers(id: %d) { followId User { name } } }`, aliceID))
	require.Empty(t, followers.Errors)

	list := followers.Data["followers"].([]interface{})
	require.Len(t, list, 2)
	var names []string
	for _, f := range list {
		fm := f.(map[string]interface{})
		require.Equal(t, aliceID, uint64(fm["followId"].(float64)))
		names = append(names, fm["User"].(map[string]interface{})["name"].(string))
	}
	require.ElementsMatch(t, []string{"bob", "carol"}, names)
}

func TestProfileLifecycle(t *testing.T) {
	_, resolver := testPipeline(t)

	token, id := signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, token,
		`mutation { createProfile(bio: "hello", location: "berlin") { id bio user { name } } }`)
	require.Empty(t, res.Errors)
	profile := res.Data["createProfile"].(map[string]interface{})
	require.Equal(t, "hello", profile["bio"])
	require.Equal(t, "alice", profile["user"].(map[string]interface{})["name"])

	res = doRequest(t, resolver, token,
		`mutation { createProfile(bio: "again") { id } }`)
	requireErrCode(t, res, x.CodeAlreadyExists, "Profile already exists")

	// updateProfile addresses the profile by the owning user id. Only the
	// supplied fields change.
	res = doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { updateProfile(id: %d, bio: "updated") { bio location } }`, id))
	require.Empty(t, res.Errors)
	updated := res.Data["updateProfile"].(map[string]interface{})
	require.Equal(t, "updated", updated["bio"])
	require.Equal(t, "berlin", updated["location"])

	res = doRequest(t, resolver, token,
		`mutation { updateProfile(id: 999, bio: "x") { id } }`)
	requireErrCode(t, res, x.CodeNotFound, "Profile not found")
}

func TestMutationsStopAfterFailure(t *testing.T) {
	_, resolver := testPipeline(t)

	token, _ := signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, token,
		`mutation {
			likeTweet(id: 999) { id }
			createTweet(content: "never happens") { id }
		}`)
	require.Len(t, res.Errors, 2)
	require.Equal(t, "Tweet not found", res.Errors[0].Message)
	require.Equal(t,
		"Mutation createTweet was not executed because of a previous error.",
		res.Errors[1].Message)
	require.Nil(t, res.Data["createTweet"])

	tweets := doRequest(t, resolver, "", `query { tweets { id } }`)
	require.Empty(t, tweets.Errors)
	require.Empty(t, tweets.Data["tweets"])
}

func TestQueryErrorsDontAbortSiblings(t *testing.T) {
	_, resolver := testPipeline(t)

	token, _ := signupUser(t, resolver, "alice", "a@x.com")
	entityID(t, doRequest(t, resolver, token,
		`mutation { createTweet(content: "hi") { id } }`), "createTweet")

	// The id-less tweet query fails, its sibling still resolves.
	res := doRequest(t, resolver, "",
		`query { tweet { id } tweets { id } }`)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0].Message, "id argument missing")
	require.Nil(t, res.Data["tweet"])
	require.Len(t, res.Data["tweets"], 1)
}

func TestLookupMissingIsNullNotError(t *testing.T) {
	_, resolver := testPipeline(t)

	res := doRequest(t, resolver, "",
		`query { tweet(id: 999) { id } user(id: 999) { id } }`)
	require.Empty(t, res.Errors)
	require.Nil(t, res.Data["tweet"])
	require.Nil(t, res.Data["user"])
}

func TestRuleMasksNestedField(t *testing.T) {
	fns, _ := testPipeline(t)

	// Email reads are restricted to the owner, everyone else sees an
	// empty string substituted by the rule.
	fns.Rules.Add("User", "email", func(rc rules.RuleContext) rules.Decision {
		if u, ok := rc.Parent.(*types.User); ok && u.ID == rc.Subject {
			return rules.Allow()
		}
		return rules.Value("")
	})
	sch, err := schema.FromString(schema.ChirpSchema)
	require.NoError(t, err)
	resolver := New(sch, StdResolverFactory(sch, fns))

	token, id := signupUser(t, resolver, "alice", "a@x.com")
	signupUser(t, resolver, "bob", "b@x.com")

	res := doRequest(t, resolver, token, `query { allUsers { id email } }`)
	require.Empty(t, res.Errors)
	for _, u := range res.Data["allUsers"].([]interface{}) {
		um := u.(map[string]interface{})
		if uint64(um["id"].(float64)) == id {
			require.Equal(t, "a@x.com", um["email"])
		} else {
			require.Equal(t, "", um["email"])
		}
	}
}

func TestDefaultDenyPolicy(t *testing.T) {
	fns, _ := testPipeline(t)
	fns.Rules = rules.NewTable(rules.DefaultDeny)
	sch, err := schema.FromString(schema.ChirpSchema)
	require.NoError(t, err)
	resolver := New(sch, StdResolverFactory(sch, fns))

	res := doRequest(t, resolver, "", `query { tweets { id } }`)
	require.Len(t, res.Errors, 1)
	require.Equal(t, x.CodePermissionDenied, res.Errors[0].Code())
	require.Nil(t, res.Data["tweets"])
}

func TestDeniedNestedFieldKeepsSiblings(t *testing.T) {
	fns, _ := testPipeline(t)
	fns.Rules.Add("User", "profile", func(rc rules.RuleContext) rules.Decision {
		return rules.Deny("profiles are private")
	})
	sch, err := schema.FromString(schema.ChirpSchema)
	require.NoError(t, err)
	resolver := New(sch, StdResolverFactory(sch, fns))

	token, _ := signupUser(t, resolver, "alice", "a@x.com")
	res := doRequest(t, resolver, token,
		`mutation { createProfile(bio: "hello") { id } }`)
	require.Empty(t, res.Errors)

	res = doRequest(t, resolver, "", `query { allUsers { name profile { bio } } }`)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "profiles are private", res.Errors[0].Message)
	require.Equal(t, x.CodePermissionDenied, res.Errors[0].Code())
	require.Equal(t, []interface{}{"allUsers", float64(0), "profile"}, res.Errors[0].Path)

	users := res.Data["allUsers"].([]interface{})
	require.Len(t, users, 1)
	alice := users[0].(map[string]interface{})
	require.Equal(t, "alice", alice["name"])
	require.Nil(t, alice["profile"])
}

func TestDeleteTweetThenDanglingLikeTweet(t *testing.T) {
	_, resolver := testPipeline(t)

	token, _ := signupUser(t, resolver, "alice", "a@x.com")
	tweetID := entityID(t, doRequest(t, resolver, token,
		`mutation { createTweet(content: "hi") { id } }`), "createTweet")
	entityID(t, doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { likeTweet(id: %d) { id } }`, tweetID)), "likeTweet")

	res := doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { deleteTweet(id: %d) { id } }`, tweetID))
	require.Empty(t, res.Errors)

	// LikedTweet.tweet is non-nullable, so the dangling like nulls out
	// the whole likedTweet list entry chain via error propagation.
	me := doRequest(t, resolver, token, `query { me { likedTweet { id tweet { id } } } }`)
	require.NotEmpty(t, me.Errors)
	require.Contains(t, me.Errors[0].Message, "GraphQL error propagation triggered")
}

func TestDeleteLikeLifecycle(t *testing.T) {
	_, resolver := testPipeline(t)
	token, _ := signupUser(t, resolver, "alice", "a@x.com")

	res := doRequest(t, resolver, token, `mutation { createTweet(content: "hello") { id } }`)
	tweetID := entityID(t, res, "createTweet")

	res = doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { likeTweet(id: %d) { id } }`, tweetID))
	likeID := entityID(t, res, "likeTweet")

	res = doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { deleteLike(id: %d) { id tweet { id } } }`, likeID))
	require.Empty(t, res.Errors)
	require.Equal(t, likeID, entityID(t, res, "deleteLike"))

	res = doRequest(t, resolver, token, `query { me { likedTweet { id } } }`)
	require.Empty(t, res.Errors)
	require.Empty(t, res.Data["me"].(map[string]interface{})["likedTweet"])

	res = doRequest(t, resolver, token, fmt.Sprintf(
		`mutation { deleteLike(id: %d) { id } }`, likeID))
	requireErrCode(t, res, x.CodeNotFound, "Like not found")
	require.Nil(t, res.Data["deleteLike"])
}

func TestDeleteFollowLifecycle(t *testing.T) {
	_, resolver := testPipeline(t)
	aliceToken, _ := signupUser(t, resolver, "alice", "a@x.com")
	_, bobID := signupUser(t, resolver, "bob", "b@x.com")

	res := doRequest(t, resolver, aliceToken, fmt.Sprintf(
		`mutation { follow(name: "bob", followId: %d) { id followId } }`, bobID))
	followID := entityID(t, res, "follow")

	res = doRequest(t, resolver, aliceToken, fmt.Sprintf(
		`mutation { deleteFollow(id: %d) { id name } }`, followID))
	require.Empty(t, res.Errors)
	require.Equal(t, followID, entityID(t, res, "deleteFollow"))

	res = doRequest(t, resolver, aliceToken, fmt.Sprintf(
		`query { followers(id: %d) { id } }`, bobID))
	require.Empty(t, res.Errors)
	require.Empty(t, res.Data["followers"])

	res = doRequest(t, resolver, aliceToken, fmt.Sprintf(
		`mutation { deleteFollow(id: %d) { id } }`, followID))
	requireErrCode(t, res, x.CodeNotFound, "Follow not found")
	require.Nil(t, res.Data["deleteFollow"])
}

func TestOwnerChecksDenyForeignWrites(t *testing.T) {
	fns, resolver := testPipeline(t)
	rules.OwnerChecks(fns.Rules, fns.Store)

	aliceToken, aliceID := signupUser(t, resolver, "alice", "a@x.com")
	bobToken, _ := signupUser(t, resolver, "bob", "b@x.com")

	res := doRequest(t, resolver, aliceToken,
		`mutation { createTweet(content: "mine") { id } }`)
	tweetID := entityID(t, res, "createTweet")

	res = doRequest(t, resolver, bobToken, fmt.Sprintf(
		`mutation { deleteTweet(id: %d) { id } }`, tweetID))
	requireErrCode(t, res, x.CodePermissionDenied, "Only the owner can delete this tweet.")

	res = doRequest(t, resolver, bobToken, fmt.Sprintf(
		`mutation { updateProfile(id: %d, bio: "hijacked") { id } }`, aliceID))
	requireErrCode(t, res, x.CodePermissionDenied, "Only the owner can update this profile.")

	// The tweet survived and the owner can still delete it.
	res = doRequest(t, resolver, aliceToken, fmt.Sprintf(
		`mutation { deleteTweet(id: %d) { id } }`, tweetID))
	require.Empty(t, res.Errors)
	require.Equal(t, tweetID, entityID(t, res, "deleteTweet"))
}
