/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/store"
	"github.com/chirp-social/chirp/x"
)

// queryResolver resolves one root query field against the store. Lookups
// that find nothing resolve to null data without an error, matching how a
// GraphQL get-by-id behaves.
type queryResolver struct {
	fns *ResolverFns
}

// NewQueryResolver creates a resolver for the root query fields.
func NewQueryResolver(fns *ResolverFns) QueryResolver {
	return &queryResolver{fns: fns}
}

func (qr *queryResolver) Resolve(ctx context.Context, query schema.Query) *Resolved {
	// A bad token on a query doesn't fail the request, the caller is just
	// anonymous. Mutations that need a subject get stopped by the rule
	// table instead.
	subject, err := qr.fns.Auth.ExtractSubject(ctx)
	if err != nil {
		glog.V(2).Infof("treating request as anonymous: %v", err)
		subject = 0
	}
	w := newWalker(qr.fns, subject)

	var val interface{}
	switch query.Name() {
	case "allUsers":
		users, err := qr.fns.Store.Users(ctx)
		if err != nil {
			return EmptyResult(query, schema.GQLWrapf(err, "couldn't resolve %s", query.Name()))
		}
		out := make([]interface{}, 0, len(users))
		for i, u := range users {
			out = append(out, w.object(ctx, []interface{}{query.ResponseName(), i},
				"User", u, query.SelectionSet(), 0))
		}
		val = out

	case "me":
		if subject == 0 {
			break
		}
		user, err := qr.fns.Store.User(ctx, subject)
		if err != nil {
			return qr.lookupFailed(query, err)
		}
		val = w.object(ctx, []interface{}{query.ResponseName()},
			"User", user, query.SelectionSet(), 0)

	case "tweets":
		tweets, err := qr.fns.Store.Tweets(ctx)
		if err != nil {
			return EmptyResult(query, schema.GQLWrapf(err, "couldn't resolve %s", query.Name()))
		}
		val = w.tweetList(ctx, []interface{}{query.ResponseName()}, tweets, query, 0)

	case "tweet":
		id, gqlErr := query.IntArg("id")
		if gqlErr != nil {
			return EmptyResult(query, gqlErr)
		}
		tweet, err := qr.fns.Store.Tweet(ctx, id)
		if err != nil {
			return qr.lookupFailed(query, err)
		}
		val = w.object(ctx, []interface{}{query.ResponseName()},
			"Tweet", tweet, query.SelectionSet(), 0)

	case "user":
		id, gqlErr := query.IntArg("id")
		if gqlErr != nil {
			return EmptyResult(query, gqlErr)
		}
		user, err := qr.fns.Store.User(ctx, id)
		if err != nil {
			return qr.lookupFailed(query, err)
		}
		val = w.object(ctx, []interface{}{query.ResponseName()},
			"User", user, query.SelectionSet(), 0)

	case "followers":
		id, gqlErr := query.IntArg("id")
		if gqlErr != nil {
			return EmptyResult(query, gqlErr)
		}
		followers, err := qr.fns.Store.FollowersOf(ctx, id)
		if err != nil {
			return EmptyResult(query, schema.GQLWrapf(err, "couldn't resolve %s", query.Name()))
		}
		val = w.followingList(ctx, []interface{}{query.ResponseName()}, followers, query, 0)

	default:
		return EmptyResult(query,
			x.GqlErrorf("No resolver found for query %s", query.Name()))
	}

	return DataResult(query, val, w.errs.ToError())
}

// lookupFailed maps a failed get-by-id. Not found means null data, any
// other store error is reported.
func (qr *queryResolver) lookupFailed(query schema.Query, err error) *Resolved {
	if errors.Is(err, store.ErrNotFound) {
		return DataResult(query, nil, nil)
	}
	return EmptyResult(query, schema.GQLWrapf(err, "couldn't resolve %s", query.Name()))
}
