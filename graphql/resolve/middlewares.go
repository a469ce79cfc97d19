/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"context"

	"github.com/chirp-social/chirp/graphql/rules"
	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/x"
)

// QueryMiddleware represents a middleware for queries.
type QueryMiddleware func(resolver QueryResolver) QueryResolver

// MutationMiddleware represents a middleware for mutations.
type MutationMiddleware func(resolver MutationResolver) MutationResolver

// QueryMiddlewares represents a list of middlewares for queries, that get
// applied in the order they are present in the list. Inspired by
// https://github.com/justinas/alice
type QueryMiddlewares []QueryMiddleware

// MutationMiddlewares represents a list of middlewares for mutations,
// that get applied in the order they are present in the list.
type MutationMiddlewares []MutationMiddleware

// Then chains the middlewares and returns the final QueryResolver.
//
//	QueryMiddlewares{m1, m2, m3}.Then(r)
//
// is equivalent to:
//
//	m1(m2(m3(r)))
//
// When the request comes in, it will be passed to m1, then m2, then m3
// and finally, the given resolver
// (assuming every middleware calls the following one).
//
// A chain can be safely reused by calling Then() several times.
//
// Then() treats nil as a QueryResolverFunc that resolves to nil Resolved.
func (mws QueryMiddlewares) Then(resolver QueryResolver) QueryResolver {
	if resolver == nil {
		resolver = QueryResolverFunc(
			func(ctx context.Context, query schema.Query) *Resolved {
				return nil
			})
	}
	for i := len(mws) - 1; i >= 0; i-- {
		resolver = mws[i](resolver)
	}
	return resolver
}

// Then chains the middlewares and returns the final MutationResolver.
func (mws MutationMiddlewares) Then(resolver MutationResolver) MutationResolver {
	if resolver == nil {
		resolver = MutationResolverFunc(
			func(ctx context.Context, mutation schema.Mutation) (*Resolved, bool) {
				return nil, true
			})
	}
	for i := len(mws) - 1; i >= 0; i-- {
		resolver = mws[i](resolver)
	}
	return resolver
}

// PermissionQueryMiddleware evaluates the rule table for a root query
// field before handing over to the actual resolver. A denial means the
// resolver never runs.
func PermissionQueryMiddleware(fns *ResolverFns) QueryMiddleware {
	return func(resolver QueryResolver) QueryResolver {
		return QueryResolverFunc(func(ctx context.Context, query schema.Query) *Resolved {
			subject, _ := fns.Auth.ExtractSubject(ctx)
			dec := fns.Rules.Eval("Query", query.Name(), rules.RuleContext{
				Ctx:     ctx,
				Subject: subject,
				Args:    query.Arguments(),
			})
			if reason, code, denied := dec.Denied(); denied {
				return EmptyResult(query, ruleError(query, reason, code))
			}
			if v, ok := dec.Computed(); ok {
				return DataResult(query, v, nil)
			}
			return resolver.Resolve(ctx, query)
		})
	}
}

// PermissionMutationMiddleware is PermissionQueryMiddleware for
// mutations. A denied mutation counts as failed, so the remaining
// mutations in the operation don't run.
func PermissionMutationMiddleware(fns *ResolverFns) MutationMiddleware {
	return func(resolver MutationResolver) MutationResolver {
		return MutationResolverFunc(
			func(ctx context.Context, mutation schema.Mutation) (*Resolved, bool) {
				subject, _ := fns.Auth.ExtractSubject(ctx)
				dec := fns.Rules.Eval("Mutation", mutation.Name(), rules.RuleContext{
					Ctx:     ctx,
					Subject: subject,
					Args:    mutation.Arguments(),
				})
				if reason, code, denied := dec.Denied(); denied {
					return EmptyResult(mutation, ruleError(mutation, reason, code)), false
				}
				if v, ok := dec.Computed(); ok {
					return DataResult(mutation, v, nil), true
				}
				return resolver.Resolve(ctx, mutation)
			})
	}
}

func ruleError(f schema.Field, reason, code string) *x.GqlError {
	return x.GqlErrorf("%s", reason).
		WithCode(code).
		WithLocations(f.Location()).
		WithPath([]interface{}{f.ResponseName()})
}
