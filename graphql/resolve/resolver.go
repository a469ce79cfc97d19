/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package resolve resolves GraphQL requests against the chirp store.
//
// Resolution runs in two stages. A walker reads the store and produces the
// Go value for a field's selection set, with every access gated by the
// permission rule table. Completion then turns that value into response
// json, enforcing the schema's nullability with GraphQL error propagation.
package resolve

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/chirp-social/chirp/graphql/api"
	"github.com/chirp-social/chirp/graphql/authorization"
	"github.com/chirp-social/chirp/graphql/rules"
	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/store"
	"github.com/chirp-social/chirp/x"
)

var errInternal = errors.New("Internal error")

// A QueryResolver can resolve a single query.
type QueryResolver interface {
	Resolve(ctx context.Context, query schema.Query) *Resolved
}

// A MutationResolver can resolve a single mutation. The bool result says
// whether the mutation itself succeeded: a failed mutation stops the
// serial execution of the remaining mutations in the operation.
type MutationResolver interface {
	Resolve(ctx context.Context, mutation schema.Mutation) (*Resolved, bool)
}

// QueryResolverFunc is an adapter that allows to build a QueryResolver
// from a function.
type QueryResolverFunc func(ctx context.Context, query schema.Query) *Resolved

// Resolve calls qr(ctx, query).
func (qr QueryResolverFunc) Resolve(ctx context.Context, query schema.Query) *Resolved {
	return qr(ctx, query)
}

// MutationResolverFunc is an adapter that allows to build a
// MutationResolver from a function.
type MutationResolverFunc func(ctx context.Context, m schema.Mutation) (*Resolved, bool)

// Resolve calls mr(ctx, mutation).
func (mr MutationResolverFunc) Resolve(ctx context.Context, m schema.Mutation) (*Resolved, bool) {
	return mr(ctx, m)
}

// Resolved is the result of resolving a single field. Data holds the
// `"responseName":value` fragment that joins the response's data object.
type Resolved struct {
	Data  []byte
	Field schema.Field
	Err   error
}

// ResolverFns groups the dependencies the convention resolvers close
// over.
type ResolverFns struct {
	Store store.Datastore
	Auth  *authorization.AuthMeta
	Rules *rules.Table

	// MaxReplyDepth bounds how many reply levels a single request can
	// walk through Comments. 0 means replies aren't expanded at all.
	MaxReplyDepth int
}

// A ResolverFactory finds the right resolver for a query or mutation.
type ResolverFactory interface {
	queryResolverFor(query schema.Query) QueryResolver
	mutationResolverFor(mutation schema.Mutation) MutationResolver

	// WithQueryResolver adds a new query resolver. Each time query name is
	// resolved, resolver is called to create a new instance of a
	// QueryResolver to resolve the query.
	WithQueryResolver(name string, resolver func(schema.Query) QueryResolver) ResolverFactory

	// WithMutationResolver adds a new mutation resolver, like
	// WithQueryResolver.
	WithMutationResolver(name string, resolver func(schema.Mutation) MutationResolver) ResolverFactory

	// WithConventionResolvers adds a resolver for every query and
	// mutation in the schema, built from fns.
	WithConventionResolvers(s schema.Schema, fns *ResolverFns) ResolverFactory

	// WithQueryMiddlewareConfig adds the configuration to use to apply
	// middlewares before resolving queries. The config should be a
	// mapping of the name of query to its middlewares.
	WithQueryMiddlewareConfig(config map[string]QueryMiddlewares) ResolverFactory

	// WithMutationMiddlewareConfig is WithQueryMiddlewareConfig for
	// mutations.
	WithMutationMiddlewareConfig(config map[string]MutationMiddlewares) ResolverFactory
}

type resolverFactory struct {
	queryResolvers    map[string]func(schema.Query) QueryResolver
	mutationResolvers map[string]func(schema.Mutation) MutationResolver

	queryMiddlewareConfig    map[string]QueryMiddlewares
	mutationMiddlewareConfig map[string]MutationMiddlewares

	// returned if no factory for a query/mutation is found
	queryError    QueryResolverFunc
	mutationError MutationResolverFunc
}

// NewResolverFactory returns a ResolverFactory that resolves requests to
// queryError/mutationError if it isn't otherwise configured for that
// query/mutation.
func NewResolverFactory(
	queryError QueryResolverFunc, mutationError MutationResolverFunc) ResolverFactory {

	return &resolverFactory{
		queryResolvers:    make(map[string]func(schema.Query) QueryResolver),
		mutationResolvers: make(map[string]func(schema.Mutation) MutationResolver),

		queryMiddlewareConfig:    make(map[string]QueryMiddlewares),
		mutationMiddlewareConfig: make(map[string]MutationMiddlewares),

		queryError:    queryError,
		mutationError: mutationError,
	}
}

func (rf *resolverFactory) WithQueryResolver(
	name string, resolver func(schema.Query) QueryResolver) ResolverFactory {
	rf.queryResolvers[name] = resolver
	return rf
}

func (rf *resolverFactory) WithMutationResolver(
	name string, resolver func(schema.Mutation) MutationResolver) ResolverFactory {
	rf.mutationResolvers[name] = resolver
	return rf
}

func (rf *resolverFactory) WithConventionResolvers(
	s schema.Schema, fns *ResolverFns) ResolverFactory {

	for _, q := range s.Queries() {
		rf.WithQueryResolver(q, func(query schema.Query) QueryResolver {
			return NewQueryResolver(fns)
		})
	}

	for _, m := range s.Mutations() {
		rf.WithMutationResolver(m, func(mutation schema.Mutation) MutationResolver {
			return NewMutationResolver(fns)
		})
	}

	return rf
}

func (rf *resolverFactory) WithQueryMiddlewareConfig(
	config map[string]QueryMiddlewares) ResolverFactory {
	if len(config) != 0 {
		rf.queryMiddlewareConfig = config
	}
	return rf
}

func (rf *resolverFactory) WithMutationMiddlewareConfig(
	config map[string]MutationMiddlewares) ResolverFactory {
	if len(config) != 0 {
		rf.mutationMiddlewareConfig = config
	}
	return rf
}

func (rf *resolverFactory) queryResolverFor(query schema.Query) QueryResolver {
	mws := rf.queryMiddlewareConfig[query.Name()]
	if resolver, ok := rf.queryResolvers[query.Name()]; ok {
		return mws.Then(resolver(query))
	}
	return rf.queryError
}

func (rf *resolverFactory) mutationResolverFor(mutation schema.Mutation) MutationResolver {
	mws := rf.mutationMiddlewareConfig[mutation.Name()]
	if resolver, ok := rf.mutationResolvers[mutation.Name()]; ok {
		return mws.Then(resolver(mutation))
	}
	return rf.mutationError
}

// StdResolverFactory builds the factory used in production: convention
// resolvers for everything in the schema, with the permission gate applied
// to every root field.
func StdResolverFactory(s schema.Schema, fns *ResolverFns) ResolverFactory {
	qmws := make(map[string]QueryMiddlewares)
	for _, q := range s.Queries() {
		qmws[q] = QueryMiddlewares{PermissionQueryMiddleware(fns)}
	}
	mmws := make(map[string]MutationMiddlewares)
	for _, m := range s.Mutations() {
		mmws[m] = MutationMiddlewares{PermissionMutationMiddleware(fns)}
	}

	return NewResolverFactory(
		func(ctx context.Context, query schema.Query) *Resolved {
			return EmptyResult(query,
				x.GqlErrorf("No resolver found for query %s", query.Name()))
		},
		func(ctx context.Context, mutation schema.Mutation) (*Resolved, bool) {
			return EmptyResult(mutation,
				x.GqlErrorf("No resolver found for mutation %s", mutation.Name())), false
		}).
		WithConventionResolvers(s, fns).
		WithQueryMiddlewareConfig(qmws).
		WithMutationMiddlewareConfig(mmws)
}

// A RequestResolver can process GraphQL requests: it handles the full
// query - mutation - error path.
type RequestResolver struct {
	schema    schema.Schema
	resolvers ResolverFactory
}

// New creates a new RequestResolver.
func New(s schema.Schema, resolverFactory ResolverFactory) *RequestResolver {
	return &RequestResolver{
		schema:    s,
		resolvers: resolverFactory,
	}
}

// Resolve processes r.GqlReq and returns a GraphQL response. r.GqlReq
// should be set with a request before Resolve is called and a request
// resolver doesn't need to be reused.
func (r *RequestResolver) Resolve(ctx context.Context, gqlReq *schema.Request) *schema.Response {
	if r == nil {
		glog.Errorf("Call to Resolve with nil RequestResolver")
		return schema.ErrorResponse(errInternal)
	}
	if r.schema == nil {
		glog.Errorf("Call to Resolve with no schema")
		return schema.ErrorResponse(errInternal)
	}

	op, err := r.schema.Operation(gqlReq)
	if err != nil {
		return schema.ErrorResponse(err)
	}

	resp := &schema.Response{}

	switch {
	case op.IsQuery():
		// Queries run in parallel and are independent of each other: e.g.
		// an error in one query, doesn't affect others.
		queries := op.Queries()
		allResolved := make([]*Resolved, len(queries))

		var wg sync.WaitGroup
		wg.Add(len(queries))
		for i, q := range queries {
			go func(i int, q schema.Query) {
				defer wg.Done()
				defer api.PanicHandler(func(err error) {
					allResolved[i] = EmptyResult(q, err)
				})
				allResolved[i] = r.resolvers.queryResolverFor(q).Resolve(ctx, q)
			}(i, q)
		}
		wg.Wait()

		// The GraphQL data response needs to be written in the same order
		// as the queries in the request.
		for _, res := range allResolved {
			addResult(resp, res)
		}
	case op.IsMutation():
		// A mutation operation can contain any number of mutation fields.
		// Those should be executed serially, and the execution should stop
		// at the first failed mutation.
		//
		// GraphQL spec:
		// https://graphql.github.io/graphql-spec/June2018/#sec-Mutation
		serialResolve := true
		for _, m := range op.Mutations() {
			var res *Resolved
			if !serialResolve {
				res = EmptyResult(m, x.GqlErrorf(
					"Mutation %s was not executed because of a previous error.",
					m.Name()).WithLocations(m.Location()))
			} else {
				func() {
					defer api.PanicHandler(func(err error) {
						res = EmptyResult(m, err)
						serialResolve = false
					})
					var ok bool
					res, ok = r.resolvers.mutationResolverFor(m).Resolve(ctx, m)
					if !ok {
						serialResolve = false
					}
				}()
			}
			addResult(resp, res)
		}
	default:
		resp.WithError(x.GqlErrorf("Only queries and mutations are supported"))
	}

	return resp
}

func addResult(resp *schema.Response, res *Resolved) {
	if res == nil {
		return
	}
	resp.WithError(res.Err)
	resp.AddData(res.Data)
}
