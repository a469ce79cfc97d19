/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"context"

	"github.com/pkg/errors"

	"github.com/chirp-social/chirp/graphql/rules"
	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/store"
	"github.com/chirp-social/chirp/types"
	"github.com/chirp-social/chirp/x"
)

// authPayload is what signup and login resolve to.
type authPayload struct {
	Token string
	User  *types.User
}

// A walker reads the store to produce the Go value for a field's
// selection set. Values come out as map[string]interface{} keyed by
// response name, []interface{} for lists, or plain scalars, which is
// exactly what completion wants.
//
// Every field access runs through the rule table first, with the parent
// entity and the authenticated subject in scope, so nested fields are
// gated the same way root fields are.
type walker struct {
	fns     *ResolverFns
	subject uint64
	errs    x.GqlErrorList
}

func newWalker(fns *ResolverFns, subject uint64) *walker {
	return &walker{fns: fns, subject: subject}
}

// object walks one entity with a selection set. parent is the typed
// entity pointer the rule predicates see.
func (w *walker) object(ctx context.Context, path []interface{}, typeName string,
	parent interface{}, sels []schema.Field, replyDepth int) map[string]interface{} {

	res := make(map[string]interface{})
	for _, f := range sels {
		if f.Skip() || !f.Include() {
			continue
		}
		if f.Name() == "__typename" {
			res[f.ResponseName()] = typeName
			continue
		}

		fpath := appendPath(path, f.ResponseName())
		dec := w.fns.Rules.Eval(typeName, f.Name(), rules.RuleContext{
			Ctx:     ctx,
			Subject: w.subject,
			Parent:  parent,
			Args:    f.Arguments(),
		})
		if reason, code, denied := dec.Denied(); denied {
			w.errs = append(w.errs, x.GqlErrorf("%s", reason).
				WithCode(code).
				WithLocations(f.Location()).
				WithPath(fpath))
			res[f.ResponseName()] = nil
			continue
		}
		if v, ok := dec.Computed(); ok {
			res[f.ResponseName()] = v
			continue
		}

		res[f.ResponseName()] = w.fieldValue(ctx, fpath, typeName, parent, f, replyDepth)
	}
	return res
}

// fieldValue resolves one allowed field of an entity. Scalars come
// straight off the parent. Relations cost one store read each and then
// recurse into the field's selection set. A relation target that's gone
// missing resolves to nil and completion's nullability rules take it from
// there.
func (w *walker) fieldValue(ctx context.Context, path []interface{}, typeName string,
	parent interface{}, f schema.Field, replyDepth int) interface{} {

	switch p := parent.(type) {
	case *types.User:
		switch f.Name() {
		case "id":
			return p.ID
		case "name":
			return p.Name
		case "email":
			return p.Email
		case "profile":
			prof, err := w.fns.Store.ProfileByUser(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.object(ctx, path, "Profile", prof, f.SelectionSet(), replyDepth)
		case "tweets":
			tweets, err := w.fns.Store.TweetsByAuthor(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.tweetList(ctx, path, tweets, f, replyDepth)
		case "likedTweet":
			likes, err := w.fns.Store.LikesByUser(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.likeList(ctx, path, likes, f, replyDepth)
		case "comments":
			comments, err := w.fns.Store.CommentsByUser(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.commentList(ctx, path, comments, f, replyDepth)
		case "Following":
			followings, err := w.fns.Store.FollowingByUser(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.followingList(ctx, path, followings, f, replyDepth)
		}

	case *types.Profile:
		switch f.Name() {
		case "id":
			return p.ID
		case "bio":
			return nilIfEmpty(p.Bio)
		case "location":
			return nilIfEmpty(p.Location)
		case "website":
			return nilIfEmpty(p.Website)
		case "avatar":
			return nilIfEmpty(p.Avatar)
		case "user":
			return w.userRelation(ctx, path, p.UserID, f, replyDepth)
		}

	case *types.Tweet:
		switch f.Name() {
		case "id":
			return p.ID
		case "content":
			return p.Content
		case "createdAt":
			return p.CreatedAt
		case "author":
			return w.userRelation(ctx, path, p.AuthorID, f, replyDepth)
		case "likes":
			likes, err := w.fns.Store.LikesByTweet(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.likeList(ctx, path, likes, f, replyDepth)
		case "comments":
			comments, err := w.fns.Store.CommentsByTweet(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.commentList(ctx, path, comments, f, replyDepth)
		}

	case *types.LikedTweet:
		switch f.Name() {
		case "id":
			return p.ID
		case "likedAt":
			return p.LikedAt
		case "tweet":
			tweet, err := w.fns.Store.Tweet(ctx, p.TweetID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.object(ctx, path, "Tweet", tweet, f.SelectionSet(), replyDepth)
		case "User":
			return w.userRelation(ctx, path, p.UserID, f, replyDepth)
		}

	case *types.Following:
		switch f.Name() {
		case "id":
			return p.ID
		case "name":
			return p.Name
		case "followId":
			return p.FollowID
		case "avatar":
			return nilIfEmpty(p.Avatar)
		case "User":
			return w.userRelation(ctx, path, p.UserID, f, replyDepth)
		}

	case *types.Comment:
		switch f.Name() {
		case "id":
			return p.ID
		case "createdAt":
			return p.CreatedAt
		case "commentId":
			if p.CommentID == 0 {
				return nil
			}
			return p.CommentID
		case "content":
			return p.Content
		case "Tweet":
			tweet, err := w.fns.Store.Tweet(ctx, p.TweetID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.object(ctx, path, "Tweet", tweet, f.SelectionSet(), replyDepth)
		case "User":
			return w.userRelation(ctx, path, p.UserID, f, replyDepth)
		case "comments":
			if replyDepth >= w.fns.MaxReplyDepth {
				return nil
			}
			replies, err := w.fns.Store.RepliesTo(ctx, p.ID)
			if err != nil {
				return w.relation(path, f, err)
			}
			return w.commentList(ctx, path, replies, f, replyDepth+1)
		}

	case *authPayload:
		switch f.Name() {
		case "token":
			return p.Token
		case "user":
			if p.User == nil {
				return nil
			}
			return w.object(ctx, path, "User", p.User, f.SelectionSet(), replyDepth)
		}
	}

	// Validation keeps unknown fields out of the selection set, so
	// reaching here means the walker and the schema string disagree.
	w.errs = append(w.errs, x.GqlErrorf("Unable to resolve field %s in type %s",
		f.Name(), typeName).WithLocations(f.Location()).WithPath(copyPath(path)))
	return nil
}

func (w *walker) userRelation(ctx context.Context, path []interface{}, id uint64,
	f schema.Field, replyDepth int) interface{} {

	user, err := w.fns.Store.User(ctx, id)
	if err != nil {
		return w.relation(path, f, err)
	}
	return w.object(ctx, path, "User", user, f.SelectionSet(), replyDepth)
}

// relation handles a store error from a relation read. A missing target
// is just a nil value. Anything else is recorded against the field.
func (w *walker) relation(path []interface{}, f schema.Field, err error) interface{} {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	w.errs = append(w.errs,
		schema.AsGQLErrors(schema.GQLWrapf(err, "resolving %s", f.Name()))[0].
			WithLocations(f.Location()).
			WithPath(copyPath(path)))
	return nil
}

func (w *walker) tweetList(ctx context.Context, path []interface{}, tweets []*types.Tweet,
	f schema.Field, replyDepth int) []interface{} {

	out := make([]interface{}, 0, len(tweets))
	for i, t := range tweets {
		out = append(out, w.object(ctx, appendPath(path, i), "Tweet", t,
			f.SelectionSet(), replyDepth))
	}
	return out
}

func (w *walker) likeList(ctx context.Context, path []interface{}, likes []*types.LikedTweet,
	f schema.Field, replyDepth int) []interface{} {

	out := make([]interface{}, 0, len(likes))
	for i, l := range likes {
		out = append(out, w.object(ctx, appendPath(path, i), "LikedTweet", l,
			f.SelectionSet(), replyDepth))
	}
	return out
}

func (w *walker) commentList(ctx context.Context, path []interface{}, comments []*types.Comment,
	f schema.Field, replyDepth int) []interface{} {

	out := make([]interface{}, 0, len(comments))
	for i, c := range comments {
		out = append(out, w.object(ctx, appendPath(path, i), "Comments", c,
			f.SelectionSet(), replyDepth))
	}
	return out
}

func (w *walker) followingList(ctx context.Context, path []interface{},
	followings []*types.Following, f schema.Field, replyDepth int) []interface{} {

	out := make([]interface{}, 0, len(followings))
	for i, fl := range followings {
		out = append(out, w.object(ctx, appendPath(path, i), "Following", fl,
			f.SelectionSet(), replyDepth))
	}
	return out
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
