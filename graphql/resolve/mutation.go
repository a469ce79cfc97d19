/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package resolve

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/chirp-social/chirp/graphql/schema"
	"github.com/chirp-social/chirp/store"
	"github.com/chirp-social/chirp/types"
	"github.com/chirp-social/chirp/x"
)

// mutationResolver resolves one root mutation field. Every mutation runs
// the same way: validate the arguments, perform the store writes, then
// walk the mutation's selection set over the written entity. Failures
// come back as (result with error, false) so the request resolver stops
// the remaining mutations in the operation.
//
// Ownership is not verified on updates and deletes, only that a subject
// is present. That matches the original API contract; the gap and how to
// close it through the rule table are covered in DESIGN.md.
type mutationResolver struct {
	fns *ResolverFns
}

// NewMutationResolver creates a resolver for the root mutation fields.
func NewMutationResolver(fns *ResolverFns) MutationResolver {
	return &mutationResolver{fns: fns}
}

func (mr *mutationResolver) Resolve(
	ctx context.Context, m schema.Mutation) (*Resolved, bool) {

	subject, _ := mr.fns.Auth.ExtractSubject(ctx)

	var typeName string
	var entity interface{}
	var err error

	switch m.Name() {
	case "signup":
		typeName = "AuthPayload"
		entity, subject, err = mr.signup(ctx, m)
	case "login":
		typeName = "AuthPayload"
		entity, subject, err = mr.login(ctx, m)
	case "createProfile":
		typeName = "Profile"
		entity, err = mr.createProfile(ctx, m, subject)
	case "updateProfile":
		typeName = "Profile"
		entity, err = mr.updateProfile(ctx, m)
	case "createTweet":
		typeName = "Tweet"
		entity, err = mr.createTweet(ctx, m, subject)
	case "deleteTweet":
		typeName = "Tweet"
		entity, err = mr.deleteTweet(ctx, m)
	case "likeTweet":
		typeName = "LikedTweet"
		entity, err = mr.likeTweet(ctx, m, subject)
	case "deleteLike":
		typeName = "LikedTweet"
		entity, err = mr.deleteLike(ctx, m)
	case "createComment":
		typeName = "Comments"
		entity, err = mr.createComment(ctx, m, subject)
	case "createReply":
		typeName = "Comments"
		entity, err = mr.createReply(ctx, m, subject)
	case "deleteComment":
		typeName = "Comments"
		entity, err = mr.deleteComment(ctx, m)
	case "follow":
		typeName = "Following"
		entity, err = mr.follow(ctx, m, subject)
	case "deleteFollow":
		typeName = "Following"
		entity, err = mr.deleteFollow(ctx, m)
	default:
		err = x.GqlErrorf("No resolver found for mutation %s", m.Name())
	}

	if err != nil {
		return EmptyResult(m, locate(err, m)), false
	}

	w := newWalker(mr.fns, subject)
	val := w.object(ctx, []interface{}{m.ResponseName()}, typeName, entity,
		m.SelectionSet(), 0)
	return DataResult(m, val, w.errs.ToError()), true
}

// locate makes sure the error carries the mutation's location and path.
func locate(err error, m schema.Mutation) error {
	if gqlErr, ok := err.(*x.GqlError); ok {
		if len(gqlErr.Locations) == 0 {
			_ = gqlErr.WithLocations(m.Location())
		}
		if gqlErr.Path == nil {
			_ = gqlErr.WithPath([]interface{}{m.ResponseName()})
		}
	}
	return err
}

func (mr *mutationResolver) signup(
	ctx context.Context, m schema.Mutation) (*authPayload, uint64, error) {

	email, _ := m.StringArg("email")
	password, _ := m.StringArg("password")
	name, _ := m.StringArg("name")

	if _, err := mr.fns.Store.UserByEmail(ctx, email); err == nil {
		return nil, 0, x.GqlErrorf("User already exists").WithCode(x.CodeAlreadyExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, 0, schema.GQLWrapf(err, "couldn't check email")
	}

	if name != "" {
		if _, err := mr.fns.Store.UserByName(ctx, name); err == nil {
			return nil, 0, x.GqlErrorf("This name is already taken").WithCode(x.CodeAlreadyExists)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, 0, schema.GQLWrapf(err, "couldn't check name")
		}
	}

	hashed, err := types.GenerateFromPassword(password)
	if err != nil {
		return nil, 0, schema.AsGQLErrors(err)
	}

	user := &types.User{Name: name, Email: email, Password: hashed}
	if err := mr.fns.Store.CreateUser(ctx, user); err != nil {
		// The store's unique index closes the race between the checks
		// above and this create.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, 0, x.GqlErrorf("User already exists").WithCode(x.CodeAlreadyExists)
		}
		return nil, 0, schema.GQLWrapf(err, "couldn't create user")
	}

	token, err := mr.fns.Auth.Sign(user.ID)
	if err != nil {
		return nil, 0, schema.GQLWrapf(err, "couldn't sign token")
	}

	return &authPayload{Token: token, User: user}, user.ID, nil
}

func (mr *mutationResolver) login(
	ctx context.Context, m schema.Mutation) (*authPayload, uint64, error) {

	email, _ := m.StringArg("email")
	password, _ := m.StringArg("password")

	user, err := mr.fns.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, x.GqlErrorf("Invalid email or password").
				WithCode(x.CodeInvalidCredentials)
		}
		return nil, 0, schema.GQLWrapf(err, "couldn't look up user")
	}

	if err := types.VerifyPassword(password, user.Password); err != nil {
		return nil, 0, x.GqlErrorf("Invalid email or password").
			WithCode(x.CodeInvalidCredentials)
	}

	token, err := mr.fns.Auth.Sign(user.ID)
	if err != nil {
		return nil, 0, schema.GQLWrapf(err, "couldn't sign token")
	}

	return &authPayload{Token: token, User: user}, user.ID, nil
}

func (mr *mutationResolver) createProfile(
	ctx context.Context, m schema.Mutation, subject uint64) (*types.Profile, error) {

	profile := &types.Profile{UserID: subject}
	if bio, ok := m.StringArg("bio"); ok {
		profile.Bio = bio
	}
	if location, ok := m.StringArg("location"); ok {
		profile.Location = location
	}
	if website, ok := m.StringArg("website"); ok {
		profile.Website = website
	}
	if avatar, ok := m.StringArg("avatar"); ok {
		profile.Avatar = avatar
	}

	if err := mr.fns.Store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, x.GqlErrorf("Profile already exists").WithCode(x.CodeAlreadyExists)
		}
		return nil, schema.GQLWrapf(err, "couldn't create profile")
	}
	return profile, nil
}

// updateProfile addresses the profile by its owning user's id, which is
// what the id argument carries on this mutation.
func (mr *mutationResolver) updateProfile(
	ctx context.Context, m schema.Mutation) (*types.Profile, error) {

	userID, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}

	profile, err := mr.fns.Store.UpdateProfileByUser(ctx, userID, func(p *types.Profile) {
		if bio, ok := m.StringArg("bio"); ok {
			p.Bio = bio
		}
		if location, ok := m.StringArg("location"); ok {
			p.Location = location
		}
		if website, ok := m.StringArg("website"); ok {
			p.Website = website
		}
		if avatar, ok := m.StringArg("avatar"); ok {
			p.Avatar = avatar
		}
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Profile not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't update profile")
	}
	return profile, nil
}

func (mr *mutationResolver) createTweet(
	ctx context.Context, m schema.Mutation, subject uint64) (*types.Tweet, error) {

	content, ok := m.StringArg("content")
	if !ok {
		return nil, x.GqlErrorf("content must be provided")
	}

	tweet := &types.Tweet{
		AuthorID:  subject,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := mr.fns.Store.CreateTweet(ctx, tweet); err != nil {
		return nil, schema.GQLWrapf(err, "couldn't create tweet")
	}
	return tweet, nil
}

func (mr *mutationResolver) deleteTweet(
	ctx context.Context, m schema.Mutation) (*types.Tweet, error) {

	id, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}

	// Likes and comments of the tweet stay behind. Their tweet relation
	// resolves to null from here on.
	tweet, err := mr.fns.Store.DeleteTweet(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Tweet not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't delete tweet")
	}
	return tweet, nil
}

func (mr *mutationResolver) likeTweet(
	ctx context.Context, m schema.Mutation, subject uint64) (*types.LikedTweet, error) {

	tweetID, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}

	if _, err := mr.fns.Store.Tweet(ctx, tweetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Tweet not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't look up tweet")
	}

	like := &types.LikedTweet{
		UserID:  subject,
		TweetID: tweetID,
		LikedAt: time.Now().UTC(),
	}
	if err := mr.fns.Store.CreateLike(ctx, like); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, x.GqlErrorf("Tweet already liked").WithCode(x.CodeAlreadyExists)
		}
		return nil, schema.GQLWrapf(err, "couldn't like tweet")
	}
	return like, nil
}

func (mr *mutationResolver) deleteLike(
	ctx context.Context, m schema.Mutation) (*types.LikedTweet, error) {

	id, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}

	like, err := mr.fns.Store.DeleteLike(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Like not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't delete like")
	}
	return like, nil
}

func (mr *mutationResolver) createComment(
	ctx context.Context, m schema.Mutation, subject uint64) (*types.Comment, error) {

	content, ok := m.StringArg("content")
	if !ok {
		return nil, x.GqlErrorf("content must be provided")
	}
	tweetID, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}

	if _, err := mr.fns.Store.Tweet(ctx, tweetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Tweet not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't look up tweet")
	}

	comment := &types.Comment{
		UserID:    subject,
		TweetID:   tweetID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := mr.fns.Store.CreateComment(ctx, comment); err != nil {
		return nil, schema.GQLWrapf(err, "couldn't create comment")
	}
	return comment, nil
}

func (mr *mutationResolver) createReply(
	ctx context.Context, m schema.Mutation, subject uint64) (*types.Comment, error) {

	content, ok := m.StringArg("content")
	if !ok {
		return nil, x.GqlErrorf("content must be provided")
	}
	tweetID, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}
	parentID, gqlErr := m.IntArg("commentId")
	if gqlErr != nil {
		return nil, gqlErr
	}

	if _, err := mr.fns.Store.Tweet(ctx, tweetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Tweet not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't look up tweet")
	}
	if _, err := mr.fns.Store.Comment(ctx, parentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Comment not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't look up comment")
	}

	reply := &types.Comment{
		UserID:    subject,
		TweetID:   tweetID,
		CommentID: parentID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := mr.fns.Store.CreateComment(ctx, reply); err != nil {
		return nil, schema.GQLWrapf(err, "couldn't create reply")
	}
	return reply, nil
}

func (mr *mutationResolver) deleteComment(
	ctx context.Context, m schema.Mutation) (*types.Comment, error) {

	id, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}

	// Replies to the deleted comment keep their parent reference. They
	// stay reachable through their tweet.
	comment, err := mr.fns.Store.DeleteComment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Comment not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't delete comment")
	}
	return comment, nil
}

func (mr *mutationResolver) follow(
	ctx context.Context, m schema.Mutation, subject uint64) (*types.Following, error) {

	followID, gqlErr := m.IntArg("followId")
	if gqlErr != nil {
		return nil, gqlErr
	}
	name, _ := m.StringArg("name")
	avatar, _ := m.StringArg("avatar")

	following := &types.Following{
		UserID:   subject,
		FollowID: followID,
		Name:     name,
		Avatar:   avatar,
	}
	if err := mr.fns.Store.CreateFollowing(ctx, following); err != nil {
		return nil, schema.GQLWrapf(err, "couldn't create following")
	}
	return following, nil
}

func (mr *mutationResolver) deleteFollow(
	ctx context.Context, m schema.Mutation) (*types.Following, error) {

	id, gqlErr := m.IntArg("id")
	if gqlErr != nil {
		return nil, gqlErr
	}

	following, err := mr.fns.Store.DeleteFollowing(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, x.GqlErrorf("Follow not found").WithCode(x.CodeNotFound)
		}
		return nil, schema.GQLWrapf(err, "couldn't delete follow")
	}
	return following, nil
}
