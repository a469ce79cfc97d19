/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"context"

	"github.com/chirp-social/chirp/types"
)

// The typed store surface. Every list is one scan; every unique read is
// one point lookup (or one index hop). The resolution core deliberately
// issues one of these calls per selected relation field.

func (s *Store) User(ctx context.Context, id uint64) (*types.User, error) {
	return getEntity[types.User](ctx, s, Users, id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	return byIndex[types.User](ctx, s, Users, indexKey(idxUserEmail, []byte(email)),
		"email "+email)
}

func (s *Store) UserByName(ctx context.Context, name string) (*types.User, error) {
	return byIndex[types.User](ctx, s, Users, indexKey(idxUserName, []byte(name)),
		"name "+name)
}

func (s *Store) Users(ctx context.Context) ([]*types.User, error) {
	return listEntities[types.User](ctx, s, Users, nil)
}

func (s *Store) CreateUser(ctx context.Context, u *types.User) error {
	id, err := s.nextID(Users)
	if err != nil {
		return err
	}
	u.ID = id
	idx := []indexEntry{
		{indexKey(idxUserEmail, []byte(u.Email)), "email " + u.Email},
	}
	// Names are optional. Uniqueness only applies once one is set.
	if u.Name != "" {
		idx = append(idx, indexEntry{indexKey(idxUserName, []byte(u.Name)), "name " + u.Name})
	}
	return createEntity(ctx, s, Users, id, u, idx...)
}

func (s *Store) Profile(ctx context.Context, id uint64) (*types.Profile, error) {
	return getEntity[types.Profile](ctx, s, Profiles, id)
}

func (s *Store) ProfileByUser(ctx context.Context, userID uint64) (*types.Profile, error) {
	return byIndex[types.Profile](ctx, s, Profiles,
		indexKey(idxProfOwner, uint64Bytes(userID)), "owner")
}

func (s *Store) CreateProfile(ctx context.Context, p *types.Profile) error {
	id, err := s.nextID(Profiles)
	if err != nil {
		return err
	}
	p.ID = id
	return createEntity(ctx, s, Profiles, id, p,
		indexEntry{indexKey(idxProfOwner, uint64Bytes(p.UserID)), "profile owner"},
	)
}

// UpdateProfileByUser updates the profile owned by userID, applying
// mutate to the stored value. The owning user id, not the profile id,
// addresses the update.
func (s *Store) UpdateProfileByUser(ctx context.Context, userID uint64,
	mutate func(*types.Profile)) (*types.Profile, error) {

	prof, err := s.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	mutate(prof)
	if err := s.put(ctx, Profiles, prof.ID, prof); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s *Store) Tweet(ctx context.Context, id uint64) (*types.Tweet, error) {
	return getEntity[types.Tweet](ctx, s, Tweets, id)
}

func (s *Store) Tweets(ctx context.Context) ([]*types.Tweet, error) {
	return listEntities[types.Tweet](ctx, s, Tweets, nil)
}

func (s *Store) TweetsByAuthor(ctx context.Context, authorID uint64) ([]*types.Tweet, error) {
	return listEntities(ctx, s, Tweets, func(t *types.Tweet) bool {
		return t.AuthorID == authorID
	})
}

func (s *Store) CreateTweet(ctx context.Context, t *types.Tweet) error {
	id, err := s.nextID(Tweets)
	if err != nil {
		return err
	}
	t.ID = id
	return createEntity(ctx, s, Tweets, id, t)
}

// DeleteTweet removes a tweet. Likes and comments that reference it are
// left in place; there is no cascade.
func (s *Store) DeleteTweet(ctx context.Context, id uint64) (*types.Tweet, error) {
	return deleteEntity[types.Tweet](ctx, s, Tweets, id, nil)
}

func (s *Store) Like(ctx context.Context, id uint64) (*types.LikedTweet, error) {
	return getEntity[types.LikedTweet](ctx, s, Likes, id)
}

func (s *Store) LikesByUser(ctx context.Context, userID uint64) ([]*types.LikedTweet, error) {
	return listEntities(ctx, s, Likes, func(l *types.LikedTweet) bool {
		return l.UserID == userID
	})
}

func (s *Store) LikesByTweet(ctx context.Context, tweetID uint64) ([]*types.LikedTweet, error) {
	return listEntities(ctx, s, Likes, func(l *types.LikedTweet) bool {
		return l.TweetID == tweetID
	})
}

func (s *Store) CreateLike(ctx context.Context, l *types.LikedTweet) error {
	id, err := s.nextID(Likes)
	if err != nil {
		return err
	}
	l.ID = id
	return createEntity(ctx, s, Likes, id, l,
		indexEntry{likePairKey(l.UserID, l.TweetID), "like"},
	)
}

func (s *Store) DeleteLike(ctx context.Context, id uint64) (*types.LikedTweet, error) {
	return deleteEntity(ctx, s, Likes, id, func(l *types.LikedTweet) [][]byte {
		return [][]byte{likePairKey(l.UserID, l.TweetID)}
	})
}

func likePairKey(userID, tweetID uint64) []byte {
	return indexKey(idxLikePair, uint64Bytes(userID), uint64Bytes(tweetID))
}

func (s *Store) Comment(ctx context.Context, id uint64) (*types.Comment, error) {
	return getEntity[types.Comment](ctx, s, Comments, id)
}

func (s *Store) CommentsByUser(ctx context.Context, userID uint64) ([]*types.Comment, error) {
	return listEntities(ctx, s, Comments, func(c *types.Comment) bool {
		return c.UserID == userID
	})
}

func (s *Store) CommentsByTweet(ctx context.Context, tweetID uint64) ([]*types.Comment, error) {
	return listEntities(ctx, s, Comments, func(c *types.Comment) bool {
		return c.TweetID == tweetID
	})
}

func (s *Store) RepliesTo(ctx context.Context, commentID uint64) ([]*types.Comment, error) {
	return listEntities(ctx, s, Comments, func(c *types.Comment) bool {
		return c.CommentID == commentID
	})
}

func (s *Store) CreateComment(ctx context.Context, c *types.Comment) error {
	id, err := s.nextID(Comments)
	if err != nil {
		return err
	}
	c.ID = id
	return createEntity(ctx, s, Comments, id, c)
}

// DeleteComment removes a comment. Replies that reference it keep their
// dangling parent id; nested resolution of a dangling parent yields null.
func (s *Store) DeleteComment(ctx context.Context, id uint64) (*types.Comment, error) {
	return deleteEntity[types.Comment](ctx, s, Comments, id, nil)
}

func (s *Store) Following(ctx context.Context, id uint64) (*types.Following, error) {
	return getEntity[types.Following](ctx, s, Followings, id)
}

func (s *Store) FollowingByUser(ctx context.Context, userID uint64) ([]*types.Following, error) {
	return listEntities(ctx, s, Followings, func(f *types.Following) bool {
		return f.UserID == userID
	})
}

// FollowersOf returns the Following records whose followId is the given
// account, i.e. the accounts that follow it, regardless of who created
// the records.
func (s *Store) FollowersOf(ctx context.Context, followID uint64) ([]*types.Following, error) {
	return listEntities(ctx, s, Followings, func(f *types.Following) bool {
		return f.FollowID == followID
	})
}

func (s *Store) CreateFollowing(ctx context.Context, f *types.Following) error {
	id, err := s.nextID(Followings)
	if err != nil {
		return err
	}
	f.ID = id
	return createEntity(ctx, s, Followings, id, f)
}

func (s *Store) DeleteFollowing(ctx context.Context, id uint64) (*types.Following, error) {
	return deleteEntity[types.Following](ctx, s, Followings, id, nil)
}
