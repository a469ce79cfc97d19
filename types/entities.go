/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package types holds the persisted entities and the password capability.
package types

import "time"

// A User is an account holder. Name and Email are unique across all
// users. Password is the bcrypt hash of the signup secret, never the
// plaintext.
type User struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// A Profile belongs to exactly one User and is created only after that
// user exists. All descriptive fields are optional.
type Profile struct {
	ID       uint64 `json:"id"`
	UserID   uint64 `json:"userId"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// A Tweet belongs to exactly one author.
type Tweet struct {
	ID        uint64    `json:"id"`
	AuthorID  uint64    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// A LikedTweet joins one User and one Tweet. The (user, tweet) pair is
// unique; the store enforces it.
type LikedTweet struct {
	ID      uint64    `json:"id"`
	UserID  uint64    `json:"userId"`
	TweetID uint64    `json:"tweetId"`
	LikedAt time.Time `json:"likedAt"`
}

// A Comment belongs to one Tweet and one authoring User. CommentID, when
// non-zero, references the parent comment this one replies to.
type Comment struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	TweetID   uint64    `json:"tweetId"`
	CommentID uint64    `json:"commentId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// A Following records that User UserID follows the account FollowID. Name
// and Avatar are denormalized from the followed account at follow time.
type Following struct {
	ID       uint64 `json:"id"`
	UserID   uint64 `json:"userId"`
	FollowID uint64 `json:"followId"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}
