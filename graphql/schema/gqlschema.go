/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/dgraph-io/gqlparser/v2/validator"
)

// ChirpSchema is the SDL for the chirp API. Relation field names follow
// the original API contract, capitalisation included, so existing clients
// keep working.
const ChirpSchema = `
scalar DateTime

type Query {
	allUsers: [User!]!
	me: User
	tweets: [Tweet]
	tweet(id: Int): Tweet
	user(id: Int): User
	followers(id: Int): [Following]
}

type Mutation {
	signup(name: String, email: String!, password: String!): AuthPayload
	login(email: String!, password: String!): AuthPayload
	createProfile(bio: String, location: String, website: String, avatar: String): Profile
	updateProfile(id: Int, bio: String, location: String, website: String, avatar: String): Profile
	createTweet(content: String): Tweet
	deleteTweet(id: Int): Tweet
	likeTweet(id: Int): LikedTweet
	deleteLike(id: Int): LikedTweet
	createComment(content: String, id: Int): Comments
	createReply(content: String, id: Int, commentId: Int): Comments
	deleteComment(id: Int): Comments
	follow(name: String, followId: Int, avatar: String): Following
	deleteFollow(id: Int): Following
}

type User {
	id: Int!
	name: String!
	email: String!
	profile: Profile
	tweets: [Tweet!]!
	likedTweet: [LikedTweet]
	comments: [Comments]
	Following: [Following]
}

type Profile {
	id: Int!
	bio: String
	location: String
	website: String
	avatar: String
	user: User
}

type Tweet {
	id: Int!
	content: String!
	createdAt: DateTime
	author: User
	likes: [LikedTweet]
	comments: [Comments]
}

type LikedTweet {
	id: Int!
	likedAt: DateTime
	tweet: Tweet!
	User: User!
}

type Following {
	id: Int!
	name: String!
	followId: Int!
	avatar: String
	User: User!
}

type Comments {
	id: Int!
	createdAt: DateTime
	commentId: Int
	content: String!
	Tweet: Tweet!
	User: User!
	comments: [Comments]
}

type AuthPayload {
	token: String
	user: User
}
`

// FromString parses and validates an SDL string into a Schema ready to
// serve requests.
func FromString(sch string) (Schema, error) {
	// The Prelude brings in the predefined scalar and introspection types.
	doc, gqlErr := parser.ParseSchemas(validator.Prelude, &ast.Source{Input: sch})
	if gqlErr != nil {
		return nil, gqlErr
	}

	gqlSchema, gqlErr := validator.ValidateSchemaDocument(doc)
	if gqlErr != nil {
		return nil, gqlErr
	}

	return AsSchema(gqlSchema), nil
}
