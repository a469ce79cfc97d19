/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"encoding/binary"
	"fmt"
)

// A Collection identifies one of the entity keyspaces in badger. Entity
// keys are the collection byte followed by the big-endian id, so an
// iterator over the collection prefix sees entities in id order.
type Collection byte

const (
	Users Collection = iota + 1
	Profiles
	Tweets
	Likes
	Comments
	Followings
)

// Unique-index keyspaces. Index keys live outside the collection prefixes
// and map an indexed value to the 8-byte id that owns it. They are written
// in the same transaction as the entity, which is what closes the
// check-then-create race at signup and like time.
const (
	idxUserEmail byte = 0x81
	idxUserName  byte = 0x82
	idxLikePair  byte = 0x83
	idxProfOwner byte = 0x84
)

func (c Collection) String() string {
	switch c {
	case Users:
		return "user"
	case Profiles:
		return "profile"
	case Tweets:
		return "tweet"
	case Likes:
		return "like"
	case Comments:
		return "comment"
	case Followings:
		return "following"
	}
	return fmt.Sprintf("collection(%d)", byte(c))
}

func entityKey(c Collection, id uint64) []byte {
	key := make([]byte, 9)
	key[0] = byte(c)
	binary.BigEndian.PutUint64(key[1:], id)
	return key
}

func indexKey(prefix byte, parts ...[]byte) []byte {
	key := []byte{prefix}
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func seqKey(c Collection) []byte {
	return []byte(fmt.Sprintf("!chirp!seq!%s", c))
}

func cacheKey(c Collection, id uint64) string {
	return fmt.Sprintf("%d/%d", byte(c), id)
}
