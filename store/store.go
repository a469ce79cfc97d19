/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package store is the badger-backed data store for chirp entities.
//
// Entities are stored as JSON under per-collection key prefixes and the
// ids come from badger sequences. Uniqueness (user email, user name, one
// profile per user, one like per (user, tweet) pair) is enforced with
// index keys written in the same transaction as the entity, so the store
// is the arbiter of write consistency and callers don't need their own
// locking around check-then-create.
package store

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/chirp-social/chirp/types"
)

var (
	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate is returned when a write would violate a unique
	// constraint.
	ErrDuplicate = errors.New("unique constraint violation")
)

// A Reader is the read side of the store. Resolvers depend on this
// interface, not on *Store, so a request-scoped batcher or dedup layer
// can be slotted in without touching resolver logic.
type Reader interface {
	User(ctx context.Context, id uint64) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	UserByName(ctx context.Context, name string) (*types.User, error)
	Users(ctx context.Context) ([]*types.User, error)

	Profile(ctx context.Context, id uint64) (*types.Profile, error)
	ProfileByUser(ctx context.Context, userID uint64) (*types.Profile, error)

	Tweet(ctx context.Context, id uint64) (*types.Tweet, error)
	Tweets(ctx context.Context) ([]*types.Tweet, error)
	TweetsByAuthor(ctx context.Context, authorID uint64) ([]*types.Tweet, error)

	Like(ctx context.Context, id uint64) (*types.LikedTweet, error)
	LikesByUser(ctx context.Context, userID uint64) ([]*types.LikedTweet, error)
	LikesByTweet(ctx context.Context, tweetID uint64) ([]*types.LikedTweet, error)

	Comment(ctx context.Context, id uint64) (*types.Comment, error)
	CommentsByUser(ctx context.Context, userID uint64) ([]*types.Comment, error)
	CommentsByTweet(ctx context.Context, tweetID uint64) ([]*types.Comment, error)
	RepliesTo(ctx context.Context, commentID uint64) ([]*types.Comment, error)

	Following(ctx context.Context, id uint64) (*types.Following, error)
	FollowingByUser(ctx context.Context, userID uint64) ([]*types.Following, error)
	FollowersOf(ctx context.Context, followID uint64) ([]*types.Following, error)
}

// A Datastore is the full store contract consumed by the resolution core.
type Datastore interface {
	Reader

	CreateUser(ctx context.Context, u *types.User) error
	CreateProfile(ctx context.Context, p *types.Profile) error
	UpdateProfileByUser(ctx context.Context, userID uint64,
		mutate func(*types.Profile)) (*types.Profile, error)
	CreateTweet(ctx context.Context, t *types.Tweet) error
	DeleteTweet(ctx context.Context, id uint64) (*types.Tweet, error)
	CreateLike(ctx context.Context, l *types.LikedTweet) error
	DeleteLike(ctx context.Context, id uint64) (*types.LikedTweet, error)
	CreateComment(ctx context.Context, c *types.Comment) error
	DeleteComment(ctx context.Context, id uint64) (*types.Comment, error)
	CreateFollowing(ctx context.Context, f *types.Following) error
	DeleteFollowing(ctx context.Context, id uint64) (*types.Following, error)
}

// Options configures Open.
type Options struct {
	// Dir is the badger directory. Ignored when InMemory is set.
	Dir string
	// InMemory runs badger without touching disk. Used by tests and by
	// `chirp serve --in-memory`.
	InMemory bool
	// CacheMB bounds the read-through entity cache. <= 0 disables it.
	CacheMB int64
}

// Store implements Datastore on badger with an optional ristretto
// read-through cache keyed (collection, id).
type Store struct {
	db    *badger.DB
	cache *ristretto.Cache[string, []byte]
	seqs  map[Collection]*badger.Sequence
}

var _ Datastore = (*Store)(nil)

// Open opens or creates the store.
func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger")
	}

	s := &Store{db: db, seqs: make(map[Collection]*badger.Sequence)}
	for _, c := range []Collection{Users, Profiles, Tweets, Likes, Comments, Followings} {
		seq, err := db.GetSequence(seqKey(c), 128)
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "opening %s sequence", c)
		}
		s.seqs[c] = seq
	}

	if opts.CacheMB > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
			NumCounters: opts.CacheMB << 10,
			MaxCost:     opts.CacheMB << 20,
			BufferItems: 64,
		})
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "opening entity cache")
		}
		s.cache = cache
	}
	return s, nil
}

// Close releases the id sequences and closes badger. The store must not
// be used afterwards.
func (s *Store) Close() error {
	for c, seq := range s.seqs {
		if err := seq.Release(); err != nil {
			glog.Errorf("Releasing %s sequence: %v", c, err)
		}
	}
	if s.cache != nil {
		s.cache.Close()
	}
	return s.db.Close()
}

// nextID hands out the next id for a collection. Ids are opaque positive
// integers; 0 is never a valid id.
func (s *Store) nextID(c Collection) (uint64, error) {
	id, err := s.seqs[c].Next()
	if err != nil {
		return 0, errors.Wrapf(err, "allocating %s id", c)
	}
	if id == 0 {
		return s.seqs[c].Next()
	}
	return id, nil
}

// getEntity reads one entity, via the cache when it's enabled.
func getEntity[T any](ctx context.Context, s *Store, c Collection, id uint64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s 0", c)
	}

	var raw []byte
	if s.cache != nil {
		if val, ok := s.cache.Get(cacheKey(c, id)); ok {
			raw = val
		}
	}
	if raw == nil {
		err := s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(entityKey(c, id))
			if err != nil {
				return err
			}
			raw, err = item.ValueCopy(nil)
			return err
		})
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil, errors.Wrapf(ErrNotFound, "%s %d", c, id)
		case err != nil:
			return nil, errors.Wrapf(err, "reading %s %d", c, id)
		}
		if s.cache != nil {
			s.cache.Set(cacheKey(c, id), raw, int64(len(raw)))
		}
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, errors.Wrapf(err, "decoding %s %d", c, id)
	}
	return out, nil
}

// listEntities scans a collection in id order, keeping entities that pass
// the filter. A nil filter keeps everything.
func listEntities[T any](ctx context.Context, s *Store, c Collection,
	keep func(*T) bool) ([]*T, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*T
	err := s.db.View(func(txn *badger.Txn) error {
		opt := badger.DefaultIteratorOptions
		opt.Prefix = []byte{byte(c)}
		it := txn.NewIterator(opt)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ent := new(T)
				if err := json.Unmarshal(val, ent); err != nil {
					return err
				}
				if keep == nil || keep(ent) {
					out = append(out, ent)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", c)
	}
	return out, nil
}

// byIndex resolves a unique index key to the entity it points at.
func byIndex[T any](ctx context.Context, s *Store, c Collection, key []byte,
	what string) (*T, error) {

	var id uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, errors.Wrapf(ErrNotFound, "%s with %s", c, what)
	case err != nil:
		return nil, errors.Wrapf(err, "reading %s index", c)
	}
	return getEntity[T](ctx, s, c, id)
}

// An indexEntry is one unique constraint to claim while creating an
// entity. Claiming an already-owned key fails the transaction with
// ErrDuplicate.
type indexEntry struct {
	key  []byte
	what string
}

// createEntity writes an entity and claims its unique index keys in one
// transaction. Badger tracks the index reads, so two racing creates for
// the same key cannot both commit.
func createEntity(ctx context.Context, s *Store, c Collection, id uint64,
	ent interface{}, uniq ...indexEntry) error {

	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(ent)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", c)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, idx := range uniq {
			_, err := txn.Get(idx.key)
			switch {
			case err == nil:
				return errors.Wrapf(ErrDuplicate, "%s", idx.what)
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}
			if err := txn.Set(idx.key, uint64Bytes(id)); err != nil {
				return err
			}
		}
		return txn.Set(entityKey(c, id), raw)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return errors.Wrapf(err, "creating %s", c)
	}
	if glog.V(2) {
		glog.Infof("created %s %d", c, id)
	}
	return nil
}

// put overwrites an existing entity and invalidates its cache entry.
func (s *Store) put(ctx context.Context, c Collection, id uint64, ent interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(ent)
	if err != nil {
		return errors.Wrapf(err, "encoding %s %d", c, id)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entityKey(c, id), raw)
	})
	if err != nil {
		return errors.Wrapf(err, "updating %s %d", c, id)
	}
	if s.cache != nil {
		s.cache.Del(cacheKey(c, id))
	}
	return nil
}

// deleteEntity removes an entity and returns what was removed. unindex
// lists the index keys to drop along with it.
func deleteEntity[T any](ctx context.Context, s *Store, c Collection, id uint64,
	unindex func(*T) [][]byte) (*T, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := new(T)
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(entityKey(c, id))
		if err != nil {
			return err
		}
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
		if err != nil {
			return err
		}
		if unindex != nil {
			for _, key := range unindex(out) {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}
		}
		return txn.Delete(entityKey(c, id))
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, errors.Wrapf(ErrNotFound, "%s %d", c, id)
	case err != nil:
		return nil, errors.Wrapf(err, "deleting %s %d", c, id)
	}
	if s.cache != nil {
		s.cache.Del(cacheKey(c, id))
	}
	return out, nil
}
