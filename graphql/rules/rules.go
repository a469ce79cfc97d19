/*
 * SPDX-FileCopyrightText: © Chirp Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package rules implements the permission gate that runs before field
// resolution. Every field access is checked against a table of predicates
// keyed by "Type.field". A predicate can allow the access, deny it with a
// reason, or substitute a fixed value for the field. Fields with no rule
// fall through to the table's default policy.
package rules

import (
	"context"
	"encoding/json"

	"github.com/chirp-social/chirp/store"
	"github.com/chirp-social/chirp/x"
)

// Policy is what happens to a field access that matches no rule.
type Policy int

const (
	// DefaultAllow resolves unmatched fields normally.
	DefaultAllow Policy = iota
	// DefaultDeny blocks unmatched fields.
	DefaultDeny
)

type decisionKind int

const (
	allow decisionKind = iota
	deny
	value
)

// A Decision is a predicate's verdict on a field access.
type Decision struct {
	kind   decisionKind
	reason string
	code   string
	val    interface{}
}

// Allow lets the field resolve normally.
func Allow() Decision {
	return Decision{kind: allow}
}

// Deny blocks the field with the given reason.
func Deny(reason string) Decision {
	return Decision{kind: deny, reason: reason, code: x.CodePermissionDenied}
}

// DenyWithCode blocks the field with the given reason and error code.
func DenyWithCode(reason, code string) Decision {
	return Decision{kind: deny, reason: reason, code: code}
}

// Value resolves the field to v instead of its stored value. Useful for
// masking fields without erroring the request.
func Value(v interface{}) Decision {
	return Decision{kind: value, val: v}
}

// Allowed reports whether the field may resolve normally.
func (d Decision) Allowed() bool {
	return d.kind == allow
}

// Denied returns the denial reason and code when the decision blocks the
// field.
func (d Decision) Denied() (reason, code string, ok bool) {
	if d.kind != deny {
		return "", "", false
	}
	return d.reason, d.code, true
}

// Computed returns the substituted value when the decision replaces the
// field's value.
func (d Decision) Computed() (interface{}, bool) {
	if d.kind != value {
		return nil, false
	}
	return d.val, true
}

// A RuleContext carries everything a predicate can inspect: who is asking,
// the parent object the field hangs off (nil at the roots), and the
// field's arguments.
type RuleContext struct {
	// Ctx is the request context, for predicates that read the store.
	Ctx context.Context
	// Subject is the authenticated user id, or 0 for anonymous requests.
	Subject uint64
	// Parent is the entity the field is being read from. For root query
	// and mutation fields it is nil.
	Parent interface{}
	// Args are the field's arguments with variables substituted.
	Args map[string]interface{}
}

// A Predicate decides one field access.
type Predicate func(rc RuleContext) Decision

// A Table maps "Type.field" to the predicate gating that field.
type Table struct {
	rules  map[string]Predicate
	policy Policy
}

// NewTable returns an empty rule table with the given default policy.
func NewTable(policy Policy) *Table {
	return &Table{
		rules:  make(map[string]Predicate),
		policy: policy,
	}
}

// Add registers p as the rule for typ.field, replacing any existing rule.
// Add returns the table so registrations chain.
func (t *Table) Add(typ, field string, p Predicate) *Table {
	t.rules[typ+"."+field] = p
	return t
}

// Eval runs the rule for typ.field. An unmatched field gets the table's
// default policy.
func (t *Table) Eval(typ, field string, rc RuleContext) Decision {
	if t == nil {
		return Allow()
	}
	if p, ok := t.rules[typ+"."+field]; ok {
		return p(rc)
	}
	if t.policy == DefaultDeny {
		return Deny("Access denied for " + typ + "." + field)
	}
	return Allow()
}

// RequireAuth denies anonymous access.
func RequireAuth(rc RuleContext) Decision {
	if rc.Subject == 0 {
		return DenyWithCode("Could not authenticate user.", x.CodeUnauthenticated)
	}
	return Allow()
}

// Default returns the standard rule table: anonymous users can read
// everything and sign up or log in, every other mutation needs a subject.
func Default() *Table {
	t := NewTable(DefaultAllow)
	for _, m := range []string{
		"createTweet",
		"deleteTweet",
		"likeTweet",
		"deleteLike",
		"createComment",
		"createReply",
		"deleteComment",
		"createProfile",
		"updateProfile",
		"follow",
		"deleteFollow",
	} {
		t.Add("Mutation", m, RequireAuth)
	}
	return t
}

// OwnerChecks registers ownership rules on t for the write mutations
// that Default() leaves open to any authenticated user: updateProfile
// and the deletes only pass when the subject owns the target. Targets
// are read through s; a missing or malformed target is let through so
// the resolver reports NotFound instead of a permission error. Not
// part of Default() because the upstream API allows these writes from
// any authenticated user.
func OwnerChecks(t *Table, s store.Reader) *Table {
	owned := func(rc RuleContext, what string,
		ownerOf func(ctx context.Context, id uint64) (uint64, error)) Decision {

		if d := RequireAuth(rc); !d.Allowed() {
			return d
		}
		id, ok := idArg(rc)
		if !ok {
			return Allow()
		}
		ownerID, err := ownerOf(rc.Ctx, id)
		if err != nil {
			return Allow()
		}
		if ownerID != rc.Subject {
			return Deny("Only the owner can " + what + ".")
		}
		return Allow()
	}

	t.Add("Mutation", "updateProfile", func(rc RuleContext) Decision {
		if d := RequireAuth(rc); !d.Allowed() {
			return d
		}
		// The id argument is the owning user's id.
		if id, ok := idArg(rc); ok && id != rc.Subject {
			return Deny("Only the owner can update this profile.")
		}
		return Allow()
	})
	t.Add("Mutation", "deleteTweet", func(rc RuleContext) Decision {
		return owned(rc, "delete this tweet",
			func(ctx context.Context, id uint64) (uint64, error) {
				tw, err := s.Tweet(ctx, id)
				if err != nil {
					return 0, err
				}
				return tw.AuthorID, nil
			})
	})
	t.Add("Mutation", "deleteLike", func(rc RuleContext) Decision {
		return owned(rc, "delete this like",
			func(ctx context.Context, id uint64) (uint64, error) {
				l, err := s.Like(ctx, id)
				if err != nil {
					return 0, err
				}
				return l.UserID, nil
			})
	})
	t.Add("Mutation", "deleteComment", func(rc RuleContext) Decision {
		return owned(rc, "delete this comment",
			func(ctx context.Context, id uint64) (uint64, error) {
				c, err := s.Comment(ctx, id)
				if err != nil {
					return 0, err
				}
				return c.UserID, nil
			})
	})
	t.Add("Mutation", "deleteFollow", func(rc RuleContext) Decision {
		return owned(rc, "delete this follow",
			func(ctx context.Context, id uint64) (uint64, error) {
				f, err := s.Following(ctx, id)
				if err != nil {
					return 0, err
				}
				return f.UserID, nil
			})
	})
	return t
}

// idArg reads the rule context's id argument however the request layer
// delivered it.
func idArg(rc RuleContext) (uint64, bool) {
	switch v := rc.Args["id"].(type) {
	case int64:
		return uint64(v), v > 0
	case float64:
		return uint64(v), v > 0
	case json.Number:
		i, err := v.Int64()
		return uint64(i), err == nil && i > 0
	}
	return 0, false
}
