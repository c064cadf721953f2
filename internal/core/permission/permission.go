// Package permission implements the grant model used by roles: either the
// wildcard "*" covering everything, or a comma-separated list of tokens of
// the form "module" or "module:action". A bare module grant implicitly
// covers every action under that module.
package permission

import "strings"

// Wildcard is the sentinel expression meaning every capability is granted.
const Wildcard = "*"

const separator = ":"

// Token identifies a grantable capability.
type Token struct {
	Module string
	Action string
}

// ParseToken splits a raw token on the first module separator. A token
// without a separator is a whole-module grant.
func ParseToken(raw string) Token {
	module, action, found := strings.Cut(raw, separator)
	if !found {
		return Token{Module: module}
	}
	return Token{Module: module, Action: action}
}

func (t Token) String() string {
	if t.Action == "" {
		return t.Module
	}
	return t.Module + separator + t.Action
}

// Set is the parsed form of a role's permission expression.
type Set struct {
	wildcard bool
	tokens   map[Token]struct{}
}

// Parse converts a stored permission expression into a Set. Empty elements
// produced by stray commas are dropped; an empty expression grants nothing.
func Parse(expr string) Set {
	expr = strings.TrimSpace(expr)
	if expr == Wildcard {
		return Set{wildcard: true}
	}

	tokens := make(map[Token]struct{})
	for _, raw := range strings.Split(expr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		tokens[ParseToken(raw)] = struct{}{}
	}
	return Set{tokens: tokens}
}

// IsWildcard reports whether the set is the all-capabilities grant.
func (s Set) IsWildcard() bool {
	return s.wildcard
}

// Allows decides whether the set covers the required token: wildcard covers
// everything, an exact token covers itself, and a whole-module grant covers
// every action of that module.
func (s Set) Allows(required Token) bool {
	if s.wildcard {
		return true
	}
	if _, ok := s.tokens[required]; ok {
		return true
	}
	if required.Action != "" {
		_, ok := s.tokens[Token{Module: required.Module}]
		return ok
	}
	return false
}

// AllowsExpr is Allows over a raw required token string.
func (s Set) AllowsExpr(required string) bool {
	return s.Allows(ParseToken(required))
}
