package domain

import (
	"fmt"
	"strings"
)

// ScopeKind identifies which namespace a balance lives in.
type ScopeKind string

const (
	ScopeCommunity ScopeKind = "community"
	ScopeGlobal    ScopeKind = "global"
)

const communityPrefix = string(ScopeCommunity) + ":"

// Scope is either one specific community or the single global namespace.
type Scope struct {
	Kind        ScopeKind `json:"kind"`
	CommunityID string    `json:"communityID,omitempty"` // Empty for global scope
}

// GlobalScope returns the global namespace shared across all communities.
func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// CommunityScope returns the namespace of a single community.
func CommunityScope(communityID string) Scope {
	return Scope{Kind: ScopeCommunity, CommunityID: communityID}
}

// IsGlobal reports whether s is the global namespace.
func (s Scope) IsGlobal() bool {
	return s.Kind == ScopeGlobal
}

// Validate checks that the scope is well formed.
func (s Scope) Validate() error {
	switch s.Kind {
	case ScopeGlobal:
		if s.CommunityID != "" {
			return fmt.Errorf("global scope cannot carry a community id")
		}
		return nil
	case ScopeCommunity:
		if strings.TrimSpace(s.CommunityID) == "" {
			return fmt.Errorf("community scope requires a community id")
		}
		return nil
	default:
		return fmt.Errorf("unknown scope kind %q", s.Kind)
	}
}

// String returns "global" or "community:<id>".
func (s Scope) String() string {
	if s.Kind == ScopeCommunity {
		return communityPrefix + s.CommunityID
	}
	return string(s.Kind)
}

// ParseScope parses the text form produced by Scope.String.
func ParseScope(text string) (Scope, error) {
	switch {
	case text == string(ScopeGlobal):
		return GlobalScope(), nil
	case strings.HasPrefix(text, communityPrefix):
		s := CommunityScope(strings.TrimPrefix(text, communityPrefix))
		if err := s.Validate(); err != nil {
			return Scope{}, err
		}
		return s, nil
	default:
		return Scope{}, fmt.Errorf("unknown scope %q", text)
	}
}

// ResolveScope maps a request-level scope kind ("community" or "global") onto a concrete
// scope for the given community.
func ResolveScope(kind string, communityID string) (Scope, error) {
	switch ScopeKind(kind) {
	case ScopeGlobal:
		return GlobalScope(), nil
	case ScopeCommunity:
		s := CommunityScope(communityID)
		return s, s.Validate()
	default:
		return Scope{}, fmt.Errorf("unknown scope kind %q", kind)
	}
}
