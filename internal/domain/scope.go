package domain

import (
	"fmt"
	"strings"
)

// Scope is a fine-grained capability carried by service tokens.
// The vocabulary is closed: unknown scope strings are rejected at the
// boundary rather than threaded through as free-form text.
type Scope string

const (
	ScopeRAGRead        Scope = "rag:read"
	ScopeRAGSync        Scope = "rag:sync"
	ScopeAnalyticsRead  Scope = "analytics:read"
	ScopeAnalyticsWrite Scope = "analytics:write"
	ScopeHealthCheck    Scope = "health:check"
	// ScopeServiceAdmin satisfies any scope requirement.
	ScopeServiceAdmin Scope = "service:admin"
)

var knownScopes = map[Scope]struct{}{
	ScopeRAGRead:        {},
	ScopeRAGSync:        {},
	ScopeAnalyticsRead:  {},
	ScopeAnalyticsWrite: {},
	ScopeHealthCheck:    {},
	ScopeServiceAdmin:   {},
}

// ParseScope validates a single scope string.
func ParseScope(s string) (Scope, error) {
	scope := Scope(s)
	if _, ok := knownScopes[scope]; !ok {
		return "", fmt.Errorf("unknown scope %q", s)
	}
	return scope, nil
}

// ParseScopeList parses an OAuth2 space-separated scope claim.
func ParseScopeList(s string) ([]Scope, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Fields(s)
	scopes := make([]Scope, 0, len(fields))
	for _, field := range fields {
		scope, err := ParseScope(field)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

// JoinScopes renders scopes as the space-separated OAuth2 claim form.
func JoinScopes(scopes []Scope) string {
	parts := make([]string, len(scopes))
	for i, scope := range scopes {
		parts[i] = string(scope)
	}
	return strings.Join(parts, " ")
}

// HasScope reports whether required is present in granted, honoring the
// service:admin override.
func HasScope(granted []Scope, required Scope) bool {
	for _, scope := range granted {
		if scope == required || scope == ScopeServiceAdmin {
			return true
		}
	}
	return false
}
