package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScopeList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Scope
		wantErr bool
	}{
		{name: "empty claim", input: "", want: nil},
		{name: "whitespace only", input: "   ", want: nil},
		{name: "single scope", input: "rag:read", want: []Scope{ScopeRAGRead}},
		{
			name:  "multiple scopes",
			input: "rag:read rag:sync analytics:write",
			want:  []Scope{ScopeRAGRead, ScopeRAGSync, ScopeAnalyticsWrite},
		},
		{
			name:  "extra whitespace",
			input: "  rag:read   health:check ",
			want:  []Scope{ScopeRAGRead, ScopeHealthCheck},
		},
		{name: "unknown scope rejected", input: "rag:read rag:delete", wantErr: true},
		{name: "case sensitive", input: "RAG:READ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScopeList(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasScope(t *testing.T) {
	granted := []Scope{ScopeRAGRead, ScopeAnalyticsRead}

	assert.True(t, HasScope(granted, ScopeRAGRead))
	assert.False(t, HasScope(granted, ScopeRAGSync))
	assert.False(t, HasScope(nil, ScopeRAGRead))

	// service:admin satisfies any requirement.
	admin := []Scope{ScopeServiceAdmin}
	assert.True(t, HasScope(admin, ScopeRAGSync))
	assert.True(t, HasScope(admin, ScopeAnalyticsWrite))
	assert.True(t, HasScope(admin, ScopeServiceAdmin))
}

func TestJoinScopes(t *testing.T) {
	assert.Equal(t, "", JoinScopes(nil))
	assert.Equal(t, "rag:read rag:sync", JoinScopes([]Scope{ScopeRAGRead, ScopeRAGSync}))
}
