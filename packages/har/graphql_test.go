package har

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationName(t *testing.T) {
	tests := []struct {
		name     string
		postData string
		expected string
	}{
		{"anonymous query", `{"query": "query { getUser { id name } }"}`, "getUser"},
		{"shorthand query", `{"query": "{ viewer { login } }"}`, "viewer"},
		{"named operation", `{"query": "query Q($id: ID!) { node(id: $id) { id } }", "variables": {"id": "1"}}`, "node"},
		{"mutation", `{"query": "mutation { addUser(name: \"a\") { id } }"}`, "addUser"},
		{"alias uses field name", `{"query": "{ me: currentUser { id } }"}`, "currentUser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := OperationName(tt.postData)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestOperationName_Errors(t *testing.T) {
	for _, postData := range []string{
		"",
		"query { a }",
		`{"variables": {}}`,
		`{"query": 1}`,
		`{"query": "query {"}`,
		`{"query": "fragment F on User { id }"}`,
		`{"query": "{ ...F } fragment F on User { id }"}`,
	} {
		_, err := OperationName(postData)
		assert.Error(t, err, postData)
	}
}
