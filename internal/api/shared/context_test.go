package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTraceID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewTraceID()
		require.Len(t, id, 32)
		_, err := hex.DecodeString(id)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

func TestTraceIDContext(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx := WithTraceID(context.Background(), "abc123")
	assert.Equal(t, "abc123", GetTraceID(ctx))

	fresh := SetTraceID(ctx)
	assert.Len(t, GetTraceID(fresh), 32)
	assert.NotEqual(t, "abc123", GetTraceID(fresh))
	assert.Equal(t, "abc123", GetTraceID(ctx), "parent context is unchanged")
}
