package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUUIDWithoutDashes(t *testing.T) {
	v := GetUUIDWithoutDashes()
	assert.Len(t, v, 32)
	assert.NotContains(t, v, "-")
	assert.NotEqual(t, v, GetUUIDWithoutDashes())
}

func TestGetUlid_Monotonic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := GetUlidAt(now)
	for i := 0; i < 100; i++ {
		next := GetUlidAt(now)
		assert.Greater(t, next, prev)
		prev = next
	}

	parsed, err := ulid.Parse(prev)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}
