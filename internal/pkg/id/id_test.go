package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAt_EncodesTimestamp(t *testing.T) {
	ts := time.UnixMilli(1_700_000_000_123)
	parsed, err := ulid.Parse(At(ts))
	require.NoError(t, err)
	assert.Equal(t, uint64(ts.UnixMilli()), parsed.Time())
}

func TestAt_UniqueForSameInstant(t *testing.T) {
	ts := time.UnixMilli(1_700_000_000_123)
	assert.NotEqual(t, At(ts), At(ts))
}
