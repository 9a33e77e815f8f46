package labeler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_Layouts(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC)
	for _, s := range []string{
		"2024-01-01T00:00:05",
		"2024-01-01 00:00:05",
		"2024-01-01T00:00:05.000",
		" 2024-01-01T00:00:05 ",
		"2024/01/01 00:00:05",
		"20240101T000005",
	} {
		ts, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.False(t, ts.zoned, s)
		assert.True(t, ts.t.Equal(want), "%s parsed as %v", s, ts.t)
	}
}

func TestParseTimestamp_Zoned(t *testing.T) {
	a, err := ParseTimestamp("2024-01-01T01:00:05+01:00")
	require.NoError(t, err)
	b, err := ParseTimestamp("2024-01-01T00:00:05Z")
	require.NoError(t, err)
	assert.True(t, a.zoned)
	assert.True(t, a.Equal(b), "same instant in different offsets")
}

func TestParseTimestamp_NaiveNeverEqualsZoned(t *testing.T) {
	naive, err := ParseTimestamp("2024-01-01T00:00:05")
	require.NoError(t, err)
	zoned, err := ParseTimestamp("2024-01-01T00:00:05Z")
	require.NoError(t, err)
	assert.False(t, naive.Equal(zoned))
}

func TestParseTimestamp_ExactPrecision(t *testing.T) {
	a, err := ParseTimestamp("2024-01-01T00:00:05")
	require.NoError(t, err)
	b, err := ParseTimestamp("2024-01-01T00:00:05.001")
	require.NoError(t, err)
	assert.False(t, a.Equal(b), "sub-second difference must not match")

	c, err := ParseTimestamp("2024-01-01T00:00:05.000000")
	require.NoError(t, err)
	assert.True(t, a.Equal(c), "trailing zero fraction is the same instant")

	d, err := ParseTimestamp("2024-01-01")
	require.NoError(t, err)
	e, err := ParseTimestamp("2024-01-01 00:00:00")
	require.NoError(t, err)
	assert.True(t, d.Equal(e))
}

func TestParseTimestamp_NotATime(t *testing.T) {
	for _, s := range []string{"", "  ", "NaN", "NaT", "NA", "null"} {
		_, err := ParseTimestamp(s)
		assert.True(t, errors.Is(err, errNotATime), "%q", s)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, s := range []string{"yesterday", "2024-13-01", "01/02/2024 noon", "1704067205"} {
		_, err := ParseTimestamp(s)
		assert.Error(t, err, s)
		assert.False(t, errors.Is(err, errNotATime), s)
	}
}
