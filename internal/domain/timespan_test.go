package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(t *testing.T, startHour, startMin, endHour, endMin int) TimeSpan {
	t.Helper()
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	s, err := NewTimeSpan(
		day.Add(time.Duration(startHour)*time.Hour+time.Duration(startMin)*time.Minute),
		day.Add(time.Duration(endHour)*time.Hour+time.Duration(endMin)*time.Minute),
	)
	require.NoError(t, err)
	return s
}

func TestNewTimeSpan(t *testing.T) {
	day := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("valid interval", func(t *testing.T) {
		s, err := NewTimeSpan(day, day.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, s.Duration())
	})

	t.Run("zero-length interval rejected", func(t *testing.T) {
		_, err := NewTimeSpan(day, day)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("inverted interval rejected", func(t *testing.T) {
		_, err := NewTimeSpan(day, day.Add(-time.Minute))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestOverlaps(t *testing.T) {
	t.Run("partial overlap", func(t *testing.T) {
		assert.True(t, Overlaps(span(t, 12, 0, 14, 0), span(t, 13, 0, 15, 0)))
		assert.True(t, Overlaps(span(t, 13, 0, 15, 0), span(t, 12, 0, 14, 0)))
	})

	t.Run("containment", func(t *testing.T) {
		assert.True(t, Overlaps(span(t, 12, 0, 18, 0), span(t, 13, 0, 14, 0)))
		assert.True(t, Overlaps(span(t, 13, 0, 14, 0), span(t, 12, 0, 18, 0)))
	})

	t.Run("identical spans", func(t *testing.T) {
		assert.True(t, Overlaps(span(t, 12, 0, 14, 0), span(t, 12, 0, 14, 0)))
	})

	t.Run("touching boundaries do not overlap", func(t *testing.T) {
		assert.False(t, Overlaps(span(t, 12, 0, 14, 0), span(t, 14, 0, 16, 0)))
		assert.False(t, Overlaps(span(t, 14, 0, 16, 0), span(t, 12, 0, 14, 0)))
	})

	t.Run("disjoint spans", func(t *testing.T) {
		assert.False(t, Overlaps(span(t, 10, 0, 11, 0), span(t, 14, 0, 16, 0)))
	})
}

func TestWithBuffers(t *testing.T) {
	busy := span(t, 13, 0, 15, 0)

	expanded := WithBuffers(busy, 30*time.Minute, time.Hour)
	assert.Equal(t, span(t, 12, 30, 16, 0), expanded)

	t.Run("zero buffers keep span intact", func(t *testing.T) {
		assert.Equal(t, busy, WithBuffers(busy, 0, 0))
	})

	t.Run("candidate ending at block start is free", func(t *testing.T) {
		candidate := span(t, 10, 30, 12, 30)
		assert.False(t, Overlaps(candidate, expanded))
	})

	t.Run("candidate crossing block start conflicts", func(t *testing.T) {
		candidate := span(t, 11, 0, 13, 0)
		assert.True(t, Overlaps(candidate, expanded))
	})
}

func TestMergeSpans(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, MergeSpans(nil))
		assert.Empty(t, MergeSpans([]TimeSpan{}))
	})

	t.Run("single span unchanged", func(t *testing.T) {
		got := MergeSpans([]TimeSpan{span(t, 12, 0, 14, 0)})
		assert.Equal(t, []TimeSpan{span(t, 12, 0, 14, 0)}, got)
	})

	t.Run("overlapping spans coalesce", func(t *testing.T) {
		got := MergeSpans([]TimeSpan{
			span(t, 12, 0, 14, 0),
			span(t, 13, 0, 16, 0),
		})
		assert.Equal(t, []TimeSpan{span(t, 12, 0, 16, 0)}, got)
	})

	t.Run("adjacent spans coalesce", func(t *testing.T) {
		got := MergeSpans([]TimeSpan{
			span(t, 12, 0, 14, 0),
			span(t, 14, 0, 15, 0),
		})
		assert.Equal(t, []TimeSpan{span(t, 12, 0, 15, 0)}, got)
	})

	t.Run("contained span absorbed", func(t *testing.T) {
		got := MergeSpans([]TimeSpan{
			span(t, 12, 0, 18, 0),
			span(t, 13, 0, 14, 0),
		})
		assert.Equal(t, []TimeSpan{span(t, 12, 0, 18, 0)}, got)
	})

	t.Run("disjoint spans preserved and sorted", func(t *testing.T) {
		got := MergeSpans([]TimeSpan{
			span(t, 16, 0, 17, 0),
			span(t, 10, 0, 11, 0),
			span(t, 12, 0, 13, 0),
		})
		assert.Equal(t, []TimeSpan{
			span(t, 10, 0, 11, 0),
			span(t, 12, 0, 13, 0),
			span(t, 16, 0, 17, 0),
		}, got)
	})

	t.Run("input slice not mutated", func(t *testing.T) {
		input := []TimeSpan{
			span(t, 16, 0, 17, 0),
			span(t, 10, 0, 11, 0),
		}
		MergeSpans(input)
		assert.Equal(t, span(t, 16, 0, 17, 0), input[0])
	})
}
