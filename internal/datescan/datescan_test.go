package datescan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "iso date",
			text: "This license expires on 2026-01-15 unless renewed.",
			want: []string{"2026-01-15"},
		},
		{
			name: "slash date",
			text: "Valid through 12/31/2025.",
			want: []string{"12/31/2025"},
		},
		{
			name: "multiple dates in order of occurrence",
			text: "Issued 01/01/2024, renewed 2025-06-30, expires 2026-06-30.",
			want: []string{"01/01/2024", "2025-06-30", "2026-06-30"},
		},
		{
			name: "two digit year",
			text: "signed 3/4/99",
			want: []string{"3/4/99"},
		},
		{
			name: "duplicates preserved",
			text: "2026-01-15 and again 2026-01-15",
			want: []string{"2026-01-15", "2026-01-15"},
		},
		{
			name: "no dates",
			text: "This document contains no dates at all.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.text))
		})
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"2026-01-15", "12/31/2025", "2026-01-15", "12/31/2025", "01/01/2024"})
	assert.Equal(t, []string{"2026-01-15", "12/31/2025", "01/01/2024"}, got)

	assert.Empty(t, Dedupe(nil))
}

func TestCandidate(t *testing.T) {
	t.Run("strict iso first match is parsed", func(t *testing.T) {
		got := Candidate([]string{"2026-01-15", "12/31/2025"})
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("slash first match is detected but not used", func(t *testing.T) {
		// Even with a parseable ISO date later in the list, only the first
		// match is ever considered.
		assert.Nil(t, Candidate([]string{"12/31/2025", "2026-01-15"}))
	})

	t.Run("dash date with short components is not used", func(t *testing.T) {
		assert.Nil(t, Candidate([]string{"1-2-2026"}))
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Nil(t, Candidate(nil))
	})
}
