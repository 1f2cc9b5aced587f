package logger

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string unchanged",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length unchanged",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "ascii truncated",
			input:  "hello world",
			maxLen: 8,
			want:   "hello...",
		},
		{
			name:   "tiny limit",
			input:  "hello",
			maxLen: 3,
			want:   "...",
		},
		{
			name:   "cyrillic within limit",
			input:  "Привет",
			maxLen: 10,
			want:   "Привет",
		},
		{
			name:   "cyrillic truncated on rune boundary",
			input:  "Привет, мир",
			maxLen: 9,
			want:   "Привет...",
		},
		{
			name:   "emoji truncated on rune boundary",
			input:  "роль ✅✅✅✅✅",
			maxLen: 9,
			want:   "роль ✅...",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := truncateString(tc.input, tc.maxLen)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
