package versionedcontent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffWords(t *testing.T) {
	tests := []struct {
		name    string
		oldText string
		newText string
		want    []DiffSegment
	}{
		{
			name:    "identical texts",
			oldText: "the quick brown fox",
			newText: "the quick brown fox",
			want: []DiffSegment{
				{DiffUnchanged, "the"},
				{DiffUnchanged, "quick"},
				{DiffUnchanged, "brown"},
				{DiffUnchanged, "fox"},
			},
		},
		{
			name:    "substitution emits removed then added",
			oldText: "the quick fox",
			newText: "the slow fox",
			want: []DiffSegment{
				{DiffUnchanged, "the"},
				{DiffRemoved, "quick"},
				{DiffAdded, "slow"},
				{DiffUnchanged, "fox"},
			},
		},
		{
			name:    "new text longer",
			oldText: "hello",
			newText: "hello there world",
			want: []DiffSegment{
				{DiffUnchanged, "hello"},
				{DiffAdded, "there"},
				{DiffAdded, "world"},
			},
		},
		{
			name:    "old text longer",
			oldText: "hello there world",
			newText: "hello",
			want: []DiffSegment{
				{DiffUnchanged, "hello"},
				{DiffRemoved, "there"},
				{DiffRemoved, "world"},
			},
		},
		{
			name:    "both empty",
			oldText: "",
			newText: "",
			want:    []DiffSegment{},
		},
		{
			name:    "old empty",
			oldText: "",
			newText: "all new",
			want: []DiffSegment{
				{DiffAdded, "all"},
				{DiffAdded, "new"},
			},
		},
		{
			name:    "new empty",
			oldText: "all gone",
			newText: "",
			want: []DiffSegment{
				{DiffRemoved, "all"},
				{DiffRemoved, "gone"},
			},
		},
		{
			name:    "whitespace only is empty",
			oldText: "   \t\n  ",
			newText: "word",
			want: []DiffSegment{
				{DiffAdded, "word"},
			},
		},
		{
			name:    "insertion shifts alignment of the tail",
			oldText: "a b c",
			newText: "x a b c",
			want: []DiffSegment{
				{DiffRemoved, "a"},
				{DiffAdded, "x"},
				{DiffRemoved, "b"},
				{DiffAdded, "a"},
				{DiffRemoved, "c"},
				{DiffAdded, "b"},
				{DiffAdded, "c"},
			},
		},
		{
			name:    "runs of whitespace collapse",
			oldText: "one  two\tthree",
			newText: "one two three",
			want: []DiffSegment{
				{DiffUnchanged, "one"},
				{DiffUnchanged, "two"},
				{DiffUnchanged, "three"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffWords(tt.oldText, tt.newText)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The removed segments in order must equal the old word sequence, and the
// added segments the new one. Unchanged counts for both.
func TestDiffWords_Reconstruction(t *testing.T) {
	pairs := [][2]string{
		{"the quick brown fox", "the slow brown wolf"},
		{"a b c d e", "a x b c"},
		{"", "something from nothing"},
		{"only removals here", ""},
		{"same same same", "same same same"},
	}

	for _, pair := range pairs {
		segments := DiffWords(pair[0], pair[1])

		oldWords, newWords := []string{}, []string{}
		for _, seg := range segments {
			switch seg.Type {
			case DiffRemoved:
				oldWords = append(oldWords, seg.Value)
			case DiffAdded:
				newWords = append(newWords, seg.Value)
			case DiffUnchanged:
				oldWords = append(oldWords, seg.Value)
				newWords = append(newWords, seg.Value)
			}
		}

		assert.Equal(t, strings.Fields(pair[0]), oldWords)
		assert.Equal(t, strings.Fields(pair[1]), newWords)
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \t \n ", 0},
		{"single word", "hello", 1},
		{"two words", "hello world", 2},
		{"mixed whitespace", "one\ttwo\nthree  four", 4},
		{"leading and trailing spaces", "  padded  ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.body))
		})
	}
}
