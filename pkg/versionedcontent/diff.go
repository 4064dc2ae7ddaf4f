package versionedcontent

import "strings"

// DiffType tags a diff segment as added, removed or unchanged.
type DiffType string

// Diff segment type constants (typed).
const (
	DiffAdded     DiffType = "added"
	DiffRemoved   DiffType = "removed"
	DiffUnchanged DiffType = "unchanged"
)

// DiffSegment is one word of a word-level diff between two bodies.
type DiffSegment struct {
	Type  DiffType `json:"type"`
	Value string   `json:"value"`
}

// DiffWords computes a word-level difference between two text bodies
// using a position-synchronized greedy walk: both texts are split on
// whitespace and compared index by index. When the words at the current
// positions differ, the old word is emitted as removed and the new word
// as added, and both cursors advance.
//
// This is intentionally not a minimal-edit diff: a single insertion
// shifts every following word out of alignment, so the remainder shows
// up as removed/added pairs. Keeping the positional walk keeps the
// output deterministic and O(n), and matches what history views have
// always rendered. Do not replace it with an LCS-based diff.
func DiffWords(oldText, newText string) []DiffSegment {
	oldWords := strings.Fields(oldText)
	newWords := strings.Fields(newText)

	diff := make([]DiffSegment, 0, len(oldWords)+len(newWords))
	i, j := 0, 0
	for i < len(oldWords) || j < len(newWords) {
		switch {
		case i >= len(oldWords):
			diff = append(diff, DiffSegment{Type: DiffAdded, Value: newWords[j]})
			j++
		case j >= len(newWords):
			diff = append(diff, DiffSegment{Type: DiffRemoved, Value: oldWords[i]})
			i++
		case oldWords[i] == newWords[j]:
			diff = append(diff, DiffSegment{Type: DiffUnchanged, Value: oldWords[i]})
			i++
			j++
		default:
			diff = append(diff, DiffSegment{Type: DiffRemoved, Value: oldWords[i]})
			diff = append(diff, DiffSegment{Type: DiffAdded, Value: newWords[j]})
			i++
			j++
		}
	}

	return diff
}

// CountWords returns the number of whitespace-delimited tokens in the
// trimmed body. An empty or all-whitespace body counts as zero words.
func CountWords(body string) int {
	return len(strings.Fields(body))
}
