package ast

import "sort"

// LineIndex maps byte offsets to 1-based line/column positions.
type LineIndex struct {
	// starts holds the byte offset of the first byte of every line.
	starts []int
}

// NewLineIndex builds an index over src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}

	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineIndex{starts: starts}
}

// Position returns the 1-based line and column for a byte offset. Columns
// count bytes, matching how editors address fix ranges.
func (li *LineIndex) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}

	idx := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1

	return idx + 1, offset - li.starts[idx] + 1
}
