package gloss

import (
	"iter"
	"strings"
)

// SegmentDelimiter separates the blocks of analyzer output.
const SegmentDelimiter = "\n\n"

// Segment is the ordered list of lines belonging to one analyzed unit.
type Segment []string

// SplitSegment breaks one block of analyzer output into its lines.
func SplitSegment(block string) Segment {
	return strings.Split(block, "\n")
}

// Segments lazily yields the segments of raw analyzer output. Empty segments
// are kept, so the empty string yields exactly one empty segment.
func Segments(raw string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for {
			i := strings.Index(raw, SegmentDelimiter)
			if i < 0 {
				yield(SplitSegment(raw))
				return
			}
			if !yield(SplitSegment(raw[:i])) {
				return
			}
			raw = raw[i+len(SegmentDelimiter):]
		}
	}
}
