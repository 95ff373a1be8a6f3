// Package gloss turns the output of the ichiran morphological analyzer into
// compact gloss lines suitable for captions.
//
// Analyzer output is made of segments separated by a blank line. Each segment
// yields exactly one newline-terminated gloss line: the redundant header is
// stripped, alternatives are put on their own line, only the first three
// numbered definitions are kept and conjugation tags are reduced to their
// trailing note.
package gloss

import "strings"

// Normalize converts raw analyzer output into the gloss, one line per
// segment, with trailing newlines trimmed. It is safe for concurrent use.
func Normalize(raw string) string {
	var buf strings.Builder
	buf.Grow(len(raw) / 2)
	for segment := range Segments(raw) {
		AppendSegment(&buf, segment)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// AppendSegment writes the gloss of one segment to buf, terminated by a newline.
func AppendSegment(buf *strings.Builder, segment Segment) {
lines:
	for _, line := range segment {
		line = stripHeader(line)
		if isSubBlock(line) {
			buf.WriteByte('\n')
		}
		for _, r := range rules {
			out := r(buf, line)
			switch out.Action {
			case Replaced:
				line = out.Text
				continue
			case Consumed:
				continue lines
			case StopSegment:
				break lines
			}
		}
	}
	buf.WriteByte('\n')
}

