package stream

import (
	"bufio"
	"bytes"

	"github.com/baditaflorin/go_ichiran_gloss/internal/core/gloss"
)

var delimiter = []byte(gloss.SegmentDelimiter)

// ScanSegments is a bufio.SplitFunc yielding analyzer segments. Empty
// segments are kept and the input always ends with a final segment, so an
// empty stream yields one empty segment.
func ScanSegments(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, delimiter); i >= 0 {
		return i + len(delimiter), data[:i], nil
	}
	if !atEOF {
		return 0, nil, nil
	}
	if data == nil {
		data = []byte{}
	}
	return len(data), data, bufio.ErrFinalToken
}
