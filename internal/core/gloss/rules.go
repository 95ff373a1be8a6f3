package gloss

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// HeaderMarker starts the per-segment header line and marks sub-entries.
const HeaderMarker = '*'

var (
	multiChoicePattern  = regexp.MustCompile(`^.*<(\d+)>. (.*)$`)
	numberedNotePattern = regexp.MustCompile(`^(\d+)\. \[.*\] (.*)$`)
	conjugationPattern  = regexp.MustCompile(`^\[ Conjugation: \[.*\] (?:Conjunctive|Continuative) \(.*\)\s?(.*?)$`)
)

// particles need no explanation after them.
var particles = map[string]struct{}{
	"の":  {},
	"が":  {},
	"で":  {},
	"を":  {},
	"でも": {},
	"僕":  {},
}

// maxNotes is the number of numbered definitions kept per segment.
const maxNotes = 3

// IsParticle reports whether s is one of the common particles or pronouns
// for which no further explanation is kept.
func IsParticle(s string) bool {
	_, ok := particles[s]
	return ok
}

// Action tells the line normalizer what to do after a rule ran.
type Action int

const (
	// NoMatch passes the line unchanged to the next rule.
	NoMatch Action = iota
	// Consumed finishes the line.
	Consumed
	// Replaced passes Outcome.Text to the next rule in place of the line.
	Replaced
	// StopSegment drops the remaining lines of the segment.
	StopSegment
)

// Outcome is the result of applying one rule to a line.
type Outcome struct {
	Action Action
	Text   string
}

// rule inspects a line, possibly writing to the buffer.
type rule func(buf *strings.Builder, line string) Outcome

// rules are evaluated in order until one consumes the line or stops the segment.
var rules = []rule{
	multiChoiceRule,
	numberedNoteRule,
	conjugationRule,
	defaultRule,
}

// stripHeader removes the redundant header up to and including the first
// double space. A header without a double space is dropped entirely.
func stripHeader(line string) string {
	if !strings.HasPrefix(line, string(HeaderMarker)) {
		return line
	}
	_, rest, _ := strings.Cut(line, "  ")
	return rest
}

// isSubBlock reports whether the second character of a line longer than two
// characters is the header marker.
func isSubBlock(line string) bool {
	if utf8.RuneCountInString(line) <= 2 {
		return false
	}
	_, size := utf8.DecodeRuneInString(line)
	second, _ := utf8.DecodeRuneInString(line[size:])
	return second == HeaderMarker
}

func multiChoiceRule(buf *strings.Builder, line string) Outcome {
	m := multiChoicePattern.FindStringSubmatch(line)
	if m == nil {
		return Outcome{Action: NoMatch}
	}
	if parseNumber(m[1]) > 1 {
		buf.WriteByte('\n')
	}
	buf.WriteString(m[2])
	return Outcome{Action: Consumed}
}

func numberedNoteRule(buf *strings.Builder, line string) Outcome {
	m := numberedNotePattern.FindStringSubmatch(line)
	if m == nil {
		return Outcome{Action: NoMatch}
	}
	n := parseNumber(m[1])
	if n > maxNotes {
		return Outcome{Action: StopSegment}
	}
	if n > 1 {
		buf.WriteString(" | ")
	} else {
		buf.WriteString(" ")
	}
	return Outcome{Action: Replaced, Text: m[2]}
}

func conjugationRule(buf *strings.Builder, line string) Outcome {
	m := conjugationPattern.FindStringSubmatch(line)
	if m == nil {
		return Outcome{Action: NoMatch}
	}
	if m[1] != "" {
		buf.WriteString("  ")
		buf.WriteString(m[1])
	}
	return Outcome{Action: Consumed}
}

func defaultRule(buf *strings.Builder, line string) Outcome {
	line = strings.ReplaceAll(line, "]", "")
	buf.WriteString(line)
	if IsParticle(line) {
		return Outcome{Action: StopSegment}
	}
	return Outcome{Action: Consumed}
}

// parseNumber parses a run of ASCII digits; values too large for an int
// saturate at math.MaxInt.
func parseNumber(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}
