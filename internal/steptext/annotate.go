// Package steptext finds timer tags embedded in step instructions.
//
// A timer tag is an open brace, an optional label followed by a colon, two
// ASCII digits, a colon, two more digits and a close brace:
//
//	Wait {01:45} and stir
//	Set {Oven:00:20} now
//
// The digit pairs are not range checked, so {99:99} is a valid tag. Text
// that does not fit the grammar is plain prose; nothing here ever fails.
package steptext

import (
	"iter"
	"regexp"
	"strconv"
	"time"
)

// tagPattern is the whole grammar. The label may be empty ({:00:05}).
var tagPattern = regexp.MustCompile(`\{(?:([^{}:]*):)?([0-9]{2}):([0-9]{2})\}`)

// Kind classifies a segment of step text.
type Kind int

const (
	// Plain is ordinary prose.
	Plain Kind = iota
	// Timer is a recognized timer tag, braces included.
	Timer
)

// String returns a human-readable kind.
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Timer:
		return "timer"
	default:
		return "unknown"
	}
}

// Segment is a contiguous run of step text.
type Segment struct {
	Kind  Kind
	Value string
}

// TimerTag is a tag found in step text. Start and End are byte offsets,
// so Raw == text[Start:End].
type TimerTag struct {
	Raw     string
	Label   string
	Hours   int
	Minutes int
	Start   int
	End     int
}

// Duration is Hours hours plus Minutes minutes, unvalidated.
func (t TimerTag) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour + time.Duration(t.Minutes)*time.Minute
}

// Annotate splits text into plain and timer segments. The sequence is lazy
// and can be ranged over any number of times. Concatenating the values of
// all segments gives back text exactly. Empty plain runs are skipped, so
// adjacent tags come out as consecutive timer segments and "" yields nothing.
func Annotate(text string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		pos, stopped := 0, false
		scan(text, func(m []int) bool {
			if m[0] > pos && !yield(Segment{Kind: Plain, Value: text[pos:m[0]]}) {
				stopped = true
				return false
			}
			pos = m[1]
			if !yield(Segment{Kind: Timer, Value: text[m[0]:m[1]]}) {
				stopped = true
				return false
			}
			return true
		})
		if !stopped && pos < len(text) {
			yield(Segment{Kind: Plain, Value: text[pos:]})
		}
	}
}

// Segments collects Annotate(text) into a slice.
func Segments(text string) []Segment {
	var out []Segment
	for seg := range Annotate(text) {
		out = append(out, seg)
	}
	return out
}

// Tags returns every timer tag in text, left to right.
func Tags(text string) []TimerTag {
	var out []TimerTag
	scan(text, func(m []int) bool {
		tag := TimerTag{
			Raw:   text[m[0]:m[1]],
			Start: m[0],
			End:   m[1],
		}
		if m[2] >= 0 {
			tag.Label = text[m[2]:m[3]]
		}
		// Both groups are exactly two ASCII digits.
		tag.Hours, _ = strconv.Atoi(text[m[4]:m[5]])
		tag.Minutes, _ = strconv.Atoi(text[m[6]:m[7]])
		out = append(out, tag)
		return true
	})
	return out
}

// HasTimer reports whether text contains at least one timer tag.
func HasTimer(text string) bool {
	return tagPattern.MatchString(text)
}

// scan calls fn with absolute submatch indexes for each non-overlapping
// leftmost match, resuming right after the previous match. It stops early
// when fn returns false.
func scan(text string, fn func(m []int) bool) {
	pos := 0
	for pos < len(text) {
		loc := tagPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		if !fn(loc) {
			return
		}
		pos = loc[1]
	}
}
