package steptext

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// PlaceholderLabel is the label the step editor inserts for new timers.
const PlaceholderLabel = "TimerName"

// Placeholder is the tag InsertPlaceholder appends.
const Placeholder = "{" + PlaceholderLabel + ":00:00}"

// maxHours is the largest value that fits the two-digit hour field.
const maxHours = 99

// ErrBadDuration is returned when a timer duration cannot be understood.
var ErrBadDuration = errors.New("unrecognized timer duration")

var clockPattern = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})$`)

var nlParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// InsertPlaceholder appends the editor's placeholder tag to text.
func InsertPlaceholder(text string) string {
	return text + Placeholder
}

// FormatTag builds a tag for d, rounded down to the minute. An empty label
// produces the bare {HH:MM} form. Characters that would break the grammar
// are dropped from the label, and durations past 99:59 are clamped.
func FormatTag(label string, d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h > maxHours {
		h, m = maxHours, 59
	}
	label = sanitizeLabel(label)
	if label == "" {
		return fmt.Sprintf("{%02d:%02d}", h, m)
	}
	return fmt.Sprintf("{%s:%02d:%02d}", label, h, m)
}

// InsertTimer appends a timer tag to text. input is either a clock value
// ("1:30", "00:20"), a Go duration ("45m") or plain English relative to now
// ("in 20 minutes", "within an hour").
func InsertTimer(text, label, input string, now time.Time) (string, error) {
	d, err := ParseDuration(input, now)
	if err != nil {
		return text, err
	}
	return text + FormatTag(label, d), nil
}

// ParseDuration understands the same forms as InsertTimer.
func ParseDuration(input string, now time.Time) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrBadDuration
	}

	if m := clockPattern.FindStringSubmatch(input); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute, nil
	}

	if d, err := time.ParseDuration(input); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadDuration, input)
		}
		return d, nil
	}

	r, err := nlParser.Parse(input, now)
	if err != nil || r == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, input)
	}
	d := r.Time.Sub(now)
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q is not in the future", ErrBadDuration, input)
	}
	return d, nil
}

func sanitizeLabel(label string) string {
	label = strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', ':':
			return -1
		}
		return r
	}, label)
	return strings.TrimSpace(label)
}
