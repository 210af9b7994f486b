package facets

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLevel is a granularity level of the date hierarchy. Lower levels
// are coarser.
type DateLevel int

const (
	// LevelYear groups dates by calendar year
	LevelYear DateLevel = iota + 1
	// LevelMonth groups dates by calendar month
	LevelMonth
	// LevelDay groups dates by calendar day
	LevelDay
)

// String returns the string representation of the DateLevel
func (l DateLevel) String() string {
	switch l {
	case LevelYear:
		return "year"
	case LevelMonth:
		return "month"
	case LevelDay:
		return "day"
	default:
		return "unknown"
	}
}

var dateTokenLayouts = map[DateLevel]string{
	LevelYear:  "2006",
	LevelMonth: "2006-01",
	LevelDay:   "2006-01-02",
}

// dateSpan is a position in the drill-down lattice: a granularity level
// plus whether the value is a single period or a contiguous group of
// periods at that level. Single positions are more specific than group
// positions at the same level.
type dateSpan struct {
	level  DateLevel
	single bool
}

// drilldown returns the next-finer position a choice at this position
// offers. A group drills to singles at the same level; a single drills to
// singles one level down; a single day is terminal.
func (s dateSpan) drilldown() (dateSpan, bool) {
	if !s.single {
		return dateSpan{s.level, true}, true
	}
	if s.level == LevelDay {
		return dateSpan{}, false
	}
	return dateSpan{s.level + 1, true}, true
}

func compareDateSpans(a, b dateSpan) int {
	if a.level != b.level {
		if a.level < b.level {
			return -1
		}
		return 1
	}
	// groups sort before singles: single is more specific
	switch {
	case a.single == b.single:
		return 0
	case b.single:
		return -1
	default:
		return 1
	}
}

// DateChoice represents a chosen date value: a single year, month or day,
// or an inclusive range of them at one granularity. Values are kept as
// their wire tokens; the granularity determines how they parse.
type DateChoice struct {
	span   dateSpan
	values []string
}

// parseDateChoice decodes a wire token into a DateChoice. Recognized
// shapes are YYYY, YYYY-MM, YYYY-MM-DD and "<token>..<token>" with both
// tokens at the same granularity.
func parseDateChoice(token string) (DateChoice, error) {
	if lo, hi, ok := strings.Cut(token, ".."); ok {
		level, err := parseDateToken(lo)
		if err != nil {
			return DateChoice{}, err
		}
		hiLevel, err := parseDateToken(hi)
		if err != nil {
			return DateChoice{}, err
		}
		if hiLevel != level {
			return DateChoice{}, fmt.Errorf("mixed granularity in range %q", token)
		}
		return DateChoice{dateSpan{level, false}, []string{lo, hi}}, nil
	}
	level, err := parseDateToken(token)
	if err != nil {
		return DateChoice{}, err
	}
	return DateChoice{dateSpan{level, true}, []string{token}}, nil
}

// parseDateToken validates a single-period token and reports its level
func parseDateToken(token string) (DateLevel, error) {
	var level DateLevel
	switch len(token) {
	case 4:
		level = LevelYear
	case 7:
		level = LevelMonth
	case 10:
		level = LevelDay
	default:
		return 0, fmt.Errorf("unrecognized date token %q", token)
	}
	if _, err := time.Parse(dateTokenLayouts[level], token); err != nil {
		return 0, fmt.Errorf("unrecognized date token %q", token)
	}
	return level, nil
}

// dateChoiceFromTime builds a single-period choice for the period of t at
// the given level.
func dateChoiceFromTime(level DateLevel, t time.Time) DateChoice {
	return DateChoice{dateSpan{level, true}, []string{t.Format(dateTokenLayouts[level])}}
}

// dateChoiceFromTimeRange builds a group choice covering the periods of
// t1 through t2 (inclusive) at the given level.
func dateChoiceFromTimeRange(level DateLevel, t1, t2 time.Time) DateChoice {
	layout := dateTokenLayouts[level]
	return DateChoice{dateSpan{level, false}, []string{t1.Format(layout), t2.Format(layout)}}
}

// Param implements ChoiceValue
func (c DateChoice) Param() string {
	return strings.Join(c.values, "..")
}

// Display implements ChoiceValue: a single year shows as "2011", a single
// month as its name, a single day as the day-of-month number, and a group
// as "<lower>-<upper>" of the single displays.
func (c DateChoice) Display() string {
	if c.span.single {
		parts := strings.Split(c.values[0], "-")
		switch c.span.level {
		case LevelYear:
			return parts[0]
		case LevelMonth:
			m, _ := strconv.Atoi(parts[1])
			return time.Month(m).String()
		default:
			d, _ := strconv.Atoi(parts[len(parts)-1])
			return strconv.Itoa(d)
		}
	}
	displays := make([]string, len(c.values))
	for i, v := range c.values {
		displays[i] = DateChoice{dateSpan{c.span.level, true}, []string{v}}.Display()
	}
	return strings.Join(displays, "-")
}

// lookups converts the choice to the half-open interval
// [start, end + one period) on the attribute.
func (c DateChoice) lookups(attr string) []Lookup {
	start := c.values[0]
	end := start
	if !c.span.single {
		end = c.values[1]
	}

	startDate := tokenToDate(start)
	endDate := tokenToDate(end)
	switch c.span.level {
	case LevelYear:
		endDate = endDate.AddDate(1, 0, 0)
	case LevelMonth:
		endDate = endDate.AddDate(0, 1, 0)
	default:
		endDate = endDate.AddDate(0, 0, 1)
	}

	return []Lookup{
		{Attr: attr, Op: OpGte, Value: startDate},
		{Attr: attr, Op: OpLt, Value: endDate},
	}
}

// tokenToDate expands a possibly-partial token to the first day it covers
func tokenToDate(token string) time.Time {
	parts := strings.Split(token, "-")
	nums := [3]int{0, 1, 1}
	for i, p := range parts {
		nums[i], _ = strconv.Atoi(p)
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
}

// compareDateChoices orders date choices by specificity: coarser levels
// first, groups before singles at one level, then by covered values.
// Greater means more specific; the ordering drives cascade removal.
func compareDateChoices(a, b DateChoice) int {
	if c := compareDateSpans(a.span, b.span); c != 0 {
		return c
	}
	return compareStringSlices(a.values, b.values)
}

func compareStringSlices(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) == len(b):
		return 0
	case len(a) < len(b):
		return -1
	default:
		return 1
	}
}
