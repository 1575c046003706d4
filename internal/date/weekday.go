package date

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Weekdays is an ordered set of days of the week, Sunday first.
type Weekdays []time.Weekday

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday accepts an English day name or abbreviation, or a number 0-6
// with 0 meaning Sunday.
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[key]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// ParseWeekdays parses a list of weekday names or numbers into a normalized set.
func ParseWeekdays(items []string) (Weekdays, error) {
	var out Weekdays
	for _, item := range items {
		wd, err := ParseWeekday(item)
		if err != nil {
			return nil, err
		}
		out = append(out, wd)
	}
	return out.Normalize(), nil
}

// Normalize returns the set sorted ascending with duplicates and out-of-range
// values removed.
func (w Weekdays) Normalize() Weekdays {
	if len(w) == 0 {
		return nil
	}
	out := make(Weekdays, 0, len(w))
	for _, wd := range w {
		if wd < time.Sunday || wd > time.Saturday || slices.Contains(out, wd) {
			continue
		}
		out = append(out, wd)
	}
	slices.Sort(out)
	return out
}

// Contains reports whether wd is in the set.
func (w Weekdays) Contains(wd time.Weekday) bool {
	return slices.Contains(w, wd)
}

// Short returns three-letter day names, e.g. "Mon, Wed".
func (w Weekdays) Short() string {
	names := make([]string, 0, len(w))
	for _, wd := range w.Normalize() {
		names = append(names, wd.String()[:3])
	}
	return strings.Join(names, ", ")
}

func (w Weekdays) names() []string {
	names := make([]string, 0, len(w))
	for _, wd := range w.Normalize() {
		names = append(names, strings.ToLower(wd.String()))
	}
	return names
}

// MarshalYAML encodes the set as lowercase day names.
func (w Weekdays) MarshalYAML() (interface{}, error) {
	return w.names(), nil
}

// UnmarshalYAML accepts a sequence of names or numbers, or a single
// comma-separated scalar.
func (w *Weekdays) UnmarshalYAML(value *yaml.Node) error {
	var items []string
	switch value.Kind {
	case yaml.SequenceNode:
		for _, n := range value.Content {
			items = append(items, n.Value)
		}
	case yaml.ScalarNode:
		items = strings.Split(value.Value, ",")
	default:
		return fmt.Errorf("days of week: unexpected YAML node kind %d", value.Kind)
	}
	parsed, err := ParseWeekdays(nonEmpty(items))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// MarshalJSON encodes the set as lowercase day names.
func (w Weekdays) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.names())
}

// UnmarshalJSON accepts an array of names or numbers.
func (w *Weekdays) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := make([]string, 0, len(raw))
	for _, v := range raw {
		items = append(items, fmt.Sprint(v))
	}
	parsed, err := ParseWeekdays(items)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func nonEmpty(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
