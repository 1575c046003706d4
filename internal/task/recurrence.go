package task

import (
	"fmt"

	"github.com/twiced-technology-gmbh/taskflow/internal/date"
)

// Interval is the repeat period of a recurrence rule.
type Interval string

// Recurrence intervals.
const (
	Daily     Interval = "daily"
	Weekly    Interval = "weekly"
	Biweekly  Interval = "biweekly"
	Monthly   Interval = "monthly"
	Quarterly Interval = "quarterly"
	Yearly    Interval = "yearly"
	Custom    Interval = "custom"
)

// Intervals lists every known interval.
var Intervals = []Interval{Daily, Weekly, Biweekly, Monthly, Quarterly, Yearly, Custom}

// LastDayOfMonth is the DayOfMonth value meaning the month's final day.
const LastDayOfMonth = -1

// ParseInterval normalizes s to a known interval.
func ParseInterval(s string) (Interval, error) {
	iv := normalizeInterval(s)
	for _, known := range Intervals {
		if iv == known {
			return iv, nil
		}
	}
	return "", fmt.Errorf("unknown interval %q", s)
}

func normalizeInterval(s string) Interval {
	key := normalizeKey(s)
	switch key {
	case "bi_weekly", "fortnightly":
		return Biweekly
	case "annually", "annual":
		return Yearly
	}
	return Interval(key)
}

// UnmarshalText normalizes spelling variants. Unknown values are kept so the
// scheduler can fall back to daily.
func (i *Interval) UnmarshalText(text []byte) error {
	*i = normalizeInterval(string(text))
	return nil
}

// RecurrenceRule describes how a completed task produces its next instance.
// Zero CustomDays and EndAfterOccurrences mean unset.
type RecurrenceRule struct {
	Enabled              bool          `yaml:"enabled" json:"enabled"`
	Interval             Interval      `yaml:"interval" json:"interval"`
	CustomDays           int           `yaml:"custom_days,omitempty" json:"custom_days,omitempty"`
	DaysOfWeek           date.Weekdays `yaml:"days_of_week,omitempty" json:"days_of_week,omitempty"`
	DayOfMonth           *int          `yaml:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	EndDate              *date.Date    `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	EndAfterOccurrences  int           `yaml:"end_after_occurrences,omitempty" json:"end_after_occurrences,omitempty"`
	OccurrenceCount      int           `yaml:"occurrence_count" json:"occurrence_count"`
	RegenerateOnComplete bool          `yaml:"regenerate_on_complete,omitempty" json:"regenerate_on_complete,omitempty"`
	PreserveTime         bool          `yaml:"preserve_time,omitempty" json:"preserve_time,omitempty"`
	ParentTaskID         *int          `yaml:"parent_task_id,omitempty" json:"parent_task_id,omitempty"`
}

// Clone returns a deep copy of the rule.
func (r *RecurrenceRule) Clone() *RecurrenceRule {
	if r == nil {
		return nil
	}
	c := *r
	c.DaysOfWeek = append(date.Weekdays(nil), r.DaysOfWeek...)
	if r.DayOfMonth != nil {
		v := *r.DayOfMonth
		c.DayOfMonth = &v
	}
	if r.EndDate != nil {
		v := *r.EndDate
		c.EndDate = &v
	}
	if r.ParentTaskID != nil {
		v := *r.ParentTaskID
		c.ParentTaskID = &v
	}
	return &c
}

// Active reports whether the rule is present and enabled.
func (r *RecurrenceRule) Active() bool {
	return r != nil && r.Enabled
}
