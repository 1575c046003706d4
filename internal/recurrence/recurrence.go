// Package recurrence computes when a recurring task is next due and builds
// the successor task when one is completed. Everything here is a pure
// function of its arguments apart from the fallback to the current time when
// no base date is known.
package recurrence

import (
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

const (
	daysPerWeek      = 7
	monthsPerYear    = 12
	monthsPerQuarter = 3
)

// clock is replaced in tests.
var clock = time.Now

// NextDueDate returns the next occurrence for rule. The base date is
// completed when given, else current, else the current time.
//
// Unknown intervals, a non-positive custom day count and an out-of-range day
// of month all fall back to a daily step.
func NextDueDate(current *time.Time, rule task.RecurrenceRule, completed *time.Time) time.Time {
	var base time.Time
	switch {
	case completed != nil:
		base = *completed
	case current != nil:
		base = *current
	default:
		base = clock()
	}

	next := step(base, rule)
	if rule.PreserveTime && current != nil {
		next = date.WithClock(next, *current)
	}
	return next
}

func step(base time.Time, rule task.RecurrenceRule) time.Time {
	switch rule.Interval {
	case task.Daily:
		return date.AddDays(base, 1)
	case task.Weekly:
		if days := rule.DaysOfWeek.Normalize(); len(days) > 0 {
			return nextWeekday(base, days)
		}
		return date.AddDays(base, daysPerWeek)
	case task.Biweekly:
		return date.AddDays(base, 2*daysPerWeek)
	case task.Monthly:
		if rule.DayOfMonth != nil {
			return monthDay(base, *rule.DayOfMonth)
		}
		return date.AddMonths(base, 1)
	case task.Quarterly:
		return date.AddMonths(base, monthsPerQuarter)
	case task.Yearly:
		return date.AddMonths(base, monthsPerYear)
	case task.Custom:
		if rule.CustomDays > 0 {
			return date.AddDays(base, rule.CustomDays)
		}
	}
	return date.AddDays(base, 1)
}

// nextWeekday picks the first allowed weekday strictly after base, wrapping
// into the following week. days must be normalized and non-empty.
func nextWeekday(base time.Time, days date.Weekdays) time.Time {
	today := base.Weekday()
	for _, wd := range days {
		if wd > today {
			return date.AddDays(base, int(wd-today))
		}
	}
	return date.AddDays(base, daysPerWeek-int(today)+int(days[0]))
}

// monthDay moves one month forward and lands on day, clamped to the length
// of that month. -1 selects the last day.
func monthDay(base time.Time, day int) time.Time {
	if day == 0 || day < task.LastDayOfMonth {
		return date.AddDays(base, 1)
	}
	next := date.AddMonths(base, 1)
	last := date.DaysIn(next.Year(), next.Month())
	if day == task.LastDayOfMonth || day > last {
		day = last
	}
	return date.WithDay(next, day)
}

// ShouldContinue reports whether rule still produces an occurrence due at
// next. The end date is inclusive and compared by calendar day.
func ShouldContinue(rule task.RecurrenceRule, next time.Time) bool {
	if !rule.Enabled {
		return false
	}
	if rule.EndDate != nil && date.DaysBetween(rule.EndDate.Time, next) > 0 {
		return false
	}
	if rule.EndAfterOccurrences > 0 && rule.OccurrenceCount >= rule.EndAfterOccurrences {
		return false
	}
	return true
}

// Regenerate builds the successor of a task completed at completedAt. It
// returns nil when the task does not recur or its rule has run out. The
// successor has no ID; the caller assigns one when persisting it.
func Regenerate(t *task.Task, completedAt time.Time) *task.Task {
	if t == nil || !t.Recurring() {
		return nil
	}
	rule := *t.Recurrence

	var base *time.Time
	if rule.RegenerateOnComplete {
		base = &completedAt
	}
	nextDue := NextDueDate(t.DueDate, rule, base)
	if !ShouldContinue(rule, nextDue) {
		return nil
	}

	next := &task.Task{
		Title:       t.Title,
		Description: t.Description,
		Status:      task.StatusToDo,
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
		PhaseID:     t.PhaseID,
		CategoryID:  t.CategoryID,
		Labels:      t.Labels.Clone(),
		UserID:      t.UserID,
		AssigneeID:  t.AssigneeID,
		DueDate:     &nextDue,
	}
	if t.StartDate != nil && t.DueDate != nil {
		start := date.AddDays(nextDue, -date.DaysBetween(*t.StartDate, *t.DueDate))
		next.StartDate = &start
	}

	successor := t.Recurrence.Clone()
	successor.OccurrenceCount++
	if successor.ParentTaskID == nil {
		id := t.ID
		successor.ParentTaskID = &id
	}
	next.Recurrence = successor
	return next
}

// Occurrences previews up to n due dates the rule would produce after from,
// stopping early when the rule ends.
func Occurrences(rule task.RecurrenceRule, from time.Time, n int) []time.Time {
	var out []time.Time
	cur := from
	for range n {
		next := NextDueDate(&cur, rule, nil)
		if !ShouldContinue(rule, next) {
			break
		}
		out = append(out, next)
		cur = next
		rule.OccurrenceCount++
	}
	return out
}
