package recurrence

import (
	"fmt"
	"strconv"

	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// Describe returns a short human-readable label for rule, such as
// "Weekly on Mon, Fri" or "Monthly (last day), 3 remaining".
func Describe(rule task.RecurrenceRule) string {
	if !rule.Enabled {
		return "Does not repeat"
	}
	return label(rule) + suffix(rule)
}

func label(rule task.RecurrenceRule) string {
	switch rule.Interval {
	case task.Daily:
		return "Daily"
	case task.Weekly:
		if days := rule.DaysOfWeek.Normalize(); len(days) > 0 {
			return "Weekly on " + days.Short()
		}
		return "Weekly"
	case task.Biweekly:
		return "Every 2 weeks"
	case task.Monthly:
		if rule.DayOfMonth == nil {
			return "Monthly"
		}
		switch d := *rule.DayOfMonth; {
		case d == task.LastDayOfMonth, d > 31:
			return "Monthly (last day)"
		case d >= 1:
			return "Monthly (day " + strconv.Itoa(d) + ")"
		}
		// Out-of-range days schedule daily.
		return "Daily"
	case task.Quarterly:
		return "Quarterly"
	case task.Yearly:
		return "Yearly"
	case task.Custom:
		switch {
		case rule.CustomDays == 1:
			return "Every day"
		case rule.CustomDays > 1:
			return fmt.Sprintf("Every %d days", rule.CustomDays)
		}
	}
	return "Daily"
}

func suffix(rule task.RecurrenceRule) string {
	switch {
	case rule.EndAfterOccurrences > 0:
		left := max(rule.EndAfterOccurrences-rule.OccurrenceCount, 0)
		return fmt.Sprintf(", %d remaining", left)
	case rule.EndDate != nil:
		return ", until " + rule.EndDate.String()
	}
	return ""
}
