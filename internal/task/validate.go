package task

import (
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

// ValidateStatus parses a status name, returning a structured error when it is unknown.
func ValidateStatus(input string) (Status, error) {
	st, err := ParseStatus(input)
	if err != nil {
		return "", clierr.Newf(clierr.InvalidStatus, "invalid status %q", input).
			WithDetails(map[string]any{
				"status":  input,
				"allowed": StatusStrings(),
			})
	}
	return st, nil
}

// ValidatePriority checks that a priority is in the allowed list.
func ValidatePriority(priority string, allowed []string) error {
	for _, p := range allowed {
		if p == priority {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  allowed,
		})
}

// ValidateInterval parses an interval name.
func ValidateInterval(input string) (Interval, error) {
	iv, err := ParseInterval(input)
	if err != nil {
		allowed := make([]string, len(Intervals))
		for i, v := range Intervals {
			allowed[i] = string(v)
		}
		return "", clierr.Newf(clierr.InvalidInterval, "invalid interval %q", input).
			WithDetails(map[string]any{
				"interval": input,
				"allowed":  allowed,
			})
	}
	return iv, nil
}

// ValidateRule rejects rules the CLI should not persist. The scheduler itself
// tolerates all of these by falling back to daily; this only guards user input.
func ValidateRule(r *RecurrenceRule) error {
	if r == nil {
		return nil
	}
	invalid := func(msg string, details map[string]any) error {
		return clierr.New(clierr.InvalidRecurrence, msg).WithDetails(details)
	}
	if r.Interval == Custom && r.CustomDays <= 0 {
		return invalid("custom interval requires a positive number of days",
			map[string]any{"custom_days": r.CustomDays})
	}
	if r.DayOfMonth != nil {
		d := *r.DayOfMonth
		if d == 0 || d < LastDayOfMonth || d > 31 {
			return invalid("day of month must be 1-31 or -1 for the last day",
				map[string]any{"day_of_month": d})
		}
	}
	if r.EndAfterOccurrences < 0 {
		return invalid("occurrence limit must be positive",
			map[string]any{"end_after_occurrences": r.EndAfterOccurrences})
	}
	return nil
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ValidateSelfReference returns a CLIError for a task blocking itself.
func ValidateSelfReference(id int) *clierr.Error {
	return clierr.Newf(clierr.SelfReference, "task #%d cannot block itself", id).
		WithDetails(map[string]any{"id": id})
}

// ValidateDependencyNotFound returns a CLIError for a missing blocker.
func ValidateDependencyNotFound(depID int) *clierr.Error {
	return clierr.Newf(clierr.DependencyNotFound, "blocker task #%d not found", depID).
		WithDetails(map[string]any{"id": depID})
}

// ValidateCircular returns a CLIError for a refused blocker edge.
func ValidateCircular(id, blocker int) *clierr.Error {
	return clierr.Newf(clierr.CircularDependency,
		"task #%d cannot be blocked by #%d: that would create a cycle", id, blocker).
		WithDetails(map[string]any{
			"id":      id,
			"blocker": blocker,
		})
}

// ValidateWIPLimit returns a CLIError for WIP limit violations.
func ValidateWIPLimit(status Status, limit, current int) *clierr.Error {
	return clierr.Newf(clierr.WIPLimitExceeded,
		"WIP limit reached for %q (%d/%d)", status, current, limit).
		WithDetails(map[string]any{
			"status":  string(status),
			"limit":   limit,
			"current": current,
		})
}
