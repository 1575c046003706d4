package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

// taskFlagAliases maps accepted spellings to the canonical flag names.
var taskFlagAliases = map[string]string{
	"label":       "labels",
	"tag":         "labels",
	"tags":        "labels",
	"body":        "description",
	"interval":    "repeat",
	"weekdays":    "on",
	"max-repeats": "count",
}

func normalizeTaskFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := taskFlagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

// addRecurrenceFlags registers the flags that describe a recurrence rule.
func addRecurrenceFlags(fs *pflag.FlagSet) {
	fs.String("repeat", "", "repeat interval (daily, weekly, biweekly, monthly, quarterly, yearly, custom)")
	fs.Int("every", 0, "days between occurrences for --repeat custom")
	fs.StringSlice("on", nil, "weekdays for weekly rules (e.g. mon,thu)")
	fs.Int("day-of-month", 0, "day of month for monthly rules (1-31, -1 for the last day)")
	fs.String("until", "", "last date an occurrence may fall on (YYYY-MM-DD)")
	fs.Int("count", 0, "stop after this many regenerated occurrences")
	fs.Bool("from-completion", false, "schedule the next occurrence from the completion time")
	fs.Bool("preserve-time", false, "keep the due time of day on regenerated occurrences")
}

// recurrenceFlagsChanged reports whether any recurrence flag was set.
func recurrenceFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"repeat", "every", "on", "day-of-month", "until", "count", "from-completion", "preserve-time"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// applyRecurrenceFlags overlays the set recurrence flags on rule, creating
// an enabled rule when rule is nil.
func applyRecurrenceFlags(cmd *cobra.Command, rule *task.RecurrenceRule) (*task.RecurrenceRule, error) {
	if !recurrenceFlagsChanged(cmd) {
		return rule, nil
	}
	if rule == nil {
		rule = &task.RecurrenceRule{Enabled: true}
	} else {
		rule = rule.Clone()
	}
	flags := cmd.Flags()

	if v, _ := flags.GetString("repeat"); flags.Changed("repeat") {
		iv, err := task.ValidateInterval(v)
		if err != nil {
			return nil, err
		}
		rule.Interval = iv
		rule.Enabled = true
	}
	if rule.Interval == "" {
		return nil, clierr.New(clierr.InvalidRecurrence, "--repeat is required to define a recurrence")
	}
	if flags.Changed("every") {
		rule.CustomDays, _ = flags.GetInt("every")
		if !flags.Changed("repeat") {
			rule.Interval = task.Custom
		}
	}
	if flags.Changed("on") {
		v, _ := flags.GetStringSlice("on")
		days, err := date.ParseWeekdays(v)
		if err != nil {
			return nil, clierr.New(clierr.InvalidRecurrence, err.Error()).
				WithDetails(map[string]any{"on": v})
		}
		rule.DaysOfWeek = days
	}
	if flags.Changed("day-of-month") {
		d, _ := flags.GetInt("day-of-month")
		rule.DayOfMonth = &d
	}
	if v, _ := flags.GetString("until"); flags.Changed("until") {
		if v == "" {
			rule.EndDate = nil
		} else {
			d, err := date.Parse(v)
			if err != nil {
				return nil, task.ValidateDate("until", v, err)
			}
			rule.EndDate = &d
		}
	}
	if flags.Changed("count") {
		rule.EndAfterOccurrences, _ = flags.GetInt("count")
	}
	if flags.Changed("from-completion") {
		rule.RegenerateOnComplete, _ = flags.GetBool("from-completion")
	}
	if flags.Changed("preserve-time") {
		rule.PreserveTime, _ = flags.GetBool("preserve-time")
	}
	return rule, nil
}

// parseWhen parses a date or date-time flag value in the board's location.
func parseWhen(field, value string, loc *time.Location) (*time.Time, error) {
	t, err := date.ParseTime(value, loc)
	if err != nil {
		return nil, task.ValidateDate(field, value, err)
	}
	return &t, nil
}
