package cmd

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringSlice("labels", nil, "")
	cmd.Flags().String("description", "", "")
	addRecurrenceFlags(cmd.Flags())
	cmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return cmd
}

func TestApplyRecurrenceFlagsUnchanged(t *testing.T) {
	cmd := newFlagCmd(t)
	rule := &task.RecurrenceRule{Enabled: true, Interval: task.Weekly}

	got, err := applyRecurrenceFlags(cmd, rule)
	if err != nil {
		t.Fatal(err)
	}
	if got != rule {
		t.Error("expected the original rule back when no flag was set")
	}
}

func TestApplyRecurrenceFlagsWeekly(t *testing.T) {
	cmd := newFlagCmd(t, "--interval", "weekly", "--weekdays", "thu,mon", "--max-repeats", "4")

	got, err := applyRecurrenceFlags(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Enabled || got.Interval != task.Weekly {
		t.Fatalf("rule = %+v, want enabled weekly", got)
	}
	want := []time.Weekday{time.Monday, time.Thursday}
	if !slices.Equal([]time.Weekday(got.DaysOfWeek), want) {
		t.Errorf("days = %v, want %v", got.DaysOfWeek, want)
	}
	if got.EndAfterOccurrences != 4 {
		t.Errorf("count = %d, want 4", got.EndAfterOccurrences)
	}
}

func TestApplyRecurrenceFlagsDoesNotMutateInput(t *testing.T) {
	cmd := newFlagCmd(t, "--count", "2")
	rule := &task.RecurrenceRule{Enabled: true, Interval: task.Daily}

	got, err := applyRecurrenceFlags(cmd, rule)
	if err != nil {
		t.Fatal(err)
	}
	if got == rule || rule.EndAfterOccurrences != 0 {
		t.Error("expected a modified copy, input rule was changed")
	}
	if got.EndAfterOccurrences != 2 {
		t.Errorf("count = %d, want 2", got.EndAfterOccurrences)
	}
}

func TestApplyRecurrenceFlagsRequiresInterval(t *testing.T) {
	cmd := newFlagCmd(t, "--count", "2")

	_, err := applyRecurrenceFlags(cmd, nil)
	if code := clierr.CodeOf(err); code != clierr.InvalidRecurrence {
		t.Fatalf("code = %q, want %q", code, clierr.InvalidRecurrence)
	}
}

func TestApplyRecurrenceFlagsEveryImpliesCustom(t *testing.T) {
	cmd := newFlagCmd(t, "--every", "10")
	rule := &task.RecurrenceRule{Enabled: true, Interval: task.Daily}

	got, err := applyRecurrenceFlags(cmd, rule)
	if err != nil {
		t.Fatal(err)
	}
	if got.Interval != task.Custom || got.CustomDays != 10 {
		t.Errorf("rule = %+v, want custom every 10 days", got)
	}
}

func TestNormalizeTaskFlagsAliases(t *testing.T) {
	cmd := newFlagCmd(t, "--tag", "home", "--body", "notes")

	labels, _ := cmd.Flags().GetStringSlice("labels")
	if !slices.Equal(labels, []string{"home"}) {
		t.Errorf("labels = %v, want [home]", labels)
	}
	if d, _ := cmd.Flags().GetString("description"); d != "notes" {
		t.Errorf("description = %q, want notes", d)
	}
}

func TestParseWIPLimits(t *testing.T) {
	limits, err := parseWIPLimits([]string{"in_progress:3", "blocked:1"})
	if err != nil {
		t.Fatal(err)
	}
	if limits["in_progress"] != 3 || limits["blocked"] != 1 {
		t.Errorf("limits = %v", limits)
	}

	for _, bad := range []string{"in_progress", "in_progress:x", "nope:2"} {
		if _, err := parseWIPLimits([]string{bad}); err == nil {
			t.Errorf("parseWIPLimits(%q) expected error", bad)
		}
	}
}

func TestAppendDescription(t *testing.T) {
	now := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)

	if got := appendDescription("", "first", false, now); got != "first" {
		t.Errorf("empty existing: got %q", got)
	}

	got := appendDescription("line one\n", "second", true, now)
	want := "line one\n\n[[2025-03-04]] Tue 09:30\nsecond"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Count(got, "\n\n") != 1 {
		t.Errorf("expected a single blank separator line in %q", got)
	}
}
