package recurrence

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intp(v int) *int { return &v }

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		rule task.RecurrenceRule
		want time.Time
	}{
		{"daily", day(2025, 1, 31), task.RecurrenceRule{Interval: task.Daily}, day(2025, 2, 1)},
		{"weekly", day(2025, 1, 3), task.RecurrenceRule{Interval: task.Weekly}, day(2025, 1, 10)},
		{"weekly friday to monday", day(2025, 1, 3),
			task.RecurrenceRule{Interval: task.Weekly, DaysOfWeek: date.Weekdays{time.Monday}}, day(2025, 1, 6)},
		{"weekly same day wraps", day(2025, 1, 6),
			task.RecurrenceRule{Interval: task.Weekly, DaysOfWeek: date.Weekdays{time.Monday}}, day(2025, 1, 13)},
		{"weekly later in week", day(2025, 1, 6),
			task.RecurrenceRule{Interval: task.Weekly, DaysOfWeek: date.Weekdays{time.Friday, time.Wednesday}}, day(2025, 1, 8)},
		{"biweekly", day(2025, 1, 1), task.RecurrenceRule{Interval: task.Biweekly}, day(2025, 1, 15)},
		{"monthly clamps leap year", day(2024, 1, 31),
			task.RecurrenceRule{Interval: task.Monthly, DayOfMonth: intp(31)}, day(2024, 2, 29)},
		{"monthly last day", day(2023, 1, 15),
			task.RecurrenceRule{Interval: task.Monthly, DayOfMonth: intp(-1)}, day(2023, 2, 28)},
		{"monthly day 15", day(2025, 1, 20),
			task.RecurrenceRule{Interval: task.Monthly, DayOfMonth: intp(15)}, day(2025, 2, 15)},
		{"monthly without day clamps", day(2025, 1, 31), task.RecurrenceRule{Interval: task.Monthly}, day(2025, 2, 28)},
		{"monthly day zero falls back", day(2025, 1, 31),
			task.RecurrenceRule{Interval: task.Monthly, DayOfMonth: intp(0)}, day(2025, 2, 1)},
		{"quarterly", day(2025, 11, 30), task.RecurrenceRule{Interval: task.Quarterly}, day(2026, 2, 28)},
		{"yearly from leap day", day(2024, 2, 29), task.RecurrenceRule{Interval: task.Yearly}, day(2025, 2, 28)},
		{"custom", day(2025, 1, 1), task.RecurrenceRule{Interval: task.Custom, CustomDays: 10}, day(2025, 1, 11)},
		{"custom without days", day(2025, 1, 1), task.RecurrenceRule{Interval: task.Custom}, day(2025, 1, 2)},
		{"unknown interval", day(2025, 1, 1), task.RecurrenceRule{Interval: "hourly"}, day(2025, 1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := tt.from
			got := NextDueDate(&from, tt.rule, nil)
			if !got.Equal(tt.want) {
				t.Errorf("NextDueDate(%s) = %s, want %s", tt.from.Format("2006-01-02"),
					got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestNextDueDateMovesForward(t *testing.T) {
	froms := []time.Time{day(2024, 1, 31), day(2024, 2, 29), day(2025, 12, 31), day(2025, 6, 15)}
	rules := []task.RecurrenceRule{
		{Interval: task.Daily},
		{Interval: task.Weekly},
		{Interval: task.Weekly, DaysOfWeek: date.Weekdays{time.Sunday, time.Saturday}},
		{Interval: task.Biweekly},
		{Interval: task.Monthly},
		{Interval: task.Monthly, DayOfMonth: intp(1)},
		{Interval: task.Monthly, DayOfMonth: intp(-1)},
		{Interval: task.Quarterly},
		{Interval: task.Yearly},
		{Interval: task.Custom, CustomDays: 3},
	}
	for _, from := range froms {
		for _, rule := range rules {
			f := from
			if got := NextDueDate(&f, rule, nil); !got.After(from) {
				t.Errorf("%s %+v: next %s is not after base", from.Format("2006-01-02"), rule, got)
			}
		}
	}
}

func TestNextDueDateBase(t *testing.T) {
	fixed := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	clock = func() time.Time { return fixed }
	t.Cleanup(func() { clock = time.Now })

	rule := task.RecurrenceRule{Interval: task.Daily}
	if got := NextDueDate(nil, rule, nil); !got.Equal(fixed.AddDate(0, 0, 1)) {
		t.Errorf("no base: got %s", got)
	}

	current := day(2025, 1, 1)
	completed := day(2025, 1, 10)
	if got := NextDueDate(&current, rule, &completed); !got.Equal(day(2025, 1, 11)) {
		t.Errorf("completed base: got %s", got)
	}
}

func TestNextDueDatePreserveTime(t *testing.T) {
	current := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	completed := time.Date(2025, 1, 12, 18, 45, 10, 0, time.UTC)
	rule := task.RecurrenceRule{Interval: task.Daily, PreserveTime: true}

	got := NextDueDate(&current, rule, &completed)
	want := time.Date(2025, 1, 13, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestShouldContinue(t *testing.T) {
	end := date.New(2025, 3, 31)
	tests := []struct {
		name string
		rule task.RecurrenceRule
		next time.Time
		want bool
	}{
		{"disabled", task.RecurrenceRule{Interval: task.Daily}, day(2025, 1, 1), false},
		{"open ended", task.RecurrenceRule{Enabled: true}, day(2030, 1, 1), true},
		{"on end date", task.RecurrenceRule{Enabled: true, EndDate: &end},
			time.Date(2025, 3, 31, 17, 0, 0, 0, time.UTC), true},
		{"after end date", task.RecurrenceRule{Enabled: true, EndDate: &end}, day(2025, 4, 1), false},
		{"occurrences left", task.RecurrenceRule{Enabled: true, EndAfterOccurrences: 3, OccurrenceCount: 2}, day(2025, 1, 1), true},
		{"occurrences used", task.RecurrenceRule{Enabled: true, EndAfterOccurrences: 3, OccurrenceCount: 3}, day(2025, 1, 1), false},
	}
	for _, tt := range tests {
		if got := ShouldContinue(tt.rule, tt.next); got != tt.want {
			t.Errorf("%s: ShouldContinue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRegenerateMonthlyOnComplete(t *testing.T) {
	due := day(2025, 3, 31)
	src := &task.Task{
		ID:         42,
		Title:      "Close the books",
		Status:     task.StatusCompleted,
		Priority:   "high",
		ProjectID:  "finance",
		Labels:     task.NewSet("monthly"),
		UserID:     "alice",
		AssigneeID: "bob",
		DueDate:    &due,
		BlockedBy:  task.NewSet(7),
		Recurrence: &task.RecurrenceRule{
			Enabled:              true,
			Interval:             task.Monthly,
			DayOfMonth:           intp(31),
			RegenerateOnComplete: true,
		},
	}

	next := Regenerate(src, day(2025, 3, 15))
	if next == nil {
		t.Fatal("Regenerate returned nil")
	}
	if !next.DueDate.Equal(day(2025, 4, 30)) {
		t.Errorf("due = %s, want 2025-04-30", next.DueDate)
	}
	if next.Recurrence.OccurrenceCount != 1 {
		t.Errorf("occurrence count = %d, want 1", next.Recurrence.OccurrenceCount)
	}
	if next.Recurrence.ParentTaskID == nil || *next.Recurrence.ParentTaskID != 42 {
		t.Errorf("parent = %v, want 42", next.Recurrence.ParentTaskID)
	}
	if next.Status != task.StatusToDo || next.ID != 0 || len(next.BlockedBy) != 0 {
		t.Errorf("successor = %+v", next)
	}
	if next.Title != src.Title || next.AssigneeID != "bob" || next.UserID != "alice" || !next.Labels.Contains("monthly") {
		t.Errorf("fields not copied: %+v", next)
	}
	if src.Recurrence.OccurrenceCount != 0 {
		t.Error("source rule was mutated")
	}

	next.ID = 43
	third := Regenerate(next, day(2025, 4, 30))
	if third == nil || *third.Recurrence.ParentTaskID != 42 {
		t.Fatalf("chain parent not kept: %+v", third)
	}
	if third.Recurrence.OccurrenceCount != 2 {
		t.Errorf("occurrence count = %d, want 2", third.Recurrence.OccurrenceCount)
	}
}

func TestRegenerateKeepsScheduleAndStartOffset(t *testing.T) {
	start, due := day(2025, 1, 1), day(2025, 1, 5)
	src := &task.Task{
		ID:         1,
		StartDate:  &start,
		DueDate:    &due,
		Recurrence: &task.RecurrenceRule{Enabled: true, Interval: task.Weekly},
	}
	next := Regenerate(src, day(2025, 1, 20))
	if next == nil {
		t.Fatal("Regenerate returned nil")
	}
	if !next.DueDate.Equal(day(2025, 1, 12)) {
		t.Errorf("due = %s, want 2025-01-12", next.DueDate)
	}
	if next.StartDate == nil || !next.StartDate.Equal(day(2025, 1, 8)) {
		t.Errorf("start = %v, want 2025-01-08", next.StartDate)
	}
}

func TestRegenerateStops(t *testing.T) {
	due := day(2025, 1, 1)
	end := date.New(2025, 1, 1)
	cases := map[string]*task.Task{
		"no rule":  {ID: 1, DueDate: &due},
		"disabled": {ID: 1, DueDate: &due, Recurrence: &task.RecurrenceRule{Interval: task.Daily}},
		"ended":    {ID: 1, DueDate: &due, Recurrence: &task.RecurrenceRule{Enabled: true, Interval: task.Daily, EndDate: &end}},
		"used up": {ID: 1, DueDate: &due, Recurrence: &task.RecurrenceRule{
			Enabled: true, Interval: task.Daily, EndAfterOccurrences: 1, OccurrenceCount: 1,
		}},
	}
	for name, src := range cases {
		if next := Regenerate(src, due); next != nil {
			t.Errorf("%s: Regenerate = %+v, want nil", name, next)
		}
	}
}

func TestOccurrences(t *testing.T) {
	rule := task.RecurrenceRule{Enabled: true, Interval: task.Daily, EndAfterOccurrences: 2}
	got := Occurrences(rule, day(2025, 1, 1), 5)
	if len(got) != 2 || !got[0].Equal(day(2025, 1, 2)) || !got[1].Equal(day(2025, 1, 3)) {
		t.Errorf("Occurrences = %v", got)
	}
}

func TestDescribe(t *testing.T) {
	end := date.New(2025, 12, 31)
	tests := []struct {
		rule task.RecurrenceRule
		want string
	}{
		{task.RecurrenceRule{Interval: task.Daily}, "Does not repeat"},
		{task.RecurrenceRule{Enabled: true, Interval: task.Daily}, "Daily"},
		{task.RecurrenceRule{Enabled: true, Interval: task.Weekly,
			DaysOfWeek: date.Weekdays{time.Friday, time.Monday}}, "Weekly on Mon, Fri"},
		{task.RecurrenceRule{Enabled: true, Interval: task.Monthly, DayOfMonth: intp(-1)}, "Monthly (last day)"},
		{task.RecurrenceRule{Enabled: true, Interval: task.Monthly, DayOfMonth: intp(15),
			EndAfterOccurrences: 5, OccurrenceCount: 2}, "Monthly (day 15), 3 remaining"},
		{task.RecurrenceRule{Enabled: true, Interval: task.Custom, CustomDays: 5, EndDate: &end},
			"Every 5 days, until 2025-12-31"},
		{task.RecurrenceRule{Enabled: true, Interval: "hourly"}, "Daily"},
	}
	for _, tt := range tests {
		if got := Describe(tt.rule); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}
