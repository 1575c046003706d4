package date

import (
	"slices"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

func TestAddMonthsClamps(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want time.Time
	}{
		{time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), 3, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), 12, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := AddMonths(tt.from, tt.n); !got.Equal(tt.want) {
			t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.from, tt.n, got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 3, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("DaysBetween = %d, want 2", got)
	}
	if got := DaysBetween(b, a); got != -2 {
		t.Errorf("DaysBetween reversed = %d, want -2", got)
	}
	if !SameDay(a, StartOfDay(a)) {
		t.Error("StartOfDay should stay on the same day")
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2025-04-30T14:05", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hour() != 14 || got.Minute() != 5 {
		t.Errorf("got %s, want 14:05", got)
	}
	if _, err := ParseTime("30/04/2025", time.UTC); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestParseWeekdaysNormalizes(t *testing.T) {
	got, err := ParseWeekdays([]string{"thu", "Monday", "1", "0"})
	if err != nil {
		t.Fatal(err)
	}
	want := Weekdays{time.Sunday, time.Monday, time.Thursday}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := ParseWeekdays([]string{"someday"}); err == nil {
		t.Error("expected error for unknown day")
	}
}

func TestWeekdaysYAMLScalar(t *testing.T) {
	var w Weekdays
	if err := yaml.Unmarshal([]byte(`"mon, fri"`), &w); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(w, Weekdays{time.Monday, time.Friday}) {
		t.Errorf("got %v", w)
	}
}
