package schedule

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

func TestDailySpec(t *testing.T) {
	tests := []struct {
		clock string
		want  string
		code  string
	}{
		{"08:00", "0 0 8 * * *", ""},
		{"23:59", "0 59 23 * * *", ""},
		{"7:05", "0 5 7 * * *", ""},
		{"24:00", "", clierr.InvalidSchedule},
		{"noon", "", clierr.InvalidSchedule},
	}
	for _, tt := range tests {
		got, err := DailySpec(tt.clock)
		if code := clierr.CodeOf(err); code != tt.code {
			t.Errorf("DailySpec(%q) error = %v, want code %q", tt.clock, err, tt.code)
			continue
		}
		if got != tt.want {
			t.Errorf("DailySpec(%q) = %q, want %q", tt.clock, got, tt.want)
		}
	}
}

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	from := time.Date(2025, time.May, 10, 9, 30, 0, 0, loc)

	later, err := NextRun("18:15", loc, from)
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if want := time.Date(2025, time.May, 10, 18, 15, 0, 0, loc); !later.Equal(want) {
		t.Errorf("same-day run = %v, want %v", later, want)
	}

	tomorrow, err := NextRun("08:00", loc, from)
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}
	if want := time.Date(2025, time.May, 11, 8, 0, 0, 0, loc); !tomorrow.Equal(want) {
		t.Errorf("next-day run = %v, want %v", tomorrow, want)
	}
}

func TestSchedulerRegistersEntry(t *testing.T) {
	s := New(time.UTC)
	id, err := s.ScheduleDaily("06:45", func() {})
	if err != nil {
		t.Fatalf("ScheduleDaily: %v", err)
	}
	s.Start()
	defer s.Stop()

	next := s.Next(id)
	if next.IsZero() {
		t.Fatal("entry has no next run after Start")
	}
	if next.Hour() != 6 || next.Minute() != 45 {
		t.Errorf("next run = %v, want 06:45", next)
	}
}
