// Package schedule runs jobs at a fixed time of day on a cron scheduler.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
)

// parser reads six-field specs with a leading seconds field.
var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Scheduler wraps a cron runner pinned to one timezone.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
}

// New returns a stopped scheduler that evaluates specs in loc.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithParser(parser)),
		loc:  loc,
	}
}

// DailySpec converts an HH:MM time of day into a cron spec firing once a
// day at that minute.
func DailySpec(clock string) (string, error) {
	hour, minute, err := config.ParseClock(clock)
	if err != nil {
		return "", clierr.New(clierr.InvalidSchedule, err.Error()).
			WithDetails(map[string]any{"time": clock})
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

// NextRun returns the first time after from at which a daily job at clock
// fires in loc.
func NextRun(clock string, loc *time.Location, from time.Time) (time.Time, error) {
	spec, err := DailySpec(clock)
	if err != nil {
		return time.Time{}, err
	}
	sched, err := parser.Parse(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	return sched.Next(from.In(loc)), nil
}

// ScheduleDaily registers job to run every day at clock.
func (s *Scheduler) ScheduleDaily(clock string, job func()) (cron.EntryID, error) {
	spec, err := DailySpec(clock)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// Next returns when entry id runs next. It is zero until the scheduler has
// started.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Run starts the scheduler and blocks until ctx is done, then stops it.
func (s *Scheduler) Run(ctx context.Context) {
	s.Start()
	<-ctx.Done()
	s.Stop()
}
