package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/ports"
)

// DailyScheduler fires the job once per day at the configured wall-clock
// time. Only daily cron expressions of the form "M H * * *" are supported.
type DailyScheduler struct {
	hour   int
	minute int
	loc    *time.Location
	stop   chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler parses the cron expression into a daily trigger time.
func NewDailyScheduler(spec string, loc *time.Location) (*DailyScheduler, error) {
	if loc == nil {
		loc = time.UTC
	}

	minute, hour, err := parseDailySpec(spec)
	if err != nil {
		return nil, err
	}

	return &DailyScheduler{hour: hour, minute: minute, loc: loc}, nil
}

// Start waits until the next trigger time and then fires every 24 hours.
func (c *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if c.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	c.stop = stop

	go func() {
		timer := time.NewTimer(time.Until(c.nextAfter(time.Now())))
		defer timer.Stop()
		for {
			select {
			case t := <-timer.C:
				job(t)
				timer.Reset(time.Until(c.nextAfter(time.Now())))
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the timer goroutine.
func (c *DailyScheduler) Stop(ctx context.Context) error {
	if c.stop == nil {
		return nil
	}
	close(c.stop)
	c.stop = nil
	return nil
}

// nextAfter returns the first trigger time strictly after now.
func (c *DailyScheduler) nextAfter(now time.Time) time.Time {
	now = now.In(c.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), c.hour, c.minute, 0, 0, c.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// parseDailySpec accepts "M H * * *" with numeric minute and hour.
func parseDailySpec(spec string) (minute, hour int, err error) {
	fields := strings.Fields(spec)
	if len(fields) != 5 {
		return 0, 0, fmt.Errorf("cron expression %q: want 5 fields", spec)
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return 0, 0, fmt.Errorf("cron expression %q: only daily schedules (M H * * *) are supported", spec)
		}
	}

	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("cron expression %q: invalid minute %q", spec, fields[0])
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("cron expression %q: invalid hour %q", spec, fields[1])
	}

	return minute, hour, nil
}
