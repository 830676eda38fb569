package qotd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/leeineian/qotd/sys"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("qotd: invalid time of day %q", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ParseClocks parses, sorts and de-duplicates a list of HH:MM times.
func ParseClocks(raw []string) ([]Clock, error) {
	clocks := make([]Clock, 0, len(raw))
	for _, s := range raw {
		c, err := ParseClock(s)
		if err != nil {
			return nil, err
		}
		clocks = append(clocks, c)
	}
	slices.SortFunc(clocks, func(a, b Clock) int {
		return (a.Hour*60 + a.Minute) - (b.Hour*60 + b.Minute)
	})
	return slices.Compact(clocks), nil
}

// NextFire returns the first fire time strictly after now.
func NextFire(now time.Time, loc *time.Location, clocks []Clock) time.Time {
	local := now.In(loc)
	for day := 0; day <= 1; day++ {
		y, m, d := local.AddDate(0, 0, day).Date()
		for _, c := range clocks {
			// time.Date normalizes wall times that fall into a DST gap.
			at := time.Date(y, m, d, c.Hour, c.Minute, 0, 0, loc)
			if at.After(now) {
				return at
			}
		}
	}
	return time.Time{}
}

// Scheduler runs a distribution cycle at each configured time of day.
type Scheduler struct {
	distributor *Distributor
	clocks      []Clock
	loc         *time.Location
	now         func() time.Time
	onCycle     func(CycleReport, error)
}

func (s *Scheduler) NextFire(now time.Time) time.Time {
	return NextFire(now, s.loc, s.clocks)
}

// Run blocks until ctx is done. A failing cycle is logged and the next
// one is armed as usual.
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.clocks) == 0 {
		return
	}
	for {
		now := s.now()
		next := s.NextFire(now)
		sys.LogScheduler("Next daily question at %s", next.Format(time.DateTime+" MST"))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.Fire(ctx)
	}
}

// Fire runs one cycle immediately. The cycle is not cut short by ctx.
func (s *Scheduler) Fire(ctx context.Context) {
	report, err := s.distributor.RunCycle(context.WithoutCancel(ctx), s.now())
	switch {
	case errors.Is(err, ErrPoolEmpty):
		sys.LogWarn("Daily question skipped for %s: the question pool is empty", report.Day)
	case err != nil:
		sys.LogError("Daily question cycle for %s failed: %v", report.Day, err)
	default:
		sys.LogScheduler("Daily question #%d for %s: %d sent, %d skipped, %d failed",
			report.Question.Position, report.Day, len(report.Sent), len(report.Skipped), len(report.Failed))
	}
	if s.onCycle != nil {
		s.onCycle(report, err)
	}
}
