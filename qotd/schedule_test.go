package qotd

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNextFire(t *testing.T) {
	clocks := []Clock{{9, 0}, {21, 0}}
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before first", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{"exactly first", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC)},
		{"between", time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC), time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC)},
		{"after last", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
		{"year end", time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextFire(tt.now, time.UTC, clocks); !got.Equal(tt.want) {
				t.Fatalf("NextFire(%s) = %s, want %s", tt.now, got, tt.want)
			}
		})
	}
}

func TestNextFireInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 13:00 UTC is 08:00 local, so the 09:00 local fire is 14:00 UTC.
	got := NextFire(time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), loc, []Clock{{9, 0}})
	if want := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("NextFire = %s, want %s", got, want)
	}
}

func TestParseClocks(t *testing.T) {
	clocks, err := ParseClocks([]string{"21:00", "09:00", "21:00"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(clocks) != 2 || clocks[0] != (Clock{9, 0}) || clocks[1] != (Clock{21, 0}) {
		t.Fatalf("clocks = %v", clocks)
	}
	if clocks[0].String() != "09:00" {
		t.Fatalf("String = %s", clocks[0])
	}

	for _, bad := range []string{"9am", "25:00", ""} {
		if _, err := ParseClocks([]string{bad}); err == nil {
			t.Fatalf("ParseClocks(%q) should fail", bad)
		}
	}
}

func TestSchedulerKeepsGoingAfterFailure(t *testing.T) {
	var results []error
	env := newTestEnv(t, func(o *Options) {
		o.OnCycle = func(_ CycleReport, err error) { results = append(results, err) }
	})
	env.community(t, guildA, chanA, true)

	env.engine.Scheduler.Fire(context.Background())
	env.seed(t, "finally a question")
	env.engine.Scheduler.Fire(context.Background())

	if len(results) != 2 {
		t.Fatalf("%d cycles reported, want 2", len(results))
	}
	if !errors.Is(results[0], ErrPoolEmpty) || results[1] != nil {
		t.Fatalf("cycle results = %v", results)
	}
	if n := len(env.gateway.sentTo(chanA)); n != 1 {
		t.Fatalf("%d messages, want 1", n)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		env.engine.Scheduler.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestControlIDs(t *testing.T) {
	c, err := ParseControlID("qotd:approve:7b0c-uuid")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Action != ActionApprove || c.Ref != "7b0c-uuid" {
		t.Fatalf("parsed %+v", c)
	}
	if c.String() != "qotd:approve:7b0c-uuid" {
		t.Fatalf("String = %s", c)
	}

	for _, bad := range []string{"qotd:explode:1", "loop:approve:1", "qotd:up", ""} {
		if _, err := ParseControlID(bad); err == nil {
			t.Fatalf("ParseControlID(%q) should fail", bad)
		}
	}
}
