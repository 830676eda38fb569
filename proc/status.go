package proc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

var (
	StartTime = time.Now().UTC()

	statusRunning  int32
	lastStatusText string
)

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		sys.RegisterDaemon(sys.LogStatusRotator, func(ctx context.Context) (bool, func(), func()) {
			return StartStatusRotator(ctx, client)
		})
	})
}

// RotationInterval is 45 to 90 seconds, jittered so restarts don't line up.
func RotationInterval() time.Duration {
	return time.Duration(45+rand.IntN(46)) * time.Second
}

// StartStatusRotator cycles the bot presence through engine facts.
func StartStatusRotator(ctx context.Context, client *bot.Client) (bool, func(), func()) {
	if !atomic.CompareAndSwapInt32(&statusRunning, 0, 1) {
		return false, nil, nil
	}

	done := make(chan struct{})
	return true, func() {
			defer close(done)
			for {
				next := RotationInterval()
				updateStatus(ctx, client, next)
				select {
				case <-time.After(next):
				case <-ctx.Done():
					return
				}
			}
		}, func() {
			<-done
			atomic.StoreInt32(&statusRunning, 0)
		}
}

func updateStatus(ctx context.Context, client *bot.Client, next time.Duration) {
	var available []string
	if e, err := Engine(); err == nil {
		available = StatusLines(ctx, e, time.Now())
	}
	available = append(available, uptimeStatus(time.Since(StartTime)))

	selected := pickStatus(available, lastStatusText)
	lastStatusText = selected

	err := client.SetPresence(ctx,
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
		gateway.WithPlayingActivity(selected),
	)
	if err != nil {
		sys.LogStatusRotator(sys.MsgStatusUpdateFail, err)
		return
	}
	sys.LogDebug(sys.MsgStatusRotated, selected, next)
}

// StatusLines lists the non-empty presence texts the engine can offer.
func StatusLines(ctx context.Context, e *qotd.Engine, now time.Time) []string {
	var lines []string
	if at := e.Scheduler.NextFire(now); !at.IsZero() {
		lines = append(lines, fmt.Sprintf(sys.MsgStatusNextQuestion, at.Format("Jan 2 15:04 MST")))
	}
	if n, err := e.Pool.Count(ctx); err == nil && n > 0 {
		lines = append(lines, fmt.Sprintf(sys.MsgStatusPoolSize, n))
	}
	if pending, err := e.Queue.Pending(ctx); err == nil && len(pending) > 0 {
		lines = append(lines, fmt.Sprintf(sys.MsgStatusPending, len(pending)))
	}
	return lines
}

// pickStatus chooses a random entry, avoiding last when there is a choice.
func pickStatus(available []string, last string) string {
	var choices []string
	for _, s := range available {
		if s != last {
			choices = append(choices, s)
		}
	}
	if len(choices) == 0 {
		return available[0]
	}
	return choices[rand.IntN(len(choices))]
}

func uptimeStatus(d time.Duration) string {
	return fmt.Sprintf(sys.MsgStatusUptime, int(d.Hours()), int(d.Minutes())%60)
}
