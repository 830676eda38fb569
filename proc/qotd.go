package proc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/disgoorg/disgo/bot"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

var (
	engineMu    sync.Mutex
	engine      atomic.Pointer[qotd.Engine]
	engineReady = make(chan struct{})

	schedulerRunning int32
)

// ErrEngineNotReady is returned by handlers that run before the client is ready.
var ErrEngineNotReady = errors.New("daily question engine is not ready yet")

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		if err := ensureEngine(client, sys.GlobalConfig); err != nil {
			sys.LogError("Failed to start daily question engine, retrying on next ready: %v", err)
		}
	})
	sys.RegisterDaemon(sys.LogScheduler, StartScheduler)
}

// ensureEngine builds the engine unless one is already running. A failed
// build leaves nothing behind, so a later ready event tries again.
func ensureEngine(client *bot.Client, cfg *sys.Config) error {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine.Load() != nil {
		return nil
	}
	e, err := NewEngine(client, cfg)
	if err != nil {
		return err
	}
	engine.Store(e)
	close(engineReady)
	return nil
}

func readyCh() <-chan struct{} {
	engineMu.Lock()
	defer engineMu.Unlock()
	return engineReady
}

// Engine returns the running engine, or ErrEngineNotReady.
func Engine() (*qotd.Engine, error) {
	if e := engine.Load(); e != nil {
		return e, nil
	}
	return nil, ErrEngineNotReady
}

// NewEngine wires the engine to the database, Discord and the configured schedule.
func NewEngine(client *bot.Client, cfg *sys.Config) (*qotd.Engine, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	if sys.DB == nil {
		return nil, errors.New("database not initialized")
	}
	clocks, err := qotd.ParseClocks(cfg.PostTimes)
	if err != nil {
		return nil, err
	}

	return qotd.New(sys.DB, NewDiscordGateway(client), Cards{}, qotd.Options{
		Location:        cfg.Location,
		PostTimes:       clocks,
		ReviewChannelID: cfg.ReviewChannelID,
		Fanout:          cfg.Fanout,
		SendInterval:    cfg.SendInterval,
	}), nil
}

// StartScheduler starts the daily question daemon. It idles until the
// engine exists, however many ready events that takes.
func StartScheduler(ctx context.Context) (bool, func(), func()) {
	if !atomic.CompareAndSwapInt32(&schedulerRunning, 0, 1) {
		return false, nil, nil
	}

	ready := readyCh()
	done := make(chan struct{})
	return true, func() {
			defer close(done)
			select {
			case <-ready:
			case <-ctx.Done():
				return
			}
			engine.Load().Scheduler.Run(ctx)
		}, func() {
			sys.LogScheduler("Shutting down Daily Question Scheduler...")
			<-done
			atomic.StoreInt32(&schedulerRunning, 0)
		}
}
