package proc

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leeineian/qotd/sys"
)

// resetEngine puts the package back to its pre-ready state.
func resetEngine(t *testing.T) {
	t.Helper()
	prevDB := sys.DB
	t.Cleanup(func() {
		engineMu.Lock()
		engine.Store(nil)
		engineReady = make(chan struct{})
		engineMu.Unlock()
		sys.DB = prevDB
	})
}

func TestEnsureEngineRetriesAfterFailure(t *testing.T) {
	sys.SetSilentMode(true)
	resetEngine(t)

	db, err := sys.OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "qotd.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sys.DB = db

	bad := &sys.Config{Location: time.UTC, PostTimes: []string{"25:99"}}
	if err := ensureEngine(nil, bad); err == nil {
		t.Fatal("engine built from an invalid schedule")
	}
	if _, err := Engine(); err != ErrEngineNotReady {
		t.Fatalf("failed build left an engine behind: %v", err)
	}
	select {
	case <-readyCh():
		t.Fatal("ready signalled after a failed build")
	default:
	}

	good := &sys.Config{Location: time.UTC, PostTimes: []string{"09:00"}}
	if err := ensureEngine(nil, good); err != nil {
		t.Fatalf("second ready: %v", err)
	}
	first, err := Engine()
	if err != nil {
		t.Fatalf("Engine() after retry: %v", err)
	}
	select {
	case <-readyCh():
	default:
		t.Fatal("ready not signalled after a successful build")
	}

	if err := ensureEngine(nil, good); err != nil {
		t.Fatalf("third ready: %v", err)
	}
	if again, _ := Engine(); again != first {
		t.Fatal("a later ready replaced the running engine")
	}
}

func TestSchedulerWaitsForEngine(t *testing.T) {
	resetEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	ok, run, shutdown := StartScheduler(ctx)
	if !ok {
		t.Fatal("scheduler refused to start")
	}
	if again, _, _ := StartScheduler(ctx); again {
		t.Fatal("scheduler started twice")
	}

	exited := make(chan struct{})
	go func() {
		run()
		close(exited)
	}()

	select {
	case <-exited:
		t.Fatal("scheduler exited without an engine or a cancel")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("scheduler ignored cancellation while waiting for the engine")
	}
	shutdown()

	if ok, _, _ := StartScheduler(context.Background()); !ok {
		t.Fatal("scheduler could not start again after shutdown")
	}
	atomic.StoreInt32(&schedulerRunning, 0)
}
