// Package qotd is the daily question engine: the question pool, the
// once-per-day selection, distribution to communities, the suggestion
// moderation workflow and the vote ledger.
package qotd

import (
	"database/sql"
	"math/rand/v2"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"
)

type Options struct {
	Location *time.Location
	// PostTimes are the daily fire times in Location.
	PostTimes []Clock
	// ReviewChannelID receives suggestions from guilds without their own.
	ReviewChannelID snowflake.ID
	// Fanout bounds concurrent sends during a cycle.
	Fanout int
	// SendInterval is the minimum spacing between sends; zero disables pacing.
	SendInterval time.Duration

	Now     func() time.Time
	Rand    func(n int) int
	OnCycle func(CycleReport, error)
}

type Engine struct {
	Pool        *Pool
	Selector    *Selector
	Votes       *Ledger
	Queue       *Queue
	Moderation  *Moderation
	Communities *CommunityCache
	Distributor *Distributor
	Scheduler   *Scheduler
}

func New(db *sql.DB, gateway Gateway, render Renderer, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.IntN
	}
	if opts.Fanout < 1 {
		opts.Fanout = 1
	}
	limit := rate.Inf
	if opts.SendInterval > 0 {
		limit = rate.Every(opts.SendInterval)
	}

	pool := NewPool(db)
	selector := NewSelector(db, opts.Location)
	selector.now = opts.Now
	selector.intn = opts.Rand
	queue := NewQueue(db)
	communities := NewCommunityCache(NewCommunityStore(db))

	distributor := &Distributor{
		selector:    selector,
		pool:        pool,
		communities: communities,
		gateway:     gateway,
		render:      render,
		limiter:     rate.NewLimiter(limit, 1),
		fanout:      opts.Fanout,
		loc:         opts.Location,
		now:         opts.Now,
	}

	return &Engine{
		Pool:        pool,
		Selector:    selector,
		Votes:       NewLedger(db),
		Queue:       queue,
		Communities: communities,
		Distributor: distributor,
		Moderation: &Moderation{
			db:            db,
			queue:         queue,
			communities:   communities,
			gateway:       gateway,
			render:        render,
			reviewChannel: opts.ReviewChannelID,
		},
		Scheduler: &Scheduler{
			distributor: distributor,
			clocks:      opts.PostTimes,
			loc:         opts.Location,
			now:         opts.Now,
			onCycle:     opts.OnCycle,
		},
	}
}
