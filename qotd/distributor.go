package qotd

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/qotd/sys"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Skip reasons reported in a CycleReport.
const (
	SkipDisabled  = "disabled"
	SkipNoChannel = "no channel"
	SkipDuplicate = "already posted today"
)

// CycleReport summarizes one distribution cycle.
type CycleReport struct {
	Day      string
	Question Question
	Sent     map[snowflake.ID]MessageRef
	Skipped  map[snowflake.ID]string
	Failed   map[snowflake.ID]error
}

// Distributor fans the daily question out to every enabled community.
type Distributor struct {
	selector    *Selector
	pool        *Pool
	communities *CommunityCache
	gateway     Gateway
	render      Renderer
	limiter     *rate.Limiter
	fanout      int
	loc         *time.Location
	now         func() time.Time
}

// Card renders q with its vote and suggest controls.
func (d *Distributor) Card(q Question) Card {
	card := d.render.Daily(q)
	card.Controls = VoteControls(q)
	return card
}

// RunCycle resolves today's question and delivers it. Per-community failures
// end up in the report; only selection and storage failures are returned.
func (d *Distributor) RunCycle(ctx context.Context, now time.Time) (CycleReport, error) {
	day := d.selector.Day(now)
	sel, err := d.selector.Resolve(ctx, day)
	if err != nil {
		return CycleReport{Day: day}, err
	}

	all, err := d.communities.All(ctx)
	if err != nil {
		return CycleReport{Day: day, Question: sel.Question}, err
	}

	report := CycleReport{
		Day:      day,
		Question: sel.Question,
		Sent:     make(map[snowflake.ID]MessageRef),
		Skipped:  make(map[snowflake.ID]string),
		Failed:   make(map[snowflake.ID]error),
	}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(d.fanout)
	for _, c := range all {
		switch {
		case !c.Enabled:
			report.Skipped[c.GuildID] = SkipDisabled
			continue
		case c.ChannelID == 0:
			report.Skipped[c.GuildID] = SkipNoChannel
			continue
		case c.PostedToday(sel.Question.ID, now, d.loc):
			report.Skipped[c.GuildID] = SkipDuplicate
			continue
		}

		g.Go(func() error {
			ref, err := d.deliver(ctx, c, sel.Question, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[c.GuildID] = err
				sys.LogWarn("Daily question not delivered to guild %s: %v", c.GuildID, err)
				return nil
			}
			report.Sent[c.GuildID] = ref
			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}

// Post sends the question at position, or the latest selection when
// position is 0, to guild's channel. record controls whether the delivery
// counts toward the per-community duplicate guard.
func (d *Distributor) Post(ctx context.Context, guild snowflake.ID, position int, record bool) (Question, MessageRef, error) {
	var q Question
	if position > 0 {
		var err error
		if q, err = d.pool.At(ctx, position); err != nil {
			return Question{}, MessageRef{}, err
		}
	} else {
		sel, err := d.selector.Latest(ctx)
		if errors.Is(err, ErrNoSelection) {
			sel, err = d.selector.Resolve(ctx, d.selector.Day(d.now()))
		}
		if err != nil {
			return Question{}, MessageRef{}, err
		}
		q = sel.Question
	}

	c, err := d.communities.Get(ctx, guild)
	if err != nil {
		return Question{}, MessageRef{}, err
	}
	var recordAt time.Time
	if record {
		recordAt = d.now()
	}
	ref, err := d.deliver(ctx, c, q, recordAt)
	return q, ref, err
}

// Repeat re-sends the question last recorded for guild, falling back to the
// latest selection. It never touches the duplicate guard.
func (d *Distributor) Repeat(ctx context.Context, guild snowflake.ID) (Question, MessageRef, error) {
	c, err := d.communities.Get(ctx, guild)
	if err != nil {
		return Question{}, MessageRef{}, err
	}

	var q Question
	if c.LastQuestionID != 0 {
		q, err = d.pool.Get(ctx, c.LastQuestionID)
	}
	if c.LastQuestionID == 0 || errors.Is(err, ErrNotFound) {
		var sel Selection
		sel, err = d.selector.Latest(ctx)
		q = sel.Question
	}
	if err != nil {
		return Question{}, MessageRef{}, err
	}

	ref, err := d.deliver(ctx, c, q, time.Time{})
	return q, ref, err
}

// deliver sends q to c. A non-zero recordAt is written back as c's
// last-posted bookkeeping.
func (d *Distributor) deliver(ctx context.Context, c Community, q Question, recordAt time.Time) (MessageRef, error) {
	if c.ChannelID == 0 {
		return MessageRef{}, ErrNoChannel
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return MessageRef{}, &DeliveryError{Op: "send question", GuildID: c.GuildID, ChannelID: c.ChannelID, Err: err}
	}

	ref, err := d.gateway.Send(ctx, c.ChannelID, d.Card(q))
	if err != nil {
		return MessageRef{}, &DeliveryError{Op: "send question", GuildID: c.GuildID, ChannelID: c.ChannelID, Err: err}
	}

	if !recordAt.IsZero() {
		if _, err := d.communities.RecordPost(ctx, c.GuildID, q.ID, recordAt); err != nil {
			sys.LogError("Failed to record daily question for guild %s: %v", c.GuildID, err)
		}
	}
	return ref, nil
}
