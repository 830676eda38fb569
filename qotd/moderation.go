package qotd

import (
	"context"
	"database/sql"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/qotd/sys"
)

type Outcome int

const (
	Approved Outcome = iota + 1
	Discarded
	// Withdrawn marks a suggestion dropped before any moderator saw it.
	Withdrawn
)

func (o Outcome) String() string {
	switch o {
	case Approved:
		return "approved"
	case Discarded:
		return "discarded"
	case Withdrawn:
		return "withdrawn"
	}
	return "unknown"
}

// Resolution is the terminal state of a suggestion. Question is set for
// approvals only.
type Resolution struct {
	Suggestion Suggestion
	Outcome    Outcome
	Moderator  snowflake.ID
	Question   *Question
}

// Moderation runs the pending -> approved | discarded workflow.
type Moderation struct {
	db          *sql.DB
	queue       *Queue
	communities *CommunityCache
	gateway     Gateway
	render      Renderer

	// reviewChannel is used when the guild has no review channel of its own.
	reviewChannel snowflake.ID
}

// Submit enqueues text and posts its moderation message. If the message
// cannot be posted the entry is removed again and a *DeliveryError returned.
func (m *Moderation) Submit(ctx context.Context, guild, submitter snowflake.ID, text string) (Suggestion, error) {
	channel := m.reviewChannel
	if guild != 0 {
		c, err := m.communities.Get(ctx, guild)
		if err != nil {
			return Suggestion{}, err
		}
		if c.ReviewChannelID != 0 {
			channel = c.ReviewChannelID
		}
	}
	if channel == 0 {
		return Suggestion{}, ErrNoChannel
	}

	s, err := m.queue.Add(ctx, guild, submitter, text)
	if err != nil {
		return Suggestion{}, err
	}

	card := m.render.Review(s)
	card.Controls = ReviewControls(s)
	ref, err := m.gateway.Send(ctx, channel, card)
	if err != nil {
		if rmErr := m.queue.Remove(ctx, s.ID); rmErr != nil {
			sys.LogError("Failed to drop undeliverable suggestion %s: %v", s.ID, rmErr)
		}
		return Suggestion{}, &DeliveryError{Op: "post suggestion", GuildID: guild, ChannelID: channel, Err: err}
	}

	if err := m.queue.AttachMessage(ctx, s.ID, ref); err != nil {
		m.withdraw(ctx, s, ref)
		return Suggestion{}, err
	}
	s.Message = ref
	sys.LogModeration("Suggestion %s from %s queued for review", s.ID, submitter)
	return s, nil
}

// withdraw drops a queued suggestion whose review message could not be
// linked, and leaves that message inert so nobody acts on it.
func (m *Moderation) withdraw(ctx context.Context, s Suggestion, ref MessageRef) {
	if err := m.queue.Remove(ctx, s.ID); err != nil {
		sys.LogError("Failed to drop unlinked suggestion %s: %v", s.ID, err)
	}
	s.Message = ref
	card := m.render.Resolved(Resolution{Suggestion: s, Outcome: Withdrawn})
	card.Controls = resolvedControls(s)
	if err := m.gateway.Edit(ctx, ref, card); err != nil {
		sys.LogWarn("%v", &DeliveryError{Op: "withdraw suggestion", GuildID: s.GuildID, ChannelID: ref.ChannelID, Err: err})
	}
}

// Approve turns the suggestion shown by messageID into a question.
// A second approval, or one after a discard, returns ErrAlreadyResolved.
func (m *Moderation) Approve(ctx context.Context, messageID, moderator snowflake.ID) (Resolution, error) {
	res := Resolution{Outcome: Approved, Moderator: moderator}
	err := withTx(ctx, m.db, func(tx DBTX) error {
		var err error
		if res.Suggestion, err = claim(ctx, tx, messageID); err != nil {
			return err
		}
		q, err := createQuestion(ctx, tx, res.Suggestion.Text, res.Suggestion.SubmitterID)
		if err != nil {
			return err
		}
		res.Question = &q
		return nil
	})
	if err != nil {
		return Resolution{}, storageErr("approve suggestion", err)
	}

	sys.LogModeration("Suggestion %s approved by %s as question #%d", res.Suggestion.ID, moderator, res.Question.Position)
	m.finish(ctx, res)
	return res, nil
}

// Discard drops the suggestion shown by messageID.
func (m *Moderation) Discard(ctx context.Context, messageID, moderator snowflake.ID) (Resolution, error) {
	s, err := m.queue.Claim(ctx, messageID)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{Suggestion: s, Outcome: Discarded, Moderator: moderator}

	sys.LogModeration("Suggestion %s discarded by %s", s.ID, moderator)
	m.finish(ctx, res)
	return res, nil
}

// finish moves the moderation message to its terminal state. The
// resolution is already committed, so a failed edit is only logged.
func (m *Moderation) finish(ctx context.Context, res Resolution) {
	if res.Suggestion.Message.IsZero() {
		return
	}
	card := m.render.Resolved(res)
	card.Controls = resolvedControls(res.Suggestion)
	if err := m.gateway.Edit(ctx, res.Suggestion.Message, card); err != nil {
		derr := &DeliveryError{Op: "update suggestion", GuildID: res.Suggestion.GuildID, ChannelID: res.Suggestion.Message.ChannelID, Err: err}
		sys.LogWarn("%v", derr)
	}
}
