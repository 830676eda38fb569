package home

import (
	"errors"

	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/proc"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

type controlHandler func(event *events.ComponentInteractionCreate, id qotd.ControlID, e *qotd.Engine)

var controlHandlers = map[qotd.Action]controlHandler{
	qotd.ActionApprove:  handleModerate,
	qotd.ActionDiscard:  handleModerate,
	qotd.ActionUpvote:   handleVote,
	qotd.ActionDownvote: handleVote,
	qotd.ActionSuggest:  handleSuggestButton,
}

func init() {
	sys.RegisterComponentHandler(qotd.ControlPrefix+":", handleControl)
}

func handleControl(event *events.ComponentInteractionCreate) {
	id, err := qotd.ParseControlID(event.Data.CustomID())
	if err != nil {
		sys.LogDebug(sys.MsgLoaderUnknownComponent, event.Data.CustomID())
		return
	}
	handler, ok := controlHandlers[id.Action]
	if !ok {
		sys.LogDebug(sys.MsgLoaderUnknownComponent, event.Data.CustomID())
		return
	}
	e, err := proc.Engine()
	if err != nil {
		sys.Reply(event, sys.MsgQOTDNotReady)
		return
	}
	handler(event, id, e)
}

func handleModerate(event *events.ComponentInteractionCreate, id qotd.ControlID, e *qotd.Engine) {
	if !sys.CanModerate(event.User().ID, event.Member()) {
		sys.Reply(event, sys.MsgNoPermission)
		return
	}
	if err := event.DeferUpdateMessage(); err != nil {
		return
	}

	resolve := e.Moderation.Discard
	if id.Action == qotd.ActionApprove {
		resolve = e.Moderation.Approve
	}
	_, err := resolve(sys.AppContext, event.Message.ID, event.User().ID)
	if err == nil {
		return
	}

	content := sys.MsgQOTDAlreadyResolved
	if !errors.Is(err, qotd.ErrAlreadyResolved) {
		sys.LogModeration(sys.MsgQOTDLogModFail, id.Action, event.Message.ID, err)
		content = sys.MsgSomethingBroke
	}
	if _, err := event.Client().Rest.CreateFollowupMessage(event.ApplicationID(), event.Token(), sys.Notice(content)); err != nil {
		sys.LogWarn("Failed to send followup: %v", err)
	}
}

func handleVote(event *events.ComponentInteractionCreate, id qotd.ControlID, e *qotd.Engine) {
	questionID, err := id.QuestionID()
	if err != nil {
		sys.LogDebug(sys.MsgLoaderUnknownComponent, event.Data.CustomID())
		return
	}
	dir := qotd.Up
	if id.Action == qotd.ActionDownvote {
		dir = qotd.Down
	}

	_, err = e.Votes.Toggle(sys.AppContext, questionID, event.User().ID, dir)
	if errors.Is(err, qotd.ErrNotFound) {
		sys.Reply(event, sys.MsgVoteGone)
		return
	}
	if err != nil {
		sys.LogQOTD(sys.MsgQOTDLogVoteFail, questionID, event.User().ID, err)
		sys.Reply(event, sys.MsgSomethingBroke)
		return
	}

	q, err := e.Pool.Get(sys.AppContext, questionID)
	if err != nil {
		sys.Reply(event, sys.MsgVoteRecorded)
		return
	}
	if err := event.UpdateMessage(proc.MessageUpdate(e.Distributor.Card(q))); err != nil {
		sys.LogWarn("Failed to refresh vote counts: %v", err)
	}
}

func handleSuggestButton(event *events.ComponentInteractionCreate, _ qotd.ControlID, _ *qotd.Engine) {
	if event.GuildID() == nil {
		sys.Reply(event, sys.MsgServerOnly)
		return
	}
	if err := event.Modal(suggestForm.Create("")); err != nil {
		sys.LogWarn("Failed to open suggestion modal: %v", err)
	}
}
