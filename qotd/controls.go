package qotd

import (
	"fmt"
	"strconv"
	"strings"
)

// ControlPrefix namespaces every control ID the engine emits.
const ControlPrefix = "qotd"

type Action string

const (
	ActionApprove  Action = "approve"
	ActionDiscard  Action = "discard"
	ActionUpvote   Action = "up"
	ActionDownvote Action = "down"
	ActionSuggest  Action = "suggest"
)

func (a Action) valid() bool {
	switch a {
	case ActionApprove, ActionDiscard, ActionUpvote, ActionDownvote, ActionSuggest:
		return true
	}
	return false
}

// ControlID is the decoded custom ID of a control, "qotd:<action>:<ref>".
// Ref is a question ID for votes and suggest, a suggestion ID for moderation.
type ControlID struct {
	Action Action
	Ref    string
}

func (c ControlID) String() string {
	return ControlPrefix + ":" + string(c.Action) + ":" + c.Ref
}

// QuestionID parses Ref as a question ID.
func (c ControlID) QuestionID() (int64, error) {
	return strconv.ParseInt(c.Ref, 10, 64)
}

func ParseControlID(raw string) (ControlID, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 || parts[0] != ControlPrefix {
		return ControlID{}, fmt.Errorf("qotd: malformed control id %q", raw)
	}
	c := ControlID{Action: Action(parts[1]), Ref: parts[2]}
	if !c.Action.valid() {
		return ControlID{}, fmt.Errorf("qotd: unknown control action %q", parts[1])
	}
	return c, nil
}

// VoteControls are the buttons under a distributed question.
func VoteControls(q Question) []Control {
	ref := strconv.FormatInt(q.ID, 10)
	return []Control{
		{ID: ControlID{ActionUpvote, ref}, Emoji: "👍", Label: strconv.Itoa(q.Upvotes), Style: StyleSuccess},
		{ID: ControlID{ActionDownvote, ref}, Emoji: "👎", Label: strconv.Itoa(q.Downvotes), Style: StyleDanger},
		{ID: ControlID{ActionSuggest, ref}, Emoji: "💡", Label: "Suggest a question", Style: StyleSecondary},
	}
}

// ReviewControls are the buttons on a pending suggestion.
func ReviewControls(s Suggestion) []Control {
	return []Control{
		{ID: ControlID{ActionApprove, s.ID}, Emoji: "✅", Label: "Approve", Style: StyleSuccess},
		{ID: ControlID{ActionDiscard, s.ID}, Emoji: "🗑️", Label: "Discard", Style: StyleDanger},
	}
}

// resolvedControls keeps the review buttons visible but inert.
func resolvedControls(s Suggestion) []Control {
	controls := ReviewControls(s)
	for i := range controls {
		controls[i].Disabled = true
	}
	return controls
}
