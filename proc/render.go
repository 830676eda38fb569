package proc

import (
	"fmt"

	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

const (
	MsgCardDailyTitle      = "Question of the Day"
	MsgCardDailyFooter     = "#%d"
	MsgCardDailyAuthor     = "#%d · suggested by <@%s>"
	MsgCardReviewTitle     = "New question suggestion"
	MsgCardReviewFooter    = "Submitted by <@%s>"
	MsgCardApprovedTitle   = "Suggestion added"
	MsgCardApprovedFooter  = "Added as #%d by <@%s> · suggested by <@%s>"
	MsgCardDiscardedTitle  = "Suggestion discarded"
	MsgCardDiscardedFooter = "Discarded by <@%s> · suggested by <@%s>"
	MsgCardWithdrawnTitle  = "Suggestion withdrawn"
	MsgCardWithdrawnFooter = "Could not be queued for review · suggested by <@%s>"
)

// Cards is the default qotd.Renderer.
type Cards struct{}

func (Cards) Daily(q qotd.Question) qotd.Card {
	footer := fmt.Sprintf(MsgCardDailyFooter, q.Position)
	if q.AuthorID != 0 {
		footer = fmt.Sprintf(MsgCardDailyAuthor, q.Position, q.AuthorID)
	}
	return qotd.Card{
		Title:  MsgCardDailyTitle,
		Body:   q.Text,
		Footer: footer,
		Accent: sys.ColorNeutral,
	}
}

func (Cards) Review(s qotd.Suggestion) qotd.Card {
	return qotd.Card{
		Title:  MsgCardReviewTitle,
		Body:   s.Text,
		Footer: fmt.Sprintf(MsgCardReviewFooter, s.SubmitterID),
		Accent: sys.ColorWarn,
	}
}

func (Cards) Resolved(r qotd.Resolution) qotd.Card {
	if r.Outcome == qotd.Withdrawn {
		return qotd.Card{
			Title:  MsgCardWithdrawnTitle,
			Body:   r.Suggestion.Text,
			Footer: fmt.Sprintf(MsgCardWithdrawnFooter, r.Suggestion.SubmitterID),
			Accent: sys.ColorNeutral,
		}
	}
	if r.Outcome == qotd.Approved && r.Question != nil {
		return qotd.Card{
			Title:  MsgCardApprovedTitle,
			Body:   r.Suggestion.Text,
			Footer: fmt.Sprintf(MsgCardApprovedFooter, r.Question.Position, r.Moderator, r.Suggestion.SubmitterID),
			Accent: sys.ColorSuccess,
		}
	}
	return qotd.Card{
		Title:  MsgCardDiscardedTitle,
		Body:   r.Suggestion.Text,
		Footer: fmt.Sprintf(MsgCardDiscardedFooter, r.Moderator, r.Suggestion.SubmitterID),
		Accent: sys.ColorDanger,
	}
}
