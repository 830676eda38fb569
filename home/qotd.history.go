package home

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
	"github.com/sho0pi/naturaltime"
)

var historyParser = sync.OnceValues(naturaltime.New)

func handleQOTDHistory(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, e *qotd.Engine) {
	when, _ := data.OptString("when")
	when = strings.TrimSpace(when)

	var (
		sel qotd.Selection
		day string
		err error
	)
	if when == "" {
		sel, err = e.Selector.Latest(sys.AppContext)
	} else {
		var at time.Time
		if at, err = parseHistoryDate(when, e.Selector.Now()); err != nil {
			sys.Reply(event, sys.MsgQOTDHistoryBadDate)
			return
		}
		day = e.Selector.Day(at)
		sel, err = e.Selector.On(sys.AppContext, day)
	}

	switch {
	case errors.Is(err, qotd.ErrNoSelection) && day != "":
		sys.Reply(event, fmt.Sprintf(sys.MsgQOTDHistoryNone, day))
	case errors.Is(err, qotd.ErrNotFound):
		if day == "" {
			day = "the latest day"
		}
		sys.Reply(event, fmt.Sprintf(sys.MsgQOTDHistoryDeleted, day))
	case err != nil:
		sys.Reply(event, errorMessage("history", err))
	default:
		sys.Reply(event, fmt.Sprintf(sys.MsgQOTDHistory, sel.Day, sel.Question.Position, sel.Question.Text, sel.PostedAt.Unix()))
	}
}

// parseHistoryDate accepts a calendar date or a natural phrase like "last friday".
func parseHistoryDate(input string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(qotd.DayLayout, input, now.Location()); err == nil {
		return t, nil
	}
	parser, err := historyParser()
	if err != nil {
		return time.Time{}, err
	}
	result, err := parser.ParseDate(input, now)
	if err != nil {
		return time.Time{}, err
	}
	if result == nil {
		return time.Time{}, errors.New("no date found")
	}
	return *result, nil
}
