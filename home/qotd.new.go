package home

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDNew(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, e *qotd.Engine) {
	q, err := e.Pool.Create(sys.AppContext, data.String("text"), event.User().ID)
	if err != nil {
		sys.Reply(event, errorMessage("new", err))
		return
	}
	sys.LogQOTD("Question #%d added by %s", q.Position, event.User().ID)
	sys.Reply(event, fmt.Sprintf(sys.MsgQOTDCreated, q.Position, q.Text))
}
