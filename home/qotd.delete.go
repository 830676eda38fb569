package home

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDDelete(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, e *qotd.Engine) {
	position := data.Int("position")

	target, err := e.Pool.At(sys.AppContext, position)
	if err == nil {
		target, err = e.Pool.Delete(sys.AppContext, target.ID)
	}
	if errors.Is(err, qotd.ErrNotFound) {
		sys.Reply(event, fmt.Sprintf(sys.MsgQOTDNotFound, position))
		return
	}
	if err != nil {
		sys.Reply(event, errorMessage("delete", err))
		return
	}
	sys.LogQOTD("Question #%d deleted by %s", position, event.User().ID)
	sys.Reply(event, fmt.Sprintf(sys.MsgQOTDDeleted, position, target.Text))
}
