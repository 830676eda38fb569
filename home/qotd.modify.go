package home

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDModify(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, e *qotd.Engine) {
	position := data.Int("position")

	target, err := e.Pool.At(sys.AppContext, position)
	if err == nil {
		target, err = e.Pool.Edit(sys.AppContext, target.ID, data.String("text"))
	}
	if errors.Is(err, qotd.ErrNotFound) {
		sys.Reply(event, fmt.Sprintf(sys.MsgQOTDNotFound, position))
		return
	}
	if err != nil {
		sys.Reply(event, errorMessage("modify", err))
		return
	}
	sys.Reply(event, fmt.Sprintf(sys.MsgQOTDModified, target.Position, target.Text))
}
