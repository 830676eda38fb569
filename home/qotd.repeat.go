package home

import (
	"fmt"

	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDRepeat(event *events.ApplicationCommandInteractionCreate, e *qotd.Engine) {
	if err := event.DeferCreateMessage(true); err != nil {
		return
	}

	q, ref, err := e.Distributor.Repeat(sys.AppContext, *event.GuildID())
	if err != nil {
		deferred(event, errorMessage("repeat", err))
		return
	}
	deferred(event, fmt.Sprintf(sys.MsgQOTDRepeated, q.Position, ref.ChannelID))
}
