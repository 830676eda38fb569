package home

import (
	"fmt"

	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDToggle(event *events.ApplicationCommandInteractionCreate, e *qotd.Engine) {
	guildID := *event.GuildID()

	current, err := e.Communities.Get(sys.AppContext, guildID)
	if err != nil {
		sys.Reply(event, errorMessage("toggle", err))
		return
	}
	updated, err := e.Communities.SetEnabled(sys.AppContext, guildID, !current.Enabled)
	if err != nil {
		sys.Reply(event, errorMessage("toggle", err))
		return
	}

	switch {
	case !updated.Enabled:
		sys.Reply(event, sys.MsgQOTDDisabled)
	case updated.ChannelID == 0:
		sys.Reply(event, sys.MsgQOTDEnabledNoChannel)
	default:
		sys.Reply(event, fmt.Sprintf(sys.MsgQOTDEnabled, updated.ChannelID))
	}
}
