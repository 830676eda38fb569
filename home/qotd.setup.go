package home

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDSetup(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, e *qotd.Engine) {
	channelID := data.Snowflake("channel")
	reviewID, _ := data.OptSnowflake("review")

	c, err := e.Communities.SetChannels(sys.AppContext, *event.GuildID(), channelID, reviewID)
	if err != nil {
		sys.Reply(event, errorMessage("setup", err))
		return
	}

	if c.ReviewChannelID != 0 {
		sys.Reply(event, fmt.Sprintf(sys.MsgQOTDSetupReview, c.ChannelID, c.ReviewChannelID))
		return
	}
	sys.Reply(event, fmt.Sprintf(sys.MsgQOTDSetup, c.ChannelID))
}
