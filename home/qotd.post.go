package home

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDPost(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, e *qotd.Engine) {
	position, _ := data.OptInt("position")
	record, _ := data.OptBool("count")

	if err := event.DeferCreateMessage(true); err != nil {
		return
	}

	q, ref, err := e.Distributor.Post(sys.AppContext, *event.GuildID(), position, record)
	if errors.Is(err, qotd.ErrNotFound) {
		deferred(event, notFoundMessage(position))
		return
	}
	if err != nil {
		deferred(event, errorMessage("post", err))
		return
	}
	deferred(event, fmt.Sprintf(sys.MsgQOTDPosted, q.Position, ref.ChannelID))
}

// notFoundMessage explains a missing question. Without a position the
// missing one is the latest selection.
func notFoundMessage(position int) string {
	if position <= 0 {
		return sys.MsgQOTDLatestGone
	}
	return fmt.Sprintf(sys.MsgQOTDNotFound, position)
}
