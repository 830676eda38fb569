package home

import (
	"fmt"

	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDRefresh(event *events.ApplicationCommandInteractionCreate, e *qotd.Engine) {
	all, err := e.Communities.Refresh(sys.AppContext)
	if err != nil {
		sys.Reply(event, errorMessage("refresh", err))
		return
	}
	sys.Reply(event, fmt.Sprintf(sys.MsgQOTDRefreshed, len(all)))
}
