package home

import (
	"fmt"

	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDReset(event *events.ApplicationCommandInteractionCreate, e *qotd.Engine) {
	n, err := e.Pool.ResetUsage(sys.AppContext)
	if err != nil {
		sys.Reply(event, errorMessage("reset-usage", err))
		return
	}
	sys.Reply(event, fmt.Sprintf(sys.MsgQOTDReset, n))
}
