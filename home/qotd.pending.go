package home

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDPending(event *events.ApplicationCommandInteractionCreate, e *qotd.Engine) {
	guildID := *event.GuildID()

	all, err := e.Queue.Pending(sys.AppContext)
	if err != nil {
		sys.Reply(event, errorMessage("pending", err))
		return
	}

	var mine []qotd.Suggestion
	for _, s := range all {
		if s.GuildID == guildID {
			mine = append(mine, s)
		}
	}
	if len(mine) == 0 {
		sys.Reply(event, sys.MsgQOTDPendingEmpty)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, sys.MsgQOTDPending, len(mine))
	for i, s := range mine {
		if i == 20 {
			fmt.Fprintf(&sb, "-# and %d more", len(mine)-i)
			break
		}
		link := ""
		if !s.Message.IsZero() {
			link = fmt.Sprintf(sys.MsgQOTDPendingLink, guildID, s.Message.ChannelID, s.Message.MessageID)
		}
		sb.WriteString(fmt.Sprintf(sys.MsgQOTDPendingLine, truncate(s.Text, 100), s.SubmitterID, link))
		sb.WriteByte('\n')
	}
	sys.Reply(event, sb.String())
}
