package home

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func handleQOTDList(event *events.ApplicationCommandInteractionCreate, data discord.SlashCommandInteractionData, e *qotd.Engine) {
	page, ok := data.OptInt("page")
	if !ok {
		page = 1
	}

	result, err := e.Pool.List(sys.AppContext, page)
	if err != nil {
		sys.Reply(event, errorMessage("list", err))
		return
	}
	if result.Total == 0 {
		sys.Reply(event, sys.MsgQOTDListEmpty)
		return
	}
	sys.Reply(event, formatPage(result))
}

func formatPage(p qotd.Page) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, sys.MsgQOTDListHeader, p.Total)
	for _, q := range p.Items {
		used := ""
		if q.Used {
			used = sys.MsgQOTDListUsed
		}
		votes := fmt.Sprintf("(👍 %d 👎 %d)", q.Upvotes, q.Downvotes)
		sb.WriteString(fmt.Sprintf(sys.MsgQOTDListLine, q.Position, used, truncate(q.Text, 150), votes))
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, sys.MsgQOTDListFooter, p.Page, p.Pages)
	return sb.String()
}
