package sys

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
)

// Accent colors used on components V2 containers.
const (
	ColorNeutral = 0x5865F2
	ColorSuccess = 0x57F287
	ColorDanger  = 0xED4245
	ColorWarn    = 0xFEE75C
)

// MessageCreator is satisfied by every interaction event that can reply.
type MessageCreator interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

// Notice builds an ephemeral components V2 reply holding a single text block.
func Notice(content string) discord.MessageCreate {
	return discord.NewMessageCreateBuilder().
		SetIsComponentsV2(true).
		AddComponents(
			discord.NewContainer(
				discord.NewTextDisplay(content),
			),
		).
		SetEphemeral(true).
		Build()
}

// NoticeUpdate is Notice for editing a deferred response.
func NoticeUpdate(content string) discord.MessageUpdate {
	return discord.NewMessageUpdateBuilder().
		SetIsComponentsV2(true).
		SetComponents(
			discord.NewContainer(
				discord.NewTextDisplay(content),
			),
		).
		Build()
}

// Reply sends an ephemeral notice and logs when Discord rejects it.
func Reply(event MessageCreator, content string) {
	if err := event.CreateMessage(Notice(content)); err != nil {
		LogWarn("Failed to reply to interaction: %v", err)
	}
}
