package proc

import (
	"context"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/qotd/qotd"
)

// DiscordGateway delivers engine cards as components V2 messages.
type DiscordGateway struct {
	client *bot.Client
}

func NewDiscordGateway(client *bot.Client) *DiscordGateway {
	return &DiscordGateway{client: client}
}

func (g *DiscordGateway) Send(ctx context.Context, channelID snowflake.ID, card qotd.Card) (qotd.MessageRef, error) {
	msg, err := g.client.Rest.CreateMessage(channelID, MessageCreate(card), rest.WithCtx(ctx))
	if err != nil {
		return qotd.MessageRef{}, err
	}
	return qotd.MessageRef{ChannelID: channelID, MessageID: msg.ID}, nil
}

func (g *DiscordGateway) Edit(ctx context.Context, ref qotd.MessageRef, card qotd.Card) error {
	_, err := g.client.Rest.UpdateMessage(ref.ChannelID, ref.MessageID, MessageUpdate(card), rest.WithCtx(ctx))
	return err
}

// MessageCreate renders card for a new message.
func MessageCreate(card qotd.Card) discord.MessageCreate {
	return discord.NewMessageCreateBuilder().
		SetIsComponentsV2(true).
		AddComponents(layout(card)).
		Build()
}

// MessageUpdate renders card as a replacement for an existing message.
func MessageUpdate(card qotd.Card) discord.MessageUpdate {
	return discord.NewMessageUpdateBuilder().
		SetIsComponentsV2(true).
		SetComponents(layout(card)).
		Build()
}

func layout(card qotd.Card) discord.ContainerComponent {
	var parts []discord.ContainerSubComponent

	text := card.Body
	if card.Title != "" {
		text = "## " + card.Title + "\n" + card.Body
	}
	parts = append(parts, discord.NewTextDisplay(text))

	if card.Footer != "" {
		parts = append(parts,
			discord.NewSeparator(discord.SeparatorSpacingSizeSmall).WithDivider(true),
			discord.NewTextDisplay("-# "+card.Footer),
		)
	}

	if len(card.Controls) > 0 {
		buttons := make([]discord.InteractiveComponent, 0, len(card.Controls))
		for _, c := range card.Controls {
			buttons = append(buttons, button(c))
		}
		parts = append(parts, discord.NewActionRow(buttons...))
	}

	container := discord.NewContainer(parts...)
	if card.Accent != 0 {
		container = container.WithAccentColor(card.Accent)
	}
	return container
}

func button(c qotd.Control) discord.ButtonComponent {
	style := discord.ButtonStyleSecondary
	switch c.Style {
	case qotd.StylePrimary:
		style = discord.ButtonStylePrimary
	case qotd.StyleSuccess:
		style = discord.ButtonStyleSuccess
	case qotd.StyleDanger:
		style = discord.ButtonStyleDanger
	}

	b := discord.NewButton(style, c.Label, c.ID.String(), "", 0)
	if c.Emoji != "" {
		b = b.WithEmoji(discord.ComponentEmoji{Name: c.Emoji})
	}
	if c.Disabled {
		b = b.WithDisabled(true)
	}
	return b
}
