package qotd

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// MessageRef locates a message posted through the Gateway.
type MessageRef struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

func (r MessageRef) IsZero() bool { return r.MessageID == 0 }

type ControlStyle int

const (
	StyleSecondary ControlStyle = iota
	StylePrimary
	StyleSuccess
	StyleDanger
)

// Control is an interactive button attached to a Card.
type Control struct {
	ID       ControlID
	Label    string
	Emoji    string
	Style    ControlStyle
	Disabled bool
}

// Card is a presentation-neutral message. Accent is an RGB color, zero for none.
type Card struct {
	Title    string
	Body     string
	Footer   string
	Accent   int
	Controls []Control
}

// Gateway delivers cards to chat channels.
type Gateway interface {
	Send(ctx context.Context, channelID snowflake.ID, card Card) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, card Card) error
}

// Renderer turns engine state into cards. Controls are attached by the engine.
type Renderer interface {
	Daily(q Question) Card
	Review(s Suggestion) Card
	Resolved(r Resolution) Card
}
