package home

import (
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/leeineian/qotd/proc"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

var suggestForm = sys.ModalForm{
	ID:    "qotd-suggest",
	Title: sys.MsgSuggestTitle,
	Fields: []sys.ModalField{
		{
			ID:          "text",
			Label:       sys.MsgSuggestLabel,
			Placeholder: sys.MsgSuggestPlaceholder,
			Long:        true,
			Required:    true,
			MinLength:   5,
			MaxLength:   qotd.MaxQuestionLength,
		},
	},
	Submit: handleSuggestSubmit,
}

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "suggest",
		Description: "Suggest a question of the day",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
	}, handleSuggest)

	sys.RegisterModal(suggestForm)
}

func handleSuggest(event *events.ApplicationCommandInteractionCreate) {
	if event.GuildID() == nil {
		sys.Reply(event, sys.MsgServerOnly)
		return
	}
	if err := event.Modal(suggestForm.Create("")); err != nil {
		sys.LogWarn("Failed to open suggestion modal: %v", err)
	}
}

func handleSuggestSubmit(event *events.ModalSubmitInteractionCreate, values sys.ModalValues) {
	guildID := event.GuildID()
	if guildID == nil {
		sys.Reply(event, sys.MsgServerOnly)
		return
	}
	e, err := proc.Engine()
	if err != nil {
		sys.Reply(event, sys.MsgQOTDNotReady)
		return
	}
	if err := event.DeferCreateMessage(true); err != nil {
		return
	}

	_, err = e.Moderation.Submit(sys.AppContext, *guildID, event.User().ID, values["text"])
	switch {
	case errors.Is(err, qotd.ErrNoChannel):
		deferred(event, sys.MsgQOTDNoReviewChannel)
	case err != nil:
		sys.LogModeration(sys.MsgQOTDLogSuggestFail, event.User().ID, *guildID, err)
		if errors.Is(err, qotd.ErrInvalidText) {
			deferred(event, errorMessage("suggest", err))
			return
		}
		deferred(event, sys.MsgSomethingBroke)
	default:
		deferred(event, sys.MsgSuggestSent)
	}
}
