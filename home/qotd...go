package home

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/qotd/proc"
	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func init() {
	managePerm := discord.PermissionManageGuild

	positionOption := func(description string) discord.ApplicationCommandOptionInt {
		return discord.ApplicationCommandOptionInt{
			Name:         "position",
			Description:  description,
			Required:     true,
			MinValue:     intPtr(1),
			Autocomplete: true,
		}
	}
	textOption := discord.ApplicationCommandOptionString{
		Name:        "text",
		Description: "The question",
		Required:    true,
		MaxLength:   intPtr(qotd.MaxQuestionLength),
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "qotd",
		Description:              "Question of the day management",
		DefaultMemberPermissions: omit.New(&managePerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "post",
				Description: "Post a question now",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:         "position",
						Description:  "Question to post (defaults to today's question)",
						MinValue:     intPtr(1),
						Autocomplete: true,
					},
					discord.ApplicationCommandOptionBool{
						Name:        "count",
						Description: "Count this as today's post so the schedule skips it",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "repeat",
				Description: "Send the last question again",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "new",
				Description: "Add a question to the pool",
				Options:     []discord.ApplicationCommandOption{textOption},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "modify",
				Description: "Change the text of a question",
				Options: []discord.ApplicationCommandOption{
					positionOption("Question to change"),
					textOption,
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "delete",
				Description: "Remove a question from the pool",
				Options: []discord.ApplicationCommandOption{
					positionOption("Question to remove"),
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "Browse the question pool",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "page",
						Description: "Page number",
						MinValue:    intPtr(1),
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "toggle",
				Description: "Turn daily questions on or off for this server",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "reset-usage",
				Description: "Make every question eligible again",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "setup",
				Description: "Choose where questions and suggestions go",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionChannel{
						Name:         "channel",
						Description:  "Channel for the daily question",
						Required:     true,
						ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews},
					},
					discord.ApplicationCommandOptionChannel{
						Name:         "review",
						Description:  "Channel where moderators review suggestions",
						ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "history",
				Description: "See which question was picked on a day",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "when",
						Description: "e.g. yesterday, last friday, 2024-05-01 (defaults to the latest)",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "pending",
				Description: "List suggestions waiting for review",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "refresh",
				Description: "Reload server settings from the database",
			},
		},
	}, handleQOTD)

	sys.RegisterAutocompleteHandler("qotd", handleQOTDAutocomplete)
}

func handleQOTD(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}
	if event.GuildID() == nil {
		sys.Reply(event, sys.MsgServerOnly)
		return
	}
	e, err := proc.Engine()
	if err != nil {
		sys.Reply(event, sys.MsgQOTDNotReady)
		return
	}

	subCmd := *data.SubCommandName
	switch subCmd {
	case "post":
		handleQOTDPost(event, data, e)
	case "repeat":
		handleQOTDRepeat(event, e)
	case "new":
		handleQOTDNew(event, data, e)
	case "modify":
		handleQOTDModify(event, data, e)
	case "delete":
		handleQOTDDelete(event, data, e)
	case "list":
		handleQOTDList(event, data, e)
	case "toggle":
		handleQOTDToggle(event, e)
	case "reset-usage":
		handleQOTDReset(event, e)
	case "setup":
		handleQOTDSetup(event, data, e)
	case "history":
		handleQOTDHistory(event, data, e)
	case "pending":
		handleQOTDPending(event, e)
	case "refresh":
		handleQOTDRefresh(event, e)
	default:
		sys.LogWarn("Unknown qotd subcommand: %s", subCmd)
	}
}

func handleQOTDAutocomplete(event *events.AutocompleteInteractionCreate) {
	focused := ""
	for _, opt := range event.Data.Options {
		if opt.Focused {
			focused = strings.Trim(string(opt.Value), `"`)
			break
		}
	}

	e, err := proc.Engine()
	if err != nil {
		event.AutocompleteResult(nil)
		return
	}

	var questions []qotd.Question
	if pos, convErr := strconv.Atoi(focused); convErr == nil {
		if q, err := e.Pool.At(sys.AppContext, pos); err == nil {
			questions = append(questions, q)
		}
	} else {
		questions, err = e.Pool.Search(sys.AppContext, focused, 25)
		if err != nil {
			sys.LogQOTD(sys.MsgQOTDLogCommandFail, "autocomplete", err)
		}
	}

	choices := make([]discord.AutocompleteChoice, 0, len(questions))
	for _, q := range questions {
		choices = append(choices, discord.AutocompleteChoiceInt{
			Name:  truncate(fmt.Sprintf("#%d %s", q.Position, q.Text), 100),
			Value: q.Position,
		})
	}
	event.AutocompleteResult(choices)
}

// errorMessage maps engine errors to what users see. Anything unexpected is
// logged under op and reported generically.
func errorMessage(op string, err error) string {
	var delivery *qotd.DeliveryError
	switch {
	case errors.Is(err, qotd.ErrPoolEmpty):
		return sys.MsgQOTDPoolEmpty
	case errors.Is(err, qotd.ErrNoSelection):
		return sys.MsgQOTDNoSelection
	case errors.Is(err, qotd.ErrInvalidText):
		return fmt.Sprintf(sys.MsgQOTDInvalidText, qotd.MaxQuestionLength)
	case errors.Is(err, qotd.ErrNoChannel):
		return sys.MsgQOTDNoChannel
	case errors.Is(err, qotd.ErrAlreadyResolved):
		return sys.MsgQOTDAlreadyResolved
	case errors.As(err, &delivery):
		sys.LogQOTD(sys.MsgQOTDLogCommandFail, op, err)
		return fmt.Sprintf(sys.MsgQOTDDeliveryFailed, delivery.ChannelID)
	}
	sys.LogError(sys.MsgQOTDLogCommandFail, op, err)
	return sys.MsgSomethingBroke
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func intPtr(i int) *int {
	return &i
}

// deferrable is any interaction event whose response can be edited later.
type deferrable interface {
	Client() *bot.Client
	ApplicationID() snowflake.ID
	Token() string
}

// deferred replaces a DeferCreateMessage placeholder with content.
func deferred(event deferrable, content string) {
	_, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), sys.NoticeUpdate(content))
	if err != nil {
		sys.LogWarn("Failed to update deferred reply: %v", err)
	}
}
