package sys

import (
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
)

// ModalField is a single text input on a ModalForm.
type ModalField struct {
	ID          string
	Label       string
	Placeholder string
	Long        bool
	Required    bool
	MinLength   int
	MaxLength   int
}

// ModalValues holds the submitted text keyed by ModalField.ID, trimmed.
type ModalValues map[string]string

// ModalForm describes a modal and what happens when it is submitted.
// Forms whose ID ends in ":" also match submissions carrying a suffix,
// e.g. a form "suggest:" handles "suggest:<guild>".
type ModalForm struct {
	ID     string
	Title  string
	Fields []ModalField
	Submit func(event *events.ModalSubmitInteractionCreate, values ModalValues)
}

var modalForms = map[string]ModalForm{}

func RegisterModal(form ModalForm) {
	modalForms[form.ID] = form
}

// Create builds the modal payload. suffix is appended to the form ID.
func (f ModalForm) Create(suffix string) discord.ModalCreate {
	components := make([]discord.LayoutComponent, 0, len(f.Fields))
	for _, field := range f.Fields {
		style := discord.TextInputStyleShort
		if field.Long {
			style = discord.TextInputStyleParagraph
		}
		input := discord.TextInputComponent{
			CustomID:    field.ID,
			Style:       style,
			Required:    field.Required,
			Placeholder: field.Placeholder,
			MaxLength:   field.MaxLength,
		}
		if field.MinLength > 0 {
			minLength := field.MinLength
			input.MinLength = &minLength
		}
		components = append(components, discord.NewLabel(field.Label, input))
	}

	return discord.ModalCreate{
		CustomID:   f.ID + suffix,
		Title:      f.Title,
		Components: components,
	}
}

func (f ModalForm) values(event *events.ModalSubmitInteractionCreate) ModalValues {
	values := make(ModalValues, len(f.Fields))
	for _, field := range f.Fields {
		values[field.ID] = strings.TrimSpace(event.Data.Text(field.ID))
	}
	return values
}

func lookupModal(customID string) (ModalForm, bool) {
	if form, ok := modalForms[customID]; ok {
		return form, true
	}
	for id, form := range modalForms {
		if strings.HasSuffix(id, ":") && strings.HasPrefix(customID, id) {
			return form, true
		}
	}
	return ModalForm{}, false
}

func onModalSubmit(event *events.ModalSubmitInteractionCreate) {
	form, ok := lookupModal(event.Data.CustomID)
	if !ok || form.Submit == nil {
		LogDebug(MsgLoaderUnknownModal, event.Data.CustomID)
		return
	}
	safeGo(func() { form.Submit(event, form.values(event)) })
}
