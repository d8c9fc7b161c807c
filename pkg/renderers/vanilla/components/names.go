package components

import "github.com/goliatone/go-formwizard/pkg/render"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NameTextarea = "textarea"
	NameBoolean  = "boolean"
	NameRadio    = "radio"
	NameSelect   = "select"
	NameAddress  = "address"
)

// ForInput maps a view input kind to the component that renders it.
func ForInput(input string) string {
	switch input {
	case render.InputTextArea:
		return NameTextarea
	case render.InputCheckbox:
		return NameBoolean
	case render.InputRadio:
		return NameRadio
	case render.InputSelect:
		return NameSelect
	case render.InputAddress:
		return NameAddress
	default:
		return NameInput
	}
}
