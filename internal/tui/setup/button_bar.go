package setup

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/touchselfie/boothsetup/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonAction                      // Final action, e.g. Save
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Buttons returns the buttons in display order.
func (b *ButtonBar) Buttons() []Button {
	return b.buttons
}

// Render renders the button bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := theme.Current().S()

	var rendered []string
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonAction:
			rendered = append(rendered, s.ButtonAction.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// CreatePrevNextButtons creates the navigation buttons. Prev is disabled on
// the first page; the next button takes the action style when it saves.
func CreatePrevNextButtons(prevLabel, nextLabel string, prevEnabled, final bool) []Button {
	prevState := ButtonNormal
	if !prevEnabled {
		prevState = ButtonDisabled
	}
	nextState := ButtonNormal
	if final {
		nextState = ButtonAction
	}
	return []Button{
		{Label: "← " + prevLabel, State: prevState},
		{Label: nextLabel + " →", State: nextState},
	}
}
