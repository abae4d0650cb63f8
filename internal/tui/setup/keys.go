package setup

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"github.com/touchselfie/boothsetup/internal/tui/theme"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Next   key.Binding
	Prev   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k", "shift+tab"),
		key.WithHelp("↑↓", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j", "tab"),
		key.WithHelp("↑↓", "navigate"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("space", "x"),
		key.WithHelp("space", "toggle"),
	),
	Next: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// renderHintBar renders a hint bar for the given bindings.
// Example: "↑↓ navigate • space toggle • enter next"
func renderHintBar(bindings ...key.Binding) string {
	s := theme.Current().S()

	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, s.HintKey.Render(h.Key)+" "+s.HintDesc.Render(h.Desc))
	}
	return strings.Join(parts, " "+s.HintSeparator.Render("•")+" ")
}
