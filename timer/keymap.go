package timer

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePlay key.Binding
	sound      key.Binding
	enter      key.Binding
	lengthen   key.Binding
	shorten    key.Binding
	esc        key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "pause/resume"),
	),
	sound: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "ambient sound"),
	),
	enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start again"),
	),
	lengthen: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+/-", "adjust length"),
	),
	shorten: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("+/-", "adjust length"),
	),
	esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
