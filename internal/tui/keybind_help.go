package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"screenflow/internal/nav"
)

// KeyMap implements help.KeyMap over a KeybindRegistry. Outside leader mode
// it lists the single-key bindings of the current screen; in leader mode it
// lists the next keys of the pending sequence.
type KeyMap struct {
	registry   *KeybindRegistry
	keyHandler *KeyHandler
	screen     nav.Key
}

var _ help.KeyMap = (*KeyMap)(nil)

// NewKeyMap creates a KeyMap for the given handler and current screen.
func NewKeyMap(keyHandler *KeyHandler, screen nav.Key) *KeyMap {
	return &KeyMap{registry: keyHandler.Registry, keyHandler: keyHandler, screen: screen}
}

// ShortHelp returns bindings for the short help view, sorted by key.
func (km *KeyMap) ShortHelp() []key.Binding {
	var hints map[string]string
	leader := km.keyHandler.LeaderWaiting
	if leader {
		hints = km.registry.LeaderHints(km.keyHandler.Sequence(), km.screen)
	} else {
		hints = km.registry.Hints(km.screen)
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, hints[k]),
		))
	}
	if leader {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		))
	}
	return bindings
}

// FullHelp returns the short help as a single column.
func (km *KeyMap) FullHelp() [][]key.Binding {
	short := km.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}

// newHelpModel returns the help model styled for the stage.
func newHelpModel() help.Model {
	m := help.New()
	m.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	m.Styles.ShortDesc = Styles.Hint
	m.Styles.ShortSeparator = Styles.Hint
	return m
}

// RenderHelp renders the help bar for the current screen.
func RenderHelp(keyHandler *KeyHandler, screen nav.Key, width int) string {
	if keyHandler == nil {
		return ""
	}
	m := newHelpModel()
	m.Width = width
	content := m.View(NewKeyMap(keyHandler, screen))
	if keyHandler.LeaderWaiting {
		content = Styles.Hint.Render(keyHandler.Sequence()) + " " + content
	}
	return content
}
