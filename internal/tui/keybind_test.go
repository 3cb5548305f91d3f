package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenflow/internal/nav"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("SPC q", tea.Quit)
	reg.Bind("space x", tea.Quit)

	assert.NotNil(t, reg.Lookup("q"))
	assert.NotNil(t, reg.Lookup("SPC q"))
	assert.NotNil(t, reg.Lookup("SPC x"), "space normalizes to SPC")
	assert.Nil(t, reg.Lookup("unknown"))
	assert.True(t, reg.HasPrefix("SPC"))
	assert.False(t, reg.HasPrefix("SPC q"))
}

func TestKeybindRegistry_HintsFilteredByScreen(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindForScreens("s", tea.Quit, "settings", []nav.Key{"Home"})
	reg.BindWithDesc("?", tea.Quit, "help")
	reg.Bind("x", tea.Quit)
	reg.BindWithDesc("SPC g h", tea.Quit, "home")

	assert.Equal(t, map[string]string{"s": "settings", "?": "help", "x": "x"}, reg.Hints("Home"))
	assert.Equal(t, map[string]string{"?": "help", "x": "x"}, reg.Hints("Settings"))
}

func TestKeybindRegistry_LeaderHints(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Group("g", "go")
	reg.BindWithDesc("SPC g h", tea.Quit, "home")
	reg.BindWithDesc("SPC g s", tea.Quit, "settings")
	reg.BindWithDesc("SPC q", tea.Quit, "quit")
	reg.Bind("SPC w x", tea.Quit)

	assert.Equal(t, map[string]string{"g": "go", "q": "quit", "w": "w…"}, reg.LeaderHints("", ""))
	assert.Equal(t, map[string]string{"h": "home", "s": "settings"}, reg.LeaderHints("SPC g", ""))
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg(" "))
	assert.True(t, consumed)
	assert.Nil(t, cmd)
	assert.True(t, h.LeaderWaiting)
	assert.Equal(t, "SPC", h.Sequence())

	consumed, cmd = h.Handle(keyMsg("x"))
	assert.True(t, consumed)
	assert.False(t, h.LeaderWaiting)
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, executed)
}

func TestKeyHandler_NestedLeaderSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC g h", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("g"))
	assert.True(t, consumed)
	assert.Nil(t, cmd)
	assert.Equal(t, "SPC g", h.Sequence())

	_, cmd = h.Handle(keyMsg("h"))
	assert.NotNil(t, cmd)
	assert.Empty(t, h.Sequence())
}

func TestKeyHandler_UnknownLeaderSequenceResets(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("j"))
	assert.True(t, consumed)
	assert.Nil(t, cmd)
	assert.False(t, h.LeaderWaiting)
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	require.True(t, h.LeaderWaiting)

	consumed, cmd := h.Handle(keyMsg("esc"))
	assert.True(t, consumed)
	assert.Nil(t, cmd)
	assert.False(t, h.LeaderWaiting)

	consumed, _ = h.Handle(keyMsg("esc"))
	assert.False(t, consumed, "esc outside leader mode falls through")
}

func TestKeyHandler_SingleKey(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("q"))
	assert.True(t, consumed)
	assert.NotNil(t, cmd)
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg("j"))
	assert.False(t, consumed)
}

func TestRenderHelp(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindForScreens("s", tea.Quit, "settings", []nav.Key{"Home"})
	reg.BindWithDesc("q", tea.Quit, "quit")
	reg.BindWithDesc("SPC g h", tea.Quit, "home")
	reg.Group("g", "go")
	h := NewKeyHandler(reg)

	out := RenderHelp(h, "Home", 80)
	assert.Contains(t, out, "settings")
	assert.Contains(t, out, "quit")
	assert.NotContains(t, RenderHelp(h, "Settings", 80), "settings")

	h.Handle(keyMsg(" "))
	out = RenderHelp(h, "Home", 80)
	assert.Contains(t, out, "go")
	assert.Contains(t, out, "cancel")
	assert.True(t, strings.Contains(out, "SPC"))

	assert.Empty(t, RenderHelp(nil, "Home", 80))
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
