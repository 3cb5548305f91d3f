// Package tui is the terminal front-end for the demo binary.
//
// Stage is a Bubble Tea model that also acts as the window host for a scope:
// windows created under that scope render on the stage at their layout
// position, offset and opacity. Keys map to button behaviors, so a screen's
// keys only act while that screen accepts input.
//
// Core pieces:
//   - Stage: host + tea.Model, composes visible panels every frame
//   - Panel: a titled box owning a view lifecycle; each demo screen embeds one
//   - KeybindRegistry / KeyHandler: single keys and SPC leader sequences
//   - KeyMap: help.KeyMap over the registry for the help bar
package tui
