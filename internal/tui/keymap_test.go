package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()

	for _, group := range km.FullHelp() {
		for _, b := range group {
			if !b.Enabled() {
				t.Errorf("expected %q binding to be enabled", b.Help().Desc)
			}
			if len(b.Keys()) == 0 {
				t.Errorf("expected %q binding to have at least one key", b.Help().Desc)
			}
		}
	}
	if len(km.ShortHelp()) == 0 {
		t.Error("short help must not be empty")
	}
}

func TestDefaultKeyMap_Matches(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, km.Start},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}, km.Continue},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, km.Reverse},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, km.Stop},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, km.Quit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
	}
	for _, tt := range tests {
		if !key.Matches(tt.msg, tt.binding) {
			t.Errorf("%q does not match %q", tt.msg.String(), tt.binding.Help().Desc)
		}
	}
}
