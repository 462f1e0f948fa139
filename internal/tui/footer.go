package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel shows the run status and the key help.
type FooterModel struct {
	help   help.Model
	keys   KeyMap
	paused bool
	done   bool
	err    bool
	width  int
}

// NewFooterModel creates a footer for keys.
func NewFooterModel(keys KeyMap) FooterModel {
	return FooterModel{help: help.New(), keys: keys}
}

func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

func (f *FooterModel) SetPaused(p bool) { f.paused = p }

func (f *FooterModel) SetDone(d bool) { f.done = d }

func (f *FooterModel) SetError(e bool) { f.err = e }

// ToggleHelp switches between short and full help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// Status returns the status tag.
func (f FooterModel) Status() string {
	switch {
	case f.err:
		return statusErrorStyle.Render("ERROR")
	case f.paused:
		return statusPausedStyle.Render("FROZEN")
	case f.done:
		return statusDoneStyle.Render("DONE")
	default:
		return statusRunningStyle.Render("LIVE")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, " ", f.Status(), "  ", f.help.View(f.keys))
}
