package ui

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme pairs the ANSI escape codes used by line output with the lipgloss
// palette used by the dashboard.
type Theme struct {
	Name string

	// Line-output categories.
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string

	// TUI is the dashboard palette.
	TUI TUITheme
}

// TUITheme holds lipgloss colors for the dashboard panels.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

// DefaultThemeName is used when no theme is requested.
const DefaultThemeName = "dark"

const (
	bold      = "\033[1m"
	underline = "\033[4m"
	reset     = "\033[0m"
)

func ansi256(code int) string { return fmt.Sprintf("\033[38;5;%dm", code) }

var (
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   ansi256(39),
		Secondary: ansi256(245),
		Success:   ansi256(82),
		Warning:   ansi256(220),
		Error:     ansi256(196),
		Info:      ansi256(141),
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
		TUI: TUITheme{
			Text:    lipgloss.Color("#E0E0E0"),
			Border:  lipgloss.Color("#3A7BD5"),
			Accent:  lipgloss.Color("#00B4DB"),
			Success: lipgloss.Color("#9ECE6A"),
			Warning: lipgloss.Color("#E0AF68"),
			Error:   lipgloss.Color("#F7768E"),
			Dim:     lipgloss.Color("#666666"),
			Info:    lipgloss.Color("#BB9AF7"),
		},
	}

	LightTheme = Theme{
		Name:      "light",
		Primary:   ansi256(27),
		Secondary: ansi256(240),
		Success:   ansi256(28),
		Warning:   ansi256(130),
		Error:     ansi256(124),
		Info:      ansi256(54),
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
		TUI: TUITheme{
			Text:    lipgloss.Color("#1F2328"),
			Border:  lipgloss.Color("#0969DA"),
			Accent:  lipgloss.Color("#0550AE"),
			Success: lipgloss.Color("#1A7F37"),
			Warning: lipgloss.Color("#9A6700"),
			Error:   lipgloss.Color("#CF222E"),
			Dim:     lipgloss.Color("#8C959F"),
			Info:    lipgloss.Color("#8250DF"),
		},
	}

	// OrangeTheme is the warm btop-like palette.
	OrangeTheme = Theme{
		Name:      "orange",
		Primary:   ansi256(208),
		Secondary: ansi256(245),
		Success:   ansi256(82),
		Warning:   ansi256(214),
		Error:     ansi256(196),
		Info:      ansi256(69),
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
		TUI: TUITheme{
			Text:    lipgloss.Color("#E0E0E0"),
			Border:  lipgloss.Color("#FF6600"),
			Accent:  lipgloss.Color("#FF8C00"),
			Success: lipgloss.Color("#9ECE6A"),
			Warning: lipgloss.Color("#FFB347"),
			Error:   lipgloss.Color("#FF4444"),
			Dim:     lipgloss.Color("#666666"),
			Info:    lipgloss.Color("#4488FF"),
		},
	}

	// NoColorTheme is active when NO_COLOR is set or --no-color is given.
	NoColorTheme = Theme{
		Name: "none",
		TUI: TUITheme{
			Text:    lipgloss.NoColor{},
			Border:  lipgloss.NoColor{},
			Accent:  lipgloss.NoColor{},
			Success: lipgloss.NoColor{},
			Warning: lipgloss.NoColor{},
			Error:   lipgloss.NoColor{},
			Dim:     lipgloss.NoColor{},
			Info:    lipgloss.NoColor{},
		},
	}
)

var themes = map[string]Theme{
	DarkTheme.Name:    DarkTheme,
	LightTheme.Name:   LightTheme,
	OrangeTheme.Name:  OrangeTheme,
	NoColorTheme.Name: NoColorTheme,
}

var (
	themeMutex   sync.RWMutex
	currentTheme = DarkTheme
)

// ThemeNames lists the selectable themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the theme called name. An empty name selects the
// default theme.
func LookupTheme(name string) (Theme, bool) {
	if name == "" {
		name = DefaultThemeName
	}
	t, ok := themes[name]
	return t, ok
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// GetCurrentTUITheme returns the dashboard palette of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().TUI
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name; unknown names fall back to the
// default theme.
func SetTheme(name string) {
	t, ok := LookupTheme(name)
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme activates name unless colors are disabled by noColor or the
// NO_COLOR environment variable (https://no-color.org/).
func InitTheme(name string, noColor bool) error {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return nil
	}
	t, ok := LookupTheme(name)
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	SetCurrentTheme(t)
	return nil
}
