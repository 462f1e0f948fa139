// Package format holds the text formatting shared by the CLI and TUI
// front-ends: durations, remaining time, progress bars and values.
package format
