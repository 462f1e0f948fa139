// Package ui holds the named color themes shared by the line output and
// the dashboard, and the helpers that read the active one.
package ui
