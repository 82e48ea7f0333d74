// Package tui provides the watch-mode dashboard for the build driver.
package tui

import "github.com/charmbracelet/bubbles/viewport"

// NewModel creates a new TUI model with default settings.
func NewModel() Model {
	return Model{
		Projects:   make([]*ProjectNode, 0),
		ProjectMap: make(map[string]*ProjectNode),
		SpanMap:    make(map[string]*ProjectNode),
		Viewport:   viewport.New(0, 0),
		AutoScroll: true,
	}
}
