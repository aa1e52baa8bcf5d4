// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewItems is the frequency table.
	ViewItems ViewType = iota
	// ViewDetail shows one item and its purchase history.
	ViewDetail
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewItems:
		return "items"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ItemsLoaded carries the frequency listing from the service.
type ItemsLoaded struct {
	Items []domain.ItemFrequency
	Err   error
}

// DetailLoaded carries a single item with its history.
type DetailLoaded struct {
	Detail *domain.ItemDetail
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
