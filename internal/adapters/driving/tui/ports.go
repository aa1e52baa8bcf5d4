// Package tui provides an interactive terminal browser for purchased items.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Inventory lists items and loads their details.
	Inventory driving.InventoryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(inventory driving.InventoryService) *Ports {
	return &Ports{Inventory: inventory}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Inventory == nil {
		return ErrMissingInventoryService
	}
	return nil
}
