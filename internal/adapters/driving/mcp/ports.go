package mcp

import (
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Inventory answers item, frequency and stats queries.
	Inventory driving.InventoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Inventory == nil {
		return ErrMissingInventoryService
	}
	return nil
}
