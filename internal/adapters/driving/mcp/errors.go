// Package mcp provides an MCP (Model Context Protocol) server adapter for grocer.
// It lets AI assistants read purchase history, buying frequencies and overdue items.
package mcp

import "errors"

// ErrMissingInventoryService is returned when the inventory service is not provided.
var ErrMissingInventoryService = errors.New("mcp: inventory service is required")

// ErrInvalidSort is returned when a tool receives an unknown sort order.
var ErrInvalidSort = errors.New("mcp: invalid sort order")
