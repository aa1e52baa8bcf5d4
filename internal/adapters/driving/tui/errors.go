package tui

import "errors"

// ErrMissingInventoryService is returned when the inventory service is not provided.
var ErrMissingInventoryService = errors.New("tui: inventory service is required")
