// Package domain defines the core business entities for grocer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Item: A canonical grocery product with its purchase history
//   - Purchase: One buying event imported from an order export
//   - Ledger: The set of dedup keys accepted by earlier imports
//   - ItemFrequency: A derived view of how often an item is bought
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
