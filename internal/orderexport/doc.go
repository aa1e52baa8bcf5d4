// Package orderexport reads marketplace order exports into purchases.
//
// Two export shapes are supported:
//
//   - A single CSV with a header row, as produced by any Amazon order export
//   - A ZIP archive holding one or more such CSVs (Amazon Privacy Central)
//
// Column names differ between exports, so each file's header is mapped onto
// a fixed set of logical fields (see MapColumns). Cell values are coerced
// with tolerant parsers that never fail: an unreadable date becomes the
// processing date, an unreadable price becomes 0 and an unreadable quantity
// becomes 1.
//
// Rows already recorded in the import ledger are counted and skipped, which
// makes importing the same file twice a no-op.
package orderexport
