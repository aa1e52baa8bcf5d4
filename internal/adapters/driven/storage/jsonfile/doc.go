// Package jsonfile stores items and the import ledger as JSON documents in
// the data directory:
//
//   - items.json: an array of items, each with its purchase history
//   - import_log.json: a sorted array of dedup keys
//
// A missing file loads as empty. Writes go to a temporary file that is
// renamed over the target, so a crash never leaves a half-written document.
package jsonfile
