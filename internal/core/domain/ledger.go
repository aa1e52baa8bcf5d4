package domain

import "sort"

// DedupKey builds the ledger key for an order row: order id, a pipe, then
// the external identifier or, when that is empty, the raw title.
func DedupKey(orderID, externalID, title string) string {
	ref := externalID
	if ref == "" {
		ref = title
	}
	return orderID + "|" + ref
}

// Ledger is the set of dedup keys accepted by earlier imports.
// It only grows.
type Ledger map[string]struct{}

// NewLedger creates a ledger holding the given keys.
func NewLedger(keys ...string) Ledger {
	l := make(Ledger, len(keys))
	for _, k := range keys {
		l[k] = struct{}{}
	}
	return l
}

// Has reports whether key was already accepted.
func (l Ledger) Has(key string) bool {
	_, ok := l[key]
	return ok
}

// Add records key.
func (l Ledger) Add(key string) {
	l[key] = struct{}{}
}

// Merge adds every key of other.
func (l Ledger) Merge(other Ledger) {
	for k := range other {
		l[k] = struct{}{}
	}
}

// Len returns the number of keys.
func (l Ledger) Len() int {
	return len(l)
}

// Keys returns the keys sorted, which is the persisted order.
func (l Ledger) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	c.Merge(l)
	return c
}
