// Package snapshot models one complete scrape pass as a validated,
// deduplicated in-memory structure.
//
// The scraper emits free-form size-level records; Build turns them into a
// Snapshot, rejecting malformed rows (missing keys, negative prices,
// discounts outside 0-100) and collapsing duplicate unique_size_ids with
// last-write-wins semantics. The Snapshot is the only shape the reconciler
// and the stores ever see, so storage logic never deals with untrusted
// input.
package snapshot
