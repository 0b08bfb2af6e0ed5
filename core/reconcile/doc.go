// Package reconcile diffs a validated scrape snapshot against stored current
// state and produces typed, append-only change events.
//
// # Architecture
//
// The package consists of three pieces:
//
//  1. Engine: the pass algorithm. For every observed size row it looks up the
//     stored "before" state, classifies the transition (NEW, or the first
//     firing rule of availability > price > discount), upserts the new state
//     unconditionally, and finally emits one REMOVED event per row that was
//     on file but absent from the pass. At most one event fires per size row
//     per pass.
//
//  2. Store/History interfaces: the current-state tables and the append-only
//     log. Implementations bind to the transaction opened by the Backend, so
//     a pass commits fully or not at all. feature/catalog provides the
//     MySQL-backed implementation; tests run against in-memory fakes.
//
//  3. Error taxonomy: ValidationError lives at the snapshot boundary;
//     ReferentialIntegrityError is surfaced per entity without failing the
//     pass; StorageError and KeyCollisionError abort the pass and roll the
//     transaction back.
//
// # Guarantees
//
//   - Idempotence: reconciling the same snapshot twice emits zero events on
//     the second pass.
//   - Determinism: identical input and prior state produce the same event
//     set regardless of input row order.
//   - Removal scope: only products visited by the pass can produce REMOVED
//     events; the current-state row is kept (logical deletion).
//   - One timestamp per pass: every event of a pass carries the same
//     capture timestamp.
//
// # Usage
//
//	engine := reconcile.New(backend, reconcile.Options{})
//	result, err := engine.Run(ctx, snap)
package reconcile
