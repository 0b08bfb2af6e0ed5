package reconcile

import "fmt"

// ReferentialIntegrityError reports an entity whose parent exists neither in
// the incoming snapshot nor in storage. Fatal to that entity's upsert only;
// the pass continues but the error is surfaced in the Result.
type ReferentialIntegrityError struct {
	Entity string `json:"entity"`
	Key    string `json:"key"`
	Parent string `json:"parent"`
	Ref    string `json:"ref"`
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %q references missing %s %q", e.Entity, e.Key, e.Parent, e.Ref)
}

// StorageError wraps a failure reading or writing the snapshot store or the
// history log. Fatal to the whole pass; the transaction rolls back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// KeyCollisionError reports a history append targeting an existing change
// key. It indicates a key-derivation bug and is fatal; history rows are
// never overwritten.
type KeyCollisionError struct {
	ChangeID     string
	UniqueSizeID string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("history key collision: change %q (size row %q) already exists", e.ChangeID, e.UniqueSizeID)
}
