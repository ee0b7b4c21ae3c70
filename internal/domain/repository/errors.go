package repository

import (
	"fmt"
)

// SyncError reports a failed pull or push against the remote store. The prior
// local and remote state is left untouched by the failed operation.
type SyncError struct {
	Op  string // "pull" or "push"
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed local store read or write. Reads that fail
// are treated as an empty store by callers; writes are logged and not fatal.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("local store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
