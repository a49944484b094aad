// Package storage defines the ordered key-value contract the write path
// runs on: per-namespace containers with atomic transactions and sorted
// cursor iteration, plus an in-memory implementation.
//
// Keys are normalized DNs. The container must order keys so that all
// descendants of a DN, which carry it as a trailing suffix, sort
// immediately after it; the delete handler's leaf check depends on this
// ordering. The in-memory engine realizes it by comparing keys over their
// reversed byte sequence.
package storage

import "errors"

// Storage errors.
var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("storage: key not found")
	// ErrExists is returned when a put without overwrite hits an
	// existing key.
	ErrExists = errors.New("storage: key already exists")
	// ErrTxnDone is returned when a transaction is used after commit
	// or abort.
	ErrTxnDone = errors.New("storage: transaction already finished")
)

// Container is one ordered key-value container backing a single namespace.
//
// Begin never blocks on other writers; serializing write transactions is
// the namespace layer's job, not the container's.
type Container interface {
	// Begin opens a write transaction against the container.
	Begin() (Txn, error)
	// Len reports the number of keys in the last committed state.
	Len() int
	// Close releases the container.
	Close() error
}

// Txn is a write transaction. Mutations are invisible outside the
// transaction until Commit and are fully discarded by Abort. Exactly one
// of Commit or Abort must be called; both fail with ErrTxnDone afterwards.
type Txn interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Put stores value under key. With overwrite false an existing key
	// fails with ErrExists.
	Put(key string, value []byte, overwrite bool) error
	// Delete removes key, or returns ErrNotFound.
	Delete(key string) error
	// Cursor opens a cursor over the transaction's view of the container.
	Cursor() Cursor
	// Commit atomically publishes the transaction's mutations.
	Commit() error
	// Abort discards the transaction's mutations.
	Abort() error
}

// Cursor iterates the sorted key space of one transaction.
type Cursor interface {
	// Seek positions the cursor at exactly key. It reports false, without
	// moving the cursor, when key is not present.
	Seek(key string) bool
	// Next advances to the key sorting strictly after the current
	// position and returns it. It reports false at the end of the key
	// space.
	Next() (string, bool)
}
