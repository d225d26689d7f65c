package types

import "errors"

// Bucket is an ObjectStore with an explicit lifecycle, implemented by the
// local SQLite bucket. Callers attach, use the store, and detach when done.
type Bucket interface {
	ObjectStore

	// Attach opens the bucket described by config. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases resources. Idempotent. After Detach, store calls
	// fail with ErrBucketDetached.
	Detach() error
}

// Bucket lifecycle errors.
var (
	ErrBucketDetached  = errors.New("bucket is detached")
	ErrAlreadyAttached = errors.New("bucket is already attached")
)
