// Package sqlite provides the public constructor for the local object
// bucket while keeping its implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/folio/internal/sqlite"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// NewBackend creates a new local bucket. The bucket is not attached; call
// Attach with a Config to initialize.
//
// Example:
//
//	bucket := sqlite.NewBackend()
//	err := bucket.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".folio-db",
//	})
//	defer bucket.Detach()
func NewBackend() types.Bucket {
	return sqlite.NewBackend()
}
