// Package sqlite implements a local object bucket: types.ObjectStore backed
// by SQLite as the query engine and objects.jsonl as the source of truth.
// It stands in for the remote bucket during offline work and tests, and is
// the target of export and import.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// dbFile is the SQLite database rebuilt from objects.jsonl on every Attach.
const dbFile = "bucket.db"

// Backend implements types.Bucket.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB

	// now is the clock used for timestamps; replaced in tests.
	now func() time.Time
}

// NewBackend creates a new local bucket. The bucket is not attached; call
// Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{now: time.Now}
}

// Attach opens the bucket in config.DataDir. It creates DataDir and an empty
// objects.jsonl if needed, rebuilds the SQLite database from scratch, and
// loads objects.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if config.Backend == "" {
		config.Backend = types.BackendSQLite
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("%w: %s", types.ErrBackendUnknown, config.Backend)
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, dbFile)
	// The database is a cache of objects.jsonl; start fresh.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// A single connection serializes writers and keeps the schema visible
	// to every statement.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if err := ensureJSONL(objectsPath(dataDir)); err != nil {
		db.Close()
		return err
	}

	n, err := loadObjects(db, dataDir)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.attached = true

	glog.V(1).Infof("[bucket] attached %s (%d objects)", dataDir, n)
	return nil
}

// Detach closes the SQLite connection. After Detach, store calls return
// ErrBucketDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// DataDir returns the directory the bucket is attached to, or "".
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

// generateUUID generates a new UUID v7 for object IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// persistLocked rewrites objects.jsonl from the database. The caller must
// hold b.mu for writing.
func (b *Backend) persistLocked() error {
	rows, err := b.db.Query("SELECT " + objectColumns + " FROM objects ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("reading objects for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return err
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", rec.ID, err)
		}
		records = append(records, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()
	return writeJSONL(objectsPath(b.dataDir), records)
}
