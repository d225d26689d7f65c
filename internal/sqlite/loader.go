// JSONL loading on attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// loadObjects reads objects.jsonl from dataDir and inserts every record into
// the objects table. Loading is transactional: all succeed or the database
// stays empty. Malformed lines, records without id or type, and duplicate
// ids are skipped. Unknown fields are ignored.
func loadObjects(db *sql.DB, dataDir string) (int, error) {
	records, err := readJSONL(objectsPath(dataDir))
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO objects (" + objectColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing object insert: %w", err)
	}
	defer stmt.Close()

	loaded := 0
	for _, rec := range records {
		var r objectJSON
		if err := json.Unmarshal(rec, &r); err != nil {
			continue
		}
		if r.ID == "" || r.Type == "" {
			continue
		}
		if len(r.Metadata) == 0 || string(r.Metadata) == "null" {
			r.Metadata = json.RawMessage("{}")
		}
		if _, err := stmt.Exec(r.ID, r.Type, r.Slug, r.Title, r.Content, string(r.Metadata), r.CreatedAt, r.ModifiedAt); err != nil {
			// Constraint violations (duplicate id or slug) skip the record.
			continue
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}
