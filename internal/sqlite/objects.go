package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/folio/internal/format"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (objectJSON, error) {
	var r objectJSON
	var meta string
	if err := row.Scan(&r.ID, &r.Type, &r.Slug, &r.Title, &r.Content, &meta, &r.CreatedAt, &r.ModifiedAt); err != nil {
		return objectJSON{}, err
	}
	r.Metadata = json.RawMessage(meta)
	return r, nil
}

// checkAttached returns ErrBucketDetached as a store error when the bucket
// is not attached. The caller must hold b.mu.
func (b *Backend) checkAttached() error {
	if !b.attached {
		return types.Other(types.ErrBucketDetached)
	}
	return nil
}

// Find returns all objects of q.Type in insertion order. A type without
// objects yields a NotFound error, as the remote bucket does.
func (b *Backend) Find(ctx context.Context, q types.FindQuery) ([]types.Object, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if q.Type == "" {
		return nil, types.Other(types.ErrInvalidType)
	}

	objs, err := b.queryObjects(ctx, "SELECT "+objectColumns+" FROM objects WHERE type = ? ORDER BY rowid", q.Type)
	if err != nil {
		return nil, types.Other(err)
	}
	if len(objs) == 0 {
		return nil, types.NotFound(fmt.Errorf("no objects of type %q", q.Type))
	}

	if q.Depth > 0 {
		if err := b.expandRelations(ctx, objs); err != nil {
			return nil, types.Other(err)
		}
	}

	if len(q.Props) > 0 {
		for i := range objs {
			p, err := project(objs[i], q.Props)
			if err != nil {
				return nil, types.Other(err)
			}
			objs[i] = p
		}
	}
	return objs, nil
}

// Get returns the object with the given id.
func (b *Backend) Get(ctx context.Context, id string) (types.Object, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return types.Object{}, err
	}
	return b.getLocked(ctx, id)
}

func (b *Backend) getLocked(ctx context.Context, id string) (types.Object, error) {
	if id == "" {
		return types.Object{}, types.Other(types.ErrInvalidID)
	}
	row := b.db.QueryRowContext(ctx, "SELECT "+objectColumns+" FROM objects WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Object{}, types.NotFound(fmt.Errorf("object %q", id))
	}
	if err != nil {
		return types.Object{}, types.Other(fmt.Errorf("scanning object: %w", err))
	}
	o, err := rec.toObject()
	if err != nil {
		return types.Object{}, types.Other(err)
	}
	return o, nil
}

// InsertOne creates an object with a fresh UUID v7. The slug defaults to
// the slug of the title and is made unique within the type by a numeric
// suffix.
func (b *Backend) InsertOne(ctx context.Context, req types.InsertRequest) (types.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return types.Object{}, err
	}
	if req.Type == "" {
		return types.Object{}, types.Other(types.ErrInvalidType)
	}
	if strings.TrimSpace(req.Title) == "" {
		return types.Object{}, types.Other(fmt.Errorf("%w: title must not be empty", types.ErrInvalidData))
	}

	slug := req.Slug
	if slug == "" {
		slug = format.Slug(req.Title)
	}
	if slug == "" {
		slug = req.Type
	}
	slug, err := b.uniqueSlug(ctx, req.Type, slug)
	if err != nil {
		return types.Object{}, types.Other(err)
	}

	now := b.now()
	obj := types.Object{
		ID:         generateUUID(),
		Type:       req.Type,
		Slug:       slug,
		Title:      req.Title,
		Content:    req.Content,
		Metadata:   req.Metadata,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	rec, err := fromObject(obj)
	if err != nil {
		return types.Object{}, types.Other(err)
	}

	if _, err := b.db.ExecContext(ctx,
		"INSERT INTO objects ("+objectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Type, rec.Slug, rec.Title, rec.Content, string(rec.Metadata), rec.CreatedAt, rec.ModifiedAt,
	); err != nil {
		return types.Object{}, types.Other(fmt.Errorf("inserting object: %w", err))
	}
	if err := b.persistLocked(); err != nil {
		return types.Object{}, types.Other(err)
	}

	// Return what a read would return: metadata decoded from storage.
	stored, err := rec.toObject()
	if err != nil {
		return types.Object{}, types.Other(err)
	}
	return stored, nil
}

// UpdateOne replaces the metadata of the object and bumps modified_at.
func (b *Backend) UpdateOne(ctx context.Context, id string, metadata map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return err
	}
	if id == "" {
		return types.Other(types.ErrInvalidID)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return types.Other(fmt.Errorf("%w: %v", types.ErrInvalidData, err))
	}

	res, err := b.db.ExecContext(ctx,
		"UPDATE objects SET metadata = ?, modified_at = ? WHERE id = ?",
		string(raw), formatTime(b.now()), id,
	)
	if err != nil {
		return types.Other(fmt.Errorf("updating object: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.NotFound(fmt.Errorf("object %q", id))
	}
	if err := b.persistLocked(); err != nil {
		return types.Other(err)
	}
	return nil
}

// DeleteOne removes the object.
func (b *Backend) DeleteOne(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkAttached(); err != nil {
		return err
	}
	if id == "" {
		return types.Other(types.ErrInvalidID)
	}

	res, err := b.db.ExecContext(ctx, "DELETE FROM objects WHERE id = ?", id)
	if err != nil {
		return types.Other(fmt.Errorf("deleting object: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.NotFound(fmt.Errorf("object %q", id))
	}
	if err := b.persistLocked(); err != nil {
		return types.Other(err)
	}
	return nil
}

// Count returns the number of objects in the bucket.
func (b *Backend) Count(ctx context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkAttached(); err != nil {
		return 0, err
	}
	var n int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM objects").Scan(&n); err != nil {
		return 0, types.Other(err)
	}
	return n, nil
}

// queryObjects runs query and decodes every row. Rows are closed before
// returning so the single connection is free for follow-up queries.
func (b *Backend) queryObjects(ctx context.Context, query string, args ...any) ([]types.Object, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	var objs []types.Object
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		o, err := rec.toObject()
		if err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, rows.Err()
}

// uniqueSlug returns slug, or slug-N for the smallest N >= 2 that is free
// within objType.
func (b *Backend) uniqueSlug(ctx context.Context, objType, slug string) (string, error) {
	candidate := slug
	for n := 2; ; n++ {
		var exists int
		err := b.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM objects WHERE type = ? AND slug = ?", objType, candidate,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}
		if exists == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
}
