// Bucket export and import as JSONL.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// ExportJSONL writes every object of every content type in store to path,
// one object per line. It works against any ObjectStore, so a remote bucket
// can be snapshotted into a local one. Returns the number of objects written.
func ExportJSONL(ctx context.Context, store types.ObjectStore, path string) (int, error) {
	var records []json.RawMessage
	for _, t := range types.ContentTypes {
		objs, err := store.Find(ctx, types.FindQuery{Type: t})
		if types.IsNotFound(err) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("export %s: %w", t, err)
		}
		for _, o := range objs {
			if o.Type == "" {
				o.Type = t
			}
			rec, err := fromObject(o)
			if err != nil {
				return 0, err
			}
			line, err := json.Marshal(rec)
			if err != nil {
				return 0, fmt.Errorf("encoding %s: %w", o.ID, err)
			}
			records = append(records, line)
		}
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	glog.V(1).Infof("[export] wrote %d objects to %s", len(records), path)
	return len(records), nil
}

// ImportJSONL inserts every object in the JSONL file at path into store.
// The store assigns new ids; slugs are kept when free. Malformed lines and
// records without a type are skipped. Returns the number of objects
// inserted.
func ImportJSONL(ctx context.Context, store types.ObjectStore, path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, raw := range records {
		var r objectJSON
		if err := json.Unmarshal(raw, &r); err != nil || r.Type == "" {
			continue
		}
		o, err := r.toObject()
		if err != nil {
			glog.Infof("[import] skipping %s: %v", r.ID, err)
			continue
		}
		title := o.Title
		if title == "" {
			title = types.TitleFor(o.Type, o.Metadata)
		}
		if _, err := store.InsertOne(ctx, types.InsertRequest{
			Type:     o.Type,
			Title:    title,
			Slug:     o.Slug,
			Content:  o.Content,
			Metadata: o.Metadata,
		}); err != nil {
			return inserted, fmt.Errorf("import %s: %w", r.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
