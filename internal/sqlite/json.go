package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// objectJSON is one line of objects.jsonl. Timestamps are RFC 3339 strings
// and metadata is kept raw so unknown keys survive a round trip.
type objectJSON struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Slug       string          `json:"slug"`
	Title      string          `json:"title"`
	Content    string          `json:"content,omitempty"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  string          `json:"created_at"`
	ModifiedAt string          `json:"modified_at"`
}

// formatTime renders t for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a stored timestamp; empty strings yield the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// toObject converts a stored record into a types.Object.
func (r objectJSON) toObject() (types.Object, error) {
	o := types.Object{
		ID:      r.ID,
		Type:    r.Type,
		Slug:    r.Slug,
		Title:   r.Title,
		Content: r.Content,
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &o.Metadata); err != nil {
			return types.Object{}, fmt.Errorf("parsing metadata of %s: %w", r.ID, err)
		}
	}
	if o.Metadata == nil {
		o.Metadata = map[string]any{}
	}
	var err error
	if o.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return types.Object{}, fmt.Errorf("parsing created_at of %s: %w", r.ID, err)
	}
	if o.ModifiedAt, err = parseTime(r.ModifiedAt); err != nil {
		return types.Object{}, fmt.Errorf("parsing modified_at of %s: %w", r.ID, err)
	}
	return o, nil
}

// fromObject converts a types.Object into its stored record.
func fromObject(o types.Object) (objectJSON, error) {
	meta := o.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return objectJSON{}, fmt.Errorf("encoding metadata of %s: %w", o.ID, err)
	}
	return objectJSON{
		ID:         o.ID,
		Type:       o.Type,
		Slug:       o.Slug,
		Title:      o.Title,
		Content:    o.Content,
		Metadata:   raw,
		CreatedAt:  formatTime(o.CreatedAt),
		ModifiedAt: formatTime(o.ModifiedAt),
	}, nil
}
