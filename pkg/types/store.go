package types

import "context"

// FindQuery selects every object of one content type. Props limits the
// returned fields to the listed dotted paths (e.g. "metadata.featured");
// an empty Props returns whole objects. Depth controls how many levels of
// object relations in metadata are expanded.
type FindQuery struct {
	Type  string
	Props []string
	Depth int
}

// InsertRequest describes a new object. The store assigns the ID and the
// timestamps, and derives Slug from Title when Slug is empty.
type InsertRequest struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Slug     string         `json:"slug,omitempty"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ObjectStore is the remote object bucket consumed by the synchronizer and
// the aggregator. Every call is atomic at the store. Errors returned are
// *StoreError values tagged NotFound or Other.
type ObjectStore interface {
	// Find returns all objects of q.Type. A type with no objects yields a
	// NotFound error rather than an empty slice.
	Find(ctx context.Context, q FindQuery) ([]Object, error)

	// InsertOne creates an object and returns it with its assigned ID.
	InsertOne(ctx context.Context, req InsertRequest) (Object, error)

	// UpdateOne replaces the whole metadata map of the object. Keys absent
	// from metadata are removed at the store.
	UpdateOne(ctx context.Context, id string, metadata map[string]any) error

	// DeleteOne removes the object. Deletion is immediate and final.
	DeleteOne(ctx context.Context, id string) error
}
