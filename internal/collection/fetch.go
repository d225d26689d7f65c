package collection

import (
	"context"
	"slices"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// DefaultProps are the object fields requested by list views.
var DefaultProps = []string{"id", "slug", "title", "type", "metadata", "created_at", "modified_at"}

// Fetch runs q against store and treats NotFound as an empty collection.
// Any other error is returned as is.
func Fetch(ctx context.Context, store types.ObjectStore, q types.FindQuery) ([]types.Object, error) {
	objs, err := store.Find(ctx, q)
	if err != nil {
		if types.IsNotFound(err) {
			return []types.Object{}, nil
		}
		return nil, err
	}
	if objs == nil {
		objs = []types.Object{}
	}
	return objs, nil
}

// SortByOrder orders objects ascending by metadata.order; a missing order
// counts as 0. The sort is stable, so equal orders keep store order.
func SortByOrder(objs []types.Object) {
	slices.SortStableFunc(objs, func(a, b types.Object) int {
		oa, _ := a.Number(types.FieldOrder)
		ob, _ := b.Number(types.FieldOrder)
		switch {
		case oa < ob:
			return -1
		case oa > ob:
			return 1
		}
		return 0
	})
}

// ordered reports whether collections of objType are kept sorted by
// metadata.order.
func ordered(objType string) bool {
	return objType == types.TypeProjects
}

func mergeMetadata(base, partial map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(partial))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

func indexOf(objs []types.Object, id string) int {
	return slices.IndexFunc(objs, func(o types.Object) bool { return o.ID == id })
}

// relationID returns the id of a related object expanded by a depth >= 1
// query.
func relationID(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m["id"].(string)
	return id, ok && id != ""
}

// collapseRelations replaces expanded related objects in metadata, alone
// or inside lists, with their ids so a write stores references and not
// copies.
func collapseRelations(meta map[string]any) map[string]any {
	for k, v := range meta {
		if id, ok := relationID(v); ok {
			meta[k] = id
			continue
		}
		list, ok := v.([]any)
		if !ok {
			continue
		}
		var out []any
		for i, e := range list {
			id, ok := relationID(e)
			if !ok {
				continue
			}
			if out == nil {
				out = slices.Clone(list)
			}
			out[i] = id
		}
		if out != nil {
			meta[k] = out
		}
	}
	return meta
}
