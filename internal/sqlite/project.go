package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// project keeps only the dotted paths listed in props, e.g. "id" or
// "metadata.featured". Paths that do not exist in the object are skipped.
func project(o types.Object, props []string) (types.Object, error) {
	full, err := json.Marshal(o)
	if err != nil {
		return types.Object{}, fmt.Errorf("encoding object %s: %w", o.ID, err)
	}

	out := []byte("{}")
	for _, p := range props {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r := gjson.GetBytes(full, p)
		if !r.Exists() {
			continue
		}
		out, err = sjson.SetRawBytes(out, p, []byte(r.Raw))
		if err != nil {
			return types.Object{}, fmt.Errorf("projecting %q: %w", p, err)
		}
	}

	var projected types.Object
	if err := json.Unmarshal(out, &projected); err != nil {
		return types.Object{}, fmt.Errorf("decoding projection of %s: %w", o.ID, err)
	}
	return projected, nil
}

// expandRelations replaces metadata values that hold the id of another
// object (a string, or a list of strings) with that object, one level deep.
// Expanded objects keep their own relations as ids. The caller must hold
// b.mu.
func (b *Backend) expandRelations(ctx context.Context, objs []types.Object) error {
	ids := map[string]bool{}
	for _, o := range objs {
		for _, v := range o.Metadata {
			for _, id := range candidateIDs(v) {
				ids[id] = true
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	args := make([]any, 0, len(ids))
	marks := make([]string, 0, len(ids))
	for id := range ids {
		args = append(args, id)
		marks = append(marks, "?")
	}
	related, err := b.queryObjects(ctx,
		"SELECT "+objectColumns+" FROM objects WHERE id IN ("+strings.Join(marks, ", ")+")", args...)
	if err != nil {
		return err
	}
	if len(related) == 0 {
		return nil
	}

	byID := make(map[string]map[string]any, len(related))
	for _, r := range related {
		m, err := toMap(r)
		if err != nil {
			return err
		}
		byID[r.ID] = m
	}

	for i := range objs {
		if objs[i].Metadata == nil {
			continue
		}
		objs[i] = objs[i].Clone()
		for k, v := range objs[i].Metadata {
			objs[i].Metadata[k] = expandValue(v, byID)
		}
	}
	return nil
}

// maxIDLen bounds the strings considered as relation ids; longer values
// are prose, not references.
const maxIDLen = 64

// candidateIDs returns the strings in v that could be object ids.
func candidateIDs(v any) []string {
	switch t := v.(type) {
	case string:
		if looksLikeID(t) {
			return []string{t}
		}
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok && looksLikeID(s) {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func looksLikeID(s string) bool {
	return s != "" && len(s) <= maxIDLen && !strings.ContainsAny(s, " \t\n")
}

func expandValue(v any, byID map[string]map[string]any) any {
	switch t := v.(type) {
	case string:
		if m, ok := byID[t]; ok {
			return m
		}
	case []any:
		out := make([]any, len(t))
		changed := false
		for i, e := range t {
			out[i] = e
			if s, ok := e.(string); ok {
				if m, ok := byID[s]; ok {
					out[i] = m
					changed = true
				}
			}
		}
		if changed {
			return out
		}
	}
	return v
}

func toMap(o types.Object) (map[string]any, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encoding related object %s: %w", o.ID, err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding related object %s: %w", o.ID, err)
	}
	return m, nil
}
