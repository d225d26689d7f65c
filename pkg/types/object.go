package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Content type slugs as stored in the bucket.
const (
	TypeProfile      = "profile"
	TypeProjects     = "projects"
	TypeSkills       = "skills"
	TypeServices     = "services"
	TypeTestimonials = "testimonials"
	TypeContactInfo  = "contact-info"
)

// ContentTypes lists every content type managed by folio.
var ContentTypes = []string{
	TypeProfile,
	TypeProjects,
	TypeSkills,
	TypeServices,
	TypeTestimonials,
	TypeContactInfo,
}

// IsContentType reports whether name is one of ContentTypes.
func IsContentType(name string) bool {
	for _, t := range ContentTypes {
		if t == name {
			return true
		}
	}
	return false
}

// Object is one record of a content type. Every content type shares this
// shape and differs only in the keys carried by Metadata.
type Object struct {
	ID         string         `json:"id"`
	Slug       string         `json:"slug,omitempty"`
	Title      string         `json:"title,omitempty"`
	Content    string         `json:"content,omitempty"`
	Type       string         `json:"type,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at,omitzero"`
	ModifiedAt time.Time      `json:"modified_at,omitzero"`
}

// Clone returns a copy of o whose Metadata map can be modified without
// affecting o. Nested values are shared.
func (o Object) Clone() Object {
	c := o
	if o.Metadata != nil {
		c.Metadata = make(map[string]any, len(o.Metadata))
		for k, v := range o.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// Bool returns the boolean stored at metadata key. Only a true boolean
// counts; absent keys and other value types yield false.
func (o Object) Bool(key string) bool {
	b, ok := o.Metadata[key].(bool)
	return ok && b
}

// Number returns the numeric value stored at metadata key and whether one
// was present. JSON numbers, Go numeric types and numeric strings are
// accepted.
func (o Object) Number(key string) (float64, bool) {
	return toFloat(o.Metadata[key])
}

// Int returns the metadata value at key truncated to an int, or 0 when
// absent or not numeric.
func (o Object) Int(key string) int {
	f, ok := o.Number(key)
	if !ok {
		return 0
	}
	return int(f)
}

// String returns the string stored at metadata key, or "".
func (o Object) String(key string) string {
	s, _ := o.Metadata[key].(string)
	return s
}

// Strings returns the string list stored at metadata key. Non-string
// elements are skipped.
func (o Object) Strings(key string) []string {
	switch v := o.Metadata[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}

// Option returns the value label of a select-dropdown metafield, stored by
// the bucket as {"key": ..., "value": ...}. A plain string is returned as is.
func (o Object) Option(key string) string {
	switch v := o.Metadata[key].(type) {
	case map[string]any:
		s, _ := v["value"].(string)
		return s
	case string:
		return v
	}
	return ""
}

// DisplayName returns the metadata name field for the object's type,
// falling back to the title.
func (o Object) DisplayName() string {
	if f := NameField(o.Type); f != "" {
		if s := o.String(f); s != "" {
			return s
		}
	}
	return o.Title
}

// DecodeMetadata copies the object's metadata into v, which should be a
// pointer to one of the *Metadata structs in this package.
func (o Object) DecodeMetadata(v any) error {
	raw, err := json.Marshal(o.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	// NaN and the infinities are not usable as ratings or orders.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
