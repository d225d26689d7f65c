package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectAccessors(t *testing.T) {
	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"project_name": "Folio",
		"featured": true,
		"order": 3,
		"rating": "4.5",
		"tech_stack": ["Go", "SQLite", 7],
		"category": {"key": "frontend", "value": "Frontend"},
		"flag": "true"
	}`), &meta))
	o := Object{Type: TypeProjects, Title: "fallback", Metadata: meta}

	assert.True(t, o.Bool("featured"))
	assert.False(t, o.Bool("flag"), "string true is not a boolean")
	assert.False(t, o.Bool("missing"))
	assert.Equal(t, 3, o.Int("order"))
	assert.Equal(t, 0, o.Int("missing"))

	r, ok := o.Number("rating")
	assert.True(t, ok)
	assert.InDelta(t, 4.5, r, 1e-9)

	assert.Equal(t, []string{"Go", "SQLite"}, o.Strings("tech_stack"))
	assert.Equal(t, "Frontend", o.Option("category"))
	assert.Equal(t, "Folio", o.DisplayName())

	o.Metadata["project_name"] = ""
	assert.Equal(t, "fallback", o.DisplayName())
}

func TestObjectNumber_RejectsNonFinite(t *testing.T) {
	o := Object{Metadata: map[string]any{
		"inf":      "Inf",
		"posinf":   "+Inf",
		"neginf":   "-infinity",
		"nan":      "NaN",
		"floatinf": math.Inf(1),
		"ok":       " 4 ",
	}}
	for _, key := range []string{"inf", "posinf", "neginf", "nan", "floatinf"} {
		_, ok := o.Number(key)
		assert.False(t, ok, key)
		assert.Equal(t, 0, o.Int(key), key)
	}
	r, ok := o.Number("ok")
	assert.True(t, ok)
	assert.Equal(t, 4.0, r)
}

func TestObjectStrings_CommaSeparated(t *testing.T) {
	o := Object{Metadata: map[string]any{"tech_stack": "Go, React ,SQL"}}
	assert.Equal(t, []string{"Go", "React", "SQL"}, o.Strings("tech_stack"))
}

func TestObjectClone(t *testing.T) {
	o := Object{ID: "a", Metadata: map[string]any{"featured": false}}
	c := o.Clone()
	c.Metadata["featured"] = true

	assert.False(t, o.Bool("featured"))
	assert.True(t, c.Bool("featured"))

	empty := Object{ID: "b"}.Clone()
	assert.Nil(t, empty.Metadata)
}

func TestObjectDecodeMetadata(t *testing.T) {
	o := Object{Metadata: map[string]any{
		"skill_name": "Go",
		"category":   map[string]any{"key": "backend", "value": "Backend"},
	}}
	var m SkillMetadata
	require.NoError(t, o.DecodeMetadata(&m))
	assert.Equal(t, "Go", m.SkillName)
	require.NotNil(t, m.Category)
	assert.Equal(t, "Backend", m.Category.Value)
}

func TestIsContentType(t *testing.T) {
	for _, ct := range ContentTypes {
		assert.True(t, IsContentType(ct), ct)
	}
	assert.False(t, IsContentType("crumbs"))
}
