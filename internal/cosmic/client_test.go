package cosmic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(types.CosmicConfig{
		APIURL:     srv.URL + "/v3",
		BucketSlug: "folio-bucket",
		ReadKey:    "read-key",
		WriteKey:   "write-key",
	}, srv.Client())
}

func TestFind(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/buckets/folio-bucket/objects", r.URL.Path)
		q := r.URL.Query()
		assert.JSONEq(t, `{"type":"projects"}`, q.Get("query"))
		assert.Equal(t, "id,title,metadata", q.Get("props"))
		assert.Equal(t, "1", q.Get("depth"))
		assert.Equal(t, "read-key", q.Get("read_key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"objects":[
			{"id":"a","title":"A","type":"projects","metadata":{"order":2},"created_at":"2024-05-01T10:00:00.000Z"},
			{"id":"b","title":"B","type":"projects","metadata":{"order":1}}
		],"total":2}`)
	})

	objs, err := c.Find(context.Background(), types.FindQuery{
		Type:  types.TypeProjects,
		Props: []string{"id", "title", "metadata"},
		Depth: 1,
	})
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "a", objs[0].ID)
	assert.Equal(t, 2, objs[0].Int("order"))
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), objs[0].CreatedAt.UTC())
}

func TestFind_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":404,"message":"No objects found"}`)
	})

	_, err := c.Find(context.Background(), types.FindQuery{Type: types.TypeSkills})
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Contains(t, err.Error(), "No objects found")
}

func TestFind_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Find(context.Background(), types.FindQuery{Type: types.TypeSkills})
	require.Error(t, err)
	assert.False(t, types.IsNotFound(err))
	var se *types.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, types.KindOther, se.Kind)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestFind_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.Find(context.Background(), types.FindQuery{Type: types.TypeSkills})
	require.Error(t, err)
	assert.False(t, types.IsNotFound(err))
}

func TestFind_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"objects":`)
	})
	_, err := c.Find(context.Background(), types.FindQuery{Type: types.TypeSkills})
	require.Error(t, err)
	assert.False(t, types.IsNotFound(err))
}

func TestFind_ContextDeadline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Find(ctx, types.FindQuery{Type: types.TypeSkills})
	require.Error(t, err)
	assert.False(t, types.IsNotFound(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestInsertOne(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/buckets/folio-bucket/objects", r.URL.Path)
		assert.Equal(t, "Bearer write-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "projects", body["type"])
		assert.Equal(t, "Folio", body["title"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"object":{"id":"new-id","title":"Folio","slug":"folio","type":"projects","metadata":{"project_name":"Folio"}}}`)
	})

	obj, err := c.InsertOne(context.Background(), types.InsertRequest{
		Type:     types.TypeProjects,
		Title:    "Folio",
		Metadata: map[string]any{"project_name": "Folio"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", obj.ID)
	assert.Equal(t, "folio", obj.Slug)
}

func TestUpdateOne(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v3/buckets/folio-bucket/objects/obj-1", r.URL.Path)

		var body map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"featured": true}, body["metadata"])
		_, _ = io.WriteString(w, `{"object":{"id":"obj-1"}}`)
	})

	require.NoError(t, c.UpdateOne(context.Background(), "obj-1", map[string]any{"featured": true}))
}

func TestDeleteOne(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v3/buckets/folio-bucket/objects/obj-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteOne(context.Background(), "obj-1"))
	assert.True(t, called)
}

func TestDeleteOne_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	err := c.DeleteOne(context.Background(), "gone")
	assert.True(t, types.IsNotFound(err))
}

func TestWritesRequireWriteKey(t *testing.T) {
	c := New(types.CosmicConfig{BucketSlug: "b", ReadKey: "r"}, nil)

	err := c.UpdateOne(context.Background(), "id", map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNoWriteKey))
	assert.False(t, types.IsNotFound(err))

	err = c.DeleteOne(context.Background(), "id")
	assert.True(t, errors.Is(err, types.ErrNoWriteKey))

	_, err = c.InsertOne(context.Background(), types.InsertRequest{Type: types.TypeSkills})
	assert.True(t, errors.Is(err, types.ErrNoWriteKey))
}

func TestEmptyID(t *testing.T) {
	c := New(types.CosmicConfig{BucketSlug: "b", ReadKey: "r", WriteKey: "w"}, nil)
	assert.True(t, errors.Is(c.UpdateOne(context.Background(), "", nil), types.ErrInvalidID))
	assert.True(t, errors.Is(c.DeleteOne(context.Background(), ""), types.ErrInvalidID))
}
