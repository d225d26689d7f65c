package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/pkg/types"
)

func TestNewBackendRoundTrip(t *testing.T) {
	bucket := NewBackend()
	require.NoError(t, bucket.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer bucket.Detach()

	ctx := context.Background()
	_, err := bucket.Find(ctx, types.FindQuery{Type: types.TypeSkills})
	assert.True(t, types.IsNotFound(err), "empty type is NotFound")

	created, err := bucket.InsertOne(ctx, types.InsertRequest{
		Type:     types.TypeSkills,
		Title:    "Go",
		Metadata: map[string]any{"skill_name": "Go"},
	})
	require.NoError(t, err)

	objs, err := bucket.Find(ctx, types.FindQuery{Type: types.TypeSkills})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, created.ID, objs[0].ID)
	assert.Equal(t, "go", objs[0].Slug)

	require.NoError(t, bucket.Detach())
	_, err = bucket.Find(ctx, types.FindQuery{Type: types.TypeSkills})
	assert.ErrorIs(t, err, types.ErrBucketDetached)
}
