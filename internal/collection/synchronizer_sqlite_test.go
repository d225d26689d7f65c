package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/internal/sqlite"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func TestUpdateKeepsRelationIDsInLocalBucket(t *testing.T) {
	bucket := sqlite.NewBackend()
	require.NoError(t, bucket.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer bucket.Detach()
	ctx := context.Background()

	project, err := bucket.InsertOne(ctx, types.InsertRequest{
		Type:     types.TypeProjects,
		Title:    "Site",
		Metadata: map[string]any{"project_name": "Site"},
	})
	require.NoError(t, err)
	testimonial, err := bucket.InsertOne(ctx, types.InsertRequest{
		Type:     types.TypeTestimonials,
		Title:    "Ada",
		Metadata: map[string]any{"project": project.ID, "rating": 3.0},
	})
	require.NoError(t, err)

	s := New(bucket, types.TypeTestimonials, DefaultOptions())
	_, err = s.Load(ctx)
	require.NoError(t, err)
	got, ok := s.Get(testimonial.ID)
	require.True(t, ok)
	require.IsType(t, map[string]any{}, got.Metadata["project"], "depth 1 expands the relation")

	require.NoError(t, s.Update(ctx, testimonial.ID, map[string]any{"rating": 5.0}))
	require.NoError(t, bucket.DeleteOne(ctx, project.ID))

	objs, err := bucket.Find(ctx, types.FindQuery{Type: types.TypeTestimonials})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, project.ID, objs[0].Metadata["project"])
	assert.Equal(t, 5.0, objs[0].Metadata["rating"])
}
