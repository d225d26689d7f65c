package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/folio/pkg/types"
)

func TestSeed(t *testing.T) {
	b, _ := attachTest(t)
	ctx := context.Background()

	n, err := b.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seedObjects), n)

	for _, ct := range types.ContentTypes {
		objs, err := b.Find(ctx, types.FindQuery{Type: ct})
		require.NoError(t, err, ct)
		assert.NotEmpty(t, objs, ct)
	}

	projects, err := b.Find(ctx, types.FindQuery{Type: types.TypeProjects})
	require.NoError(t, err)
	assert.Equal(t, "Storefront", projects[0].Title)
	assert.Equal(t, "storefront", projects[0].Slug)
}

func TestSeed_NonEmptyBucketUntouched(t *testing.T) {
	b, _ := attachTest(t)
	ctx := context.Background()

	insert(t, b, types.TypeSkills, map[string]any{"skill_name": "Go"})

	n, err := b.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := b.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, dir := attachTest(t)
	ctx := context.Background()

	_, err := src.Seed(ctx)
	require.NoError(t, err)

	path := dir + "/export.jsonl"
	n, err := ExportJSONL(ctx, src, path)
	require.NoError(t, err)
	assert.Equal(t, len(seedObjects), n)

	dst, _ := attachTest(t)
	imported, err := ImportJSONL(ctx, dst, path)
	require.NoError(t, err)
	assert.Equal(t, n, imported)

	for _, ct := range types.ContentTypes {
		want, err := src.Find(ctx, types.FindQuery{Type: ct})
		require.NoError(t, err)
		got, err := dst.Find(ctx, types.FindQuery{Type: ct})
		require.NoError(t, err)
		require.Len(t, got, len(want), ct)
		for i := range want {
			assert.Equal(t, want[i].Title, got[i].Title)
			assert.Equal(t, want[i].Slug, got[i].Slug)
			assert.Equal(t, want[i].Metadata, got[i].Metadata)
		}
	}
}

func TestExport_EmptyBucket(t *testing.T) {
	b, dir := attachTest(t)
	n, err := ExportJSONL(context.Background(), b, dir+"/empty.jsonl")
	require.NoError(t, err)
	assert.Zero(t, n)
}
