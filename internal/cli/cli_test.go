package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/folio/internal/collection"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// testEnv runs the CLI in-process against a temporary config directory and
// local bucket.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

// unsetEnv removes variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	unsetEnv(t, "FOLIO_BACKEND", "FOLIO_REQUEST_TIMEOUT", "FOLIO_DATA_DIR", "FOLIO_CONFIG_DIR",
		"COSMIC_BUCKET_SLUG", "COSMIC_READ_KEY", "COSMIC_WRITE_KEY", "COSMIC_API_URL")
	dir := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

type result struct {
	stdout string
	stderr string
	code   int
}

func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := Run(context.Background(), full, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	r := e.run(args...)
	require.Equal(e.t, exitSuccess, r.code, "folio %v\nstdout: %s\nstderr: %s", args, r.stdout, r.stderr)
	return r.stdout
}

func (e *testEnv) seeded() *testEnv {
	e.t.Helper()
	e.mustRun("init", "--seed")
	return e
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun("version")
	assert.Contains(t, out, "folio "+Version)
	assert.Contains(t, out, modulePath)
	_, err := os.Stat(e.configDir)
	assert.True(t, os.IsNotExist(err), "version does not touch the config dir")
}

func TestInitCreatesConfigAndBucket(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun("init")
	assert.Contains(t, out, "folio initialized in "+e.dataDir)

	cfg, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "backend: sqlite")
	assert.FileExists(t, filepath.Join(e.dataDir, "objects.jsonl"))
}

func TestInitSeedOnlyOnce(t *testing.T) {
	e := newTestEnv(t)
	assert.Contains(t, e.mustRun("init", "--seed"), "seeded")
	assert.Contains(t, e.mustRun("init", "--seed"), "nothing seeded")
}

func TestListProjectsOrdered(t *testing.T) {
	e := newTestEnv(t).seeded()
	objs := decode[[]types.Object](t, e.mustRun("list", "projects", "-o", "json"))
	require.Len(t, objs, 3)
	var names []string
	for _, o := range objs {
		names = append(names, o.DisplayName())
	}
	assert.Equal(t, []string{"Storefront", "Metrics Pipeline", "Portfolio Site"}, names)

	text := e.mustRun("list", "projects")
	assert.Contains(t, text, "FEATURED")
	assert.Contains(t, text, "Storefront")
}

func TestListEmptyType(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	assert.Contains(t, e.mustRun("list", "testimonials"), "no testimonials")
	assert.Equal(t, "[]\n", e.mustRun("list", "testimonials", "-o", "json"))
}

func TestListUnknownType(t *testing.T) {
	e := newTestEnv(t)
	r := e.run("list", "widgets")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "widgets")
}

func TestListCategory(t *testing.T) {
	e := newTestEnv(t).seeded()
	objs := decode[[]types.Object](t, e.mustRun("list", "skills", "--category", "backend", "-o", "json"))
	require.Len(t, objs, 1)
	assert.Equal(t, "Go", objs[0].DisplayName())

	r := e.run("list", "projects", "--category", "Backend")
	assert.Equal(t, exitUserError, r.code)
}

func TestStats(t *testing.T) {
	e := newTestEnv(t).seeded()
	s := decode[types.DashboardStats](t, e.mustRun("stats", "-o", "json"))
	assert.Equal(t, types.DashboardStats{
		TotalProjects:     3,
		FeaturedProjects:  1,
		TotalSkills:       4,
		TotalTestimonials: 2,
		AverageRating:     4.5,
	}, s)

	text := e.mustRun("stats")
	assert.Contains(t, text, "Average rating:")
	assert.Contains(t, text, "4.5")
}

func TestStatsEmptyBucket(t *testing.T) {
	e := newTestEnv(t)
	e.mustRun("init")
	s := decode[types.DashboardStats](t, e.mustRun("stats", "-o", "json"))
	assert.Equal(t, types.DashboardStats{}, s)
}

func TestOverviewYAML(t *testing.T) {
	e := newTestEnv(t).seeded()
	var ov map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(e.mustRun("overview", "-o", "yaml")), &ov))
	assert.Contains(t, ov, "stats")
	assert.Contains(t, ov, "recentProjects")
	assert.Contains(t, ov, "techStack")

	text := e.mustRun("overview")
	assert.Contains(t, text, "Top technologies:")
	assert.Contains(t, text, "* Storefront")
}

func TestSkillsGrouped(t *testing.T) {
	e := newTestEnv(t).seeded()
	out := e.mustRun("skills")
	for _, c := range []string{"Backend (1)", "Database (1)", "Frontend (1)", "Tools (1)"} {
		assert.Contains(t, out, c)
	}
	assert.Contains(t, out, "Go - Expert")
}

func TestCreateGetUpdate(t *testing.T) {
	e := newTestEnv(t).seeded()

	r := e.run("create", "projects", "project_name=Atlas")
	assert.Equal(t, exitUserError, r.code, "short_description is required")
	assert.Contains(t, r.stderr, "short_description")

	created := decode[types.Object](t, e.mustRun("create", "projects",
		"project_name=Atlas", "short_description=Map tiles", "order=0", `tech_stack=["Go"]`, "-o", "json"))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Atlas", created.Title)

	objs := decode[[]types.Object](t, e.mustRun("list", "projects", "-o", "json"))
	require.Len(t, objs, 4)
	assert.Equal(t, created.ID, objs[0].ID, "order 0 sorts first")

	e.mustRun("update", "projects", created.ID, "featured=true")
	got := decode[types.Object](t, e.mustRun("get", "projects", created.ID, "-o", "json"))
	assert.True(t, got.Bool("featured"))
	assert.Equal(t, "Map tiles", got.String("short_description"), "update keeps untouched fields")
	assert.Equal(t, []string{"Go"}, got.Strings("tech_stack"))

	e.mustRun("update", "projects", created.ID, "order=9", "--optimistic")
	objs = decode[[]types.Object](t, e.mustRun("list", "projects", "-o", "json"))
	assert.Equal(t, created.ID, objs[len(objs)-1].ID)

	r = e.run("update", "projects", created.ID, "short_description=")
	assert.Equal(t, exitUserError, r.code)

	r = e.run("get", "projects", "missing")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "not found")

	text := e.mustRun("get", "projects", created.ID)
	assert.Contains(t, text, "project_name:")
	assert.Contains(t, text, "Atlas")
}

func TestFeature(t *testing.T) {
	e := newTestEnv(t).seeded()
	objs := decode[[]types.Object](t, e.mustRun("list", "projects", "-o", "json"))
	id := objs[1].ID
	require.False(t, objs[1].Bool("featured"))

	assert.Contains(t, e.mustRun("feature", id), "is featured")
	s := decode[types.DashboardStats](t, e.mustRun("stats", "-o", "json"))
	assert.Equal(t, 2, s.FeaturedProjects)

	assert.Contains(t, e.mustRun("feature", id, "--toggle"), "is not featured")
	assert.Contains(t, e.mustRun("feature", id, "--toggle"), "is featured")
	assert.Contains(t, e.mustRun("feature", id, "--off"), "is not featured")

	r := e.run("feature", id, "--off", "--toggle")
	assert.Equal(t, exitUserError, r.code)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	e := newTestEnv(t).seeded()
	objs := decode[[]types.Object](t, e.mustRun("list", "testimonials", "-o", "json"))
	require.Len(t, objs, 2)
	id := objs[0].ID

	r := e.run("delete", "testimonials", id)
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "--yes")
	assert.Len(t, decode[[]types.Object](t, e.mustRun("list", "testimonials", "-o", "json")), 2)

	assert.Contains(t, e.mustRun("delete", "testimonials", id, "--yes"), "Deleted testimonial")
	left := decode[[]types.Object](t, e.mustRun("list", "testimonials", "-o", "json"))
	require.Len(t, left, 1)
	assert.NotEqual(t, id, left[0].ID)

	e.mustRun("delete", "testimonials", left[0].ID, "--yes", "--optimistic")
	assert.Contains(t, e.mustRun("list", "testimonials"), "no testimonials")

	r = e.run("delete", "testimonials", id, "--yes")
	assert.Equal(t, exitUserError, r.code)
}

func TestProfile(t *testing.T) {
	e := newTestEnv(t).seeded()
	out := e.mustRun("profile")
	assert.Contains(t, out, "Alex Rivera")
	assert.Contains(t, out, "alex@example.com")
	assert.Contains(t, out, "github.com")
	assert.Contains(t, out, "linkedin.com")

	empty := newTestEnv(t)
	empty.mustRun("init")
	assert.Contains(t, empty.mustRun("profile"), "not set")
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t).seeded()
	file := filepath.Join(t.TempDir(), "bucket.jsonl")
	assert.Contains(t, src.mustRun("export", file), "exported 13 objects")

	dst := newTestEnv(t)
	dst.mustRun("init")
	assert.Contains(t, dst.mustRun("import", file), "imported 13 objects")
	s := decode[types.DashboardStats](t, dst.mustRun("stats", "-o", "json"))
	assert.Equal(t, 3, s.TotalProjects)
	assert.Equal(t, 4.5, s.AverageRating)

	r := dst.run("import", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Equal(t, exitUserError, r.code)
}

func TestCosmicBackendNeedsCredentials(t *testing.T) {
	e := newTestEnv(t)
	r := e.run("--backend", "cosmic", "stats")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "bucket slug")

	r = e.run("--backend", "redis", "stats")
	assert.Equal(t, exitUserError, r.code)
}

func TestEnvironmentOverridesConfig(t *testing.T) {
	e := newTestEnv(t)
	t.Setenv("FOLIO_BACKEND", "cosmic")
	r := e.run("stats")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "bucket slug")
}

func TestBadOutputFormat(t *testing.T) {
	e := newTestEnv(t)
	r := e.run("stats", "-o", "xml")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "xml")
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"a=1", "b=true", "c=hello world", `d=["x","y"]`, "e=", "f=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": 1.0,
		"b": true,
		"c": "hello world",
		"d": []any{"x", "y"},
		"e": "",
		"f": "a=b",
	}, got)

	for _, bad := range []string{"novalue", "=x"} {
		_, err := parseAssignments([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestDescribeKeepsCause(t *testing.T) {
	cause := types.Other(errors.New("connection refused"))
	err := sysError(&collection.OpError{Op: collection.OpFetch, Type: types.TypeProjects, Err: cause})
	assert.Equal(t, "failed to fetch projects: store: other: connection refused", describe(err))
	assert.Equal(t, "plain", describe(errors.New("plain")))
}
