package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Portfolio Project", "my-portfolio-project"},
		{"Café Menu -- Redesign", "cafe-menu-redesign"},
		{"  Go & SQLite!  ", "go-sqlite"},
		{"Über   Fast", "uber-fast"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("héééé", 3))
}

func TestStarRating(t *testing.T) {
	assert.Equal(t, "★★★★★", StarRating(5))
	assert.Equal(t, "★★★☆☆", StarRating(3))
	assert.Equal(t, "★★★☆☆", StarRating(3.5))
	assert.Equal(t, "☆☆☆☆☆", StarRating(0))
	assert.Equal(t, "★★★★★", StarRating(7))
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "github.com", Domain("https://www.github.com/user/repo"))
	assert.Equal(t, "example.org", Domain("http://example.org:8080/x"))
	assert.Equal(t, "not a url", Domain("not a url"))
}

func TestValidURL(t *testing.T) {
	assert.True(t, ValidURL("https://example.com"))
	assert.False(t, ValidURL("example.com"))
	assert.False(t, ValidURL(""))
}

func TestDateAndAgo(t *testing.T) {
	assert.Equal(t, "-", Date(time.Time{}))
	assert.Equal(t, "Mar 4, 2025", Date(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", Ago(time.Time{}))
	assert.Contains(t, Ago(time.Now().Add(-72*time.Hour)), "ago")
}
