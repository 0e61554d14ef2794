package site

import (
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStories(t *testing.T) {
	fsys := fstest.MapFS{
		"stories/a.json": {Data: []byte(`{"title":"Acme Goes Fast","client":"Acme","publishedAt":"2024-01-05T10:00:00Z"}`)},
		"stories/b.json": {Data: []byte(`{"title":"Custom","slug":"custom-slug","publishedAt":"2024-03-01"}`)},
		"stories/c.json": {Data: []byte(`{not json`)},
		"stories/d.json": {Data: []byte(`{"client":"No Title"}`)},
		"stories/e.json": {Data: []byte(`{"title":"Bad date","publishedAt":"yesterday"}`)},
		"stories/f.txt":  {Data: []byte(`ignored`)},
	}

	stories, err := LoadStories(fsys, "stories")
	require.NoError(t, err)
	require.Len(t, stories, 2)

	assert.Equal(t, "custom-slug", stories[0].Slug)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), stories[0].PublishedAt)
	assert.Equal(t, "acme-goes-fast", stories[1].Slug)
	assert.Equal(t, "Acme", stories[1].Client)
	assert.Equal(t, "/customer-stories/acme-goes-fast", stories[1].Path())
}

func TestLoadStories_MissingDir(t *testing.T) {
	_, err := LoadStories(fstest.MapFS{}, "stories")
	assert.ErrorContains(t, err, "failed to read stories dir")
}

func TestLoadStories_EmptyDir(t *testing.T) {
	fsys := fstest.MapFS{"stories/readme.md": {Data: []byte("x")}}
	stories, err := LoadStories(fsys, "stories")
	require.NoError(t, err)
	assert.Empty(t, stories)
}

func TestLoadStories_ShippedData(t *testing.T) {
	stories, err := LoadStories(os.DirFS("../../data"), "stories")
	require.NoError(t, err)
	require.NotEmpty(t, stories)
	for _, s := range stories {
		assert.NotEmpty(t, s.Slug, "story %q has no slug", s.Title)
		assert.False(t, s.PublishedAt.IsZero(), "story %q has no date", s.Title)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Hello,  World! ", "hello-world"},
		{"Globex Café: résumé of a zero-downtime migration", "globex-cafe-resume-of-a-zero-downtime-migration"},
		{"Ünïcödé 2024", "unicode-2024"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
