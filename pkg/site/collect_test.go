package site

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeCMS struct {
	posts    []Post
	pages    []CMSPage
	postsErr error
	pagesErr error
}

func (f *fakeCMS) Posts(ctx context.Context, first int) ([]Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	if first > 0 && len(f.posts) > first {
		return f.posts[:first], nil
	}
	return f.posts, nil
}

func (f *fakeCMS) Pages(ctx context.Context) ([]CMSPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.pages, f.pagesErr
}

var testStories = fstest.MapFS{
	"data/stories/acme.json": {Data: []byte(`{"title":"Acme","publishedAt":"2024-01-01"}`)},
}

func pagePaths(pages []Page) []string {
	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.Path
	}
	return paths
}

func TestCollect(t *testing.T) {
	defer goleak.VerifyNone(t)

	published := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	cms := &fakeCMS{
		posts: []Post{{Title: "Launch", Slug: "launch", PublishedAt: published}},
		pages: []CMSPage{{Slug: "careers", URI: "/careers/"}},
	}

	content, err := Collect(context.Background(), Sources{
		CMS:          cms,
		Stories:      testStories,
		StaticRoutes: []Page{{Path: "/"}},
	})
	require.NoError(t, err)
	assert.Empty(t, content.Warnings)
	require.Len(t, content.Posts, 1)
	require.Len(t, content.Stories, 1)

	want := []string{"/", "/careers/", "/blog/launch", "/customer-stories/acme"}
	if diff := cmp.Diff(want, pagePaths(content.Pages)); diff != "" {
		t.Errorf("page paths mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, published, content.Pages[2].LastMod)
}

func TestCollect_DegradesPerSource(t *testing.T) {
	defer goleak.VerifyNone(t)

	cms := &fakeCMS{
		postsErr: errors.New("boom"),
		pages:    []CMSPage{{Slug: "legal", URI: "/legal"}},
	}
	content, err := Collect(context.Background(), Sources{
		CMS:     cms,
		Stories: fstest.MapFS{},
	})
	require.NoError(t, err)

	assert.Empty(t, content.Posts)
	assert.Empty(t, content.Stories)
	assert.Len(t, content.CMSPages, 1)
	require.Len(t, content.Warnings, 2)
	assert.Contains(t, content.Warnings[0], "posts unavailable: boom")
	assert.Contains(t, content.Warnings[1], "stories unavailable")
	assert.Len(t, content.Pages, len(DefaultStaticRoutes())+1)
}

func TestCollect_NoSources(t *testing.T) {
	content, err := Collect(context.Background(), Sources{})
	require.NoError(t, err)
	assert.Equal(t, pagePaths(DefaultStaticRoutes()), pagePaths(content.Pages))
}

func TestCollect_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, Sources{CMS: &fakeCMS{}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_FeedsSitemapAndRSS(t *testing.T) {
	content, err := Collect(context.Background(), Sources{
		CMS:     &fakeCMS{posts: []Post{{Title: "Hello", Slug: "hello", PublishedAt: time.Now()}}},
		Stories: testStories,
	})
	require.NoError(t, err)

	sitemap, err := BuildSitemap("https://example.com", content.Pages)
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://example.com/blog/hello</loc>")
	assert.Contains(t, string(sitemap), "<loc>https://example.com/customer-stories/acme</loc>")

	feed, err := BuildRSS(Channel{Title: "Blog", Base: "https://example.com"}, content.Posts)
	require.NoError(t, err)
	assert.Contains(t, string(feed), "<link>https://example.com/blog/hello</link>")
}
