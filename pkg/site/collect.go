package site

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CMS 内容源，由 WordPressClient 实现
type CMS interface {
	Posts(ctx context.Context, first int) ([]Post, error)
	Pages(ctx context.Context) ([]CMSPage, error)
}

// Sources 构建站点时的内容来源
type Sources struct {
	CMS          CMS    // 为 nil 时没有文章和 CMS 页面
	Stories      fs.FS  // 为 nil 时没有客户案例
	StoriesDir   string // 默认 data/stories
	PostLimit    int    // <= 0 时读取全部文章（sitemap 需要完整列表）
	StaticRoutes []Page // 默认 DefaultStaticRoutes()
}

// Content 汇总后的站点内容
type Content struct {
	Posts    []Post
	CMSPages []CMSPage
	Stories  []Story
	Pages    []Page   // sitemap 使用的页面列表
	Warnings []string // 降级为空的内容源
}

// DefaultStaticRoutes 站点固定路由
func DefaultStaticRoutes() []Page {
	return []Page{
		{Path: "/", ChangeFreq: "weekly", Priority: 1.0},
		{Path: "/pricing", ChangeFreq: "monthly", Priority: 0.8},
		{Path: "/about", ChangeFreq: "monthly", Priority: 0.6},
		{Path: "/blog", ChangeFreq: "daily", Priority: 0.7},
		{Path: "/customer-stories", ChangeFreq: "weekly", Priority: 0.7},
		{Path: "/contact", ChangeFreq: "yearly", Priority: 0.5},
	}
}

// Collect 并发读取文章、CMS 页面和客户案例
//
// 单个内容源失败时降级为空列表并记录到 Content.Warnings，
// 只有 ctx 被取消时才返回错误。
func Collect(ctx context.Context, src Sources) (*Content, error) {
	content := &Content{}
	var mu sync.Mutex
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("[Collect] %s", msg)
		mu.Lock()
		content.Warnings = append(content.Warnings, msg)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	if src.CMS != nil {
		g.Go(func() error {
			posts, err := src.CMS.Posts(gctx, src.PostLimit)
			if err != nil {
				warn("posts unavailable: %v", err)
				return nil
			}
			content.Posts = posts
			return nil
		})
		g.Go(func() error {
			pages, err := src.CMS.Pages(gctx)
			if err != nil {
				warn("cms pages unavailable: %v", err)
				return nil
			}
			content.CMSPages = pages
			return nil
		})
	}

	if src.Stories != nil {
		dir := src.StoriesDir
		if dir == "" {
			dir = "data/stories"
		}
		g.Go(func() error {
			stories, err := LoadStories(src.Stories, dir)
			if err != nil {
				warn("stories unavailable: %v", err)
				return nil
			}
			content.Stories = stories
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(content.Warnings)
	content.Pages = buildPages(src.StaticRoutes, content)
	return content, nil
}

func buildPages(static []Page, c *Content) []Page {
	if static == nil {
		static = DefaultStaticRoutes()
	}
	pages := make([]Page, 0, len(static)+len(c.CMSPages)+len(c.Posts)+len(c.Stories))
	pages = append(pages, static...)
	for _, p := range c.CMSPages {
		pages = append(pages, Page{Path: p.URI, LastMod: p.Modified, ChangeFreq: "monthly", Priority: 0.5})
	}
	for _, p := range c.Posts {
		lastMod := p.Modified
		if lastMod.IsZero() {
			lastMod = p.PublishedAt
		}
		pages = append(pages, Page{Path: p.Path(), LastMod: lastMod, ChangeFreq: "monthly", Priority: 0.6})
	}
	for _, s := range c.Stories {
		pages = append(pages, Page{Path: s.Path(), LastMod: s.PublishedAt, ChangeFreq: "yearly", Priority: 0.6})
	}
	return pages
}
