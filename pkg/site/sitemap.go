package site

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Page 站点中的一个可索引页面
type Page struct {
	Path       string
	LastMod    time.Time
	ChangeFreq string  // always / hourly / daily / weekly / monthly / yearly / never
	Priority   float64 // 0 表示不输出
	NoIndex    bool
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// BuildSitemap 生成 sitemaps.org 0.9 格式的 sitemap
//
// NoIndex 页面被跳过；规范 URL 相同的页面只保留第一个；输出按 loc 排序。
func BuildSitemap(base string, pages []Page) ([]byte, error) {
	seen := make(map[string]bool, len(pages))
	set := urlSet{XMLNS: sitemapNamespace}

	for _, p := range pages {
		if p.NoIndex {
			continue
		}
		loc, err := Canonical(base, p.Path)
		if err != nil {
			return nil, fmt.Errorf("sitemap: %w", err)
		}
		if seen[loc] {
			continue
		}
		seen[loc] = true

		entry := sitemapURL{Loc: loc, ChangeFreq: p.ChangeFreq}
		if !p.LastMod.IsZero() {
			entry.LastMod = p.LastMod.UTC().Format("2006-01-02")
		}
		if p.Priority > 0 {
			entry.Priority = strconv.FormatFloat(min(p.Priority, 1), 'f', 1, 64)
		}
		set.URLs = append(set.URLs, entry)
	}

	sort.Slice(set.URLs, func(i, j int) bool {
		return set.URLs[i].Loc < set.URLs[j].Loc
	})

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
