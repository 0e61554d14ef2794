package site

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// DefaultFeedLimit RSS 默认条目上限
	DefaultFeedLimit = 20
	// MaxDescriptionRunes 条目描述的最大字符数（不含省略号）
	MaxDescriptionRunes = 280
)

// Channel RSS 频道元信息
type Channel struct {
	Title       string
	Base        string // 站点根地址
	Description string
	Language    string
	FeedPath    string // 默认 /rss.xml
	Limit       int    // 默认 DefaultFeedLimit
}

// Post 一篇博客文章
type Post struct {
	Title       string
	Slug        string
	ExcerptHTML string
	PublishedAt time.Time
	Modified    time.Time
	Author      string
}

// Path 文章在站内的路径
func (p Post) Path() string {
	return "/blog/" + p.Slug
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	Description string  `xml:"description,omitempty"`
	Author      string  `xml:"author,omitempty"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// BuildRSS 生成 RSS 2.0 feed
//
// 文章按发布时间倒序，最多输出 Channel.Limit 条。
// 描述取摘要 HTML 的纯文本，超过 MaxDescriptionRunes 时在词边界截断并追加省略号。
func BuildRSS(ch Channel, posts []Post) ([]byte, error) {
	home, err := Canonical(ch.Base, "/")
	if err != nil {
		return nil, fmt.Errorf("rss: %w", err)
	}
	feedPath := ch.FeedPath
	if feedPath == "" {
		feedPath = "/rss.xml"
	}
	self, err := Canonical(ch.Base, feedPath)
	if err != nil {
		return nil, fmt.Errorf("rss: %w", err)
	}
	limit := ch.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	doc := rssDoc{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        home,
			Description: ch.Description,
			Language:    ch.Language,
			AtomLink:    atomLink{Href: self, Rel: "self", Type: "application/rss+xml"},
		},
	}
	if len(sorted) > 0 {
		doc.Channel.LastBuildDate = sorted[0].PublishedAt.Format(time.RFC1123Z)
	}

	for _, p := range sorted {
		link, err := Canonical(ch.Base, p.Path())
		if err != nil {
			return nil, fmt.Errorf("rss: post %q: %w", p.Slug, err)
		}
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			Description: Truncate(PlainText(p.ExcerptHTML), MaxDescriptionRunes),
			Author:      p.Author,
			PubDate:     p.PublishedAt.Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rss: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// PlainText 把 HTML 片段转为单行纯文本，忽略 script/style
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var sb strings.Builder
	for _, n := range nodes {
		collectText(n, &sb)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "br", "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// Truncate 超过 limit 个字符时在最后一个词边界截断并追加 "…"
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := limit
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}
