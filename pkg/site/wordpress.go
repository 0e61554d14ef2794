package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const postsQuery = `query Posts($first: Int!, $after: String) {
  posts(first: $first, after: $after, where: {status: PUBLISH}) {
    pageInfo { hasNextPage endCursor }
    nodes { title slug excerpt date modified author { node { name } } }
  }
}`

const pagesQuery = `query Pages($first: Int!, $after: String) {
  pages(first: $first, after: $after, where: {status: PUBLISH}) {
    pageInfo { hasNextPage endCursor }
    nodes { slug uri modified }
  }
}`

// maxPageSize WPGraphQL 默认的单页上限
const maxPageSize = 100

// wpDateLayout WPGraphQL 返回的时间不带时区，按 UTC 解析
const wpDateLayout = "2006-01-02T15:04:05"

// CMSPage CMS 中的普通页面
type CMSPage struct {
	Slug     string
	URI      string
	Modified time.Time
}

// WordPressClient 通过 WPGraphQL 读取文章和页面
type WordPressClient struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewWordPressClient 创建客户端，timeout <= 0 时使用 10 秒
func NewWordPressClient(endpoint string, timeout time.Duration) *WordPressClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WordPressClient{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

func (c *WordPressClient) query(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.Endpoint == "" {
		return fmt.Errorf("wordpress: endpoint not configured")
	}
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("wordpress: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("wordpress: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress: request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("wordpress: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("wordpress: unexpected status %d", resp.StatusCode)
	}

	var gql graphQLResponse
	if err := json.Unmarshal(payload, &gql); err != nil {
		return fmt.Errorf("wordpress: decode response: %w", err)
	}
	if len(gql.Errors) > 0 {
		msgs := make([]string, 0, len(gql.Errors))
		for _, e := range gql.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("wordpress: graphql errors: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return fmt.Errorf("wordpress: decode data: %w", err)
	}
	return nil
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type connection[T any] struct {
	PageInfo pageInfo `json:"pageInfo"`
	Nodes    []T      `json:"nodes"`
}

// fetchAll 按 after 游标逐页读取 field 连接的节点
//
// limit <= 0 时读到最后一页；否则最多返回 limit 个节点。
// 服务端游标不前进时停止，避免死循环。
func fetchAll[T any](ctx context.Context, c *WordPressClient, query, field string, limit int) ([]T, error) {
	var all []T
	after := ""
	for {
		size := maxPageSize
		if limit > 0 && limit-len(all) < size {
			size = limit - len(all)
		}
		vars := map[string]any{"first": size}
		if after != "" {
			vars["after"] = after
		}

		var data map[string]connection[T]
		if err := c.query(ctx, query, vars, &data); err != nil {
			return nil, err
		}
		conn := data[field]
		all = append(all, conn.Nodes...)

		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		next := conn.PageInfo
		if !next.HasNextPage || next.EndCursor == "" || next.EndCursor == after || len(conn.Nodes) == 0 {
			return all, nil
		}
		after = next.EndCursor
	}
}

type postNode struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Excerpt  string `json:"excerpt"`
	Date     string `json:"date"`
	Modified string `json:"modified"`
	Author   struct {
		Node struct {
			Name string `json:"name"`
		} `json:"node"`
	} `json:"author"`
}

type pageNode struct {
	Slug     string `json:"slug"`
	URI      string `json:"uri"`
	Modified string `json:"modified"`
}

// Posts 读取已发布文章，最新的在前
//
// 参数:
//   - first: 最多读取的篇数，<= 0 时分页读取全部文章
func (c *WordPressClient) Posts(ctx context.Context, first int) ([]Post, error) {
	nodes, err := fetchAll[postNode](ctx, c, postsQuery, "posts", first)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(nodes))
	for _, n := range nodes {
		if n.Slug == "" {
			continue
		}
		posts = append(posts, Post{
			Title:       n.Title,
			Slug:        n.Slug,
			ExcerptHTML: n.Excerpt,
			PublishedAt: parseWPDate(n.Date),
			Modified:    parseWPDate(n.Modified),
			Author:      n.Author.Node.Name,
		})
	}
	return posts, nil
}

// Pages 分页读取全部已发布的 CMS 页面
func (c *WordPressClient) Pages(ctx context.Context) ([]CMSPage, error) {
	nodes, err := fetchAll[pageNode](ctx, c, pagesQuery, "pages", 0)
	if err != nil {
		return nil, err
	}

	pages := make([]CMSPage, 0, len(nodes))
	for _, n := range nodes {
		uri := n.URI
		if uri == "" {
			uri = "/" + n.Slug
		}
		pages = append(pages, CMSPage{
			Slug:     n.Slug,
			URI:      uri,
			Modified: parseWPDate(n.Modified),
		})
	}
	return pages, nil
}

func parseWPDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(wpDateLayout, s, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
