// Package site 构建营销站点的静态产物：规范化 URL、sitemap、RSS、客户案例与 CMS 内容
package site

import (
	"fmt"
	"net/url"
	"strings"
)

// Canonical 把站内路径解析为规范 URL
//
// 规则：
//   - 强制 https，主机名小写
//   - 主机名统一为 base 的主机名（是否带 www. 以 base 为准）
//   - 去掉 query 和 fragment，合并重复斜杠
//   - 去掉 /index 和 .html 后缀
//   - 除根路径外去掉末尾斜杠
//
// 参数:
//   - base: 站点根地址，例如 https://example.com
//   - path: 站内路径或同站绝对 URL
//
// 返回:
//   - string: 规范 URL
//   - error: base 非法或 path 指向其他站点时返回错误
func Canonical(base, path string) (string, error) {
	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if baseURL.Host == "" {
		return "", fmt.Errorf("invalid base url %q: missing host", base)
	}

	ref, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	resolved := baseURL.ResolveReference(ref)

	// 同站 URL 无论是否带 www. 都改写为 base 的主机名
	baseHost := strings.ToLower(baseURL.Hostname())
	host := strings.ToLower(resolved.Hostname())
	if strings.TrimPrefix(host, "www.") != strings.TrimPrefix(baseHost, "www.") {
		return "", fmt.Errorf("path %q is not on %s", path, baseHost)
	}
	host = baseHost
	if port := resolved.Port(); port != "" && port != "443" {
		host = host + ":" + port
	}

	return (&url.URL{
		Scheme: "https",
		Host:   host,
		Path:   cleanPath(resolved.Path),
	}).String(), nil
}

func cleanPath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.TrimSuffix(p, ".html")
	if p == "/index" || strings.HasSuffix(p, "/index") {
		p = strings.TrimSuffix(p, "index")
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		p = "/"
	}
	return p
}
