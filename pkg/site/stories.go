package site

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Story 客户案例
type Story struct {
	Title       string    `json:"title"`
	Client      string    `json:"client"`
	Industry    string    `json:"industry"`
	Summary     string    `json:"summary"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"-"`
	Slug        string    `json:"slug,omitempty"`
}

// Path 案例在站内的路径
func (s Story) Path() string {
	return "/customer-stories/" + s.Slug
}

type storyFile struct {
	Story
	PublishedAt string `json:"publishedAt"`
}

// LoadStories 读取目录下所有 *.json 客户案例
//
// 缺少 slug 时由标题生成。格式错误的文件记录日志后跳过。
// 结果按发布时间倒序，时间相同时按 slug 排序。
//
// 参数:
//   - fsys: 文件系统（embed.FS / os.DirFS / fstest.MapFS）
//   - dir: 案例目录
//
// 返回:
//   - []Story: 案例列表
//   - error: 目录无法读取时返回错误
func LoadStories(fsys fs.FS, dir string) ([]Story, error) {
	if _, err := fs.Stat(fsys, dir); err != nil {
		return nil, fmt.Errorf("failed to read stories dir %s: %w", dir, err)
	}
	matches, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list stories in %s: %w", dir, err)
	}

	stories := make([]Story, 0, len(matches))
	for _, name := range matches {
		story, err := readStory(fsys, name)
		if err != nil {
			log.Printf("[Stories] skipping %s: %v", name, err)
			continue
		}
		stories = append(stories, story)
	}

	sort.SliceStable(stories, func(i, j int) bool {
		if !stories[i].PublishedAt.Equal(stories[j].PublishedAt) {
			return stories[i].PublishedAt.After(stories[j].PublishedAt)
		}
		return stories[i].Slug < stories[j].Slug
	})
	return stories, nil
}

func readStory(fsys fs.FS, name string) (Story, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Story{}, err
	}
	var raw storyFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return Story{}, fmt.Errorf("invalid json: %w", err)
	}

	story := raw.Story
	if strings.TrimSpace(story.Title) == "" {
		return Story{}, fmt.Errorf("missing title")
	}
	if raw.PublishedAt != "" {
		t, err := parseDate(raw.PublishedAt)
		if err != nil {
			return Story{}, fmt.Errorf("invalid publishedAt %q: %w", raw.PublishedAt, err)
		}
		story.PublishedAt = t
	}
	if story.Slug == "" {
		story.Slug = Slugify(story.Title)
	}
	return story, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// Slugify 生成 URL slug：去掉重音符号，小写，非字母数字折叠为单个 "-"
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
