package app

import (
	"fmt"
	"log"

	"github.com/gonewx/starlight/pkg/embedded"
	"github.com/gonewx/starlight/pkg/site"
)

// maxPageStories 内容区最多列出的客户案例数
const maxPageStories = 8

// loadPageStories 读取内置的客户案例，显示在 hero 下方的内容区
//
// 读取失败时返回 nil，内容区保持空白。
func loadPageStories() []site.Story {
	data, err := embedded.Sub("data")
	if err != nil {
		log.Printf("[App] Warning: embedded data unavailable: %v", err)
		return nil
	}
	stories, err := site.LoadStories(data, "stories")
	if err != nil {
		log.Printf("[App] Warning: stories unavailable: %v", err)
		return nil
	}
	log.Printf("[App] loaded %d customer stories", len(stories))
	return stories
}

// storyLines 内容区文本：标题行加每个案例一行，最多 limit 个案例
func storyLines(stories []site.Story, limit int) []string {
	if len(stories) == 0 {
		return nil
	}
	if limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}
	lines := make([]string, 0, len(stories)+1)
	lines = append(lines, "Customer stories")
	for _, s := range stories {
		line := s.Title
		if s.Client != "" {
			line = fmt.Sprintf("%s (%s)", s.Title, s.Client)
		}
		lines = append(lines, "  "+line+"  "+s.Path())
	}
	return lines
}
