package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gonewx/starlight/pkg/site"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// collect 读取所有内容源，单个来源失败只记录警告
//
// postLimit <= 0 时读取全部文章。
func collect(ctx context.Context, postLimit int) (*site.Content, error) {
	src := site.Sources{
		Stories:    os.DirFS(filepath.Dir(storiesDir)),
		StoriesDir: filepath.Base(storiesDir),
		PostLimit:  postLimit,
	}
	if cmsURL != "" {
		src.CMS = site.NewWordPressClient(cmsURL, time.Duration(cmsTimeout)*time.Second)
	} else {
		logger.Debug("no CMS endpoint configured, skipping posts and pages")
	}

	content, err := site.Collect(ctx, src)
	if err != nil {
		return nil, err
	}
	for _, w := range content.Warnings {
		logger.Warn("content source degraded", zap.String("detail", w))
	}
	logger.Info("content collected",
		zap.Int("posts", len(content.Posts)),
		zap.Int("cms_pages", len(content.CMSPages)),
		zap.Int("stories", len(content.Stories)))
	return content, nil
}

// writeOutput 写入文件，path 为 "-" 时写到命令输出
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("wrote file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func runSitemap(cmd *cobra.Command, args []string) error {
	// sitemap 列出所有文章，不受 --limit 影响
	content, err := collect(commandContext(cmd), 0)
	if err != nil {
		return err
	}
	data, err := site.BuildSitemap(baseURL, content.Pages)
	if err != nil {
		return err
	}
	return writeOutput(cmd, outPath, data)
}

func runRSS(cmd *cobra.Command, args []string) error {
	limit := feedLimit
	if limit <= 0 {
		limit = site.DefaultFeedLimit
	}
	content, err := collect(commandContext(cmd), limit)
	if err != nil {
		return err
	}
	data, err := site.BuildRSS(site.Channel{
		Title:       feedTitle,
		Base:        baseURL,
		Description: feedDesc,
		Language:    "en-us",
		Limit:       limit,
	}, content.Posts)
	if err != nil {
		return err
	}
	return writeOutput(cmd, outPath, data)
}

func runStories(cmd *cobra.Command, args []string) error {
	stories, err := site.LoadStories(os.DirFS(filepath.Dir(storiesDir)), filepath.Base(storiesDir))
	if err != nil {
		return err
	}
	if !listStories {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d stories\n", len(stories))
		return err
	}
	return printStories(cmd.OutOrStdout(), stories)
}

func printStories(w io.Writer, stories []site.Story) error {
	for _, s := range stories {
		date := "----------"
		if !s.PublishedAt.IsZero() {
			date = s.PublishedAt.Format(time.DateOnly)
		}
		if _, err := fmt.Fprintf(w, "%s  %-40s  %s\n", date, s.Slug, s.Title); err != nil {
			return err
		}
	}
	return nil
}
