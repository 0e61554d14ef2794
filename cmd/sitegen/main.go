// Package main 是站点构建工具
//
// 用法:
//
//	sitegen sitemap --out dist/sitemap.xml
//	sitegen rss --out dist/rss.xml
//	sitegen stories --dir data/stories
//	sitegen serve
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// 全局参数
	baseURL    string
	cmsURL     string
	storiesDir string
	verbose    bool

	// 输出参数
	outPath     string
	feedTitle   string
	feedDesc    string
	feedLimit   int
	cmsTimeout  int
	listStories bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Build-time tooling for the marketing site",
	Long: `sitegen collects blog posts, CMS pages and customer stories and
writes the sitemap and RSS feed. It also runs the newsletter subscribe relay.

A CMS outage never fails the build: missing sources degrade to empty lists
and are reported as warnings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml",
	Args:  cobra.NoArgs,
	RunE:  runSitemap,
}

var rssCmd = &cobra.Command{
	Use:   "rss",
	Short: "Write the blog RSS feed",
	Args:  cobra.NoArgs,
	RunE:  runRSS,
}

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Validate and list customer stories",
	Args:  cobra.NoArgs,
	RunE:  runStories,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the newsletter subscribe relay",
	Long: `Runs POST /api/subscribe. Configuration comes from SUBSCRIBE_* environment
variables (SUBSCRIBE_PORTAL_ID and SUBSCRIBE_FORM_ID are required).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base", envOr("SITE_BASE_URL", "https://example.com"), "Site base URL")
	rootCmd.PersistentFlags().StringVar(&cmsURL, "cms", os.Getenv("WORDPRESS_GRAPHQL_URL"), "WPGraphQL endpoint (empty: no CMS content)")
	rootCmd.PersistentFlags().StringVar(&storiesDir, "dir", "data/stories", "Customer stories directory")
	rootCmd.PersistentFlags().IntVar(&cmsTimeout, "cms-timeout", 10, "CMS request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{sitemapCmd, rssCmd} {
		cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file (- for stdout)")
	}
	rssCmd.Flags().StringVar(&feedTitle, "title", "Blog", "Feed title")
	rssCmd.Flags().StringVar(&feedDesc, "description", "", "Feed description")
	rssCmd.Flags().IntVar(&feedLimit, "limit", 20, "Maximum number of items")
	storiesCmd.Flags().BoolVar(&listStories, "list", true, "Print one line per story")

	rootCmd.AddCommand(sitemapCmd, rssCmd, storiesCmd, serveCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
