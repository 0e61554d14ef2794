//go:build ignore

// validate_yaml 检查 data/ 下的星空配置和客户案例
//
// 用法:
//
//	go run tools/validate_yaml.go [data-dir]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonewx/starlight/pkg/config"
	"github.com/gonewx/starlight/pkg/site"
)

func main() {
	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	cfg, err := config.LoadStarfieldConfig(filepath.Join(dataDir, "starfield.yaml"))
	if err != nil {
		fmt.Printf("❌ starfield.yaml: %v\n", err)
		os.Exit(1)
	}
	trail, err := cfg.TrailConfig()
	if err != nil {
		fmt.Printf("❌ trail: %v\n", err)
		os.Exit(1)
	}
	if _, err := cfg.TwinkleConfig(); err != nil {
		fmt.Printf("❌ twinkle: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ starfield.yaml 格式正确 (max particles %d, density %.2f)\n", trail.MaxParticles, trail.Density)

	stories, err := site.LoadStories(os.DirFS(dataDir), "stories")
	if err != nil {
		fmt.Printf("❌ stories: %v\n", err)
		os.Exit(1)
	}
	entries, _ := filepath.Glob(filepath.Join(dataDir, "stories", "*.json"))
	if len(stories) != len(entries) {
		fmt.Printf("❌ %d 个案例文件中有 %d 个无法解析\n", len(entries), len(entries)-len(stories))
		os.Exit(1)
	}
	fmt.Printf("✅ 客户案例数量: %d\n", len(stories))
}
