// Package main 是星空查看器的桌面入口
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>   外部 YAML 配置（默认使用内置 data/starfield.yaml）
//	--watch           配置文件变化时热重载
//	--seed <n>        固定随机种子
//	--no-persist      不读写用户设置
//	--verbose         输出详细日志
//
// Controls:
//
//	M        - 切换"减少动态效果"
//	+ / -    - 调整密度
//	S        - 切换闪烁星星侧边（left → right → both）
//	T        - 显示/隐藏闪烁星星
//	Wheel    - 滚动演示页面（hero 区域滚出视口时动画暂停）
//	Q/Escape - 退出
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/gonewx/starlight/pkg/app"
	"github.com/gonewx/starlight/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configFlag    = flag.String("config", "", "Path to a starfield YAML config (default: embedded)")
	watchFlag     = flag.Bool("watch", false, "Reload --config when the file changes")
	seedFlag      = flag.Int64("seed", 0, "Random seed (0 = time based)")
	noPersistFlag = flag.Bool("no-persist", false, "Do not load or save viewer settings")
	verboseFlag   = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Watch:      *watchFlag,
		Seed:       *seedFlag,
		NoPersist:  *noPersistFlag,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("查看器初始化失败: %v", err)
	}
	defer viewer.Close()

	ebiten.SetWindowSize(app.DefaultWindowWidth, app.DefaultWindowHeight)
	ebiten.SetWindowTitle("Starlight")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 失焦时继续调用 Update，由门控决定是否冻结
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(viewer); err != nil && !errors.Is(err, app.ErrQuit) {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}

	log.Println("Starfield viewer closed")
}
