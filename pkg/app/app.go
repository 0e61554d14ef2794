// Package app 提供星空查看器的核心包装器
//
// 该包把一个模拟的营销页面（带星空 hero 区域）装进 ebiten 窗口：
// 窗口尺寸和显示器缩放驱动画布尺寸，鼠标滚轮驱动视口相交比例，
// 窗口失焦/最小化驱动文档可见性，M 键模拟系统的"减少动态效果"偏好。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/gonewx/starlight/pkg/config"
	"github.com/gonewx/starlight/pkg/embedded"
	"github.com/gonewx/starlight/pkg/game"
	"github.com/gonewx/starlight/pkg/render"
	"github.com/gonewx/starlight/pkg/starfield"
	"github.com/gonewx/starlight/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"
)

// EmbeddedConfigPath 内置配置文件路径
const EmbeddedConfigPath = "data/starfield.yaml"

// 窗口与页面参数
const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
	demoPageScreens     = 3    // 页面总高度（屏）
	wheelStep           = 60.0 // 每格滚轮滚动的像素
)

// ErrQuit 用户请求退出
var ErrQuit = fmt.Errorf("quit requested")

var backgroundColor = color.NRGBA{R: 0x07, G: 0x0b, B: 0x1e, A: 0xff}
var contentColor = color.NRGBA{R: 0x12, G: 0x18, B: 0x2f, A: 0xff}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 外部配置文件，为空则使用内置 data/starfield.yaml
	ConfigPath string
	// Watch 外部配置文件变化时热重载
	Watch bool
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// NoPersist 不读写用户设置（仅内存）
	NoPersist bool
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	fileConfig *config.StarfieldConfig
	settings   *game.SettingsManager
	watcher    *game.ConfigWatcher
	cancel     context.CancelFunc
	rng        *rand.Rand

	sim           *starfield.Simulation
	twinkle       *starfield.TwinkleField
	trailCanvas   *render.EbitenCanvas
	twinkleCanvas *render.EbitenCanvas
	page          *DemoPage
	contentLines  []string // hero 下方内容区的文本

	start        time.Time
	clientWidth  float64
	clientHeight float64
	dpr          float64

	// 鼠标或触摸拖动滚动页面
	drag *utils.DragManager

	statusMessage string
	verbose       bool
}

// NewApp 创建并初始化查看器
//
// 使用内置配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	fileConfig, err := loadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	// 用户设置：gdata 不可用时降级为仅内存
	var gdataManager *gdata.Manager
	if !cfg.NoPersist {
		if err := utils.EnsureStorageDir(); err != nil {
			log.Printf("[App] Warning: storage dir unavailable: %v", err)
		}
		gdataManager, err = gdata.Open(gdata.Config{AppName: "starlight"})
		if err != nil {
			log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
			gdataManager = nil
		}
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置初始化失败: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		fileConfig:   fileConfig,
		settings:     settings,
		rng:          rand.New(rand.NewSource(seed)),
		page:         NewDemoPage(DefaultWindowHeight, demoPageScreens),
		contentLines: storyLines(loadPageStories(), maxPageStories),
		drag:         utils.NewDragManager(),
		start:        time.Now(),
		clientWidth:  DefaultWindowWidth,
		clientHeight: DefaultWindowHeight,
		dpr:          1,
		verbose:      cfg.Verbose,
	}

	surface := starfield.NewSurface(a.clientWidth, a.clientHeight, a.dpr)
	if err := a.rebuild(surface); err != nil {
		return nil, err
	}

	if cfg.Watch && cfg.ConfigPath != "" {
		watcher, err := game.NewConfigWatcher(cfg.ConfigPath, 0)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithCancel(context.Background())
		if err := watcher.Start(ctx); err != nil {
			cancel()
			watcher.Stop()
			return nil, err
		}
		a.watcher = watcher
		a.cancel = cancel
	}

	log.Printf("[App] starfield viewer initialized (seed=%d)", seed)
	return a, nil
}

// loadConfig 读取外部配置或内置配置
func loadConfig(path string) (*config.StarfieldConfig, error) {
	if path != "" {
		cfg, err := config.LoadStarfieldConfig(path)
		if err != nil {
			return nil, fmt.Errorf("配置加载失败: %w", err)
		}
		log.Printf("[Config] 加载配置: %s", path)
		return cfg, nil
	}

	data, err := embedded.ReadFile(EmbeddedConfigPath)
	if err != nil {
		return nil, fmt.Errorf("内置配置读取失败: %w", err)
	}
	cfg, err := config.ParseStarfieldConfig(data)
	if err != nil {
		return nil, fmt.Errorf("内置配置解析失败: %w", err)
	}
	return cfg, nil
}

// trailConfig 合并配置文件与用户设置
func (a *App) trailConfig() (starfield.Config, error) {
	cfg, err := a.fileConfig.TrailConfig()
	if err != nil {
		return cfg, err
	}
	cfg.Density *= a.settings.GetSettings().Density
	return cfg, nil
}

// rebuild 重新创建模拟与画布
//
// 池容量只在创建时确定，所以修改 MaxParticles 或窄屏参数需要完整重建。
func (a *App) rebuild(surface starfield.Surface) error {
	trail, err := a.trailConfig()
	if err != nil {
		return err
	}
	sim, err := starfield.New(trail, surface, a.rng)
	if err != nil {
		return err
	}

	twinkle, err := a.newTwinkle()
	if err != nil {
		return err
	}

	if a.trailCanvas == nil {
		a.trailCanvas = render.NewEbitenCanvas(surface)
		a.twinkleCanvas = render.NewEbitenCanvas(surface)
	} else {
		a.trailCanvas.Resize(surface)
		a.twinkleCanvas.Resize(surface)
	}

	a.sim = sim
	a.twinkle = twinkle
	a.applyGate()
	return nil
}

func (a *App) newTwinkle() (*starfield.TwinkleField, error) {
	tw, err := a.fileConfig.TwinkleConfig()
	if err != nil {
		return nil, err
	}
	tw.Side = a.settings.Side()
	return starfield.NewTwinkleField(tw, a.rng)
}

// applyGate 把页面与窗口状态同步到两个效果的门控
func (a *App) applyGate() {
	ratio := a.page.IntersectionRatio()
	hidden := ebiten.IsWindowMinimized() || !ebiten.IsFocused()
	reduced := a.settings.GetSettings().ReducedMotion

	for _, g := range []*starfield.Gate{a.sim.Gate(), a.twinkle.Gate()} {
		g.SetIntersectionRatio(ratio)
		g.SetDocumentHidden(hidden)
		g.SetReducedMotion(reduced)
	}
}

// Update 处理输入并推进一帧
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ErrQuit
	}

	a.pollConfigReload()
	a.handleInput()

	// 窗口尺寸或显示器缩放变化
	a.sim.Resize(a.clientWidth, a.clientHeight, a.dpr, a.trailCanvas)
	if a.twinkleCanvas.Surface() != a.sim.Surface() {
		a.twinkleCanvas.Resize(a.sim.Surface())
	}
	if a.page.ViewportHeight != a.clientHeight {
		a.page.Resize(a.clientHeight)
	}

	a.applyGate()

	now := float64(time.Since(a.start)) / float64(time.Millisecond)
	a.sim.Tick(now, a.trailCanvas)
	if a.settings.GetSettings().ShowTwinkle {
		a.twinkle.Tick(now, a.sim.Surface(), a.twinkleCanvas)
	}
	return nil
}

func (a *App) handleInput() {
	// M：切换减少动态效果
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		reduced := !a.settings.GetSettings().ReducedMotion
		a.settings.SetReducedMotion(reduced)
		a.statusMessage = fmt.Sprintf("reduced motion: %v", reduced)
		a.saveSettings()
	}

	// +/-：调整密度
	steps := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		steps++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		steps--
	}
	if steps != 0 {
		density := a.settings.AdjustDensity(steps)
		if trail, err := a.trailConfig(); err == nil {
			if err := a.sim.Reconfigure(trail); err != nil {
				log.Printf("[App] reconfigure failed: %v", err)
			}
		}
		a.statusMessage = fmt.Sprintf("density: x%.2f", density)
		a.saveSettings()
	}

	// S：切换闪烁星星侧边
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		side := a.settings.Side().Next()
		a.settings.SetSide(side)
		if twinkle, err := a.newTwinkle(); err != nil {
			log.Printf("[App] twinkle rebuild failed: %v", err)
		} else {
			a.twinkle = twinkle
			a.applyGate()
		}
		a.statusMessage = fmt.Sprintf("twinkle side: %s", side)
		a.saveSettings()
	}

	// T：显示/隐藏闪烁星星
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		show := !a.settings.GetSettings().ShowTwinkle
		a.settings.SetShowTwinkle(show)
		if !show {
			a.twinkleCanvas.Clear()
		}
		a.statusMessage = fmt.Sprintf("twinkle: %v", show)
		a.saveSettings()
	}

	// 滚轮：滚动页面
	if _, dy := ebiten.Wheel(); dy != 0 {
		a.page.ScrollBy(-dy * wheelStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		a.page.ScrollBy(-a.page.PageHeight)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		a.page.ScrollBy(a.page.PageHeight)
	}

	// 拖动：坐标是设备像素，页面按客户端像素滚动
	a.drag.Update()
	if _, dy := a.drag.FrameDelta(); dy != 0 {
		a.page.ScrollBy(-float64(dy) / a.dpr)
	}
	if utils.IsMobile() {
		a.handleTouch()
	}
}

// handleTouch 双指点击切换减少动态效果
func (a *App) handleTouch() {
	if len(ebiten.AppendTouchIDs(nil)) < 2 || len(inpututil.AppendJustPressedTouchIDs(nil)) == 0 {
		return
	}
	reduced := !a.settings.GetSettings().ReducedMotion
	a.settings.SetReducedMotion(reduced)
	a.statusMessage = fmt.Sprintf("reduced motion: %v", reduced)
	a.saveSettings()
	a.drag.Reset()
}

// pollConfigReload 应用热重载的配置
func (a *App) pollConfigReload() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg := <-a.watcher.Updates():
		a.fileConfig = cfg
		if err := a.rebuild(a.sim.Surface()); err != nil {
			log.Printf("[App] reload rejected: %v", err)
			return
		}
		a.statusMessage = "config reloaded"
	default:
	}
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制页面、星空和状态栏
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(contentColor)

	// hero 区域随页面滚动
	offset := -a.page.ScrollY * a.dpr
	heroOp := &ebiten.DrawImageOptions{}
	heroOp.GeoM.Translate(0, offset)

	hero := a.trailCanvas.Image()
	bounds := hero.Bounds()
	vector.DrawFilledRect(screen, 0, float32(offset), float32(bounds.Dx()), float32(bounds.Dy()), backgroundColor, false)

	screen.DrawImage(hero, heroOp)
	if a.settings.GetSettings().ShowTwinkle {
		screen.DrawImage(a.twinkleCanvas.Image(), heroOp)
	}

	contentTop := offset + float64(bounds.Dy()) + 24
	for i, line := range a.contentLines {
		ebitenutil.DebugPrintAt(screen, line, 24, int(contentTop)+i*20)
	}

	a.drawStatus(screen)
}

func (a *App) drawStatus(screen *ebiten.Image) {
	stats := a.sim.Stats()
	settings := a.settings.GetSettings()
	gate := a.sim.Gate()
	lines := []string{
		fmt.Sprintf("active %d/%d  spawned %d  dropped %d  frames %d",
			a.sim.Pool().ActiveCount(), a.sim.Pool().Cap(), stats.Spawned, stats.Dropped, stats.Frames),
		fmt.Sprintf("ratio %.2f  hidden %v  reduced %v  density x%.2f  side %s",
			gate.IntersectionRatio(), gate.Hidden(), gate.ReducedMotion(), settings.Density, settings.Side),
	}
	if utils.IsMobile() {
		lines = append(lines, "drag to scroll  two-finger tap: reduced motion")
	} else {
		lines = append(lines, "[M] reduced motion  [+/-] density  [S] side  [T] twinkle  [wheel/drag] scroll  [Q] quit")
	}
	if a.statusMessage != "" {
		lines = append(lines, a.statusMessage)
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 8, 8+i*16)
	}
}

// Layout 以设备像素返回屏幕尺寸，并记录客户端尺寸与 DPR
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := 1.0
	if m := ebiten.Monitor(); m != nil {
		dpr = m.DeviceScaleFactor()
	}
	if dpr <= 0 {
		dpr = 1
	}
	a.clientWidth = float64(outsideWidth)
	a.clientHeight = float64(outsideHeight)
	a.dpr = dpr
	return int(float64(outsideWidth) * dpr), int(float64(outsideHeight) * dpr)
}

// Close 停止热重载、保存设置并释放画布
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.cancel()
	}
	a.saveSettings()
	a.trailCanvas.Dispose()
	a.twinkleCanvas.Dispose()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
