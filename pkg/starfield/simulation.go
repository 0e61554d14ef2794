package starfield

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/starlight/pkg/utils"
)

// minStrokeLength 短于该长度的拖尾不绘制
const minStrokeLength = 0.5

// Stats 运行统计
type Stats struct {
	Frames  uint64 // 实际绘制的帧数（冻结帧不计）
	Spawned uint64 // 成功激活的粒子数
	Dropped uint64 // 因池满被丢弃的生成请求
	Expired uint64 // 寿命结束被回收的粒子数
}

// Simulation 流星拖尾效果的完整状态
//
// 所有状态都由这个结构体持有，只在 Tick 中被修改。事件回调（尺寸变化、
// 视口相交、文档可见性、减少动态效果）只设置标志或数值，由下一次 Tick 消费。
type Simulation struct {
	cfg     Config
	pool    *Pool
	spawner *Spawner
	gate    Gate
	surface Surface

	lastTimestampMs float64
	started         bool
	lastDelta       float64
	cleared         bool // 进入减少动态效果状态后已清空画布

	stats Stats
}

// New 创建模拟
//
// 粒子池容量根据初始视口宽度确定，之后不会改变。
// rng 为 nil 时使用随机种子。
func New(cfg Config, surface Surface, rng *rand.Rand) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid starfield config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	s := &Simulation{
		cfg:     cfg,
		surface: surface,
	}
	s.pool = NewPool(cfg.Capacity(surface.ClientWidth))
	s.spawner = NewSpawner(&s.cfg, rng)

	log.Printf("[Starfield] created: capacity=%d, client=%.0fx%.0f, dpr=%.2f, rate=%.2f/s",
		s.pool.Cap(), surface.ClientWidth, surface.ClientHeight, surface.DPR, cfg.SpawnRate(surface.ClientWidth))
	return s, nil
}

// Reconfigure 更新外观与发射参数
//
// MaxParticles 被忽略：池容量在创建时固定，需要不同容量时重新创建模拟。
func (s *Simulation) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid starfield config: %w", err)
	}
	cfg.MaxParticles = s.cfg.MaxParticles
	s.cfg = cfg
	return nil
}

// Config returns the active configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Pool exposes the particle pool for inspection.
func (s *Simulation) Pool() *Pool { return s.pool }

// Gate returns the visibility controller fed by event callbacks.
func (s *Simulation) Gate() *Gate { return &s.gate }

// Surface returns the current surface geometry.
func (s *Simulation) Surface() Surface { return s.surface }

// Stats returns counters since creation.
func (s *Simulation) Stats() Stats { return s.stats }

// Accumulator returns the spawner's fractional carry.
func (s *Simulation) Accumulator() float64 { return s.spawner.Accumulator() }

// LastDelta returns the clamped dt of the most recent tick, in seconds.
func (s *Simulation) LastDelta() float64 { return s.lastDelta }

// Resize 处理容器尺寸或 DPR 变化（例如窗口被拖到另一块显示器）
func (s *Simulation) Resize(clientWidth, clientHeight, dpr float64, c Canvas) {
	if !s.surface.Resize(clientWidth, clientHeight, dpr) {
		return
	}
	if c != nil {
		c.Resize(s.surface)
	}
	log.Printf("[Starfield] resized: buffer=%dx%d, dpr=%.2f", s.surface.BufferWidth, s.surface.BufferHeight, s.surface.DPR)
}

// Tick 推进并绘制一帧
//
// 顺序：计算 dt → 冻结检查 → 衰减上一帧 → 生成 → 推进/绘制/回收。
// 冻结时仍然记录时间戳，恢复后不会出现一次性的大跳变。
func (s *Simulation) Tick(nowMs float64, c Canvas) {
	dt := s.frameDelta(nowMs)
	s.lastDelta = dt

	if !s.gate.Animating() {
		if s.gate.ReducedMotion() && !s.cleared {
			c.Clear()
			s.cleared = true
		}
		return
	}
	s.cleared = false
	s.stats.Frames++

	c.Fade(DecayAlpha(dt, s.cfg.TrailHalfLife))

	s.spawn(dt)
	s.step(dt, c)
}

// frameDelta 计算钳制后的帧间隔（秒），首帧为 0
func (s *Simulation) frameDelta(nowMs float64) float64 {
	if !s.started {
		s.started = true
		s.lastTimestampMs = nowMs
		return 0
	}
	dt := (nowMs - s.lastTimestampMs) / 1000
	s.lastTimestampMs = nowMs
	if dt < 0 {
		return 0
	}
	if dt > s.cfg.MaxFrameDelta {
		return s.cfg.MaxFrameDelta
	}
	return dt
}

func (s *Simulation) spawnRate() float64 {
	if !s.gate.Visible() {
		return 0
	}
	return s.cfg.SpawnRate(s.surface.ClientWidth)
}

func (s *Simulation) spawn(dt float64) {
	n := s.spawner.Advance(dt, s.spawnRate())
	for i := 0; i < n; i++ {
		slot := s.pool.FirstInactive()
		if slot < 0 {
			s.stats.Dropped++
			continue
		}
		s.pool.Activate(slot, s.spawner.NewParticle(s.surface))
		s.stats.Spawned++
	}
}

func (s *Simulation) step(dt float64, c Canvas) {
	for i := 0; i < s.pool.Cap(); i++ {
		p := s.pool.Slot(i)
		if !p.Active {
			continue
		}
		p.Age += dt
		if p.Expired() {
			s.pool.Deactivate(i)
			s.stats.Expired++
			continue
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		s.draw(p, c)
	}
}

// draw 绘制拖尾渐变和发光的头部
func (s *Simulation) draw(p *Particle, c Canvas) {
	col := s.cfg.Color

	trail := TrailLength(p.LifeFraction(), s.cfg.MaxTrailLength)
	speed := math.Hypot(p.VX, p.VY)
	if trail >= minStrokeLength && speed > 0 {
		tailX := p.X - p.VX/speed*trail
		tailY := p.Y - p.VY/speed*trail
		c.StrokeGradient(tailX, tailY, p.X, p.Y, p.Size, col)
	}

	if s.cfg.GlowScale > 0 && s.cfg.GlowAlpha > 0 {
		c.FillCircle(p.X, p.Y, p.Size*s.cfg.GlowScale, withAlpha(col, s.cfg.GlowAlpha))
	}
	c.FillCircle(p.X, p.Y, p.Size, col)
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * utils.Clamp01(a)))
	return c
}
