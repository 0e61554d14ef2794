package starfield

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/gonewx/starlight/pkg/utils"
)

// Side 闪烁星星所在的侧边
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideBoth
)

// ParseSide parses "left", "right" or "both" (case-insensitive).
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	case "both", "":
		return SideBoth, nil
	}
	return SideBoth, fmt.Errorf("unknown side %q (want left, right or both)", s)
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "both"
	}
}

// Next cycles left → right → both → left.
func (s Side) Next() Side {
	return (s + 1) % 3
}

// TwinkleConfig 闪烁星星变体配置
type TwinkleConfig struct {
	Side                 Side
	Count                int
	BandFraction         float64 // 侧边带宽度占画布宽度的比例
	SizeMin, SizeMax     float64
	PeriodMin, PeriodMax float64 // 闪烁周期（秒）
	MinAlpha             float64
	Color                color.NRGBA
}

// DefaultTwinkleConfig returns the hero-section defaults.
func DefaultTwinkleConfig() TwinkleConfig {
	return TwinkleConfig{
		Side:         SideBoth,
		Count:        24,
		BandFraction: 0.18,
		SizeMin:      0.5,
		SizeMax:      1.6,
		PeriodMin:    1.5,
		PeriodMax:    4,
		MinAlpha:     0.2,
		Color:        color.NRGBA{R: 0xcf, G: 0xe3, B: 0xff, A: 0xff},
	}
}

// Validate 验证配置有效性
func (c TwinkleConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("twinkle count must be >= 0, got %d", c.Count)
	}
	if c.BandFraction <= 0 || c.BandFraction > 0.5 {
		return fmt.Errorf("bandFraction must be within (0, 0.5], got %.2f", c.BandFraction)
	}
	if c.SizeMin < 0 || c.SizeMin > c.SizeMax {
		return fmt.Errorf("twinkle size range invalid: min(%.2f) max(%.2f)", c.SizeMin, c.SizeMax)
	}
	if c.PeriodMin <= 0 || c.PeriodMin > c.PeriodMax {
		return fmt.Errorf("twinkle period range invalid: min(%.2f) max(%.2f)", c.PeriodMin, c.PeriodMax)
	}
	if c.MinAlpha < 0 || c.MinAlpha > 1 {
		return fmt.Errorf("minAlpha must be within [0, 1], got %.2f", c.MinAlpha)
	}
	return nil
}

// Star 一颗闪烁星星；X/Y 是相对画布尺寸的比例 (0-1)，尺寸变化时自动跟随
type Star struct {
	X, Y   float64
	Size   float64
	Phase  float64
	Period float64
}

// TwinkleField 侧边闪烁星星
//
// 星星数量和位置在创建时确定。和流星效果共享同一套 Gate 语义：
// 冻结时不推进时间；减少动态效果时只绘制一次静态的星星。
type TwinkleField struct {
	cfg   TwinkleConfig
	stars []Star
	gate  Gate

	elapsed         float64
	lastTimestampMs float64
	started         bool
	drewStatic      bool
}

// NewTwinkleField places cfg.Count stars in the configured side bands.
func NewTwinkleField(cfg TwinkleConfig, rng *rand.Rand) (*TwinkleField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid twinkle config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	f := &TwinkleField{cfg: cfg, stars: make([]Star, cfg.Count)}
	for i := range f.stars {
		f.stars[i] = Star{
			X:      bandX(cfg.Side, i, cfg.BandFraction, rng.Float64()),
			Y:      rng.Float64(),
			Size:   randomInRange(rng, cfg.SizeMin, cfg.SizeMax),
			Phase:  rng.Float64() * 2 * math.Pi,
			Period: randomInRange(rng, cfg.PeriodMin, cfg.PeriodMax),
		}
	}
	return f, nil
}

// bandX 计算星星的横向比例坐标；both 模式下奇偶交替分配到左右两侧
func bandX(side Side, i int, band, r float64) float64 {
	left := side == SideLeft || (side == SideBoth && i%2 == 0)
	if left {
		return r * band
	}
	return 1 - r*band
}

// Stars returns a copy of the star set.
func (f *TwinkleField) Stars() []Star {
	out := make([]Star, len(f.stars))
	copy(out, f.stars)
	return out
}

// Gate returns the visibility controller.
func (f *TwinkleField) Gate() *Gate { return &f.gate }

// Side returns the configured side.
func (f *TwinkleField) Side() Side { return f.cfg.Side }

// Alpha 第 i 颗星星在当前时间的透明度
func (f *TwinkleField) Alpha(i int) float64 {
	st := f.stars[i]
	wave := 0.5 + 0.5*math.Sin(st.Phase+2*math.Pi*f.elapsed/st.Period)
	return utils.Lerp(f.cfg.MinAlpha, 1, wave)
}

// Tick advances twinkle time and redraws every star.
func (f *TwinkleField) Tick(nowMs float64, surface Surface, c Canvas) {
	dt := 0.0
	if f.started {
		dt = (nowMs - f.lastTimestampMs) / 1000
		if dt < 0 {
			dt = 0
		}
	}
	f.started = true
	f.lastTimestampMs = nowMs

	if !f.gate.Animating() {
		if f.gate.ReducedMotion() && !f.drewStatic {
			f.draw(surface, c, func(int) float64 { return 1 })
			f.drewStatic = true
		}
		return
	}
	f.drewStatic = false
	f.elapsed += dt
	f.draw(surface, c, f.Alpha)
}

func (f *TwinkleField) draw(surface Surface, c Canvas, alpha func(int) float64) {
	c.Clear()
	for i, st := range f.stars {
		c.FillCircle(st.X*surface.ClientWidth, st.Y*surface.ClientHeight, st.Size, withAlpha(f.cfg.Color, alpha(i)))
	}
}
