// Package starfield implements the decorative shooting-star canvas: a fixed
// particle pool, a rate-accumulator spawner, a per-frame stepper that paints
// fading gradient trails, and the visibility gate that freezes it all.
//
// The package does not know how pixels reach the screen. Callers hand every
// Tick a Canvas (see pkg/render for the ebiten and terminal backends).
package starfield

import (
	"fmt"
	"image/color"
	"math"
)

// DefaultNarrowViewportWidth 窄屏阈值（CSS 像素）
//
// 小于等于该宽度时，粒子池容量和生成速率都会被缩小。
const DefaultNarrowViewportWidth = 766.0

// Config 流星拖尾效果配置
//
// 构造时传入一次。速度单位为 像素/秒，角度单位为度（屏幕坐标系，Y 轴向下），
// 时间单位为秒。
type Config struct {
	// 容量与密度
	MaxParticles  int     // 宽屏下的粒子池容量
	Density       float64 // 生成密度倍数
	BaseSpawnRate float64 // Density=1 时每秒生成的粒子数

	// 外观
	Color          color.NRGBA
	TrailHalfLife  float64 // 上一帧像素衰减到一半所需时间
	MaxTrailLength float64 // 生命中点时的拖尾长度
	GlowScale      float64 // 光晕半径 = Size * GlowScale
	GlowAlpha      float64 // 光晕透明度 (0-1)

	// 发射参数
	SpeedMin, SpeedMax float64
	AngleMin, AngleMax float64
	SizeMin, SizeMax   float64
	TopEdgeWeight      float64 // 从顶边出生的概率，其余从左边出生
	LifetimeJitter     float64 // 寿命抖动比例 (0-1)
	MinLifetime        float64

	// 帧时间
	MaxFrameDelta float64 // 单帧 dt 上限，避免切回标签页时跳变

	// 窄屏缩放
	NarrowViewportWidth float64
	NarrowCountScale    float64
	NarrowRateScale     float64
}

// DefaultConfig returns the tuning used on the marketing pages.
func DefaultConfig() Config {
	return Config{
		MaxParticles:        40,
		Density:             1,
		BaseSpawnRate:       1.5,
		Color:               color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		TrailHalfLife:       0.25,
		MaxTrailLength:      160,
		GlowScale:           3,
		GlowAlpha:           0.25,
		SpeedMin:            380,
		SpeedMax:            760,
		AngleMin:            25,
		AngleMax:            55,
		SizeMin:             0.6,
		SizeMax:             1.4,
		TopEdgeWeight:       0.65,
		LifetimeJitter:      0.25,
		MinLifetime:         0.3,
		MaxFrameDelta:       0.1,
		NarrowViewportWidth: DefaultNarrowViewportWidth,
		NarrowCountScale:    0.5,
		NarrowRateScale:     0.5,
	}
}

// Validate 验证配置有效性
func (c Config) Validate() error {
	if c.MaxParticles < 0 {
		return fmt.Errorf("maxParticles must be >= 0, got %d", c.MaxParticles)
	}
	if c.Density < 0 || c.BaseSpawnRate < 0 {
		return fmt.Errorf("spawn rate must be >= 0 (density=%.2f, baseSpawnRate=%.2f)", c.Density, c.BaseSpawnRate)
	}
	if c.TrailHalfLife <= 0 {
		return fmt.Errorf("trailHalfLife must be > 0, got %.3f", c.TrailHalfLife)
	}
	if c.MaxTrailLength < 0 {
		return fmt.Errorf("maxTrailLength must be >= 0, got %.1f", c.MaxTrailLength)
	}
	if c.SpeedMin <= 0 || c.SpeedMin > c.SpeedMax {
		return fmt.Errorf("speed range invalid: min(%.1f) max(%.1f)", c.SpeedMin, c.SpeedMax)
	}
	if c.AngleMin > c.AngleMax {
		return fmt.Errorf("angle range invalid: min(%.1f) > max(%.1f)", c.AngleMin, c.AngleMax)
	}
	if c.SizeMin < 0 || c.SizeMin > c.SizeMax {
		return fmt.Errorf("size range invalid: min(%.2f) max(%.2f)", c.SizeMin, c.SizeMax)
	}
	if c.TopEdgeWeight < 0 || c.TopEdgeWeight > 1 {
		return fmt.Errorf("topEdgeWeight must be within [0, 1], got %.2f", c.TopEdgeWeight)
	}
	if c.LifetimeJitter < 0 || c.LifetimeJitter >= 1 {
		return fmt.Errorf("lifetimeJitter must be within [0, 1), got %.2f", c.LifetimeJitter)
	}
	if c.MaxFrameDelta <= 0 {
		return fmt.Errorf("maxFrameDelta must be > 0, got %.3f", c.MaxFrameDelta)
	}
	if c.NarrowCountScale <= 0 || c.NarrowCountScale > 1 {
		return fmt.Errorf("narrow countScale must be within (0, 1], got %.2f", c.NarrowCountScale)
	}
	if c.NarrowRateScale < 0 || c.NarrowRateScale > 1 {
		return fmt.Errorf("narrow rateScale must be within [0, 1], got %.2f", c.NarrowRateScale)
	}
	return nil
}

// IsNarrow reports whether a client width falls under the narrow-viewport heuristic.
func (c Config) IsNarrow(clientWidth float64) bool {
	return clientWidth <= c.NarrowViewportWidth
}

// Capacity 根据初始视口宽度计算粒子池容量
func (c Config) Capacity(clientWidth float64) int {
	if c.MaxParticles <= 0 {
		return 0
	}
	if !c.IsNarrow(clientWidth) {
		return c.MaxParticles
	}
	n := int(math.Ceil(float64(c.MaxParticles) * c.NarrowCountScale))
	if n < 1 {
		n = 1
	}
	return n
}

// SpawnRate returns particles per second for the given client width.
func (c Config) SpawnRate(clientWidth float64) float64 {
	rate := c.Density * c.BaseSpawnRate
	if c.IsNarrow(clientWidth) {
		rate *= c.NarrowRateScale
	}
	return rate
}
