package config

import (
	"fmt"
	"image/color"
	"os"

	"github.com/gonewx/starlight/pkg/starfield"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// StarfieldConfig 星空效果的 YAML 配置
//
// 配置文件位置: data/starfield.yaml
// 文件中缺失的字段保留 DefaultStarfieldConfig 的默认值。
type StarfieldConfig struct {
	// Trail 流星拖尾效果
	Trail TrailConfig `yaml:"trail"`

	// Twinkle 侧边闪烁星星变体
	Twinkle TwinkleSection `yaml:"twinkle"`
}

// TrailConfig 流星拖尾配置
type TrailConfig struct {
	MaxParticles   int     `yaml:"maxParticles"`
	Density        float64 `yaml:"density"`
	BaseSpawnRate  float64 `yaml:"baseSpawnRate"`
	Color          string  `yaml:"color"` // "#rrggbb"
	HalfLife       float64 `yaml:"halfLife"`
	MaxTrailLength float64 `yaml:"maxTrailLength"`
	Glow           Glow    `yaml:"glow"`
	Speed          Range   `yaml:"speed"`
	Angle          Range   `yaml:"angle"`
	Size           Range   `yaml:"size"`
	TopEdgeWeight  float64 `yaml:"topEdgeWeight"`
	LifetimeJitter float64 `yaml:"lifetimeJitter"`
	MinLifetime    float64 `yaml:"minLifetime"`
	MaxFrameDelta  float64 `yaml:"maxFrameDelta"`
	Narrow         Narrow  `yaml:"narrow"`
}

// Glow 头部光晕
type Glow struct {
	Scale float64 `yaml:"scale"`
	Alpha float64 `yaml:"alpha"`
}

// Narrow 窄屏缩放
type Narrow struct {
	Width      float64 `yaml:"width"`
	CountScale float64 `yaml:"countScale"`
	RateScale  float64 `yaml:"rateScale"`
}

// Range 数值范围
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// TwinkleSection 闪烁星星配置
type TwinkleSection struct {
	Enabled      bool    `yaml:"enabled"`
	Side         string  `yaml:"side"` // left | right | both
	Count        int     `yaml:"count"`
	BandFraction float64 `yaml:"bandFraction"`
	Size         Range   `yaml:"size"`
	Period       Range   `yaml:"period"`
	MinAlpha     float64 `yaml:"minAlpha"`
	Color        string  `yaml:"color"`
}

// DefaultStarfieldConfig 返回与 starfield.DefaultConfig 一致的配置
func DefaultStarfieldConfig() *StarfieldConfig {
	d := starfield.DefaultConfig()
	tw := starfield.DefaultTwinkleConfig()
	return &StarfieldConfig{
		Trail: TrailConfig{
			MaxParticles:   d.MaxParticles,
			Density:        d.Density,
			BaseSpawnRate:  d.BaseSpawnRate,
			Color:          hexOf(d.Color),
			HalfLife:       d.TrailHalfLife,
			MaxTrailLength: d.MaxTrailLength,
			Glow:           Glow{Scale: d.GlowScale, Alpha: d.GlowAlpha},
			Speed:          Range{Min: d.SpeedMin, Max: d.SpeedMax},
			Angle:          Range{Min: d.AngleMin, Max: d.AngleMax},
			Size:           Range{Min: d.SizeMin, Max: d.SizeMax},
			TopEdgeWeight:  d.TopEdgeWeight,
			LifetimeJitter: d.LifetimeJitter,
			MinLifetime:    d.MinLifetime,
			MaxFrameDelta:  d.MaxFrameDelta,
			Narrow: Narrow{
				Width:      d.NarrowViewportWidth,
				CountScale: d.NarrowCountScale,
				RateScale:  d.NarrowRateScale,
			},
		},
		Twinkle: TwinkleSection{
			Enabled:      true,
			Side:         tw.Side.String(),
			Count:        tw.Count,
			BandFraction: tw.BandFraction,
			Size:         Range{Min: tw.SizeMin, Max: tw.SizeMax},
			Period:       Range{Min: tw.PeriodMin, Max: tw.PeriodMax},
			MinAlpha:     tw.MinAlpha,
			Color:        hexOf(tw.Color),
		},
	}
}

// LoadStarfieldConfig 从文件加载星空配置
//
// 参数:
//   - path: 配置文件路径（如 "data/starfield.yaml"）
//
// 返回:
//   - *StarfieldConfig: 加载成功后的配置结构
//   - error: 读取、解析或验证失败时返回错误
func LoadStarfieldConfig(path string) (*StarfieldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read starfield config: %w", err)
	}
	return ParseStarfieldConfig(data)
}

// ParseStarfieldConfig 解析 YAML 数据（用于嵌入资源）
func ParseStarfieldConfig(data []byte) (*StarfieldConfig, error) {
	config := DefaultStarfieldConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse starfield config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid starfield config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
//
// 颜色、侧边名称以及两个效果各自的数值约束都会被检查。
func (c *StarfieldConfig) Validate() error {
	if _, err := c.TrailConfig(); err != nil {
		return err
	}
	if _, err := c.TwinkleConfig(); err != nil {
		return err
	}
	return nil
}

// TrailConfig 转换为 starfield.Config
func (c *StarfieldConfig) TrailConfig() (starfield.Config, error) {
	t := c.Trail
	col, err := parseColor(t.Color)
	if err != nil {
		return starfield.Config{}, fmt.Errorf("trail color: %w", err)
	}

	cfg := starfield.Config{
		MaxParticles:        t.MaxParticles,
		Density:             t.Density,
		BaseSpawnRate:       t.BaseSpawnRate,
		Color:               col,
		TrailHalfLife:       t.HalfLife,
		MaxTrailLength:      t.MaxTrailLength,
		GlowScale:           t.Glow.Scale,
		GlowAlpha:           t.Glow.Alpha,
		SpeedMin:            t.Speed.Min,
		SpeedMax:            t.Speed.Max,
		AngleMin:            t.Angle.Min,
		AngleMax:            t.Angle.Max,
		SizeMin:             t.Size.Min,
		SizeMax:             t.Size.Max,
		TopEdgeWeight:       t.TopEdgeWeight,
		LifetimeJitter:      t.LifetimeJitter,
		MinLifetime:         t.MinLifetime,
		MaxFrameDelta:       t.MaxFrameDelta,
		NarrowViewportWidth: t.Narrow.Width,
		NarrowCountScale:    t.Narrow.CountScale,
		NarrowRateScale:     t.Narrow.RateScale,
	}
	if err := cfg.Validate(); err != nil {
		return starfield.Config{}, fmt.Errorf("trail: %w", err)
	}
	return cfg, nil
}

// TwinkleConfig 转换为 starfield.TwinkleConfig
func (c *StarfieldConfig) TwinkleConfig() (starfield.TwinkleConfig, error) {
	t := c.Twinkle
	side, err := starfield.ParseSide(t.Side)
	if err != nil {
		return starfield.TwinkleConfig{}, fmt.Errorf("twinkle: %w", err)
	}
	col, err := parseColor(t.Color)
	if err != nil {
		return starfield.TwinkleConfig{}, fmt.Errorf("twinkle color: %w", err)
	}

	cfg := starfield.TwinkleConfig{
		Side:         side,
		Count:        t.Count,
		BandFraction: t.BandFraction,
		SizeMin:      t.Size.Min,
		SizeMax:      t.Size.Max,
		PeriodMin:    t.Period.Min,
		PeriodMax:    t.Period.Max,
		MinAlpha:     t.MinAlpha,
		Color:        col,
	}
	if err := cfg.Validate(); err != nil {
		return starfield.TwinkleConfig{}, fmt.Errorf("twinkle: %w", err)
	}
	return cfg, nil
}

// parseColor 解析 "#rrggbb" / "#rgb"，返回不透明颜色
func parseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func hexOf(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 0xff,
		G: float64(c.G) / 0xff,
		B: float64(c.B) / 0xff,
	}.Hex()
}
