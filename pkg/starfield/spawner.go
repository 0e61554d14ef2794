package starfield

import (
	"math"
	"math/rand"
)

// Spawner 将连续的生成速率转换为离散的生成事件
//
// 累加器每帧增加 rate*dt，每跨过 1.0 产生一次生成请求。
// 一个很长的帧可能产生多次请求。
type Spawner struct {
	cfg         *Config
	rng         *rand.Rand
	accumulator float64
}

// NewSpawner creates a spawner reading tuning from cfg.
func NewSpawner(cfg *Config, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

// Accumulator returns the fractional carry.
func (s *Spawner) Accumulator() float64 {
	return s.accumulator
}

// Reset zeroes the accumulator.
func (s *Spawner) Reset() {
	s.accumulator = 0
}

// Advance adds rate*dt to the accumulator and returns how many whole spawns are due.
// A non-positive rate or dt leaves the accumulator untouched.
func (s *Spawner) Advance(dt, rate float64) int {
	if rate <= 0 || dt <= 0 {
		return 0
	}
	s.accumulator += rate * dt
	n := 0
	for s.accumulator >= 1 {
		s.accumulator--
		n++
	}
	return n
}

// NewParticle 生成一个带随机属性的新粒子
//
// 出生点按 TopEdgeWeight 在顶边和左边之间选择；寿命由画布对角线长度除以速度
// 得到，保证粒子在消失前能横穿可视区域，再叠加抖动。
func (s *Spawner) NewParticle(surface Surface) Particle {
	cfg := s.cfg
	w, h := surface.ClientWidth, surface.ClientHeight

	var x, y float64
	if s.rng.Float64() < cfg.TopEdgeWeight {
		x, y = s.rng.Float64()*w, 0
	} else {
		x, y = 0, s.rng.Float64()*h
	}

	angle := randomInRange(s.rng, cfg.AngleMin, cfg.AngleMax) * math.Pi / 180
	speed := randomInRange(s.rng, cfg.SpeedMin, cfg.SpeedMax)

	lifetime := surface.Diagonal() / speed
	lifetime *= 1 + cfg.LifetimeJitter*(2*s.rng.Float64()-1)
	if lifetime < cfg.MinLifetime {
		lifetime = cfg.MinLifetime
	}

	return Particle{
		X:        x,
		Y:        y,
		VX:       speed * math.Cos(angle),
		VY:       speed * math.Sin(angle),
		Lifetime: lifetime,
		Size:     randomInRange(s.rng, cfg.SizeMin, cfg.SizeMax),
	}
}

func randomInRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
