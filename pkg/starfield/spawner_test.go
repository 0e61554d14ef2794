package starfield

import (
	"math"
	"testing"
)

// TestSpawner_AccumulatorCarriesFraction 测试小数累加跨帧保留
func TestSpawner_AccumulatorCarriesFraction(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSpawner(&cfg, newTestRand())

	// 2 个/秒 × 0.2 秒 = 0.4，不触发
	if n := s.Advance(0.2, 2); n != 0 {
		t.Errorf("first Advance = %d, want 0", n)
	}
	if n := s.Advance(0.2, 2); n != 0 {
		t.Errorf("second Advance = %d, want 0", n)
	}
	// 累计 1.2 → 生成 1 个，剩余 0.2
	if n := s.Advance(0.2, 2); n != 1 {
		t.Errorf("third Advance = %d, want 1", n)
	}
	if math.Abs(s.Accumulator()-0.2) > 1e-9 {
		t.Errorf("Accumulator() = %v, want 0.2", s.Accumulator())
	}
}

// TestSpawner_LongFrameSpawnsMultiple 测试长帧一次产生多个生成请求
func TestSpawner_LongFrameSpawnsMultiple(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSpawner(&cfg, newTestRand())

	if n := s.Advance(1.0, 3.5); n != 3 {
		t.Errorf("Advance(1.0, 3.5) = %d, want 3", n)
	}
	if math.Abs(s.Accumulator()-0.5) > 1e-9 {
		t.Errorf("Accumulator() = %v, want 0.5", s.Accumulator())
	}
}

// TestSpawner_ZeroRateDoesNotAdvance 测试速率为 0 时累加器不变
func TestSpawner_ZeroRateDoesNotAdvance(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSpawner(&cfg, newTestRand())
	s.Advance(0.3, 1)

	before := s.Accumulator()
	for i := 0; i < 100; i++ {
		s.Advance(0.1, 0)
		s.Advance(0, 10)
	}
	if s.Accumulator() != before {
		t.Errorf("Accumulator changed from %v to %v", before, s.Accumulator())
	}
}

// TestSpawner_NewParticleOriginOnEdge 测试出生点位于顶边或左边
func TestSpawner_NewParticleOriginOnEdge(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSpawner(&cfg, newTestRand())
	surface := NewSurface(1000, 500, 1)

	top, left := 0, 0
	for i := 0; i < 500; i++ {
		p := s.NewParticle(surface)
		switch {
		case p.Y == 0 && p.X >= 0 && p.X <= 1000:
			top++
		case p.X == 0 && p.Y >= 0 && p.Y <= 500:
			left++
		default:
			t.Fatalf("origin (%.1f, %.1f) is on neither edge", p.X, p.Y)
		}
	}
	if top == 0 || left == 0 {
		t.Errorf("expected both edges to be used, got top=%d left=%d", top, left)
	}
	// TopEdgeWeight=0.65，顶边应占多数
	if top <= left {
		t.Errorf("top edge should be favored: top=%d left=%d", top, left)
	}
}

// TestSpawner_EdgeWeightExtremes 测试权重为 0 / 1 时只使用一条边
func TestSpawner_EdgeWeightExtremes(t *testing.T) {
	surface := NewSurface(800, 600, 1)

	cfg := DefaultConfig()
	cfg.TopEdgeWeight = 1
	s := NewSpawner(&cfg, newTestRand())
	for i := 0; i < 50; i++ {
		if p := s.NewParticle(surface); p.Y != 0 {
			t.Fatalf("weight=1 spawned off the top edge at y=%.2f", p.Y)
		}
	}

	cfg.TopEdgeWeight = 0
	for i := 0; i < 50; i++ {
		if p := s.NewParticle(surface); p.X != 0 {
			t.Fatalf("weight=0 spawned off the left edge at x=%.2f", p.X)
		}
	}
}

// TestSpawner_NewParticleRanges 测试角度、速度、尺寸落在配置范围内
func TestSpawner_NewParticleRanges(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSpawner(&cfg, newTestRand())
	surface := NewSurface(1200, 700, 2)

	for i := 0; i < 200; i++ {
		p := s.NewParticle(surface)
		speed := math.Hypot(p.VX, p.VY)
		if speed < cfg.SpeedMin-1e-9 || speed > cfg.SpeedMax+1e-9 {
			t.Errorf("speed %.2f outside [%.0f, %.0f]", speed, cfg.SpeedMin, cfg.SpeedMax)
		}
		angle := math.Atan2(p.VY, p.VX) * 180 / math.Pi
		if angle < cfg.AngleMin-1e-6 || angle > cfg.AngleMax+1e-6 {
			t.Errorf("angle %.2f outside [%.0f, %.0f]", angle, cfg.AngleMin, cfg.AngleMax)
		}
		if p.Size < cfg.SizeMin || p.Size > cfg.SizeMax {
			t.Errorf("size %.2f outside [%.2f, %.2f]", p.Size, cfg.SizeMin, cfg.SizeMax)
		}
		if p.Age != 0 || p.Active {
			t.Errorf("fresh particle should have age 0 and be inactive until pooled: %+v", p)
		}
	}
}

// TestSpawner_LifetimeFromDiagonal 测试寿命 = 对角线 / 速度（无抖动）
func TestSpawner_LifetimeFromDiagonal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LifetimeJitter = 0
	cfg.SpeedMin, cfg.SpeedMax = 500, 500
	cfg.MinLifetime = 0
	s := NewSpawner(&cfg, newTestRand())

	surface := NewSurface(300, 400, 1) // 对角线 500
	p := s.NewParticle(surface)
	if math.Abs(p.Lifetime-1.0) > 1e-9 {
		t.Errorf("Lifetime = %v, want 1.0", p.Lifetime)
	}
}

// TestSpawner_LifetimeJitterBounds 测试寿命抖动范围
func TestSpawner_LifetimeJitterBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LifetimeJitter = 0.2
	cfg.SpeedMin, cfg.SpeedMax = 500, 500
	cfg.MinLifetime = 0
	s := NewSpawner(&cfg, newTestRand())

	surface := NewSurface(300, 400, 1)
	for i := 0; i < 200; i++ {
		p := s.NewParticle(surface)
		if p.Lifetime < 0.8-1e-9 || p.Lifetime > 1.2+1e-9 {
			t.Fatalf("Lifetime %.4f outside jitter bounds [0.8, 1.2]", p.Lifetime)
		}
	}
}

// TestSpawner_MinLifetime 测试极小画布时寿命下限
func TestSpawner_MinLifetime(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSpawner(&cfg, newTestRand())
	p := s.NewParticle(NewSurface(1, 1, 1))
	if p.Lifetime < cfg.MinLifetime {
		t.Errorf("Lifetime %.3f below MinLifetime %.3f", p.Lifetime, cfg.MinLifetime)
	}
}
