package starfield

import (
	"math"
	"testing"
)

// TestParseSide 测试侧边解析
func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"left", SideLeft, false},
		{"RIGHT", SideRight, false},
		{" both ", SideBoth, false},
		{"", SideBoth, false},
		{"top", SideBoth, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSide(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSide(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSide(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestSide_NextCycles 测试侧边循环切换
func TestSide_NextCycles(t *testing.T) {
	s := SideLeft
	seen := []string{}
	for i := 0; i < 4; i++ {
		seen = append(seen, s.String())
		s = s.Next()
	}
	want := []string{"left", "right", "both", "left"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}

// TestTwinkleField_Placement 测试星星只出现在配置的侧边带内
func TestTwinkleField_Placement(t *testing.T) {
	for _, side := range []Side{SideLeft, SideRight, SideBoth} {
		t.Run(side.String(), func(t *testing.T) {
			cfg := DefaultTwinkleConfig()
			cfg.Side = side
			f, err := NewTwinkleField(cfg, newTestRand())
			if err != nil {
				t.Fatalf("NewTwinkleField() error: %v", err)
			}

			left, right := 0, 0
			for _, st := range f.Stars() {
				switch {
				case st.X <= cfg.BandFraction:
					left++
				case st.X >= 1-cfg.BandFraction:
					right++
				default:
					t.Fatalf("star at x=%.3f is outside both bands", st.X)
				}
				if st.Period < cfg.PeriodMin || st.Period > cfg.PeriodMax {
					t.Errorf("period %.2f outside range", st.Period)
				}
			}

			switch side {
			case SideLeft:
				if right != 0 {
					t.Errorf("left-only field has %d stars on the right", right)
				}
			case SideRight:
				if left != 0 {
					t.Errorf("right-only field has %d stars on the left", left)
				}
			case SideBoth:
				if left != cfg.Count/2 || right != cfg.Count/2 {
					t.Errorf("both: left=%d right=%d, want %d each", left, right, cfg.Count/2)
				}
			}
		})
	}
}

// TestTwinkleField_AlphaRange 测试透明度在 [MinAlpha, 1] 之间
func TestTwinkleField_AlphaRange(t *testing.T) {
	cfg := DefaultTwinkleConfig()
	f, err := NewTwinkleField(cfg, newTestRand())
	if err != nil {
		t.Fatalf("NewTwinkleField() error: %v", err)
	}
	surface := NewSurface(1000, 500, 1)
	c := &recordingCanvas{}

	for now := 0.0; now < 8000; now += 50 {
		f.Tick(now, surface, c)
		for i := range f.Stars() {
			a := f.Alpha(i)
			if a < cfg.MinAlpha-1e-9 || a > 1+1e-9 {
				t.Fatalf("alpha %.3f outside [%.2f, 1]", a, cfg.MinAlpha)
			}
		}
	}
}

// TestTwinkleField_ReducedMotionDrawsOnce 测试减少动态效果时只绘制一次静态星星
func TestTwinkleField_ReducedMotionDrawsOnce(t *testing.T) {
	cfg := DefaultTwinkleConfig()
	f, err := NewTwinkleField(cfg, newTestRand())
	if err != nil {
		t.Fatalf("NewTwinkleField() error: %v", err)
	}
	f.Gate().SetReducedMotion(true)
	surface := NewSurface(1000, 500, 1)
	c := &recordingCanvas{}

	for now := 0.0; now < 2000; now += 16 {
		f.Tick(now, surface, c)
	}
	if c.clears != 1 {
		t.Errorf("clears = %d, want 1", c.clears)
	}
	if len(c.circles) != cfg.Count {
		t.Fatalf("circles = %d, want %d", len(c.circles), cfg.Count)
	}
	for _, circle := range c.circles {
		if circle.c.A != cfg.Color.A {
			t.Fatalf("static star alpha = %d, want full %d", circle.c.A, cfg.Color.A)
		}
	}
}

// TestTwinkleField_FrozenWhileHidden 测试隐藏时闪烁时间不推进
func TestTwinkleField_FrozenWhileHidden(t *testing.T) {
	f, err := NewTwinkleField(DefaultTwinkleConfig(), newTestRand())
	if err != nil {
		t.Fatalf("NewTwinkleField() error: %v", err)
	}
	surface := NewSurface(800, 600, 1)
	c := &recordingCanvas{}

	f.Tick(0, surface, c)
	f.Tick(500, surface, c)
	before := f.Alpha(0)

	f.Gate().SetDocumentHidden(true)
	f.Tick(3000, surface, c)
	f.Tick(9000, surface, c)
	f.Gate().SetDocumentHidden(false)
	f.Tick(9000, surface, c)

	if math.Abs(f.Alpha(0)-before) > 1e-9 {
		t.Errorf("alpha moved while hidden: %.4f → %.4f", before, f.Alpha(0))
	}
}

// TestTwinkleConfig_Validate 测试配置验证
func TestTwinkleConfig_Validate(t *testing.T) {
	cfg := DefaultTwinkleConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.BandFraction = 0.8
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for band wider than half the canvas")
	}
}
