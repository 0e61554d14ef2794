package starfield

import "testing"

// TestGate_DefaultsToAnimating 测试未上报任何信号时默认开启
func TestGate_DefaultsToAnimating(t *testing.T) {
	var g Gate
	if !g.Animating() {
		t.Error("zero Gate should animate")
	}
	if g.IntersectionRatio() != 1 {
		t.Errorf("IntersectionRatio() = %v, want 1 before any report", g.IntersectionRatio())
	}
}

// TestGate_AnySignalSuppresses 测试任意一个信号都能暂停动画
func TestGate_AnySignalSuppresses(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		hidden  bool
		reduced bool
		want    bool
	}{
		{"全部放行", 0.3, false, false, true},
		{"滚出视口", 0, false, false, false},
		{"标签页隐藏", 1, true, false, false},
		{"减少动态效果", 1, false, true, false},
		{"全部阻止", 0, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Gate
			g.SetIntersectionRatio(tt.ratio)
			g.SetDocumentHidden(tt.hidden)
			g.SetReducedMotion(tt.reduced)
			if got := g.Animating(); got != tt.want {
				t.Errorf("Animating() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGate_RatioClamped 测试相交比例被钳制到 [0, 1]
func TestGate_RatioClamped(t *testing.T) {
	var g Gate
	g.SetIntersectionRatio(-0.5)
	if g.Visible() {
		t.Error("negative ratio should count as not visible")
	}
	g.SetIntersectionRatio(7)
	if g.IntersectionRatio() != 1 {
		t.Errorf("IntersectionRatio() = %v, want 1", g.IntersectionRatio())
	}
}
