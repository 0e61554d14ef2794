package render

import (
	"image/color"
	"math"
	"testing"
)

// TestBuildGradientQuad_AlphaRamp 测试尾部透明、头部不透明
func TestBuildGradientQuad_AlphaRamp(t *testing.T) {
	col := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	quad, ok := buildGradientQuad(0, 0, 100, 0, 2, 1, col)
	if !ok {
		t.Fatal("buildGradientQuad returned !ok for a valid segment")
	}

	// 尾左、头左、尾右、头右
	if quad[0].ColorA != 0 || quad[2].ColorA != 0 {
		t.Errorf("tail alpha = %v/%v, want 0", quad[0].ColorA, quad[2].ColorA)
	}
	if quad[1].ColorA != 1 || quad[3].ColorA != 1 {
		t.Errorf("head alpha = %v/%v, want 1", quad[1].ColorA, quad[3].ColorA)
	}
	if math.Abs(float64(quad[1].ColorG)-128.0/255) > 1e-6 {
		t.Errorf("ColorG = %v, want %v", quad[1].ColorG, 128.0/255)
	}
}

// TestBuildGradientQuad_Geometry 测试矩形沿线段方向展开半个线宽
func TestBuildGradientQuad_Geometry(t *testing.T) {
	tests := []struct {
		name                  string
		x0, y0, x1, y1, width float64
		scale                 float64
	}{
		{"水平线", 0, 0, 100, 0, 2, 1},
		{"对角线", 10, 10, 70, 90, 1.4, 1},
		{"高 DPI", 10, 10, 70, 90, 1.4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quad, ok := buildGradientQuad(tt.x0, tt.y0, tt.x1, tt.y1, tt.width, tt.scale, white)
			if !ok {
				t.Fatal("unexpected !ok")
			}

			// 两侧顶点间距 = width * scale
			w := math.Hypot(float64(quad[0].DstX-quad[2].DstX), float64(quad[0].DstY-quad[2].DstY))
			if math.Abs(w-tt.width*tt.scale) > 1e-3 {
				t.Errorf("quad width = %.4f, want %.4f", w, tt.width*tt.scale)
			}

			// 两侧中点 = 线段端点 * scale
			tailX := float64(quad[0].DstX+quad[2].DstX) / 2
			tailY := float64(quad[0].DstY+quad[2].DstY) / 2
			headX := float64(quad[1].DstX+quad[3].DstX) / 2
			headY := float64(quad[1].DstY+quad[3].DstY) / 2
			if math.Abs(tailX-tt.x0*tt.scale) > 1e-3 || math.Abs(tailY-tt.y0*tt.scale) > 1e-3 {
				t.Errorf("tail midpoint = (%.2f, %.2f)", tailX, tailY)
			}
			if math.Abs(headX-tt.x1*tt.scale) > 1e-3 || math.Abs(headY-tt.y1*tt.scale) > 1e-3 {
				t.Errorf("head midpoint = (%.2f, %.2f)", headX, headY)
			}
		})
	}
}

// TestBuildGradientQuad_Degenerate 测试零长度或零宽度线段
func TestBuildGradientQuad_Degenerate(t *testing.T) {
	if _, ok := buildGradientQuad(5, 5, 5, 5, 1, 1, white); ok {
		t.Error("zero-length segment should be skipped")
	}
	if _, ok := buildGradientQuad(0, 0, 10, 10, 0, 1, white); ok {
		t.Error("zero-width segment should be skipped")
	}
}
