package starfield

import (
	"image/color"
	"math"
)

// Surface 画布尺寸状态
//
// ClientWidth/ClientHeight 是布局尺寸（CSS 像素），BufferWidth/BufferHeight 是
// 实际像素缓冲区尺寸 = client * DPR。绘制变换的缩放系数始终等于 DPR。
type Surface struct {
	ClientWidth  float64
	ClientHeight float64
	DPR          float64

	BufferWidth  int
	BufferHeight int
}

// NewSurface builds a surface and computes its buffer size.
func NewSurface(clientWidth, clientHeight, dpr float64) Surface {
	var s Surface
	s.Resize(clientWidth, clientHeight, dpr)
	return s
}

// Resize updates the client size and device pixel ratio.
// It reports whether the pixel buffer or transform changed.
func (s *Surface) Resize(clientWidth, clientHeight, dpr float64) bool {
	if dpr <= 0 {
		dpr = 1
	}
	if clientWidth < 0 {
		clientWidth = 0
	}
	if clientHeight < 0 {
		clientHeight = 0
	}
	bw := int(math.Round(clientWidth * dpr))
	bh := int(math.Round(clientHeight * dpr))
	changed := bw != s.BufferWidth || bh != s.BufferHeight || dpr != s.DPR ||
		clientWidth != s.ClientWidth || clientHeight != s.ClientHeight

	s.ClientWidth = clientWidth
	s.ClientHeight = clientHeight
	s.DPR = dpr
	s.BufferWidth = bw
	s.BufferHeight = bh
	return changed
}

// Scale is the drawing transform scale (always the device pixel ratio).
func (s Surface) Scale() float64 {
	return s.DPR
}

// Diagonal returns the client-space diagonal length.
func (s Surface) Diagonal() float64 {
	return math.Hypot(s.ClientWidth, s.ClientHeight)
}

// Canvas 绘制目标
//
// 所有坐标都是客户端坐标（CSS 像素），由实现负责乘以 DPR。
type Canvas interface {
	// Resize reallocates the pixel buffer and resets the transform to the surface scale.
	Resize(s Surface)
	// Clear erases every pixel.
	Clear()
	// Fade composites a translucent black layer over the whole surface,
	// removing alpha of the previous frame's pixels.
	Fade(alpha float64)
	// StrokeGradient draws a line transparent at (x0, y0) and c at (x1, y1).
	StrokeGradient(x0, y0, x1, y1, width float64, c color.NRGBA)
	// FillCircle draws a solid disc.
	FillCircle(x, y, r float64, c color.NRGBA)
}
