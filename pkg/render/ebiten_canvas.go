// Package render provides starfield.Canvas backends: an ebiten offscreen
// image for the desktop viewer and a character grid for terminals.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/gonewx/starlight/pkg/starfield"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// quadIndices 两个三角形组成一个矩形（与顶点顺序 左上、右上、左下、右下 对应）
var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

// EbitenCanvas 基于 ebiten 离屏图像的画布
//
// 离屏图像尺寸 = 缓冲区尺寸（client * DPR），所有传入坐标乘以 DPR 后绘制。
// 上一帧的像素保留在离屏图像中，由 Fade 逐帧擦除，形成拖尾。
type EbitenCanvas struct {
	target  *ebiten.Image
	surface starfield.Surface

	// 1x1 白色纹理，DrawTriangles 通过顶点颜色着色
	whiteImage *ebiten.Image
	whiteSub   *ebiten.Image

	vertices []ebiten.Vertex
}

// NewEbitenCanvas 创建画布并分配缓冲区
func NewEbitenCanvas(s starfield.Surface) *EbitenCanvas {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	c := &EbitenCanvas{
		whiteImage: white,
		// 取中间像素，避免采样到边缘
		whiteSub: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		vertices: make([]ebiten.Vertex, 0, 4),
	}
	c.Resize(s)
	return c
}

// Image 返回离屏图像，由调用方绘制到屏幕上
func (c *EbitenCanvas) Image() *ebiten.Image {
	return c.target
}

// Surface returns the geometry the buffer was last sized for.
func (c *EbitenCanvas) Surface() starfield.Surface {
	return c.surface
}

// Resize 重新分配缓冲区；旧内容被丢弃
func (c *EbitenCanvas) Resize(s starfield.Surface) {
	w, h := s.BufferWidth, s.BufferHeight
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if c.target != nil {
		c.target.Deallocate()
	}
	c.target = ebiten.NewImage(w, h)
	c.surface = s
}

// Dispose 释放缓冲区，之后不能再使用
func (c *EbitenCanvas) Dispose() {
	if c.target != nil {
		c.target.Deallocate()
		c.target = nil
	}
	if c.whiteImage != nil {
		c.whiteImage.Deallocate()
		c.whiteImage = nil
		c.whiteSub = nil
	}
}

// Clear 清空缓冲区
func (c *EbitenCanvas) Clear() {
	c.target.Clear()
}

// Fade 以 destination-out 混合覆盖一层半透明黑色，擦除上一帧 alpha 比例的像素
func (c *EbitenCanvas) Fade(alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	b := c.target.Bounds()
	a := float32(alpha)
	c.vertices = append(c.vertices[:0],
		ebiten.Vertex{DstX: float32(b.Min.X), DstY: float32(b.Min.Y), SrcX: 1, SrcY: 1, ColorA: a},
		ebiten.Vertex{DstX: float32(b.Max.X), DstY: float32(b.Min.Y), SrcX: 2, SrcY: 1, ColorA: a},
		ebiten.Vertex{DstX: float32(b.Min.X), DstY: float32(b.Max.Y), SrcX: 1, SrcY: 2, ColorA: a},
		ebiten.Vertex{DstX: float32(b.Max.X), DstY: float32(b.Max.Y), SrcX: 2, SrcY: 2, ColorA: a},
	)
	op := &ebiten.DrawTrianglesOptions{Blend: ebiten.BlendDestinationOut}
	c.target.DrawTriangles(c.vertices, quadIndices, c.whiteSub, op)
}

// StrokeGradient 绘制从 (x0,y0) 透明到 (x1,y1) 不透明的线段
func (c *EbitenCanvas) StrokeGradient(x0, y0, x1, y1, width float64, col color.NRGBA) {
	quad, ok := buildGradientQuad(x0, y0, x1, y1, width, c.surface.Scale(), col)
	if !ok {
		return
	}
	c.vertices = append(c.vertices[:0], quad[:]...)
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	c.target.DrawTriangles(c.vertices, quadIndices, c.whiteSub, op)
}

// FillCircle 绘制实心圆
func (c *EbitenCanvas) FillCircle(x, y, r float64, col color.NRGBA) {
	if r <= 0 || col.A == 0 {
		return
	}
	scale := c.surface.Scale()
	vector.DrawFilledCircle(c.target, float32(x*scale), float32(y*scale), float32(r*scale), col, true)
}

// buildGradientQuad 构建线段渐变矩形的 4 个顶点
//
// 矩形沿线段方向展开，两侧各偏移 width/2。尾部两个顶点 alpha 为 0，
// 头部两个顶点使用颜色本身的 alpha，GPU 插值得到线性渐变。
//
// 参数:
//   - x0, y0: 尾部（客户端坐标）
//   - x1, y1: 头部（客户端坐标）
//   - width: 线宽（客户端坐标）
//   - scale: DPR
//
// 返回:
//   - 顶点顺序：尾左、头左、尾右、头右；线段长度为 0 时 ok=false
func buildGradientQuad(x0, y0, x1, y1, width, scale float64, col color.NRGBA) (quad [4]ebiten.Vertex, ok bool) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return quad, false
	}

	// 单位法线 * 半宽
	half := width / 2
	nx, ny := -dy/length*half, dx/length*half

	r := float32(col.R) / 0xff
	g := float32(col.G) / 0xff
	b := float32(col.B) / 0xff
	a := float32(col.A) / 0xff

	vertex := func(x, y float64, alpha float32) ebiten.Vertex {
		return ebiten.Vertex{
			DstX:   float32(x * scale),
			DstY:   float32(y * scale),
			SrcX:   1.5,
			SrcY:   1.5,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: alpha,
		}
	}

	quad[0] = vertex(x0+nx, y0+ny, 0)
	quad[1] = vertex(x1+nx, y1+ny, a)
	quad[2] = vertex(x0-nx, y0-ny, 0)
	quad[3] = vertex(x1-nx, y1-ny, a)
	return quad, true
}

var _ starfield.Canvas = (*EbitenCanvas)(nil)
