package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/starlight/pkg/starfield"
)

// 每个终端字符单元对应的客户端像素尺寸
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// intensityRamp 亮度从低到高对应的字符
var intensityRamp = []rune{' ', '.', '·', '+', '*', '✦'}

type ttyCell struct {
	intensity float64
	color     color.NRGBA
}

// TTYCanvas 字符网格画布
//
// 每个单元只保存亮度 (0-1) 和最后一次写入的颜色，Fade 按比例衰减亮度，
// Flush 把亮度映射为字符写入 tcell 屏幕。
type TTYCanvas struct {
	cols, rows int
	cells      []ttyCell
}

// NewTTYCanvas 创建字符画布
func NewTTYCanvas(s starfield.Surface) *TTYCanvas {
	c := &TTYCanvas{}
	c.Resize(s)
	return c
}

// GridSize 返回网格的列数和行数
func (c *TTYCanvas) GridSize() (cols, rows int) {
	return c.cols, c.rows
}

// SurfaceForGrid 计算终端网格对应的客户端尺寸
func SurfaceForGrid(cols, rows int) starfield.Surface {
	return starfield.NewSurface(float64(cols)*CellWidth, float64(rows)*CellHeight, 1)
}

// Resize reallocates the grid. Terminals have no DPR, so only the client size matters.
func (c *TTYCanvas) Resize(s starfield.Surface) {
	c.cols = int(math.Ceil(s.ClientWidth / CellWidth))
	c.rows = int(math.Ceil(s.ClientHeight / CellHeight))
	c.cells = make([]ttyCell, c.cols*c.rows)
}

// Clear 清空全部单元
func (c *TTYCanvas) Clear() {
	for i := range c.cells {
		c.cells[i] = ttyCell{}
	}
}

// Fade 所有单元亮度乘以 (1 - alpha)
func (c *TTYCanvas) Fade(alpha float64) {
	if alpha <= 0 {
		return
	}
	keep := 1 - math.Min(alpha, 1)
	for i := range c.cells {
		c.cells[i].intensity *= keep
	}
}

// StrokeGradient 沿线段按单元采样，亮度从尾部 0 线性增加到头部颜色 alpha
func (c *TTYCanvas) StrokeGradient(x0, y0, x1, y1, width float64, col color.NRGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0)/CellWidth, math.Abs(y1-y0)/CellHeight) * 2))
	if steps < 1 {
		steps = 1
	}
	a := float64(col.A) / 0xff
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.plot(x0+(x1-x0)*t, y0+(y1-y0)*t, a*t, col)
	}
}

// FillCircle 点亮圆心所在单元
func (c *TTYCanvas) FillCircle(x, y, r float64, col color.NRGBA) {
	if r <= 0 {
		return
	}
	c.plot(x, y, float64(col.A)/0xff, col)
}

// Intensity 返回单元亮度；越界返回 0
func (c *TTYCanvas) Intensity(col, row int) float64 {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0
	}
	return c.cells[row*c.cols+col].intensity
}

// plot 写入客户端坐标所在单元，保留较亮的值
func (c *TTYCanvas) plot(x, y, intensity float64, col color.NRGBA) {
	cx := int(math.Floor(x / CellWidth))
	cy := int(math.Floor(y / CellHeight))
	if cx < 0 || cy < 0 || cx >= c.cols || cy >= c.rows {
		return
	}
	cell := &c.cells[cy*c.cols+cx]
	if intensity > cell.intensity {
		cell.intensity = intensity
		cell.color = col
	}
}

// Flush 把网格写入屏幕（不调用 Show）
func (c *TTYCanvas) Flush(screen tcell.Screen) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			cell := c.cells[row*c.cols+col]
			ch := rampRune(cell.intensity)
			style := tcell.StyleDefault
			if ch != ' ' {
				style = style.Foreground(tcell.NewRGBColor(
					int32(float64(cell.color.R)*cell.intensity),
					int32(float64(cell.color.G)*cell.intensity),
					int32(float64(cell.color.B)*cell.intensity),
				))
			}
			screen.SetContent(col, row, ch, nil, style)
		}
	}
}

func rampRune(intensity float64) rune {
	if intensity < 0.04 {
		return intensityRamp[0]
	}
	idx := 1 + int(intensity*float64(len(intensityRamp)-1))
	if idx >= len(intensityRamp) {
		idx = len(intensityRamp) - 1
	}
	return intensityRamp[idx]
}

var _ starfield.Canvas = (*TTYCanvas)(nil)
