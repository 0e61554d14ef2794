package starfield

import (
	"image/color"
	"math/rand"
)

// recordingCanvas 记录绘制调用的测试画布
type recordingCanvas struct {
	resizes []Surface
	clears  int
	fades   []float64
	strokes []strokeCall
	circles []circleCall
}

type strokeCall struct {
	x0, y0, x1, y1, width float64
	c                     color.NRGBA
}

type circleCall struct {
	x, y, r float64
	c       color.NRGBA
}

func (r *recordingCanvas) Resize(s Surface) { r.resizes = append(r.resizes, s) }
func (r *recordingCanvas) Clear()           { r.clears++ }
func (r *recordingCanvas) Fade(alpha float64) {
	r.fades = append(r.fades, alpha)
}
func (r *recordingCanvas) StrokeGradient(x0, y0, x1, y1, width float64, c color.NRGBA) {
	r.strokes = append(r.strokes, strokeCall{x0, y0, x1, y1, width, c})
}
func (r *recordingCanvas) FillCircle(x, y, radius float64, c color.NRGBA) {
	r.circles = append(r.circles, circleCall{x, y, radius, c})
}

func (r *recordingCanvas) reset() {
	*r = recordingCanvas{}
}

// newTestRand 固定种子的随机源
func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// tickFor 以固定步长推进模拟，返回结束时的时间戳（毫秒）
func tickFor(sim *Simulation, c Canvas, startMs, durationMs, stepMs float64) float64 {
	now := startMs
	for now <= startMs+durationMs {
		sim.Tick(now, c)
		now += stepMs
	}
	return now
}
