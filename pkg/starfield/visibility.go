package starfield

// Gate 可见性 / 减少动态效果 控制器
//
// 三个相互独立的信号：视口相交比例、文档可见性、系统级“减少动态效果”偏好。
// 任意一个信号都可以暂停动画。尚未上报的信号按“允许”处理，
// 这样在不支持相应 API 的环境下效果退化为始终开启。
type Gate struct {
	intersectionRatio float64
	intersectionKnown bool
	hidden            bool
	reducedMotion     bool
}

// SetIntersectionRatio records the latest viewport intersection ratio (0..1).
func (g *Gate) SetIntersectionRatio(ratio float64) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	g.intersectionRatio = ratio
	g.intersectionKnown = true
}

// SetDocumentHidden records tab/window visibility.
func (g *Gate) SetDocumentHidden(hidden bool) {
	g.hidden = hidden
}

// SetReducedMotion records the reduced-motion preference.
func (g *Gate) SetReducedMotion(reduce bool) {
	g.reducedMotion = reduce
}

// IntersectionRatio returns the last reported ratio, or 1 when never reported.
func (g *Gate) IntersectionRatio() float64 {
	if !g.intersectionKnown {
		return 1
	}
	return g.intersectionRatio
}

// Visible reports whether any part of the element is inside the viewport.
func (g *Gate) Visible() bool {
	return !g.intersectionKnown || g.intersectionRatio > 0
}

// Hidden reports whether the document is hidden.
func (g *Gate) Hidden() bool {
	return g.hidden
}

// ReducedMotion reports the reduced-motion preference.
func (g *Gate) ReducedMotion() bool {
	return g.reducedMotion
}

// Animating 三个信号全部放行时返回 true
func (g *Gate) Animating() bool {
	return g.Visible() && !g.hidden && !g.reducedMotion
}
