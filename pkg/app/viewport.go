package app

import "math"

// DemoPage 模拟一个可滚动的营销页面：顶部是带星空的 hero 区域，下面是普通内容
//
// 窗口就是浏览器视口。滚动偏移决定 hero 区域与视口的相交比例，
// 和 IntersectionObserver 上报的 intersectionRatio 语义一致。
type DemoPage struct {
	ViewportHeight float64 // 视口高度（客户端像素）
	HeroHeight     float64 // hero 区域高度
	PageHeight     float64 // 页面总高度
	ScrollY        float64 // 当前滚动偏移
}

// NewDemoPage 创建 hero 占满首屏、总高度为 pages 屏的页面
func NewDemoPage(viewportHeight, pages float64) *DemoPage {
	if pages < 1 {
		pages = 1
	}
	return &DemoPage{
		ViewportHeight: viewportHeight,
		HeroHeight:     viewportHeight,
		PageHeight:     viewportHeight * pages,
	}
}

// Resize 视口高度变化时，hero 跟随视口高度，页面高度按比例缩放
func (p *DemoPage) Resize(viewportHeight float64) {
	if p.ViewportHeight > 0 {
		p.PageHeight *= viewportHeight / p.ViewportHeight
	} else {
		p.PageHeight = viewportHeight
	}
	p.ViewportHeight = viewportHeight
	p.HeroHeight = viewportHeight
	p.ScrollBy(0)
}

// ScrollBy 滚动并钳制到 [0, PageHeight-ViewportHeight]
func (p *DemoPage) ScrollBy(dy float64) {
	maxScroll := math.Max(0, p.PageHeight-p.ViewportHeight)
	p.ScrollY = math.Min(math.Max(p.ScrollY+dy, 0), maxScroll)
}

// IntersectionRatio hero 区域可见部分占其自身高度的比例
func (p *DemoPage) IntersectionRatio() float64 {
	if p.HeroHeight <= 0 {
		return 0
	}
	top := math.Max(0, p.ScrollY)
	bottom := math.Min(p.HeroHeight, p.ScrollY+p.ViewportHeight)
	if bottom <= top {
		return 0
	}
	return (bottom - top) / p.HeroHeight
}
