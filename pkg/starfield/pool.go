package starfield

import "github.com/gonewx/starlight/pkg/utils"

// Particle 单个流星（池内复用的槽位）
//
// 失活后字段保留最后一次的值（包括 Age），直到槽位被重新激活。
type Particle struct {
	X, Y     float64 // 画布坐标（CSS 像素）
	VX, VY   float64 // 速度（像素/秒），生命周期内不变
	Age      float64 // 已存活时间（秒）
	Lifetime float64 // 总寿命（秒）
	Size     float64 // 头部半径（像素）
	Active   bool
}

// LifeFraction returns Age/Lifetime clamped to [0, 1].
func (p *Particle) LifeFraction() float64 {
	if p.Lifetime <= 0 {
		return 1
	}
	return utils.Clamp01(p.Age / p.Lifetime)
}

// Expired reports whether the particle has outlived its lifetime.
func (p *Particle) Expired() bool {
	return p.Age > p.Lifetime
}

// Pool 固定容量的粒子池
//
// 所有槽位在 NewPool 时一次性分配，之后不再增长。
type Pool struct {
	slots  []Particle
	active int
}

// NewPool allocates capacity inactive slots.
func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{slots: make([]Particle, capacity)}
}

// Cap returns the fixed slot count.
func (p *Pool) Cap() int {
	return len(p.slots)
}

// ActiveCount returns the number of occupied slots.
func (p *Pool) ActiveCount() int {
	return p.active
}

// FirstInactive 线性扫描第一个空闲槽位，池满时返回 -1
func (p *Pool) FirstInactive() int {
	for i := range p.slots {
		if !p.slots[i].Active {
			return i
		}
	}
	return -1
}

// Activate places part into slot i. It refuses occupied or out-of-range slots.
func (p *Pool) Activate(i int, part Particle) bool {
	if i < 0 || i >= len(p.slots) || p.slots[i].Active {
		return false
	}
	part.Active = true
	p.slots[i] = part
	p.active++
	return true
}

// Deactivate frees slot i. Returns false if the slot was already free.
func (p *Pool) Deactivate(i int) bool {
	if i < 0 || i >= len(p.slots) || !p.slots[i].Active {
		return false
	}
	p.slots[i].Active = false
	p.active--
	return true
}

// Slot returns a pointer into the pool. Only the stepper mutates through it.
func (p *Pool) Slot(i int) *Particle {
	return &p.slots[i]
}

// Slots returns a copy of every slot.
func (p *Pool) Slots() []Particle {
	out := make([]Particle, len(p.slots))
	copy(out, p.slots)
	return out
}

// Reset deactivates every slot without reallocating.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = Particle{}
	}
	p.active = 0
}
