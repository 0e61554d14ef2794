// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragInfo 拖拽信息
type DragInfo struct {
	State DragState
	// StartX, StartY 拖拽起始位置（设备像素）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置（设备像素）
	CurrentX, CurrentY int
	// TouchID 当前跟踪的触摸ID（-1 表示鼠标）
	TouchID      ebiten.TouchID
	IsTouchInput bool
}

// pointerSample 一帧的指针输入快照
type pointerSample struct {
	justPressed bool
	released    bool
	x, y        int
	touchID     ebiten.TouchID
	isTouch     bool
}

// DragManager 跟踪鼠标或单指的拖拽，用于拖动滚动页面
//
// 每帧调用一次 Update，然后读取 FrameDelta 得到本帧的位移。
type DragManager struct {
	info  DragInfo
	lastX int
	lastY int
	dx    int
	dy    int
}

// NewDragManager 创建拖拽管理器
func NewDragManager() *DragManager {
	dm := &DragManager{}
	dm.Reset()
	return dm
}

// Update 读取 ebiten 输入并推进状态（每帧调用一次）
func (dm *DragManager) Update() {
	dm.advance(dm.sample())
}

// sample 优先检测触摸，其次鼠标左键
func (dm *DragManager) sample() pointerSample {
	if dm.info.State == DragStateNone {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			x, y := ebiten.TouchPosition(ids[0])
			return pointerSample{justPressed: true, x: x, y: y, touchID: ids[0], isTouch: true}
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			return pointerSample{justPressed: true, x: x, y: y, touchID: -1}
		}
		return pointerSample{touchID: -1}
	}

	if dm.info.IsTouchInput {
		for _, id := range ebiten.AppendTouchIDs(nil) {
			if id == dm.info.TouchID {
				x, y := ebiten.TouchPosition(id)
				return pointerSample{x: x, y: y, touchID: id, isTouch: true}
			}
		}
		return pointerSample{released: true, x: dm.lastX, y: dm.lastY, touchID: dm.info.TouchID, isTouch: true}
	}

	x, y := ebiten.CursorPosition()
	return pointerSample{released: !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x: x, y: y, touchID: -1}
}

// advance 根据一帧的输入快照推进状态机
func (dm *DragManager) advance(s pointerSample) {
	dm.dx, dm.dy = 0, 0

	switch dm.info.State {
	case DragStateNone:
		if !s.justPressed {
			return
		}
		dm.info = DragInfo{
			State:        DragStateStarted,
			StartX:       s.x,
			StartY:       s.y,
			CurrentX:     s.x,
			CurrentY:     s.y,
			TouchID:      s.touchID,
			IsTouchInput: s.isTouch,
		}
		dm.lastX, dm.lastY = s.x, s.y

	case DragStateStarted, DragStateDragging:
		if s.released {
			dm.info.State = DragStateEnded
			return
		}
		dm.info.State = DragStateDragging
		dm.info.CurrentX, dm.info.CurrentY = s.x, s.y
		dm.dx, dm.dy = s.x-dm.lastX, s.y-dm.lastY
		dm.lastX, dm.lastY = s.x, s.y

	case DragStateEnded:
		// 结束状态只持续一帧
		dm.Reset()
	}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
	dm.lastX, dm.lastY = 0, 0
	dm.dx, dm.dy = 0, 0
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// GetDragDistance 获取拖拽距离（从起点到当前位置）
func (dm *DragManager) GetDragDistance() (dx, dy int) {
	return dm.info.CurrentX - dm.info.StartX, dm.info.CurrentY - dm.info.StartY
}

// FrameDelta 本帧的位移
func (dm *DragManager) FrameDelta() (dx, dy int) {
	return dm.dx, dm.dy
}
