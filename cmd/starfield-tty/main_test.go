package main

import (
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/starlight/pkg/starfield"
)

func newTestViewer(t *testing.T) (*viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	v, err := newViewer(screen, starfield.DefaultConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("newViewer() error: %v", err)
	}
	return v, screen
}

// TestViewer_GridIsNarrowViewport 80x24 终端对应 640px 宽，按窄屏缩放容量
func TestViewer_GridIsNarrowViewport(t *testing.T) {
	v, _ := newTestViewer(t)
	want := starfield.DefaultConfig().Capacity(640)
	if v.sim.Pool().Cap() != want {
		t.Errorf("capacity = %d, want %d", v.sim.Pool().Cap(), want)
	}
}

// TestViewer_KeyBindings 测试按键切换门控与密度
func TestViewer_KeyBindings(t *testing.T) {
	v, _ := newTestViewer(t)

	if !v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone)) {
		t.Fatal("'m' should not quit")
	}
	if !v.sim.Gate().ReducedMotion() {
		t.Error("'m' should enable reduced motion")
	}

	v.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if !v.sim.Gate().Hidden() {
		t.Error("space should mark the document hidden")
	}

	before := v.sim.Config().Density
	v.handleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	if v.sim.Config().Density != before+0.5 {
		t.Errorf("density = %v, want %v", v.sim.Config().Density, before+0.5)
	}
	for i := 0; i < 10; i++ {
		v.handleEvent(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone))
	}
	if v.sim.Config().Density != 0 {
		t.Errorf("density = %v, want floor 0", v.sim.Config().Density)
	}

	if v.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("'q' should quit")
	}
	if v.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Escape should quit")
	}
}

// TestViewer_DrawWritesStatusLine 测试状态栏写入最后一行
func TestViewer_DrawWritesStatusLine(t *testing.T) {
	v, screen := newTestViewer(t)
	v.draw()

	r, _, _, _ := screen.GetContent(1, 23)
	if r != 'a' { // " active ..."
		t.Errorf("status line starts with %q, want 'a'", r)
	}
}
