// Package main renders the shooting-star simulation in a terminal.
//
// Each character cell stands for an 8x16 client-pixel block, so an 80x24
// terminal behaves like a 640x384 hero section (a narrow viewport).
//
// Usage:
//
//	go run ./cmd/starfield-tty [flags]
//
// Controls:
//
//	m        - toggle reduced motion
//	space    - toggle document hidden
//	+ / -    - adjust density
//	q/Escape - quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/starlight/pkg/config"
	"github.com/gonewx/starlight/pkg/render"
	"github.com/gonewx/starlight/pkg/starfield"
)

var (
	configFlag  = flag.String("config", "", "Path to a starfield YAML config (default: built-in defaults)")
	densityFlag = flag.Float64("density", 0, "Override spawn density")
	reducedFlag = flag.Bool("reduced-motion", false, "Start with reduced motion enabled")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = time based)")
	fpsFlag     = flag.Int("fps", 30, "Frames per second")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging to stderr (default off)")
)

type viewer struct {
	screen tcell.Screen
	sim    *starfield.Simulation
	canvas *render.TTYCanvas
	start  time.Time
}

func newViewer(screen tcell.Screen, cfg starfield.Config, rng *rand.Rand) (*viewer, error) {
	cols, rows := screen.Size()
	surface := render.SurfaceForGrid(cols, rows)
	sim, err := starfield.New(cfg, surface, rng)
	if err != nil {
		return nil, err
	}
	return &viewer{
		screen: screen,
		sim:    sim,
		canvas: render.NewTTYCanvas(surface),
		start:  time.Now(),
	}, nil
}

// handleEvent returns false when the viewer should exit.
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		gate := v.sim.Gate()
		switch ev.Rune() {
		case 'q':
			return false
		case 'm':
			gate.SetReducedMotion(!gate.ReducedMotion())
		case ' ':
			gate.SetDocumentHidden(!gate.Hidden())
		case '+', '=':
			v.adjustDensity(0.5)
		case '-':
			v.adjustDensity(-0.5)
		}

	case *tcell.EventResize:
		cols, rows := v.screen.Size()
		s := render.SurfaceForGrid(cols, rows)
		v.sim.Resize(s.ClientWidth, s.ClientHeight, 1, v.canvas)
		v.screen.Sync()
	}
	return true
}

func (v *viewer) adjustDensity(delta float64) {
	cfg := v.sim.Config()
	cfg.Density += delta
	if cfg.Density < 0 {
		cfg.Density = 0
	}
	if err := v.sim.Reconfigure(cfg); err != nil {
		log.Printf("[StarfieldTTY] reconfigure failed: %v", err)
	}
}

func (v *viewer) draw() {
	now := float64(time.Since(v.start)) / float64(time.Millisecond)
	v.sim.Tick(now, v.canvas)

	v.screen.Clear()
	v.canvas.Flush(v.screen)

	stats := v.sim.Stats()
	gate := v.sim.Gate()
	status := fmt.Sprintf(" active %d/%d  spawned %d  density %.1f  reduced %v  hidden %v  [m] [space] [+/-] [q] ",
		v.sim.Pool().ActiveCount(), v.sim.Pool().Cap(), stats.Spawned, v.sim.Config().Density,
		gate.ReducedMotion(), gate.Hidden())
	_, rows := v.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, r := range status {
		v.screen.SetContent(i, rows-1, r, nil, style)
	}
	v.screen.Show()
}

func (v *viewer) run(fps int) {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !v.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.draw()
		}
	}
}

func loadConfig() (starfield.Config, error) {
	cfg := starfield.DefaultConfig()
	if *configFlag != "" {
		fileConfig, err := config.LoadStarfieldConfig(*configFlag)
		if err != nil {
			return cfg, err
		}
		if cfg, err = fileConfig.TrailConfig(); err != nil {
			return cfg, err
		}
	}
	if *densityFlag > 0 {
		cfg.Density = *densityFlag
	}
	// 终端单元很大，拖尾和头部按单元采样，不需要光晕
	cfg.GlowScale = 0
	return cfg, nil
}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	v, err := newViewer(screen, cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	v.sim.Gate().SetReducedMotion(*reducedFlag)

	v.run(*fpsFlag)
	screen.Fini()
}
