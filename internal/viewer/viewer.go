// Package viewer shows a generated asteroid in an SDL2/OpenGL window.
//
// Controls: drag to orbit, wheel to zoom, R for a new seed, W to toggle
// wireframe, S for a screenshot, Esc to quit.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/rockforge/internal/config"
	"github.com/Faultbox/rockforge/internal/forge"
	"github.com/Faultbox/rockforge/internal/logger"
	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// Viewer owns the window, the renderer and the asteroid on display.
type Viewer struct {
	cfg    config.ViewerConfig
	rock   *forge.Asteroid
	win    *window
	render *rockRenderer
	cam    *orbitCamera
	shots  *screenshots
	log    *zap.Logger

	spin      float32 // radians
	wireframe bool
	dragging  bool
	running   bool
	capture   bool

	// pending is a result not yet uploaded to the GPU.
	pending *asteroid.Result
}

// New opens the window and generates the first asteroid.
func New(cfg config.ViewerConfig, rock *forge.Asteroid) (*Viewer, error) {
	v := &Viewer{
		cfg:       cfg,
		rock:      rock,
		cam:       newOrbitCamera(),
		shots:     newScreenshots(cfg.ScreenshotDir),
		log:       logger.Named("viewer"),
		wireframe: cfg.Wireframe,
	}

	var err error
	v.win, err = newWindow(windowConfig{
		Title:      "rockview",
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	}, v.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.render, err = newRockRenderer()
	if err != nil {
		v.win.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	rock.OnGenerated(func(res *asteroid.Result) { v.pending = res })
	if _, err := rock.Generate(); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to generate asteroid: %w", err)
	}
	return v, nil
}

// Run drives the frame loop until the window closes or Esc is pressed.
func (v *Viewer) Run() error {
	v.running = true
	last := time.Now()

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		v.pollEvents()

		if v.pending != nil {
			v.show(v.pending)
			v.pending = nil
		}

		v.spin += mgl32.DegToRad(v.cfg.RotationSpeed) * dt
		width, height := v.win.DrawableSize()
		viewProj := v.cam.Projection(width, height).Mul4(v.cam.View())
		v.render.Draw(viewProj, mgl32.HomogRotate3DY(v.spin), width, height, v.wireframe)
		if v.capture {
			v.capture = false
			v.screenshot(width, height)
		}
		v.win.SwapBuffers()
	}
	return nil
}

func (v *Viewer) show(res *asteroid.Result) {
	v.render.Upload(&res.Mesh)

	size := res.Mesh.Bounds().Size()
	extent := float32(max(size[0], size[1], size[2]) / 2)
	v.cam.Frame(extent)
	v.win.SetTitle(windowTitle(res))
}

func (v *Viewer) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			v.running = false

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				v.handleKey(e.Keysym.Scancode)
			}

		case *sdl.MouseButtonEvent:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			}

		case *sdl.MouseMotionEvent:
			if v.dragging {
				v.cam.Drag(float32(e.XRel), float32(e.YRel))
			}

		case *sdl.MouseWheelEvent:
			v.cam.Zoom(float32(e.Y))
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_W:
		v.wireframe = !v.wireframe
		v.log.Debug("wireframe", zap.Bool("enabled", v.wireframe))
	case sdl.SCANCODE_S:
		v.capture = true
	case sdl.SCANCODE_R:
		if _, err := v.rock.Regenerate(); err != nil {
			v.log.Error("regenerate", zap.Error(err))
		}
	}
}

// screenshot reads back the frame just drawn.
func (v *Viewer) screenshot(width, height int32) {
	pixels := readPixels(width, height)
	var seed int32
	if s, ok := v.rock.Stats(); ok {
		seed = s.GlobalSeed
	}
	path, err := v.shots.save(pixels, int(width), int(height), seed)
	if err != nil {
		v.log.Error("screenshot", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GL and SDL resources.
func (v *Viewer) Close() {
	if v.render != nil {
		v.render.Close()
	}
	if v.win != nil {
		v.win.Close()
	}
}
