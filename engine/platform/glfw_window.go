package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/sprig/engine/core"
	"go.uber.org/zap"
)

var _ core.Window = (*GLFWWindow)(nil)

// GLFWWindow implements core.Window and pushes events to the app via a handler.
type GLFWWindow struct {
	w    *glfw.Window
	onEv func(core.Event)
	log  *zap.Logger

	fullscreen bool
	// windowed geometry restored when leaving fullscreen
	wx, wy, ww, wh int
}

// Must be called on main thread before any GL calls.
func NewGLFWWindow(cfg core.Config, log *zap.Logger, onEvent func(core.Event)) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if log == nil {
		log = zap.NewNop()
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	gw := &GLFWWindow{w: win, onEv: onEvent, log: log}
	gw.wx, gw.wy = win.GetPos()
	gw.ww, gw.wh = win.GetSize()

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		gw.emit(core.EventMouseMove{X: x, Y: y})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		gw.emit(core.EventKey{Key: k, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		gw.emit(core.EventScroll{Xoff: xoff, Yoff: yoff})
	})

	if cfg.Fullscreen {
		gw.SetFullscreen(true)
	}
	log.Debug("window created", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height), zap.Bool("vsync", cfg.VSync))
	return gw, nil
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()                        { g.w.SetShouldClose(true) }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }
func (g *GLFWWindow) Fullscreen() bool                     { return g.fullscreen }

// SetFullscreen switches to the primary monitor's current mode, or back to
// the last windowed geometry.
func (g *GLFWWindow) SetFullscreen(on bool) {
	if on == g.fullscreen {
		return
	}
	if on {
		mon := glfw.GetPrimaryMonitor()
		if mon == nil {
			g.log.Warn("no primary monitor, staying windowed")
			return
		}
		g.wx, g.wy = g.w.GetPos()
		g.ww, g.wh = g.w.GetSize()
		mode := mon.GetVideoMode()
		g.w.SetMonitor(mon, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	} else {
		g.w.SetMonitor(nil, g.wx, g.wy, g.ww, g.wh, 0)
	}
	g.fullscreen = on
	g.log.Debug("fullscreen toggled", zap.Bool("on", on))
}

// Destroy closes the window and terminates GLFW.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

func translateKey(k glfw.Key) core.Key {
	switch k {
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeySpace:
		return core.KeySpace
	case glfw.KeyW:
		return core.KeyW
	case glfw.KeyA:
		return core.KeyA
	case glfw.KeyS:
		return core.KeyS
	case glfw.KeyD:
		return core.KeyD
	case glfw.KeyQ:
		return core.KeyQ
	case glfw.KeyE:
		return core.KeyE
	case glfw.KeyF:
		return core.KeyF
	case glfw.KeyP:
		return core.KeyP
	case glfw.KeyLeft:
		return core.KeyLeft
	case glfw.KeyRight:
		return core.KeyRight
	case glfw.KeyUp:
		return core.KeyUp
	case glfw.KeyDown:
		return core.KeyDown
	default:
		return core.KeyUnknown
	}
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
