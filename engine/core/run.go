package core

import (
	"runtime"
	"time"

	"github.com/hubastard/sprig/engine/logging"
	"github.com/hubastard/sprig/engine/profiler"
	"go.uber.org/zap"
)

// PushLayer attaches l and puts it on top of the stack.
func (e *Engine) PushLayer(l Layer) {
	l.OnAttach(e)
	e.Layers.Push(l)
}

// Run wires the platform window + renderer and executes the main loop.
// The calling goroutine is locked to its OS thread for the whole run:
// every GL call, including sprite updates made from the App, happens there.
func Run(app App, cfg Config, newWindow func(Config, *zap.Logger) (Window, error), newRenderer func(Window, Config, *zap.Logger) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := cfg.Validate(); err != nil {
		return err
	}
	lg, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	win, err := newWindow(cfg, lg)
	if err != nil {
		return err
	}

	rend, err := newRenderer(win, cfg, lg)
	if err != nil {
		return err
	}
	defer rend.Shutdown()

	w, h := win.FramebufferSize()
	rend.Resize(w, h)
	lg.Info("renderer ready",
		zap.String("vendor", rend.GPUVendor()),
		zap.String("renderer", rend.GPURenderer()),
		zap.String("version", rend.GPUVersion()),
		zap.Int("width", w), zap.Int("height", h))

	eng := &Engine{
		Window:   win,
		Renderer: rend,
		Input:    NewInput(),
		Layers:   &LayerStack{},
		Log:      lg,
		start:    time.Now(),
	}
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		app.OnEvent(eng, ev)
		eng.Layers.ForEachReverse(func(l Layer) bool { return l.OnEvent(eng, ev) })
		switch e := ev.(type) {
		case EventResize:
			fw, fh := win.FramebufferSize()
			if fw < 1 || fh < 1 {
				return
			}
			rend.Resize(fw, fh)
		case EventCloseRequested:
			win.RequestClose()
		case EventKey:
			if e.Down && e.Key == KeyF {
				win.SetFullscreen(!win.Fullscreen())
			}
		}
	})

	app.OnStart(eng)

	// Fixed-timestep with interpolation
	tick := time.Second / time.Duration(cfg.TickRate)
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = cfg.ClearColor
		maxStep = 10 // prevent spiral of death
		frames  int
	)

	for !win.ShouldClose() {
		now := time.Now()
		frame := now.Sub(prev)
		prev = now
		accum += frame

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		// Run fixed updates
		endUpdate := profiler.Start("core.Run.update")
		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			app.OnUpdate(eng, dt)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			eng.Input.EndFrame()
			accum -= tick
			steps++
		}
		endUpdate()
		// Interpolation factor for rendering
		alpha := float64(accum) / float64(tick)

		// Render
		endRender := profiler.Start("core.Run.render")
		rend.Clear(clear[0], clear[1], clear[2], clear[3])
		app.OnRender(eng, alpha)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		endRender()

		// Present
		win.SwapBuffers()
		frames++
	}

	for {
		l, ok := eng.Layers.Pop()
		if !ok {
			break
		}
		l.OnDetach(eng)
	}
	app.OnShutdown(eng)
	lg.Info("engine exit", zap.Int("frames", frames), zap.Duration("uptime", eng.Uptime()))
	return nil
}
