package main

import (
	"flag"
	"log"

	"github.com/hubastard/sprig/engine/core"
	glbackend "github.com/hubastard/sprig/engine/gfx/gl"
	"github.com/hubastard/sprig/engine/platform"
	"github.com/hubastard/sprig/engine/profiler"
	"go.uber.org/zap"
)

type App struct {
	sprite *LayerSprite
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 16) // ~64K scope events
	e.PushLayer(a.sprite)
}

func (a *App) OnUpdate(e *core.Engine, dt float64)    {}
func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event)  {}

func (a *App) OnShutdown(e *core.Engine) {
	st := profiler.ReadStats()
	e.Log.Debug("runtime stats",
		zap.Uint64("heap_bytes", st.HeapAlloc),
		zap.Uint64("mallocs", st.Mallocs),
		zap.Int("goroutines", st.Goroutines))
}

func main() {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := loadDemoConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	app := &App{sprite: &LayerSprite{cfg: cfg.Sprite}}

	var win *platform.GLFWWindow
	newWindow := func(cfg core.Config, lg *zap.Logger) (core.Window, error) {
		w, err := platform.NewGLFWWindow(cfg, lg.Named("window"), nil)
		if err != nil {
			return nil, err
		}
		win = w
		return w, nil
	}
	newRenderer := func(w core.Window, cfg core.Config, lg *zap.Logger) (core.Renderer, error) {
		return glbackend.NewRendererGL(w, cfg, lg.Named("gl"))
	}

	err = core.Run(app, cfg.Engine, newWindow, newRenderer)
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := app.sprite.Err(); err != nil {
		log.Fatal(err)
	}
}
