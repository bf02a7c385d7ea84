package main

import (
	"fmt"

	"github.com/hubastard/sprig/engine/assets"
	"github.com/hubastard/sprig/engine/core"
	"github.com/hubastard/sprig/engine/gfx/sprite"
	"github.com/hubastard/sprig/engine/gfx/spritesheet"
	"github.com/hubastard/sprig/engine/profiler"
	"github.com/hubastard/sprig/engine/scene"
	"go.uber.org/zap"
)

// ------- Sprite layer: one animated sprite driven by the keyboard -------
type LayerSprite struct {
	cfg  spriteConfig
	pipe core.Pipeline
	spr  *sprite.Sprite
	anim *spritesheet.Animation
	ctrl *scene.PoseController
	done bool // non-looping animation reached its last frame
	err  error
}

// Err is the setup error that made the layer close the window, if any.
func (l *LayerSprite) Err() error { return l.err }

func (l *LayerSprite) OnAttach(e *core.Engine) {
	if err := l.setup(e); err != nil {
		l.err = err
		e.Log.Error("sprite layer setup failed", zap.Error(err))
		e.Window.RequestClose()
	}
}

func (l *LayerSprite) setup(e *core.Engine) error {
	vs, err := assets.LoadShader(l.cfg.ShaderDir, assets.SpriteVertexShader)
	if err != nil {
		return err
	}
	fs, err := assets.LoadShader(l.cfg.ShaderDir, assets.SpriteFragmentShader)
	if err != nil {
		return err
	}
	texRect, err := l.cfg.texRect()
	if err != nil {
		return err
	}
	pipe, err := e.Renderer.CreatePipeline(core.PipelineDesc{
		VertexSource:   vs,
		FragmentSource: fs,
		Blend:          true,
	})
	if err != nil {
		return fmt.Errorf("sprite pipeline: %w", err)
	}

	spr, err := sprite.New(e.Renderer, l.cfg.Image, pipe, texRect, l.cfg.grid(),
		sprite.WithPose(l.cfg.Pose.update()),
		sprite.WithTextureFilter("linear", l.cfg.Filter),
		sprite.WithLogger(e.Log.Named("sprite")),
	)
	if err != nil {
		e.Renderer.DeletePipeline(pipe)
		return err
	}
	l.pipe, l.spr = pipe, spr

	l.anim = spritesheet.NewAnimation(spr.Layout(), l.cfg.FPS)
	l.anim.Loop = l.cfg.Loop
	l.ctrl = scene.NewPoseController(spr)

	e.Log.Info("sprite ready", zap.String("image", l.cfg.Image), zap.Int("frames", spr.Frames()))
	return nil
}

func (l *LayerSprite) OnDetach(e *core.Engine) {
	if l.spr != nil {
		if err := l.spr.Close(); err != nil {
			e.Log.Warn("close sprite", zap.Error(err))
		}
		l.spr = nil
	}
	if l.pipe != nil {
		e.Renderer.DeletePipeline(l.pipe)
		l.pipe = nil
	}
}

func (l *LayerSprite) OnUpdate(e *core.Engine, dt float64) {
	if e.Input.IsKeyDown(core.KeyEscape) {
		e.Window.RequestClose()
	}
	if l.spr == nil {
		return
	}
	defer profiler.Start("LayerSprite.OnUpdate")()

	if l.ctrl.Update(e.Input, float32(dt)) {
		keepOnScreen(l.spr)
	}

	if e.Input.WasPressed(core.KeySpace) {
		l.anim.Reset()
		l.done = false
	}
	if l.cfg.FPS > 0 {
		l.spr.SetAnimationStep(l.anim.Advance(dt))
		if l.anim.Done() && !l.done {
			l.done = true
			e.Log.Debug("animation finished", zap.Int("step", l.spr.AnimationStep()))
		}
	}
}

func (l *LayerSprite) OnRender(e *core.Engine, alpha float64) {
	if l.spr == nil {
		return
	}
	defer profiler.Start("LayerSprite.OnRender")()
	l.spr.Draw()
}

func (l *LayerSprite) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down || k.Key != core.KeyP || k.Mods&core.ModCtrl == 0 {
		return false
	}
	if !profiler.Enabled {
		e.Log.Info("profiler disabled, build with -tags profile")
		return true
	}
	path, err := profiler.OpenProfilerGraph()
	if err != nil {
		e.Log.Warn("profiler dump", zap.String("path", path), zap.Error(err))
	} else {
		e.Log.Info("speedscope dump", zap.String("path", path))
	}
	return true
}

// keepOnScreen moves s back inside clip space [-1,1] when a corner left it.
// A sprite wider than the screen is pinned to the left/bottom edge.
func keepOnScreen(s *sprite.Sprite) {
	c := s.Corners()
	minX, minY, maxX, maxY := c[0].X(), c[0].Y(), c[0].X(), c[0].Y()
	for _, p := range c[1:] {
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
	}

	var dx, dy float32
	if maxX > 1 {
		dx = 1 - maxX
	}
	if minX+dx < -1 {
		dx = -1 - minX
	}
	if maxY > 1 {
		dy = 1 - maxY
	}
	if minY+dy < -1 {
		dy = -1 - minY
	}
	if dx != 0 || dy != 0 {
		s.Move(dx, dy)
	}
}
