// Package sprite draws one animated quad cut out of a spritesheet.
//
// A Sprite holds GPU resources and talks to the renderer on every call, so
// all of its methods must run on the thread that owns the graphics context
// (core.Run locks that thread for the App and its layers). A Sprite is not
// safe for concurrent use.
package sprite

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/sprig/engine/assets"
	"github.com/hubastard/sprig/engine/core"
	"github.com/hubastard/sprig/engine/geom"
	"github.com/hubastard/sprig/engine/gfx/quad"
	"github.com/hubastard/sprig/engine/gfx/spritesheet"
	"github.com/hubastard/sprig/engine/scene"
	"go.uber.org/zap"
)

var errNoPipeline = errors.New("sprite: nil pipeline")

// Sprite owns its mesh and texture. The pipeline is shared and only
// released on Close when the sprite was built WithOwnedPipeline.
type Sprite struct {
	r        core.Renderer
	pipe     core.Pipeline
	ownsPipe bool
	tex      core.Texture
	mesh     core.Mesh

	path   string
	layout spritesheet.Layout
	step   int
	xf     *scene.Transform
	quad   quad.Quad
	verts  []float32 // CPU mirror of the vertex buffer

	uniforms map[string]any
	samplers map[string]core.Texture
	log      *zap.Logger
	closed   bool
}

// New loads imagePath, uploads it and a quad showing animation step 0.
//
// texRect is the normalized region of the image holding the grid of frames;
// grid gives the number of columns (X1-X0) and rows (Y1-Y0).
// Errors: *assets.AssetLoadError, spritesheet.ErrInvalidLayout or whatever
// the renderer returns. Nothing stays allocated when New fails.
func New(r core.Renderer, imagePath string, pipe core.Pipeline, texRect geom.FloatRect, grid geom.IntRect, opts ...Option) (*Sprite, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if pipe == nil {
		return nil, errNoPipeline
	}
	layout, err := spritesheet.NewLayout(texRect, grid)
	if err != nil {
		return nil, fmt.Errorf("sprite %q: %w", imagePath, err)
	}

	img, err := assets.LoadImage(imagePath)
	if err != nil {
		return nil, err
	}
	tex, err := r.CreateTexture(core.TextureDesc{
		Width:     img.Width,
		Height:    img.Height,
		Format:    core.TextureRGBA8,
		Pixels:    img.Pix,
		MinFilter: o.minFilter,
		MagFilter: o.magFilter,
		WrapU:     o.wrap,
		WrapV:     o.wrap,
		Mipmaps:   o.mipmaps,
	})
	if err != nil {
		return nil, fmt.Errorf("sprite %q: texture: %w", imagePath, err)
	}

	s := &Sprite{
		r:        r,
		pipe:     pipe,
		ownsPipe: o.ownsPipe,
		tex:      tex,
		path:     imagePath,
		layout:   layout,
		xf:       scene.NewTransform(),
		quad:     quad.Unit(),
		uniforms: make(map[string]any, 1),
		samplers: map[string]core.Texture{assets.TextureSampler: tex},
		log:      o.log.With(zap.String("sprite", imagePath)),
	}
	s.quad.SetTexRect(layout.StepRect(0))
	s.verts = s.quad.AppendFloats(make([]float32, 0, quad.VertexCount*quad.Stride))

	s.mesh, err = r.CreateMesh(core.MeshDesc{
		Vertices: s.verts,
		Indices:  quad.Indices(),
		Layout:   quad.Layout,
		Dynamic:  layout.Frames() > 1,
	})
	if err != nil {
		r.DeleteTexture(tex)
		return nil, fmt.Errorf("sprite %q: mesh: %w", imagePath, err)
	}

	s.xf.Set(o.pose)
	s.pushTransform()

	s.log.Debug("sprite created",
		zap.Int("width", img.Width), zap.Int("height", img.Height),
		zap.Int("cols", layout.Cols()), zap.Int("rows", layout.Rows()))
	return s, nil
}

// SetAnimationStep selects the frame to show. Any step is accepted and
// wrapped over the grid's cell count; only texture coordinates change.
func (s *Sprite) SetAnimationStep(step int) {
	if s.closed {
		return
	}
	step = s.layout.Wrap(step)
	if step == s.step {
		return
	}
	s.step = step
	s.quad.SetTexRect(s.layout.StepRect(step))
	s.verts = s.quad.AppendFloats(s.verts[:0])
	if err := s.r.UpdateMesh(s.mesh, s.verts, nil); err != nil {
		panic(err)
	}
}

func (s *Sprite) AnimationStep() int { return s.step }

// Frames is the number of cells in the spritesheet grid.
func (s *Sprite) Frames() int { return s.layout.Frames() }

func (s *Sprite) Layout() spritesheet.Layout { return s.layout }

// TexRect is the texture region currently sampled.
func (s *Sprite) TexRect() geom.FloatRect { return s.quad.TexRect() }

// Vertices returns a copy of the CPU-side vertex buffer (pos.xy, uv.xy per vertex).
func (s *Sprite) Vertices() []float32 { return append([]float32(nil), s.verts...) }

func (s *Sprite) SetPosition(x, y float32) {
	s.xf.SetPosition(x, y)
	s.pushTransform()
}

func (s *Sprite) SetSize(w, h float32) {
	s.xf.SetSize(w, h)
	s.pushTransform()
}

// SetAngle sets the rotation in radians, counter-clockwise.
func (s *Sprite) SetAngle(rad float32) {
	s.xf.SetAngle(rad)
	s.pushTransform()
}

// SetTransformation changes only the fields set in u.
func (s *Sprite) SetTransformation(u scene.Update) {
	s.xf.Set(u)
	s.pushTransform()
}

func (s *Sprite) Move(dx, dy float32) {
	s.xf.Move(dx, dy)
	s.pushTransform()
}

func (s *Sprite) Rotate(dRad float32) {
	s.xf.Rotate(dRad)
	s.pushTransform()
}

func (s *Sprite) Position() (x, y float32) { return s.xf.Position() }
func (s *Sprite) Size() (w, h float32)     { return s.xf.Size() }
func (s *Sprite) Angle() float32           { return s.xf.Angle() }
func (s *Sprite) Transform() mgl32.Mat4    { return s.xf.Matrix() }

// Corners returns the quad's corners after the transform, in vertex order
// (top-right, bottom-right, bottom-left, top-left).
func (s *Sprite) Corners() [quad.VertexCount]mgl32.Vec2 {
	var out [quad.VertexCount]mgl32.Vec2
	for i, v := range s.quad {
		x, y := s.xf.Apply(v.Pos[0], v.Pos[1])
		out[i] = mgl32.Vec2{x, y}
	}
	return out
}

// Draw issues one indexed draw of the sprite's two triangles.
// The transform travels with the command so sprites sharing a pipeline
// each draw with their own matrix.
func (s *Sprite) Draw() {
	if s.closed {
		return
	}
	s.r.Draw(core.DrawCmd{
		Pipe:       s.pipe,
		Mesh:       s.mesh,
		Uniforms:   s.uniforms,
		Samplers:   s.samplers,
		IndexCount: quad.IndexCount,
	})
}

// Close releases the mesh, the texture and, when owned, the pipeline.
// Calling it again does nothing.
func (s *Sprite) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.r.DeleteMesh(s.mesh)
	s.r.DeleteTexture(s.tex)
	if s.ownsPipe {
		s.r.DeletePipeline(s.pipe)
	}
	s.mesh, s.tex, s.pipe = nil, nil, nil
	s.verts = nil
	clear(s.samplers)
	clear(s.uniforms)

	s.log.Debug("sprite released")
	return nil
}

func (s *Sprite) pushTransform() {
	if s.closed {
		return
	}
	m := s.xf.Matrix()
	s.uniforms[assets.TransformUniform] = m
	s.r.SetUniform(s.pipe, assets.TransformUniform, m)
}
