package sprite

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/sprig/engine/assets"
	"github.com/hubastard/sprig/engine/core"
	"github.com/hubastard/sprig/engine/geom"
	"github.com/hubastard/sprig/engine/gfx/gfxtest"
	"github.com/hubastard/sprig/engine/gfx/quad"
	"github.com/hubastard/sprig/engine/gfx/spritesheet"
	"github.com/hubastard/sprig/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

var (
	fullTex = geom.R[float32](0, 0, 1, 1)
	grid2x2 = geom.R(0, 0, 2, 2)
)

func writeSheet(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 0, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "sheet.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func newPipeline(t *testing.T, r *gfxtest.Renderer) core.Pipeline {
	t.Helper()
	p, err := r.CreatePipeline(core.PipelineDesc{VertexSource: "vs", FragmentSource: "fs", Blend: true})
	require.NoError(t, err)
	return p
}

func newSprite(t *testing.T, r *gfxtest.Renderer, opts ...Option) (*Sprite, core.Pipeline) {
	t.Helper()
	pipe := newPipeline(t, r)
	s, err := New(r, writeSheet(t, 8, 8), pipe, fullTex, grid2x2, opts...)
	require.NoError(t, err)
	return s, pipe
}

func uniformMat(t *testing.T, r *gfxtest.Renderer, p core.Pipeline) mgl32.Mat4 {
	t.Helper()
	v, ok := r.Uniforms[p.ID()][assets.TransformUniform]
	require.True(t, ok, "transform uniform not set")
	m, ok := v.(mgl32.Mat4)
	require.True(t, ok)
	return m
}

func apply(m mgl32.Mat4, x, y float32) (float32, float32) {
	p := m.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return p[0], p[1]
}

func TestNewUploadsStepZero(t *testing.T) {
	r := gfxtest.New()
	s, pipe := newSprite(t, r)

	assert.Equal(t, 1, r.Created[gfxtest.KindTexture])
	assert.Equal(t, 1, r.Created[gfxtest.KindMesh])

	tex := r.Textures[s.tex.ID()]
	assert.Equal(t, 8, tex.Width)
	assert.Equal(t, 8, tex.Height)
	assert.Len(t, tex.Pixels, 8*8*4)
	assert.Equal(t, "nearest", tex.MagFilter)

	md := r.Meshes[s.mesh.ID()]
	assert.Equal(t, []uint32{0, 1, 3, 1, 2, 3}, md.Indices)
	assert.Equal(t, quad.Layout, md.Layout)
	assert.Equal(t, []float32{
		0.5, 0.5, 0.5, 1,    // top right
		0.5, -0.5, 0.5, 0.5, // bottom right
		-0.5, -0.5, 0, 0.5,  // bottom left
		-0.5, 0.5, 0, 1,     // top left
	}, md.Vertices)

	assert.Equal(t, 0, s.AnimationStep())
	assert.Equal(t, 4, s.Frames())
	assert.True(t, uniformMat(t, r, pipe).ApproxEqual(mgl32.Ident4()))
}

func TestSetAnimationStep(t *testing.T) {
	r := gfxtest.New()
	s, _ := newSprite(t, r)
	md := r.Meshes[s.mesh.ID()]

	s.SetAnimationStep(3)
	assert.Equal(t, 3, s.AnimationStep())
	assert.Equal(t, geom.R[float32](0.5, 0, 1, 0.5), s.TexRect())
	assert.Equal(t, 2, md.Uploads)
	assert.Equal(t, s.Vertices(), md.Vertices)

	// Positions and vertex order survive the update.
	assert.Equal(t, []float32{0.5, 0.5, 1, 0.5}, md.Vertices[0:4])
	assert.Equal(t, []float32{-0.5, 0.5, 0.5, 0.5}, md.Vertices[12:16])

	// Same cell after wrapping: nothing to upload.
	s.SetAnimationStep(7)
	s.SetAnimationStep(-1)
	assert.Equal(t, 3, s.AnimationStep())
	assert.Equal(t, 2, md.Uploads)

	s.SetAnimationStep(4)
	assert.Equal(t, 0, s.AnimationStep())
	assert.Equal(t, geom.R[float32](0, 0.5, 0.5, 1), s.TexRect())
	assert.Equal(t, 3, md.Uploads)
}

func TestSingleCellSpriteAlwaysShowsTexRect(t *testing.T) {
	r := gfxtest.New()
	pipe := newPipeline(t, r)
	tex := geom.R[float32](0.25, 0.25, 0.75, 0.75)
	s, err := New(r, writeSheet(t, 4, 4), pipe, tex, geom.R(0, 0, 1, 1))
	require.NoError(t, err)

	for _, step := range []int{0, 1, 5, 99} {
		s.SetAnimationStep(step)
		assert.Equal(t, tex, s.TexRect())
	}
	assert.False(t, r.Meshes[s.mesh.ID()].Uploads > 1)
}

func TestTransformPushedToPipeline(t *testing.T) {
	r := gfxtest.New()
	s, pipe := newSprite(t, r)

	s.SetSize(2, 2)
	s.SetAngle(math.Pi / 2)
	x, y := apply(uniformMat(t, r, pipe), 0.5, 0.5)
	assert.InDelta(t, -1, x, eps)
	assert.InDelta(t, 1, y, eps)

	s.SetPosition(1, 0)
	x, y = apply(uniformMat(t, r, pipe), 0.5, 0.5)
	assert.InDelta(t, 0, x, eps)
	assert.InDelta(t, 1, y, eps)
	assert.Equal(t, s.Transform(), uniformMat(t, r, pipe))
}

func TestSetTransformationPartial(t *testing.T) {
	r := gfxtest.New()
	s, _ := newSprite(t, r, WithPosition(0.5, -0.5), WithSize(0.4, 0.2), WithAngle(1))

	before := s.Transform()
	s.SetTransformation(scene.Update{})
	assert.Equal(t, before, s.Transform())

	s.SetTransformation(scene.Update{Y: scene.Some(0), Angle: scene.Some(0)})
	x, y := s.Position()
	w, h := s.Size()
	assert.Equal(t, float32(0.5), x)
	assert.Equal(t, float32(0), y)
	assert.Equal(t, float32(0.4), w)
	assert.Equal(t, float32(0.2), h)
	assert.Equal(t, float32(0), s.Angle())
}

func TestWithPoseKeepsEarlierOptions(t *testing.T) {
	r := gfxtest.New()
	s, _ := newSprite(t, r,
		WithPosition(0.5, -0.25),
		WithSize(0.4, 0.2),
		WithPose(scene.Update{Angle: scene.Some(1), Y: scene.Some(0.75)}),
		WithAngle(0.5),
	)

	x, y := s.Position()
	w, h := s.Size()
	assert.Equal(t, float32(0.5), x)
	assert.Equal(t, float32(0.75), y)
	assert.Equal(t, float32(0.4), w)
	assert.Equal(t, float32(0.2), h)
	assert.Equal(t, float32(0.5), s.Angle(), "later options still win")
}

func TestCorners(t *testing.T) {
	r := gfxtest.New()
	s, _ := newSprite(t, r, WithPosition(1, 0), WithSize(2, 2), WithAngle(math.Pi/2))

	c := s.Corners()
	want := [quad.VertexCount][2]float32{
		{0, 1},  // top right
		{2, 1},  // bottom right
		{2, -1}, // bottom left
		{0, -1}, // top left
	}
	for i, w := range want {
		assert.InDelta(t, w[0], c[i].X(), eps, "corner %d", i)
		assert.InDelta(t, w[1], c[i].Y(), eps, "corner %d", i)
	}
}

func TestMoveRotateAsMover(t *testing.T) {
	r := gfxtest.New()
	s, _ := newSprite(t, r)

	var m scene.Mover = s
	m.Move(0.25, 0.5)
	m.Rotate(0.5)

	x, y := s.Position()
	assert.InDelta(t, 0.25, x, eps)
	assert.InDelta(t, 0.5, y, eps)
	assert.InDelta(t, 0.5, s.Angle(), eps)
}

func TestDraw(t *testing.T) {
	r := gfxtest.New()
	s, pipe := newSprite(t, r)
	s.SetPosition(0.3, 0.1)

	s.Draw()
	require.Len(t, r.Draws, 1)
	cmd := r.Draws[0]
	assert.Equal(t, pipe, cmd.Pipe)
	assert.Equal(t, s.mesh, cmd.Mesh)
	assert.Equal(t, quad.IndexCount, cmd.IndexCount)
	assert.Equal(t, s.tex, cmd.Samplers[assets.TextureSampler])
	assert.Equal(t, s.Transform(), cmd.Uniforms[assets.TransformUniform])
}

func TestSharedPipelineDrawsCarryOwnMatrix(t *testing.T) {
	r := gfxtest.New()
	pipe := newPipeline(t, r)
	path := writeSheet(t, 4, 4)

	a, err := New(r, path, pipe, fullTex, grid2x2, WithPosition(-0.5, 0))
	require.NoError(t, err)
	b, err := New(r, path, pipe, fullTex, grid2x2, WithPosition(0.5, 0))
	require.NoError(t, err)

	a.Draw()
	b.Draw()
	require.Len(t, r.Draws, 2)
	ax, _ := apply(r.Draws[0].Uniforms[assets.TransformUniform].(mgl32.Mat4), 0, 0)
	bx, _ := apply(r.Draws[1].Uniforms[assets.TransformUniform].(mgl32.Mat4), 0, 0)
	assert.InDelta(t, -0.5, ax, eps)
	assert.InDelta(t, 0.5, bx, eps)

	require.NoError(t, a.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, 1, r.Live(gfxtest.KindPipeline))
	r.DeletePipeline(pipe)
	assert.True(t, r.Balanced())
}

func TestCloseReleasesEverythingOnce(t *testing.T) {
	r := gfxtest.New()
	s, pipe := newSprite(t, r)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, 1, r.Released[gfxtest.KindTexture])
	assert.Equal(t, 1, r.Released[gfxtest.KindMesh])
	assert.Equal(t, 0, r.Released[gfxtest.KindPipeline])
	assert.Empty(t, r.BadReleases)
	assert.Nil(t, s.Vertices())

	// After Close the sprite is inert.
	s.Draw()
	s.SetAnimationStep(2)
	s.SetPosition(1, 1)
	assert.Empty(t, r.Draws)

	r.DeletePipeline(pipe)
	assert.True(t, r.Balanced())
}

func TestCloseOwnedPipeline(t *testing.T) {
	r := gfxtest.New()
	s, _ := newSprite(t, r, WithOwnedPipeline())

	require.NoError(t, s.Close())
	assert.Equal(t, 1, r.Released[gfxtest.KindPipeline])
	assert.True(t, r.Balanced())
}

func TestNewMissingImage(t *testing.T) {
	r := gfxtest.New()
	pipe := newPipeline(t, r)
	path := filepath.Join(t.TempDir(), "missing.png")

	s, err := New(r, path, pipe, fullTex, grid2x2)
	assert.Nil(t, s)
	var aerr *assets.AssetLoadError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, path, aerr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 0, r.Created[gfxtest.KindTexture])
}

func TestNewCorruptImage(t *testing.T) {
	r := gfxtest.New()
	pipe := newPipeline(t, r)
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := New(r, path, pipe, fullTex, grid2x2)
	var aerr *assets.AssetLoadError
	assert.True(t, errors.As(err, &aerr))
}

func TestNewInvalidLayout(t *testing.T) {
	r := gfxtest.New()
	pipe := newPipeline(t, r)

	_, err := New(r, writeSheet(t, 4, 4), pipe, fullTex, geom.R(0, 0, 0, 3))
	assert.ErrorIs(t, err, spritesheet.ErrInvalidLayout)
	assert.Equal(t, 0, r.Created[gfxtest.KindTexture])
}

func TestNewNilPipeline(t *testing.T) {
	_, err := New(gfxtest.New(), "unused.png", nil, fullTex, grid2x2)
	assert.Error(t, err)
}

func TestNewRollsBackOnMeshFailure(t *testing.T) {
	r := gfxtest.New()
	pipe := newPipeline(t, r)
	r.FailMesh = errors.New("out of buffers")

	_, err := New(r, writeSheet(t, 4, 4), pipe, fullTex, grid2x2, WithOwnedPipeline())
	assert.ErrorContains(t, err, "out of buffers")
	assert.Equal(t, 0, r.Live(gfxtest.KindTexture))
	assert.Equal(t, 0, r.Live(gfxtest.KindMesh))
	// The pipeline was never handed over.
	assert.Equal(t, 1, r.Live(gfxtest.KindPipeline))
	assert.Empty(t, r.BadReleases)
}

func TestNewTextureFailure(t *testing.T) {
	r := gfxtest.New()
	pipe := newPipeline(t, r)
	r.FailTexture = errors.New("no texture units")

	_, err := New(r, writeSheet(t, 4, 4), pipe, fullTex, grid2x2)
	assert.ErrorContains(t, err, "no texture units")
	assert.Equal(t, 0, r.Created[gfxtest.KindMesh])
}

func TestTextureOptions(t *testing.T) {
	r := gfxtest.New()
	s, _ := newSprite(t, r, WithTextureFilter("linear", "linear"), WithTextureWrap("clamp"))

	tex := r.Textures[s.tex.ID()]
	assert.Equal(t, "linear", tex.MinFilter)
	assert.Equal(t, "linear", tex.MagFilter)
	assert.Equal(t, "clamp", tex.WrapU)
	assert.Equal(t, "clamp", tex.WrapV)
}
