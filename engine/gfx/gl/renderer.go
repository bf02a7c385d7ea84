package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/sprig/engine/core"
	"github.com/hubastard/sprig/engine/geom"
	"go.uber.org/zap"
)

var _ core.Renderer = (*RendererGL)(nil)

// RendererGL implements core.Renderer on OpenGL 3.3 core.
// It must only be used from the thread that owns the window's context.
type RendererGL struct {
	win core.Window
	log *zap.Logger
}

type pipelineGL struct {
	program   uint32
	depthTest bool
	blend     bool
	locs      map[string]int32
}

func (p *pipelineGL) ID() uint32 { return p.program }

// uniform returns the cached location of name, -1 when the program lacks it.
func (p *pipelineGL) uniform(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.program, gl.Str(name+"\x00"))
	p.locs[name] = loc
	return loc
}

type textureGL struct {
	id   uint32
	w, h int
}

func (t *textureGL) ID() uint32       { return t.id }
func (t *textureGL) Size() (int, int) { return t.w, t.h }

type meshGL struct {
	vao, vbo, ebo uint32
	vertCap       int // floats
	indexCount    int
	usage         uint32
}

func (m *meshGL) ID() uint32      { return m.vao }
func (m *meshGL) IndexCount() int { return m.indexCount }

func NewRendererGL(win core.Window, _ core.Config, log *zap.Logger) (*RendererGL, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &RendererGL{win: win, log: log}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RendererGL) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	r.log.Info("opengl initialized", zap.String("version", r.GPUVersion()))
	return nil
}

func (r *RendererGL) Shutdown() {}

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) GPUVendor() string   { return gl.GoStr(gl.GetString(gl.VENDOR)) }
func (r *RendererGL) GPURenderer() string { return gl.GoStr(gl.GetString(gl.RENDERER)) }
func (r *RendererGL) GPUVersion() string  { return gl.GoStr(gl.GetString(gl.VERSION)) }

// --- pipelines ---

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(desc.VertexSource, desc.FragmentSource, r.log)
	if err != nil {
		return nil, err
	}
	return &pipelineGL{
		program:   prog,
		depthTest: desc.DepthTest,
		blend:     desc.Blend,
		locs:      make(map[string]int32, 4),
	}, nil
}

func (r *RendererGL) DeletePipeline(p core.Pipeline) {
	pg := p.(*pipelineGL)
	if pg.program != 0 {
		gl.DeleteProgram(pg.program)
		pg.program = 0
	}
}

func (r *RendererGL) SetUniform(p core.Pipeline, name string, value any) {
	pg := p.(*pipelineGL)
	gl.UseProgram(pg.program)
	setUniform(pg.uniform(name), value)
}

// --- textures ---

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Format != core.TextureRGBA8 {
		return nil, fmt.Errorf("texture: unsupported format %d", desc.Format)
	}
	if want := desc.Width * desc.Height * 4; len(desc.Pixels) != want {
		return nil, fmt.Errorf("texture %dx%d: got %d bytes, want %d", desc.Width, desc.Height, len(desc.Pixels), want)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode(desc.WrapV))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filterMode(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filterMode(desc.MagFilter))

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(desc.Pixels))
	if desc.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &textureGL{id: id, w: desc.Width, h: desc.Height}, nil
}

func (r *RendererGL) DeleteTexture(t core.Texture) {
	tg := t.(*textureGL)
	if tg.id != 0 {
		gl.DeleteTextures(1, &tg.id)
		tg.id = 0
	}
}

// --- meshes ---

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	if len(desc.Vertices) == 0 || len(desc.Indices) == 0 {
		return nil, fmt.Errorf("mesh: empty vertex or index data")
	}
	m := &meshGL{
		vertCap:    len(desc.Vertices),
		indexCount: len(desc.Indices),
		usage:      gl.STATIC_DRAW,
	}
	if desc.Dynamic {
		m.usage = gl.DYNAMIC_DRAW
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, geom.SizeOf(desc.Vertices), gl.Ptr(desc.Vertices), m.usage)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, geom.SizeOf(desc.Indices), gl.Ptr(desc.Indices), gl.STATIC_DRAW)

	for _, a := range desc.Layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointer(a.Location, a.Size, attribType(a.Type), false, desc.Layout.Stride, gl.PtrOffset(a.Offset))
	}

	// VAO first so it keeps the element buffer binding.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return m, nil
}

func (r *RendererGL) UpdateMesh(mesh core.Mesh, verts []float32, inds []uint32) error {
	m := mesh.(*meshGL)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(verts) > m.vertCap {
		gl.BufferData(gl.ARRAY_BUFFER, geom.SizeOf(verts), gl.Ptr(verts), m.usage)
		m.vertCap = len(verts)
	} else if len(verts) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, geom.SizeOf(verts), gl.Ptr(verts))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if inds != nil {
		if len(inds) == 0 {
			return fmt.Errorf("mesh: empty index data")
		}
		gl.BindVertexArray(m.vao)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, geom.SizeOf(inds), gl.Ptr(inds), gl.STATIC_DRAW)
		gl.BindVertexArray(0)
		m.indexCount = len(inds)
	}
	return nil
}

func (r *RendererGL) DeleteMesh(mesh core.Mesh) {
	m := mesh.(*meshGL)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

// --- drawing ---

func (r *RendererGL) Draw(cmd core.DrawCmd) {
	pg := cmd.Pipe.(*pipelineGL)
	m := cmd.Mesh.(*meshGL)

	if pg.depthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if pg.blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}

	gl.UseProgram(pg.program)
	for name, v := range cmd.Uniforms {
		setUniform(pg.uniform(name), v)
	}
	unit := int32(0)
	for name, tex := range cmd.Samplers {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, tex.ID())
		gl.Uniform1i(pg.uniform(name), unit)
		unit++
	}

	count := cmd.IndexCount
	if count <= 0 || count > m.indexCount {
		count = m.indexCount
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func setUniform(loc int32, value any) {
	if loc < 0 {
		return
	}
	switch v := value.(type) {
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	case [16]float32:
		gl.UniformMatrix4fv(loc, 1, false, &v[0])
	case mgl32.Vec4:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case [4]float32:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case mgl32.Vec2:
		gl.Uniform2f(loc, v[0], v[1])
	case float32:
		gl.Uniform1f(loc, v)
	case int32:
		gl.Uniform1i(loc, v)
	case int:
		gl.Uniform1i(loc, int32(v))
	default:
		panic(fmt.Sprintf("glbackend: unsupported uniform type %T", value))
	}
}

func wrapMode(s string) int32 {
	switch s {
	case "repeat":
		return gl.REPEAT
	case "mirror":
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

func filterMode(s string) int32 {
	switch s {
	case "linear":
		return gl.LINEAR
	case "linear_mipmap":
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.NEAREST
	}
}

func attribType(t core.AttribType) uint32 {
	switch t {
	case core.AttribFloat32:
		return gl.FLOAT
	default:
		panic(fmt.Sprintf("glbackend: unsupported attribute type %d", t))
	}
}
