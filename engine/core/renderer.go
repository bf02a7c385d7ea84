package core

// Renderer is the graphics device. Every method must be called on the
// thread that owns the graphics context; Run locks that thread.
type Renderer interface {
	Init() error
	Resize(w, h int)
	Clear(r, g, b, a float32)
	Shutdown()

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	DeletePipeline(p Pipeline)

	CreateTexture(desc TextureDesc) (Texture, error)
	DeleteTexture(t Texture)

	CreateMesh(desc MeshDesc) (Mesh, error)
	// UpdateMesh re-uploads vertex data. A nil inds slice keeps the current indices.
	UpdateMesh(m Mesh, verts []float32, inds []uint32) error
	DeleteMesh(m Mesh)

	// SetUniform stores a uniform on the pipeline's program right away.
	SetUniform(p Pipeline, name string, value any)
	Draw(cmd DrawCmd)

	GPUVendor() string
	GPURenderer() string
	GPUVersion() string
}

// Pipeline is a linked shader program plus its fixed-function state.
type Pipeline interface{ ID() uint32 }

type Texture interface {
	ID() uint32
	Size() (w, h int)
}

type Mesh interface {
	ID() uint32
	IndexCount() int
}

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	DepthTest      bool
	Blend          bool // straight alpha: SRC_ALPHA, ONE_MINUS_SRC_ALPHA
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // rows bottom to top, tightly packed
	MinFilter     string // "nearest", "linear", "linear_mipmap"
	MagFilter     string // "nearest", "linear"
	WrapU, WrapV  string // "clamp", "repeat"
	Mipmaps       bool
}

type AttribType int

const (
	AttribFloat32 AttribType = iota
)

type VertexAttrib struct {
	Location uint32
	Size     int32 // components
	Type     AttribType
	Offset   int // bytes
}

type VertexLayout struct {
	Stride     int32 // bytes
	Attributes []VertexAttrib
}

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
	Dynamic  bool
}

// DrawCmd is self-contained: the backend binds everything it names
// and makes no promise about bindings afterwards.
type DrawCmd struct {
	Pipe     Pipeline
	Mesh     Mesh
	Uniforms map[string]any
	Samplers map[string]Texture
	// IndexCount limits the draw; 0 draws the whole mesh.
	IndexCount int
}
