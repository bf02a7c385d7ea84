// Package gfxtest provides an in-memory core.Renderer that records every
// call, for tests that must run without a graphics context.
package gfxtest

import (
	"fmt"

	"github.com/hubastard/sprig/engine/core"
)

var _ core.Renderer = (*Renderer)(nil)

type Kind string

const (
	KindPipeline Kind = "pipeline"
	KindTexture  Kind = "texture"
	KindMesh     Kind = "mesh"
)

type handle struct {
	kind Kind
	id   uint32
	w, h int
	n    int
}

func (h *handle) ID() uint32       { return h.id }
func (h *handle) Size() (int, int) { return h.w, h.h }
func (h *handle) IndexCount() int  { return h.n }
func (h *handle) String() string   { return fmt.Sprintf("%s#%d", h.kind, h.id) }

// MeshData is the last uploaded content of a mesh.
type MeshData struct {
	Vertices []float32
	Indices  []uint32
	Layout   core.VertexLayout
	Uploads  int
}

// Renderer counts allocations and releases per kind.
type Renderer struct {
	nextID uint32
	live   map[uint32]*handle

	Created  map[Kind]int
	Released map[Kind]int
	// BadReleases lists releases of handles that were not live (double free or foreign).
	BadReleases []string

	Meshes   map[uint32]*MeshData
	Textures map[uint32]core.TextureDesc
	Uniforms map[uint32]map[string]any // pipeline id -> uniforms set via SetUniform
	Draws    []core.DrawCmd
	Clears   int
	Width    int
	Height   int

	// Fail* make the next Create* of that kind return the error.
	FailPipeline error
	FailTexture  error
	FailMesh     error
}

func New() *Renderer {
	return &Renderer{
		live:     map[uint32]*handle{},
		Created:  map[Kind]int{},
		Released: map[Kind]int{},
		Meshes:   map[uint32]*MeshData{},
		Textures: map[uint32]core.TextureDesc{},
		Uniforms: map[uint32]map[string]any{},
	}
}

func (r *Renderer) Init() error              { return nil }
func (r *Renderer) Resize(w, h int)          { r.Width, r.Height = w, h }
func (r *Renderer) Clear(_, _, _, _ float32) { r.Clears++ }
func (r *Renderer) Shutdown()                {}
func (r *Renderer) GPUVendor() string        { return "gfxtest" }
func (r *Renderer) GPURenderer() string      { return "recorder" }
func (r *Renderer) GPUVersion() string       { return "0" }

// Live reports how many handles of kind are still allocated.
func (r *Renderer) Live(kind Kind) int { return r.Created[kind] - r.Released[kind] }

// Balanced reports whether every handle was released exactly once.
func (r *Renderer) Balanced() bool { return len(r.live) == 0 && len(r.BadReleases) == 0 }

func (r *Renderer) alloc(kind Kind) *handle {
	r.nextID++
	h := &handle{kind: kind, id: r.nextID}
	r.live[h.id] = h
	r.Created[kind]++
	return h
}

func (r *Renderer) release(kind Kind, id uint32) bool {
	h, ok := r.live[id]
	if !ok || h.kind != kind {
		r.BadReleases = append(r.BadReleases, fmt.Sprintf("%s#%d", kind, id))
		return false
	}
	delete(r.live, id)
	r.Released[kind]++
	return true
}

func (r *Renderer) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	if err := r.FailPipeline; err != nil {
		r.FailPipeline = nil
		return nil, err
	}
	if desc.VertexSource == "" {
		return nil, &core.ShaderCompileError{Stage: "vertex", Log: "empty source"}
	}
	if desc.FragmentSource == "" {
		return nil, &core.ShaderCompileError{Stage: "fragment", Log: "empty source"}
	}
	h := r.alloc(KindPipeline)
	r.Uniforms[h.id] = map[string]any{}
	return h, nil
}

func (r *Renderer) DeletePipeline(p core.Pipeline) {
	if r.release(KindPipeline, p.ID()) {
		delete(r.Uniforms, p.ID())
	}
}

func (r *Renderer) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if err := r.FailTexture; err != nil {
		r.FailTexture = nil
		return nil, err
	}
	if want := desc.Width * desc.Height * 4; len(desc.Pixels) != want {
		return nil, fmt.Errorf("texture %dx%d: got %d bytes, want %d", desc.Width, desc.Height, len(desc.Pixels), want)
	}
	h := r.alloc(KindTexture)
	h.w, h.h = desc.Width, desc.Height
	r.Textures[h.id] = desc
	return h, nil
}

func (r *Renderer) DeleteTexture(t core.Texture) {
	if r.release(KindTexture, t.ID()) {
		delete(r.Textures, t.ID())
	}
}

func (r *Renderer) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	if err := r.FailMesh; err != nil {
		r.FailMesh = nil
		return nil, err
	}
	h := r.alloc(KindMesh)
	h.n = len(desc.Indices)
	r.Meshes[h.id] = &MeshData{
		Vertices: append([]float32(nil), desc.Vertices...),
		Indices:  append([]uint32(nil), desc.Indices...),
		Layout:   desc.Layout,
		Uploads:  1,
	}
	return h, nil
}

func (r *Renderer) UpdateMesh(m core.Mesh, verts []float32, inds []uint32) error {
	md, ok := r.Meshes[m.ID()]
	if !ok {
		return fmt.Errorf("update of unknown mesh #%d", m.ID())
	}
	md.Vertices = append(md.Vertices[:0], verts...)
	if inds != nil {
		md.Indices = append(md.Indices[:0], inds...)
		r.live[m.ID()].n = len(inds)
	}
	md.Uploads++
	return nil
}

func (r *Renderer) DeleteMesh(m core.Mesh) {
	if r.release(KindMesh, m.ID()) {
		delete(r.Meshes, m.ID())
	}
}

func (r *Renderer) SetUniform(p core.Pipeline, name string, value any) {
	if u, ok := r.Uniforms[p.ID()]; ok {
		u[name] = value
	}
}

func (r *Renderer) Draw(cmd core.DrawCmd) {
	// Copy maps so later mutations by the caller do not rewrite history.
	c := cmd
	c.Uniforms = make(map[string]any, len(cmd.Uniforms))
	for k, v := range cmd.Uniforms {
		c.Uniforms[k] = v
	}
	c.Samplers = make(map[string]core.Texture, len(cmd.Samplers))
	for k, v := range cmd.Samplers {
		c.Samplers[k] = v
	}
	r.Draws = append(r.Draws, c)
}
