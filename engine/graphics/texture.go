package graphics

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is a reference-counted sampled 2D texture. Water-mask textures are
// shared between a parent tile and the children upsampled from it, so the GPU
// resource is released only when the last owner lets go.
type Texture struct {
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler

	refCount int
}

// newTexture wraps GPU handles with an initial reference count of one.
func newTexture(label string, tex *wgpu.Texture, view *wgpu.TextureView, sampler *wgpu.Sampler) *Texture {
	return &Texture{
		label:    label,
		texture:  tex,
		view:     view,
		sampler:  sampler,
		refCount: 1,
	}
}

// NewFakeTexture creates a Texture with no GPU handles and a reference count
// of one. Used by tests and headless tools that exercise the streaming state
// machines without a GPU.
func NewFakeTexture(label string) *Texture {
	return &Texture{label: label, refCount: 1}
}

// Label returns the texture's debug label.
func (t *Texture) Label() string {
	return t.label
}

// View returns the GPU texture view, or nil for a fake texture.
func (t *Texture) View() *wgpu.TextureView {
	return t.view
}

// Sampler returns the GPU sampler, or nil for a fake texture.
func (t *Texture) Sampler() *wgpu.Sampler {
	return t.sampler
}

// RefCount returns the current owner count.
func (t *Texture) RefCount() int {
	return t.refCount
}

// AddReference registers an additional owner. Each owner must balance this
// with exactly one Release.
func (t *Texture) AddReference() {
	t.refCount++
}

// Release drops one owner reference; the GPU resources are destroyed when the
// count reaches zero. Releasing below zero panics, because it means an
// ownership bug that would otherwise surface as a GPU use-after-free.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	t.refCount--
	if t.refCount > 0 {
		return
	}
	if t.refCount < 0 {
		panic("graphics: texture released more times than referenced: " + t.label)
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
}
