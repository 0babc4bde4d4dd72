package graphics

import "github.com/cogentcore/webgpu/wgpu"

// MeshBuffers holds the GPU vertex/index buffer pair for one uploaded terrain
// mesh. A tile is renderable exactly when its surface payload holds one of
// these. Each MeshBuffers is exclusively owned by one tile slot.
type MeshBuffers struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

// VertexBuffer returns the GPU vertex buffer, or nil on a fake device.
func (m *MeshBuffers) VertexBuffer() *wgpu.Buffer {
	return m.vertexBuffer
}

// IndexBuffer returns the GPU index buffer, or nil on a fake device.
func (m *MeshBuffers) IndexBuffer() *wgpu.Buffer {
	return m.indexBuffer
}

// IndexCount returns the number of indices to draw.
func (m *MeshBuffers) IndexCount() int {
	return m.indexCount
}

// Release destroys the GPU buffers. Safe to call on a MeshBuffers with nil
// buffers and safe to call more than once.
func (m *MeshBuffers) Release() {
	if m == nil {
		return
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}
