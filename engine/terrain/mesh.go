package terrain

import (
	"github.com/Carmen-Shannon/globe-go/common"
)

// Vertex layout constants for generated terrain meshes. Each vertex is
// VertexStride float32 values: center-relative position (3), height (1),
// texture coordinates (2).
const (
	VertexStride = 6
)

// Mesh is the renderable geometry derived from one terrain payload. Positions
// are stored relative to Center so float32 vertex data keeps precision at
// planetary magnitudes.
type Mesh struct {
	// Vertices is the interleaved vertex stream (see VertexStride).
	Vertices []float32

	// Indices is the triangle list.
	Indices []uint32

	// Center is the reference point the positions are relative to.
	Center common.Cartesian3

	// BoundingSphere encloses the mesh in absolute coordinates.
	BoundingSphere common.BoundingSphere

	// MinimumHeight and MaximumHeight bound the heights in this mesh, in
	// meters above the ellipsoid.
	MinimumHeight float64
	MaximumHeight float64
}

// VertexBytes returns the vertex stream as bytes for GPU upload. The returned
// slice aliases the mesh data.
func (m *Mesh) VertexBytes() []byte {
	return common.SliceToBytes(m.Vertices)
}

// IndexBytes returns the index stream as bytes for GPU upload. The returned
// slice aliases the mesh data.
func (m *Mesh) IndexBytes() []byte {
	return common.SliceToBytes(m.Indices)
}

// IndexCount returns the number of indices in the mesh.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}
