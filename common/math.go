package common

import (
	"math"
	"unsafe"
)

// Epsilon values for floating point comparisons at various magnitudes.
const (
	Epsilon10 = 1e-10
	Epsilon12 = 1e-12
	Epsilon14 = 1e-14
)

// Cartesian3 is a 3D point or vector in earth-centered, earth-fixed coordinates.
// Geodetic precision requires float64; GPU-facing vertex data is converted to
// float32 at mesh build time, not here.
type Cartesian3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum of v and o.
func (v Cartesian3) Add(o Cartesian3) Cartesian3 {
	return Cartesian3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of v and o.
func (v Cartesian3) Sub(o Cartesian3) Cartesian3 {
	return Cartesian3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Cartesian3) Scale(s float64) Cartesian3 {
	return Cartesian3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Cartesian3) Dot(o Cartesian3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Cartesian3) Cross(o Cartesian3) Cartesian3 {
	return Cartesian3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Magnitude returns the Euclidean length of v.
func (v Cartesian3) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. A zero vector is returned unchanged
// rather than producing NaNs; callers treat that as a degenerate input.
func (v Cartesian3) Normalize() Cartesian3 {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.Scale(1.0 / m)
}

// Midpoint returns the point halfway between v and o.
func (v Cartesian3) Midpoint(o Cartesian3) Cartesian3 {
	return v.Add(o).Scale(0.5)
}

// EqualsEpsilon reports whether v and o are component-wise equal within eps.
//
// Parameters:
//   - o: the vector to compare against
//   - eps: the absolute tolerance per component
//
// Returns:
//   - bool: true if every component differs by at most eps
func (v Cartesian3) EqualsEpsilon(o Cartesian3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps &&
		math.Abs(v.Y-o.Y) <= eps &&
		math.Abs(v.Z-o.Z) <= eps
}

// UnitZ is the polar axis of the earth-fixed frame.
var UnitZ = Cartesian3{Z: 1}

// BoundingSphere is a sphere enclosing a set of points, used by the renderer's
// culling and LOD selection stages (consumed, not implemented here).
type BoundingSphere struct {
	Center Cartesian3
	Radius float64
}

// BoundingSphereFromPoints computes a bounding sphere from a point set using the
// centroid as center. Not minimal, but conservative and stable, which is what the
// tile selection math needs.
//
// Parameters:
//   - points: the points to enclose (must be non-empty)
//
// Returns:
//   - BoundingSphere: a sphere containing every input point
func BoundingSphereFromPoints(points []Cartesian3) BoundingSphere {
	if len(points) == 0 {
		return BoundingSphere{}
	}
	var center Cartesian3
	for _, p := range points {
		center = center.Add(p)
	}
	center = center.Scale(1.0 / float64(len(points)))

	radius := 0.0
	for _, p := range points {
		if d := p.Sub(center).Magnitude(); d > radius {
			radius = d
		}
	}
	return BoundingSphere{Center: center, Radius: radius}
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}
