package common

import "math"

// Ellipsoid is a quadratic surface defined in Cartesian coordinates by
// (x/a)^2 + (y/b)^2 + (z/c)^2 = 1, used to convert between cartographic and
// cartesian positions on the planet surface.
type Ellipsoid struct {
	Radii Cartesian3

	radiiSquared        Cartesian3
	oneOverRadiiSquared Cartesian3
}

// WGS84 is the World Geodetic System 1984 ellipsoid.
var WGS84 = NewEllipsoid(6378137.0, 6378137.0, 6356752.3142451793)

// UnitSphere is a sphere of radius one, convenient for tests and scale-free math.
var UnitSphere = NewEllipsoid(1, 1, 1)

// NewEllipsoid creates an Ellipsoid with the given radii along each axis.
// Panics if any radius is not positive.
//
// Parameters:
//   - x, y, z: the radii along each axis in meters
//
// Returns:
//   - Ellipsoid: the configured ellipsoid
func NewEllipsoid(x, y, z float64) Ellipsoid {
	if x <= 0 || y <= 0 || z <= 0 {
		panic("common: ellipsoid radii must be positive")
	}
	return Ellipsoid{
		Radii:               Cartesian3{x, y, z},
		radiiSquared:        Cartesian3{x * x, y * y, z * z},
		oneOverRadiiSquared: Cartesian3{1 / (x * x), 1 / (y * y), 1 / (z * z)},
	}
}

// GeodeticSurfaceNormalCartographic computes the outward unit normal of the
// ellipsoid surface at a cartographic position.
func (e Ellipsoid) GeodeticSurfaceNormalCartographic(c Cartographic) Cartesian3 {
	cosLat := math.Cos(c.Latitude)
	return Cartesian3{
		X: cosLat * math.Cos(c.Longitude),
		Y: cosLat * math.Sin(c.Longitude),
		Z: math.Sin(c.Latitude),
	}.Normalize()
}

// GeodeticSurfaceNormal computes the outward unit normal of the ellipsoid
// surface at the cartesian position nearest to p.
func (e Ellipsoid) GeodeticSurfaceNormal(p Cartesian3) Cartesian3 {
	return Cartesian3{
		X: p.X * e.oneOverRadiiSquared.X,
		Y: p.Y * e.oneOverRadiiSquared.Y,
		Z: p.Z * e.oneOverRadiiSquared.Z,
	}.Normalize()
}

// CartographicToCartesian converts a cartographic position (radians, meters) to
// an earth-centered cartesian position.
//
// Parameters:
//   - c: the cartographic position to convert
//
// Returns:
//   - Cartesian3: the equivalent cartesian position
func (e Ellipsoid) CartographicToCartesian(c Cartographic) Cartesian3 {
	n := e.GeodeticSurfaceNormalCartographic(c)
	k := Cartesian3{
		X: e.radiiSquared.X * n.X,
		Y: e.radiiSquared.Y * n.Y,
		Z: e.radiiSquared.Z * n.Z,
	}
	gamma := math.Sqrt(n.Dot(k))
	return k.Scale(1 / gamma).Add(n.Scale(c.Height))
}

// MaximumRadius returns the largest of the ellipsoid's three radii.
func (e Ellipsoid) MaximumRadius() float64 {
	return math.Max(e.Radii.X, math.Max(e.Radii.Y, e.Radii.Z))
}
