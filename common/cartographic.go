package common

import "math"

// Cartographic is a geodetic position: longitude and latitude in radians,
// height in meters above the ellipsoid.
type Cartographic struct {
	Longitude float64
	Latitude  float64
	Height    float64
}

// Rectangle is a geographic bounding rectangle in radians.
// West may exceed East for rectangles crossing the antimeridian; the quadtree
// used here never produces such rectangles, so the simple ordering is assumed.
type Rectangle struct {
	West  float64
	South float64
	East  float64
	North float64
}

// FullGlobe is the rectangle covering the entire globe.
var FullGlobe = Rectangle{West: -math.Pi, South: -math.Pi / 2, East: math.Pi, North: math.Pi / 2}

// Width returns the angular width of the rectangle in radians.
func (r Rectangle) Width() float64 {
	return r.East - r.West
}

// Height returns the angular height of the rectangle in radians.
func (r Rectangle) Height() float64 {
	return r.North - r.South
}

// Center returns the cartographic center of the rectangle at height zero.
func (r Rectangle) Center() Cartographic {
	return Cartographic{
		Longitude: (r.West + r.East) * 0.5,
		Latitude:  (r.South + r.North) * 0.5,
	}
}

// Southwest returns the southwest corner at height zero.
func (r Rectangle) Southwest() Cartographic {
	return Cartographic{Longitude: r.West, Latitude: r.South}
}

// Northeast returns the northeast corner at height zero.
func (r Rectangle) Northeast() Cartographic {
	return Cartographic{Longitude: r.East, Latitude: r.North}
}

// Contains reports whether the cartographic position lies inside the rectangle
// (borders inclusive). Height is ignored.
func (r Rectangle) Contains(c Cartographic) bool {
	return c.Longitude >= r.West && c.Longitude <= r.East &&
		c.Latitude >= r.South && c.Latitude <= r.North
}

// Intersection returns the overlap of r and o and whether a non-empty overlap
// exists. Degenerate (zero-area) overlaps count as empty.
//
// Parameters:
//   - o: the rectangle to intersect with
//
// Returns:
//   - Rectangle: the overlapping region (zero value when none)
//   - bool: true if the rectangles overlap with positive area
func (r Rectangle) Intersection(o Rectangle) (Rectangle, bool) {
	out := Rectangle{
		West:  math.Max(r.West, o.West),
		South: math.Max(r.South, o.South),
		East:  math.Min(r.East, o.East),
		North: math.Min(r.North, o.North),
	}
	if out.West >= out.East || out.South >= out.North {
		return Rectangle{}, false
	}
	return out, true
}

// Subdivide returns the four child rectangles of r in quadtree child order
// (y grows southward): northwest, northeast, southwest, southeast.
func (r Rectangle) Subdivide() [4]Rectangle {
	midLon := (r.West + r.East) * 0.5
	midLat := (r.South + r.North) * 0.5
	return [4]Rectangle{
		{West: r.West, South: midLat, East: midLon, North: r.North},
		{West: midLon, South: midLat, East: r.East, North: r.North},
		{West: r.West, South: r.South, East: midLon, North: midLat},
		{West: midLon, South: r.South, East: r.East, North: midLat},
	}
}
