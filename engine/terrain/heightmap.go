package terrain

import (
	"context"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/globe-go/common"
)

// heightmapData is the implementation of the Data interface backed by a
// regular grid of heights.
type heightmapData struct {
	width, height int
	heights       []float32

	childMask           uint8
	createdByUpsampling bool
	waterMask           []byte
}

var _ Data = &heightmapData{}

// NewHeightmapData creates a heightmap terrain payload with the specified options applied.
// Panics if the height slice does not match width*height, because that is a
// programmer error no retry can fix.
//
// Parameters:
//   - width, height: the grid dimensions (at least 2x2 so a mesh can be built)
//   - heights: the row-major height samples, row 0 at the north edge
//   - options: a variadic list of HeightmapDataOption functions to configure the payload
//
// Returns:
//   - Data: the configured terrain payload
func NewHeightmapData(width, height int, heights []float32, options ...HeightmapDataOption) Data {
	if width < 2 || height < 2 {
		panic("terrain: heightmap grid must be at least 2x2")
	}
	if len(heights) != width*height {
		panic(fmt.Sprintf("terrain: heightmap has %d samples, want %d", len(heights), width*height))
	}
	d := &heightmapData{
		width:   width,
		height:  height,
		heights: heights,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *heightmapData) IsChildAvailable(parentX, parentY, childX, childY int) bool {
	idx := ChildIndex(parentX, parentY, childX, childY)
	if idx < 0 || idx > 3 {
		// Malformed metadata degrades to unavailable, never to a panic.
		return false
	}
	return d.childMask&(1<<uint(idx)) != 0
}

func (d *heightmapData) CreatedByUpsampling() bool {
	return d.createdByUpsampling
}

func (d *heightmapData) WaterMask() []byte {
	return d.waterMask
}

// sample returns the bilinearly interpolated height at normalized grid
// coordinates (u, v) with v measured from the north edge.
func (d *heightmapData) sample(u, v float64) float32 {
	fx := common.Clamp(u, 0, 1) * float64(d.width-1)
	fy := common.Clamp(v, 0, 1) * float64(d.height-1)

	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, d.width-1)
	y1 := min(y0+1, d.height-1)
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	h00 := float64(d.heights[y0*d.width+x0])
	h10 := float64(d.heights[y0*d.width+x1])
	h01 := float64(d.heights[y1*d.width+x0])
	h11 := float64(d.heights[y1*d.width+x1])

	north := common.Lerp(h00, h10, tx)
	south := common.Lerp(h01, h11, tx)
	return float32(common.Lerp(north, south, ty))
}

func (d *heightmapData) Upsample(ctx context.Context, sourceX, sourceY, sourceLevel, x, y, level int) (Data, error) {
	levelDelta := level - sourceLevel
	if levelDelta < 1 {
		return nil, fmt.Errorf("terrain: upsample target level %d is not below source level %d", level, sourceLevel)
	}
	size := 1 << uint(levelDelta)
	offsetX := x - sourceX*size
	offsetY := y - sourceY*size
	if offsetX < 0 || offsetX >= size || offsetY < 0 || offsetY >= size {
		return nil, fmt.Errorf("terrain: tile %d/%d/%d is not a descendant of %d/%d/%d", level, x, y, sourceLevel, sourceX, sourceY)
	}

	// Resample this payload's sub-rectangle covering the descendant tile at
	// the source resolution. The child mask stays empty: upsampled data knows
	// nothing about real descendant availability, and the water mask is not
	// carried either — the tile shares its ancestor's mask texture instead.
	heights := make([]float32, d.width*d.height)
	inv := 1.0 / float64(size)
	u0 := float64(offsetX) * inv
	v0 := float64(offsetY) * inv
	for row := 0; row < d.height; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := v0 + inv*float64(row)/float64(d.height-1)
		for col := 0; col < d.width; col++ {
			u := u0 + inv*float64(col)/float64(d.width-1)
			heights[row*d.width+col] = d.sample(u, v)
		}
	}

	return &heightmapData{
		width:               d.width,
		height:              d.height,
		heights:             heights,
		createdByUpsampling: true,
	}, nil
}

func (d *heightmapData) CreateMesh(ctx context.Context, ellipsoid common.Ellipsoid, rectangle common.Rectangle) (*Mesh, error) {
	vertexCount := d.width * d.height
	positions := make([]common.Cartesian3, 0, vertexCount)

	minHeight := math.Inf(1)
	maxHeight := math.Inf(-1)

	// Row 0 of the grid is the tile's north edge.
	for row := 0; row < d.height; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := float64(row) / float64(d.height-1)
		lat := common.Lerp(rectangle.North, rectangle.South, v)
		for col := 0; col < d.width; col++ {
			u := float64(col) / float64(d.width-1)
			h := float64(d.heights[row*d.width+col])
			minHeight = math.Min(minHeight, h)
			maxHeight = math.Max(maxHeight, h)
			positions = append(positions, ellipsoid.CartographicToCartesian(common.Cartographic{
				Longitude: common.Lerp(rectangle.West, rectangle.East, u),
				Latitude:  lat,
				Height:    h,
			}))
		}
	}

	sphere := common.BoundingSphereFromPoints(positions)
	center := sphere.Center

	vertices := make([]float32, 0, vertexCount*VertexStride)
	for i, p := range positions {
		rel := p.Sub(center)
		row := i / d.width
		col := i % d.width
		vertices = append(vertices,
			float32(rel.X), float32(rel.Y), float32(rel.Z),
			d.heights[i],
			float32(col)/float32(d.width-1),
			float32(row)/float32(d.height-1),
		)
	}

	indices := make([]uint32, 0, (d.width-1)*(d.height-1)*6)
	for row := 0; row < d.height-1; row++ {
		for col := 0; col < d.width-1; col++ {
			i0 := uint32(row*d.width + col)
			i1 := i0 + 1
			i2 := i0 + uint32(d.width)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}

	return &Mesh{
		Vertices:       vertices,
		Indices:        indices,
		Center:         center,
		BoundingSphere: sphere,
		MinimumHeight:  minHeight,
		MaximumHeight:  maxHeight,
	}, nil
}
