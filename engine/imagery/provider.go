// package imagery provides the imagery side of tile streaming: providers
// serving image tiles, layers that map provider tiles onto terrain tiles as
// skeleton records, and the per-tile TileImagery state machine that turns a
// skeleton into a renderable texture.
//
// Imagery tiles use the same geographic quadtree as terrain: one root tile
// covering the full globe, x growing eastward and y growing southward.
package imagery

import (
	"context"
	"errors"

	"github.com/Carmen-Shannon/globe-go/common"
)

// ErrOutsideCoverage is returned by a Provider when the requested tile lies
// outside the area it serves. It marks the skeleton Invalid rather than
// Failed: retrying cannot help.
var ErrOutsideCoverage = errors.New("imagery: tile outside provider coverage")

// Provider is a source of image tiles. RequestImage is only ever invoked from
// a request worker, so implementations may block on network or disk.
type Provider interface {
	// Ready reports whether the provider has finished its own initialization.
	// Until ready, layers attach placeholder skeletons instead of real ones.
	Ready() bool

	// Rectangle returns the geographic area this provider covers.
	Rectangle() common.Rectangle

	// MaximumLevel returns the deepest tile level the provider serves. Terrain
	// tiles below it reuse imagery from this level.
	MaximumLevel() int

	// RequestImage fetches the pixels for an imagery tile. Called on a
	// background worker; honors ctx for cancellation.
	//
	// Parameters:
	//   - ctx: cancellation context for the request
	//   - x, y, level: the imagery tile address
	//
	// Returns:
	//   - common.TextureStagingData: the decoded pixels ready for upload
	//   - error: ErrOutsideCoverage, a fetch error, or nil
	RequestImage(ctx context.Context, x, y, level int) (common.TextureStagingData, error)
}

// tileRectangle returns the geographic bounds of an imagery tile in the
// one-root geographic scheme.
func tileRectangle(x, y, level int) common.Rectangle {
	tiles := float64(int(1) << uint(level))
	lonStep := common.FullGlobe.Width() / tiles
	latStep := common.FullGlobe.Height() / tiles
	return common.Rectangle{
		West:  common.FullGlobe.West + float64(x)*lonStep,
		East:  common.FullGlobe.West + float64(x+1)*lonStep,
		North: common.FullGlobe.North - float64(y)*latStep,
		South: common.FullGlobe.North - float64(y+1)*latStep,
	}
}

// tileXYRange returns the inclusive x/y index range of imagery tiles at the
// given level whose rectangles overlap rect.
func tileXYRange(rect common.Rectangle, level int) (x0, y0, x1, y1 int) {
	tiles := int(1) << uint(level)
	lonStep := common.FullGlobe.Width() / float64(tiles)
	latStep := common.FullGlobe.Height() / float64(tiles)

	clampTile := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > tiles-1 {
			return tiles - 1
		}
		return v
	}

	x0 = clampTile(int((rect.West - common.FullGlobe.West) / lonStep))
	x1 = clampTile(int((rect.East - common.FullGlobe.West) / lonStep))
	y0 = clampTile(int((common.FullGlobe.North - rect.North) / latStep))
	y1 = clampTile(int((common.FullGlobe.North - rect.South) / latStep))

	// A rectangle edge that lands exactly on a tile boundary would pick up a
	// zero-area sliver of the next tile; shrink the range instead.
	if x1 > x0 && rect.East <= common.FullGlobe.West+float64(x1)*lonStep {
		x1--
	}
	if y1 > y0 && rect.South >= common.FullGlobe.North-float64(y1)*latStep {
		y1--
	}
	return x0, y0, x1, y1
}
