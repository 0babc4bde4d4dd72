// package terrain defines the terrain payload contracts consumed by the tile
// streaming core, a heightmap implementation of them, and the per-tile
// TileTerrain state machine that loads or upsamples one payload.
//
// Tile addressing follows the slippy-map convention: x grows eastward, y grows
// southward from the north edge, and a tile (x, y) at level L has the four
// children (2x+dx, 2y+dy) at level L+1 with child index dx + 2*dy (0 = NW,
// 1 = NE, 2 = SW, 3 = SE).
package terrain

import (
	"context"

	"github.com/Carmen-Shannon/globe-go/common"
)

// Provider is a source of terrain payloads and availability metadata. The
// streaming core treats it as an external collaborator: RequestTileGeometry is
// only ever invoked from a request worker, so implementations may block on
// network or disk.
type Provider interface {
	// Ready reports whether the provider has finished its own initialization
	// (metadata fetch, tiling negotiation). Until ready, no tile geometry may
	// be requested.
	Ready() bool

	// HasWaterMask reports whether this provider's payloads may carry a
	// water mask.
	HasWaterMask() bool

	// RequestTileGeometry fetches the terrain payload for a tile. Called on a
	// background worker; honors ctx for cancellation.
	//
	// Parameters:
	//   - ctx: cancellation context for the request
	//   - x, y, level: the tile address
	//
	// Returns:
	//   - Data: the terrain payload
	//   - error: error if the fetch fails
	RequestTileGeometry(ctx context.Context, x, y, level int) (Data, error)
}

// Data is one tile's terrain payload. Payloads are shared by content identity:
// a child's upsampled terrain references its ancestor's Data without owning it,
// so implementations must be safe for concurrent reads.
type Data interface {
	// IsChildAvailable reports whether the given child of the given parent has
	// real (non-upsampled) terrain available from the provider, per the
	// availability metadata carried by this payload.
	//
	// Parameters:
	//   - parentX, parentY: the address of the tile this payload belongs to
	//   - childX, childY: the child tile address at the next level
	//
	// Returns:
	//   - bool: true if real terrain exists for the child
	IsChildAvailable(parentX, parentY, childX, childY int) bool

	// CreatedByUpsampling reports whether this payload was derived from an
	// ancestor rather than fetched from the provider. Upsampled data is always
	// superseded by real data, never the reverse.
	CreatedByUpsampling() bool

	// WaterMask returns the per-texel land/water coverage (one byte per texel,
	// 255 = water), or nil when this payload carries none.
	WaterMask() []byte

	// Upsample derives a descendant tile's approximate payload from this one.
	// Called on a background worker; honors ctx.
	//
	// Parameters:
	//   - ctx: cancellation context
	//   - sourceX, sourceY, sourceLevel: the address this payload belongs to
	//   - x, y, level: the descendant tile address (level > sourceLevel)
	//
	// Returns:
	//   - Data: the derived payload, marked CreatedByUpsampling
	//   - error: error if the tile is not a descendant or ctx is cancelled
	Upsample(ctx context.Context, sourceX, sourceY, sourceLevel, x, y, level int) (Data, error)

	// CreateMesh builds the renderable mesh for this payload over the given
	// rectangle. Called on a background worker; honors ctx.
	//
	// Parameters:
	//   - ctx: cancellation context
	//   - ellipsoid: the ellipsoid positions are computed on
	//   - rectangle: the tile's geographic bounds
	//
	// Returns:
	//   - *Mesh: the generated mesh
	//   - error: error if generation fails or ctx is cancelled
	CreateMesh(ctx context.Context, ellipsoid common.Ellipsoid, rectangle common.Rectangle) (*Mesh, error)
}

// ChildIndex returns the quadtree child slot (0–3) of a child tile relative to
// its parent: dx + 2*dy with y growing southward.
func ChildIndex(parentX, parentY, childX, childY int) int {
	return (childX - parentX*2) + 2*(childY-parentY*2)
}
