// package quadtree holds the tile tree and the streaming core: an arena of
// quadtree tile records, the per-tile surface payload, the orchestrator that
// drives each visible tile's terrain and imagery state machines once per tick,
// and the Streamer front door that owns the collaborators.
package quadtree

import (
	"github.com/Carmen-Shannon/globe-go/common"
)

// NoTile is the sentinel arena index for an absent parent or child.
const NoTile = int32(-1)

// TileState is a quadtree tile's load phase.
type TileState int

const (
	// TileStart means the tile has never been processed.
	TileStart TileState = iota
	// TileLoading means terrain or imagery work is outstanding.
	TileLoading
	// TileDone means every sub-machine reported terminal.
	TileDone
)

// String returns the state name for logs.
func (s TileState) String() string {
	switch s {
	case TileStart:
		return "Start"
	case TileLoading:
		return "Loading"
	case TileDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Tile is one quadtree node. Parent and children are arena indices rather
// than pointers so the tree carries no reference cycles and records stay
// trivially copyable.
type Tile struct {
	x, y, level int
	rectangle   common.Rectangle

	parent   int32
	children [4]int32

	state               TileState
	renderable          bool
	upsampledFromParent bool

	surface *SurfaceTile
}

// X returns the tile's column.
func (t *Tile) X() int { return t.x }

// Y returns the tile's row, growing southward.
func (t *Tile) Y() int { return t.y }

// Level returns the tile's quadtree level.
func (t *Tile) Level() int { return t.level }

// Rectangle returns the tile's geographic bounds.
func (t *Tile) Rectangle() common.Rectangle { return t.rectangle }

// State returns the tile's load phase.
func (t *Tile) State() TileState { return t.state }

// Renderable reports whether the tile has reached a renderable configuration.
// Once set it stays set; better data only improves the picture.
func (t *Tile) Renderable() bool { return t.renderable }

// UpsampledFromParent reports whether everything the tile currently shows is
// derived from ancestors, making it cheap to evict.
func (t *Tile) UpsampledFromParent() bool { return t.upsampledFromParent }

// Surface returns the tile's surface payload, or nil before first processing.
func (t *Tile) Surface() *SurfaceTile { return t.surface }
