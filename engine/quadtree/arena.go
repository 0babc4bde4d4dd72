package quadtree

import (
	"github.com/Carmen-Shannon/globe-go/common"
)

// Arena owns every tile record and addresses them by stable index. Indices
// never move or get reused while the arena lives; eviction policy belongs to
// the caller.
type Arena struct {
	tiles []*Tile
}

// NewArena creates an Arena holding a single root tile covering the full
// globe.
//
// Returns:
//   - *Arena: the arena with its root at index 0
func NewArena() *Arena {
	a := &Arena{}
	a.newTile(0, 0, 0, common.FullGlobe, NoTile)
	return a
}

func (a *Arena) newTile(x, y, level int, rectangle common.Rectangle, parent int32) int32 {
	index := int32(len(a.tiles))
	a.tiles = append(a.tiles, &Tile{
		x:         x,
		y:         y,
		level:     level,
		rectangle: rectangle,
		parent:    parent,
		children:  [4]int32{NoTile, NoTile, NoTile, NoTile},
	})
	return index
}

// Root returns the root tile's index.
func (a *Arena) Root() int32 {
	return 0
}

// Len returns the number of live tile records.
func (a *Arena) Len() int {
	return len(a.tiles)
}

// Tile returns the record at the given index.
func (a *Arena) Tile(index int32) *Tile {
	return a.tiles[index]
}

// ParentIndex returns the index of a tile's parent, or NoTile for the root.
func (a *Arena) ParentIndex(index int32) int32 {
	return a.tiles[index].parent
}

// Children returns a tile's four child indices in NW, NE, SW, SE order; slots
// are NoTile until EnsureChildren has run.
func (a *Arena) Children(index int32) [4]int32 {
	return a.tiles[index].children
}

// EnsureChildren creates any missing children of a tile and returns all four
// indices in NW, NE, SW, SE order.
//
// Parameters:
//   - index: the parent tile's arena index
//
// Returns:
//   - [4]int32: the child indices
func (a *Arena) EnsureChildren(index int32) [4]int32 {
	parent := a.tiles[index]
	rects := parent.rectangle.Subdivide()
	for slot := 0; slot < 4; slot++ {
		if parent.children[slot] != NoTile {
			continue
		}
		childX := parent.x*2 + slot%2
		childY := parent.y*2 + slot/2
		parent.children[slot] = a.newTile(childX, childY, parent.level+1, rects[slot], index)
	}
	return parent.children
}

// Release drops every tile's surface payload, cancelling outstanding work and
// freeing GPU resources. The arena is unusable afterwards.
func (a *Arena) Release() {
	for _, tile := range a.tiles {
		if tile.surface != nil {
			tile.surface.Release()
			tile.surface = nil
		}
	}
	a.tiles = nil
}
