package imagery

import (
	"github.com/Carmen-Shannon/globe-go/common"
)

type imageryKey struct {
	x, y, level int
}

// Layer binds one imagery Provider into the draw order and maps its tiles
// onto terrain tiles as TileImagery skeletons. Records are cached per tile
// address so overlapping terrain tiles share one fetch and one texture.
type Layer struct {
	provider Provider
	show     bool
	alpha    float64

	cache map[imageryKey]*Imagery
}

// NewLayer creates a Layer over the given provider with the specified options applied.
// Panics if provider is nil.
//
// Parameters:
//   - provider: the imagery source for this layer
//   - options: a variadic list of LayerBuilderOption functions to configure the Layer
//
// Returns:
//   - *Layer: the configured layer
func NewLayer(provider Provider, options ...LayerBuilderOption) *Layer {
	if provider == nil {
		panic("imagery: layer requires a provider")
	}
	l := &Layer{
		provider: provider,
		show:     true,
		alpha:    1,
		cache:    make(map[imageryKey]*Imagery),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Provider returns the layer's imagery source.
func (l *Layer) Provider() Provider {
	return l.provider
}

// Show reports whether the layer participates in streaming and drawing.
func (l *Layer) Show() bool {
	return l.show
}

// SetShow toggles the layer's participation. Hiding a layer stops new
// skeletons from being attached; existing ones finish on their own.
func (l *Layer) SetShow(show bool) {
	l.show = show
}

// Alpha returns the layer's blend factor in [0, 1].
func (l *Layer) Alpha() float64 {
	return l.alpha
}

// getImageryFromCache returns the record for an imagery tile address, creating
// it on first use. The caller holds one reference either way.
func (l *Layer) getImageryFromCache(x, y, level int) *Imagery {
	key := imageryKey{x: x, y: y, level: level}
	if cached, ok := l.cache[key]; ok {
		cached.AddReference()
		return cached
	}
	record := &Imagery{
		layer:     l,
		x:         x,
		y:         y,
		level:     level,
		rectangle: tileRectangle(x, y, level),
		state:     ImageryUnloaded,
		refCount:  1,
	}
	l.cache[key] = record
	return record
}

// removeImagery evicts a record whose reference count reached zero.
func (l *Layer) removeImagery(i *Imagery) {
	delete(l.cache, imageryKey{x: i.x, y: i.y, level: i.level})
}

// CachedImageryCount returns the number of live records, for statistics.
func (l *Layer) CachedImageryCount() int {
	return len(l.cache)
}

// CreateTileImagerySkeletons attaches this layer's skeletons for one terrain
// tile, inserting at insertionPoint so placeholder expansion keeps the draw
// order of everything after it. If the provider is not ready yet a single
// placeholder is inserted instead, to be expanded once readiness arrives.
//
// Parameters:
//   - list: the tile's current imagery list
//   - rectangle: the terrain tile's geographic bounds
//   - level: the terrain tile's quadtree level
//   - insertionPoint: the list index to insert at
//
// Returns:
//   - []*TileImagery: the updated list
//   - int: the number of entries inserted
func (l *Layer) CreateTileImagerySkeletons(list []*TileImagery, rectangle common.Rectangle, level int, insertionPoint int) ([]*TileImagery, int) {
	if !l.provider.Ready() {
		placeholder := &Imagery{layer: l, state: ImageryPlaceHolder, refCount: 1}
		return insertTileImagery(list, insertionPoint, []*TileImagery{newTileImagery(placeholder)}), 1
	}

	overlap, ok := rectangle.Intersection(l.provider.Rectangle())
	if !ok {
		return list, 0
	}

	imageryLevel := min(level, l.provider.MaximumLevel())
	x0, y0, x1, y1 := tileXYRange(overlap, imageryLevel)

	skeletons := make([]*TileImagery, 0, (x1-x0+1)*(y1-y0+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			skeletons = append(skeletons, newTileImagery(l.getImageryFromCache(x, y, imageryLevel)))
		}
	}
	return insertTileImagery(list, insertionPoint, skeletons), len(skeletons)
}

// insertTileImagery splices entries into list at index i.
func insertTileImagery(list []*TileImagery, i int, entries []*TileImagery) []*TileImagery {
	out := make([]*TileImagery, 0, len(list)+len(entries))
	out = append(out, list[:i]...)
	out = append(out, entries...)
	out = append(out, list[i:]...)
	return out
}
