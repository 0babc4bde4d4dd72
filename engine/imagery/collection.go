package imagery

// Collection is the ordered set of imagery layers; the order is the draw
// order, bottom layer first, and skeleton attachment follows it.
type Collection struct {
	layers []*Layer
}

// NewCollection creates a Collection holding the given layers in draw order.
//
// Parameters:
//   - layers: the initial layers, bottom first
//
// Returns:
//   - *Collection: the collection
func NewCollection(layers ...*Layer) *Collection {
	return &Collection{layers: layers}
}

// Add appends a layer on top of the existing ones.
func (c *Collection) Add(layer *Layer) {
	if layer == nil {
		panic("imagery: collection cannot hold a nil layer")
	}
	c.layers = append(c.layers, layer)
}

// Len returns the number of layers. Safe on a nil collection.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.layers)
}

// Get returns the layer at draw position i.
func (c *Collection) Get(i int) *Layer {
	return c.layers[i]
}
