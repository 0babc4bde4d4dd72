package terrain

// HeightmapDataOption is a functional option for configuring a heightmap payload via NewHeightmapData.
type HeightmapDataOption func(*heightmapData)

// WithChildMask is an option builder that sets the availability bitmask for the
// four child tiles. Bit k corresponds to child index k (0 = NW, 1 = NE,
// 2 = SW, 3 = SE).
//
// Parameters:
//   - mask: the child availability bitmask
//
// Returns:
//   - HeightmapDataOption: a function that applies the child mask option
func WithChildMask(mask uint8) HeightmapDataOption {
	return func(d *heightmapData) {
		d.childMask = mask
	}
}

// WithWaterMask is an option builder that attaches land/water coverage to the
// payload: one byte per texel in a square grid, 255 = water.
//
// Parameters:
//   - mask: the water mask texels
//
// Returns:
//   - HeightmapDataOption: a function that applies the water mask option
func WithWaterMask(mask []byte) HeightmapDataOption {
	return func(d *heightmapData) {
		d.waterMask = mask
	}
}

// WithCreatedByUpsampling is an option builder that marks the payload as
// upsampling-derived. Mainly useful in tests; Upsample sets the flag itself.
//
// Parameters:
//   - derived: true if the payload was derived from an ancestor
//
// Returns:
//   - HeightmapDataOption: a function that applies the upsampling flag option
func WithCreatedByUpsampling(derived bool) HeightmapDataOption {
	return func(d *heightmapData) {
		d.createdByUpsampling = derived
	}
}
