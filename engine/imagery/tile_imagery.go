package imagery

import (
	"context"

	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/graphics"
	"github.com/Carmen-Shannon/globe-go/engine/request"
)

// TileImagery binds one imagery record to one terrain tile. The record in
// loadingImagery is in flight; readyImagery is the last one that reached a
// renderable texture and stays attached as the fallback while a replacement
// loads. Both references are counted.
type TileImagery struct {
	loadingImagery *Imagery
	readyImagery   *Imagery

	// translation (x, y) and scale (z, w) mapping the terrain tile's texture
	// coordinates into the ready record's texture.
	textureTranslationAndScale [4]float64
}

func newTileImagery(loading *Imagery) *TileImagery {
	return &TileImagery{loadingImagery: loading}
}

// Layer returns the imagery layer this entry belongs to.
func (t *TileImagery) Layer() *Layer {
	if t.loadingImagery != nil {
		return t.loadingImagery.layer
	}
	if t.readyImagery != nil {
		return t.readyImagery.layer
	}
	return nil
}

// IsPlaceholder reports whether this entry is a stand-in awaiting provider
// readiness.
func (t *TileImagery) IsPlaceholder() bool {
	return t.loadingImagery != nil && t.loadingImagery.state == ImageryPlaceHolder
}

// LoadingImagery returns the in-flight record, or nil.
func (t *TileImagery) LoadingImagery() *Imagery {
	return t.loadingImagery
}

// ReadyImagery returns the last renderable record, or nil.
func (t *TileImagery) ReadyImagery() *Imagery {
	return t.readyImagery
}

// TextureTranslationAndScale returns the mapping of the terrain tile's texture
// coordinates into the ready texture: translation in (x, y), scale in (z, w).
// Only meaningful once ReadyImagery is set.
func (t *TileImagery) TextureTranslationAndScale() [4]float64 {
	return t.textureTranslationAndScale
}

// Renderable reports whether this entry no longer blocks the tile from
// rendering: it is terminal, or it has a fallback texture to draw.
func (t *TileImagery) Renderable() bool {
	return t.loadingImagery == nil || t.readyImagery != nil ||
		t.loadingImagery.state == ImageryFailed || t.loadingImagery.state == ImageryInvalid
}

// UpsampledOnly reports this entry's contribution to the tile's
// upsampled-only aggregate: true only when the in-flight record can never
// deliver real pixels.
func (t *TileImagery) UpsampledOnly() bool {
	return t.loadingImagery != nil &&
		(t.loadingImagery.state == ImageryFailed || t.loadingImagery.state == ImageryInvalid)
}

// Process advances the entry by at most one transition. It never blocks.
//
// Parameters:
//   - ctx: parent context for any request submitted this step
//   - scheduler: the background request scheduler
//   - device: the GPU device textures are created on
//   - terrainRectangle: the owning terrain tile's geographic bounds
//
// Returns:
//   - bool: true once the entry is terminal (no in-flight record remains)
func (t *TileImagery) Process(ctx context.Context, scheduler request.Scheduler, device graphics.Device, terrainRectangle common.Rectangle) bool {
	loading := t.loadingImagery
	if loading == nil {
		return true
	}

	loading.process(ctx, scheduler, device)

	switch loading.state {
	case ImageryReady:
		// The loading slot's reference moves to the ready slot; the previous
		// ready record loses its holder.
		if t.readyImagery != nil {
			t.readyImagery.ReleaseReference()
		}
		t.readyImagery = loading
		t.loadingImagery = nil
		t.textureTranslationAndScale = textureTranslationAndScale(terrainRectangle, loading.rectangle)
		return true
	case ImageryFailed, ImageryInvalid:
		// Keep whatever fallback is already renderable; drop only the failed
		// record.
		loading.ReleaseReference()
		t.loadingImagery = nil
		return true
	default:
		return false
	}
}

// Release drops every reference this entry holds. Called on tile eviction and
// on placeholder expansion.
func (t *TileImagery) Release() {
	if t.loadingImagery != nil {
		t.loadingImagery.ReleaseReference()
		t.loadingImagery = nil
	}
	if t.readyImagery != nil {
		t.readyImagery.ReleaseReference()
		t.readyImagery = nil
	}
}

// textureTranslationAndScale maps terrain-tile texture coordinates into the
// imagery rectangle's texture space.
func textureTranslationAndScale(terrain, img common.Rectangle) [4]float64 {
	scaleX := terrain.Width() / img.Width()
	scaleY := terrain.Height() / img.Height()
	return [4]float64{
		scaleX * (terrain.West - img.West) / terrain.Width(),
		scaleY * (img.North - terrain.North) / terrain.Height(),
		scaleX,
		scaleY,
	}
}
