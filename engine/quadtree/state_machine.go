package quadtree

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/graphics"
	"github.com/Carmen-Shannon/globe-go/engine/imagery"
	"github.com/Carmen-Shannon/globe-go/engine/profiler"
	"github.com/Carmen-Shannon/globe-go/engine/request"
	"github.com/Carmen-Shannon/globe-go/engine/terrain"
)

// FrameContext bundles the collaborators the orchestrator needs for one tick.
// The orchestrator itself is stateless: everything it touches arrives here or
// lives on the tiles.
type FrameContext struct {
	// Ctx is the parent context for requests submitted this tick.
	Ctx context.Context
	// Scheduler runs fetches, upsamples, and mesh builds off-thread.
	Scheduler request.Scheduler
	// Device uploads meshes and textures.
	Device graphics.Device
	// Ellipsoid is the surface meshes are computed on.
	Ellipsoid common.Ellipsoid
	// Terrain is the terrain source.
	Terrain terrain.Provider
	// Imagery is the ordered layer set; may be nil for terrain-only streaming.
	Imagery *imagery.Collection
	// Counters receives streaming statistics; may be nil.
	Counters *profiler.Counters
}

// ProcessStateMachine drives one visible tile one step. Called once per
// visible tile per tick by the Streamer; never blocks.
//
// Parameters:
//   - a: the tile arena
//   - index: the tile to process
//   - fc: this tick's collaborators
func ProcessStateMachine(a *Arena, index int32, fc *FrameContext) {
	tile := a.Tile(index)
	if fc.Counters != nil {
		fc.Counters.TilesProcessed++
	}

	if tile.surface == nil {
		tile.surface = &SurfaceTile{}
	}
	if tile.state == TileStart {
		prepareNewTile(a, index, fc)
		tile.state = TileLoading
	}
	surface := tile.surface

	if tile.state == TileLoading {
		processTerrainStateMachine(a, index, fc)
	}

	isRenderable := surface.meshBuffers != nil
	isDoneLoading := surface.loadedTerrain == nil && surface.upsampledTerrain == nil
	isUpsampledOnly := surface.terrainData != nil && surface.terrainData.CreatedByUpsampling()

	// Walk the imagery list in draw order. Placeholders whose provider has
	// come up are expanded in place and the same index is re-evaluated, so
	// everything after them keeps its relative order.
	for i := 0; i < len(surface.imagery); {
		entry := surface.imagery[i]

		if entry.IsPlaceholder() {
			layer := entry.Layer()
			if layer.Provider().Ready() {
				entry.Release()
				surface.imagery = append(surface.imagery[:i], surface.imagery[i+1:]...)
				surface.imagery, _ = layer.CreateTileImagerySkeletons(surface.imagery, tile.rectangle, tile.level, i)
				continue
			}
		}

		wasReady := entry.ReadyImagery() != nil
		terminal := entry.Process(fc.Ctx, fc.Scheduler, fc.Device, tile.rectangle)
		if fc.Counters != nil && !wasReady && entry.ReadyImagery() != nil {
			fc.Counters.ImageryReady++
		}

		isDoneLoading = isDoneLoading && terminal
		isRenderable = isRenderable && entry.Renderable()
		isUpsampledOnly = isUpsampledOnly && entry.UpsampledOnly()
		i++
	}

	tile.upsampledFromParent = isUpsampledOnly

	if isRenderable {
		if fc.Counters != nil && !tile.renderable {
			fc.Counters.TilesRenderable++
		}
		tile.renderable = true
	}
	if isDoneLoading {
		if fc.Counters != nil && tile.state != TileDone {
			fc.Counters.TilesDone++
		}
		tile.state = TileDone
	}
}

// prepareNewTile runs one-shot setup the first time a tile is processed:
// terrain slot creation, imagery skeleton attachment, and culling geometry.
func prepareNewTile(a *Arena, index int32, fc *FrameContext) {
	tile := a.Tile(index)
	surface := tile.surface

	if source, ok := getUpsampleTileDetails(a, index); ok {
		surface.upsampledTerrain = terrain.NewUpsampledTileTerrain(source)
	}
	if isDataAvailable(a, index) {
		surface.loadedTerrain = terrain.NewTileTerrain()
	}

	for i := 0; i < fc.Imagery.Len(); i++ {
		layer := fc.Imagery.Get(i)
		if !layer.Show() {
			continue
		}
		surface.imagery, _ = layer.CreateTileImagerySkeletons(surface.imagery, tile.rectangle, tile.level, len(surface.imagery))
	}

	surface.computeGeometry(fc.Ellipsoid, tile.rectangle)
}

// processTerrainStateMachine advances the tile's terrain slots, giving real
// data strict priority over upsampled data.
func processTerrainStateMachine(a *Arena, index int32, fc *FrameContext) {
	tile := a.Tile(index)
	surface := tile.surface

	suspendUpsampling := false

	if loaded := surface.loadedTerrain; loaded != nil {
		loaded.Process(fc.Ctx, fc.Scheduler, fc.Terrain, fc.Ellipsoid, tile.rectangle, tile.x, tile.y, tile.level)

		// Publish the payload as soon as it arrives, before the mesh exists,
		// so children can start upsampling from it. Real data in hand also
		// suspends the tile's own upsample machine; it is not cancelled until
		// the load resolves, in case the load fails.
		if hasData(loaded) {
			if surface.terrainData != loaded.Data() {
				surface.terrainData = loaded.Data()
				refreshWaterMask(a, index, fc)
				propagateNewLoadedDataToChildren(a, index)
			}
			suspendUpsampling = true
		}
		if loaded.State() == terrain.StateReady && publishMesh(tile, loaded, fc) {
			if fc.Counters != nil {
				fc.Counters.TerrainLoads++
			}
			promoteTerrain(surface, loaded)
		}
		if loaded.State() == terrain.StateFailed {
			surface.loadedTerrain = nil
		}
	}

	if upsampled := surface.upsampledTerrain; upsampled != nil && !suspendUpsampling {
		upsampled.Process(fc.Ctx, fc.Scheduler, fc.Terrain, fc.Ellipsoid, tile.rectangle, tile.x, tile.y, tile.level)

		if hasData(upsampled) {
			// Upsampled data never displaces real data.
			if surface.terrainData != upsampled.Data() &&
				(surface.terrainData == nil || surface.terrainData.CreatedByUpsampling()) {
				surface.terrainData = upsampled.Data()
				refreshWaterMask(a, index, fc)
				propagateNewLoadedDataToChildren(a, index)
			}
		}
		if upsampled.State() == terrain.StateReady && publishMesh(tile, upsampled, fc) {
			if fc.Counters != nil {
				fc.Counters.TerrainUpsamples++
			}
			promoteTerrain(surface, upsampled)
		}
		if upsampled.State() == terrain.StateFailed {
			surface.upsampledTerrain = nil
		}
	}
}

// hasData reports whether a terrain machine has received its payload (and
// not failed since).
func hasData(tt *terrain.TileTerrain) bool {
	switch tt.State() {
	case terrain.StateReceived, terrain.StateTransforming, terrain.StateReady:
		return true
	default:
		return false
	}
}

// publishMesh uploads a ready terrain mesh to the GPU and installs it on the
// tile. On upload failure the slot is left untouched so the tile retries next
// tick.
//
// Returns:
//   - bool: true if the mesh is installed
func publishMesh(tile *Tile, tt *terrain.TileTerrain, fc *FrameContext) bool {
	mesh := tt.Mesh()
	label := fmt.Sprintf("terrain %d/%d/%d", tile.level, tile.x, tile.y)
	buffers, err := fc.Device.CreateMeshBuffers(label, mesh.VertexBytes(), mesh.IndexBytes(), mesh.IndexCount())
	if err != nil {
		return false
	}

	surface := tile.surface
	surface.meshBuffers.Release()
	surface.meshBuffers = buffers
	surface.boundingSphere = mesh.BoundingSphere
	surface.minimumHeight = mesh.MinimumHeight
	surface.maximumHeight = mesh.MaximumHeight
	return true
}

// promoteTerrain moves a successful terrain machine into the pick slot and
// clears both in-flight slots. A superseded in-flight machine is cancelled
// before its reference is dropped.
func promoteTerrain(surface *SurfaceTile, tt *terrain.TileTerrain) {
	surface.pickTerrain = tt
	if surface.loadedTerrain != nil && surface.loadedTerrain != tt {
		surface.loadedTerrain.Cancel()
	}
	if surface.upsampledTerrain != nil && surface.upsampledTerrain != tt {
		surface.upsampledTerrain.Cancel()
	}
	surface.loadedTerrain = nil
	surface.upsampledTerrain = nil
}

// propagateNewLoadedDataToChildren pushes a tile's freshly adopted payload
// down to every child that has already been visited, replacing their stale
// upsample sources.
func propagateNewLoadedDataToChildren(a *Arena, index int32) {
	tile := a.Tile(index)
	data := tile.surface.terrainData

	for _, childIndex := range a.Children(index) {
		if childIndex == NoTile {
			continue
		}
		child := a.Tile(childIndex)
		if child.state == TileStart {
			continue
		}

		childSurface := child.surface
		// Authoritative data, once acquired, is never displaced.
		if childSurface.terrainData != nil && !childSurface.terrainData.CreatedByUpsampling() {
			continue
		}

		// Always a fresh instance: a superseded machine may have a completion
		// still pending that must not land on the replacement. Cancel first,
		// then drop.
		if childSurface.upsampledTerrain != nil {
			childSurface.upsampledTerrain.Cancel()
		}
		childSurface.upsampledTerrain = terrain.NewUpsampledTileTerrain(terrain.UpsampleSource{
			Data:  data,
			X:     tile.x,
			Y:     tile.y,
			Level: tile.level,
		})

		if childSurface.loadedTerrain == nil && data.IsChildAvailable(tile.x, tile.y, child.x, child.y) {
			childSurface.loadedTerrain = terrain.NewTileTerrain()
		}

		// Revisit the child next tick regardless of its previous state.
		child.state = TileLoading
	}
}

// getUpsampleTileDetails walks strictly upward to the nearest ancestor that
// has adopted any terrain payload.
//
// Returns:
//   - terrain.UpsampleSource: the ancestor payload and address
//   - bool: false when no ancestor has data yet (retry next tick)
func getUpsampleTileDetails(a *Arena, index int32) (terrain.UpsampleSource, bool) {
	ancestor := a.ParentIndex(index)
	for ancestor != NoTile {
		t := a.Tile(ancestor)
		if t.surface != nil && t.surface.terrainData != nil {
			return terrain.UpsampleSource{
				Data:  t.surface.terrainData,
				X:     t.x,
				Y:     t.y,
				Level: t.level,
			}, true
		}
		ancestor = a.ParentIndex(ancestor)
	}
	return terrain.UpsampleSource{}, false
}

// isDataAvailable reports whether real terrain exists for a tile. Roots are
// always available; otherwise the parent's availability metadata decides, and
// an undetermined answer is a conservative false.
func isDataAvailable(a *Arena, index int32) bool {
	parentIndex := a.ParentIndex(index)
	if parentIndex == NoTile {
		return true
	}
	parent := a.Tile(parentIndex)
	if parent.surface == nil || parent.surface.terrainData == nil {
		return false
	}
	tile := a.Tile(index)
	return parent.surface.terrainData.IsChildAvailable(parent.x, parent.y, tile.x, tile.y)
}

// refreshWaterMask installs the water mask texture for a freshly adopted
// payload: an owned texture when the payload carries its own mask, an
// ancestor's shared texture (reference-counted) when the payload is
// upsampled, nothing otherwise.
func refreshWaterMask(a *Arena, index int32, fc *FrameContext) {
	tile := a.Tile(index)
	surface := tile.surface

	surface.waterMaskTexture.Release()
	surface.waterMaskTexture = nil
	surface.waterMaskTranslationAndScale = [4]float64{}

	if fc.Terrain == nil || !fc.Terrain.HasWaterMask() {
		return
	}

	if mask := surface.terrainData.WaterMask(); mask != nil {
		texture := createWaterMaskTexture(tile, mask, fc)
		if texture == nil {
			return
		}
		surface.waterMaskTexture = texture
		surface.waterMaskTranslationAndScale = [4]float64{0, 0, 1, 1}
		return
	}

	if !surface.terrainData.CreatedByUpsampling() {
		return
	}

	// Upsampled payloads carry no mask of their own; share the nearest
	// ancestor's texture and map this tile's rectangle into it.
	ancestor := a.ParentIndex(index)
	for ancestor != NoTile {
		t := a.Tile(ancestor)
		if t.surface != nil && t.surface.waterMaskTexture != nil && t.surface.terrainData != nil && !t.surface.terrainData.CreatedByUpsampling() {
			t.surface.waterMaskTexture.AddReference()
			surface.waterMaskTexture = t.surface.waterMaskTexture
			surface.waterMaskTranslationAndScale = waterMaskTranslationAndScale(tile.rectangle, t.rectangle)
			return
		}
		ancestor = a.ParentIndex(ancestor)
	}
}

func createWaterMaskTexture(tile *Tile, mask []byte, fc *FrameContext) *graphics.Texture {
	size := 1
	for size*size < len(mask) {
		size++
	}
	if size*size != len(mask) {
		// Malformed mask degrades to no water rendering.
		return nil
	}

	// Expand the single-channel mask to RGBA; the device's default format is
	// four bytes per texel.
	pixels := make([]byte, len(mask)*4)
	for i, v := range mask {
		pixels[i*4] = v
		pixels[i*4+1] = v
		pixels[i*4+2] = v
		pixels[i*4+3] = 255
	}

	label := fmt.Sprintf("water mask %d/%d/%d", tile.level, tile.x, tile.y)
	texture, err := fc.Device.CreateTexture(label, common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(size),
		Height: uint32(size),
	}, common.SamplerStagingData{})
	if err != nil {
		return nil
	}
	return texture
}

// waterMaskTranslationAndScale maps a tile's texture coordinates into an
// ancestor's water mask texture.
func waterMaskTranslationAndScale(tileRect, ancestorRect common.Rectangle) [4]float64 {
	scaleX := tileRect.Width() / ancestorRect.Width()
	scaleY := tileRect.Height() / ancestorRect.Height()
	return [4]float64{
		(tileRect.West - ancestorRect.West) / ancestorRect.Width(),
		(ancestorRect.North - tileRect.North) / ancestorRect.Height(),
		scaleX,
		scaleY,
	}
}
