package quadtree

import (
	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/graphics"
	"github.com/Carmen-Shannon/globe-go/engine/imagery"
	"github.com/Carmen-Shannon/globe-go/engine/terrain"
)

// SurfaceTile is the per-tile surface payload: the imagery list in draw
// order, the adopted terrain payload, the in-flight terrain slots, and the
// precomputed culling geometry. It is owned by exactly one Tile.
type SurfaceTile struct {
	imagery []*imagery.TileImagery

	// terrainData is shared by content identity: a child's upsampled terrain
	// references an ancestor's payload without owning it.
	terrainData terrain.Data

	loadedTerrain    *terrain.TileTerrain
	upsampledTerrain *terrain.TileTerrain
	pickTerrain      *terrain.TileTerrain

	southwestCorner common.Cartesian3
	northeastCorner common.Cartesian3
	westNormal      common.Cartesian3
	eastNormal      common.Cartesian3
	southNormal     common.Cartesian3
	northNormal     common.Cartesian3

	boundingSphere common.BoundingSphere
	minimumHeight  float64
	maximumHeight  float64

	meshBuffers *graphics.MeshBuffers

	waterMaskTexture             *graphics.Texture
	waterMaskTranslationAndScale [4]float64
}

// TerrainData returns the adopted terrain payload, or nil.
func (s *SurfaceTile) TerrainData() terrain.Data { return s.terrainData }

// LoadedTerrain returns the in-flight real-data terrain machine, or nil.
func (s *SurfaceTile) LoadedTerrain() *terrain.TileTerrain { return s.loadedTerrain }

// UpsampledTerrain returns the in-flight upsample terrain machine, or nil.
func (s *SurfaceTile) UpsampledTerrain() *terrain.TileTerrain { return s.upsampledTerrain }

// PickTerrain returns the terrain machine promoted on success, or nil. Its
// mesh is the authoritative geometry for picking.
func (s *SurfaceTile) PickTerrain() *terrain.TileTerrain { return s.pickTerrain }

// Imagery returns the tile's imagery list in draw order. The slice is owned
// by the surface tile; callers must not mutate it.
func (s *SurfaceTile) Imagery() []*imagery.TileImagery { return s.imagery }

// MeshBuffers returns the uploaded terrain mesh, or nil until publication.
func (s *SurfaceTile) MeshBuffers() *graphics.MeshBuffers { return s.meshBuffers }

// WaterMaskTexture returns the land/water texture, own or shared from an
// ancestor, or nil.
func (s *SurfaceTile) WaterMaskTexture() *graphics.Texture { return s.waterMaskTexture }

// WaterMaskTranslationAndScale returns the mapping of this tile's texture
// coordinates into the water mask texture: translation in (x, y), scale in
// (z, w).
func (s *SurfaceTile) WaterMaskTranslationAndScale() [4]float64 {
	return s.waterMaskTranslationAndScale
}

// SouthwestCorner returns the cartesian position of the rectangle's southwest
// corner on the ellipsoid surface.
func (s *SurfaceTile) SouthwestCorner() common.Cartesian3 { return s.southwestCorner }

// NortheastCorner returns the cartesian position of the rectangle's northeast
// corner on the ellipsoid surface.
func (s *SurfaceTile) NortheastCorner() common.Cartesian3 { return s.northeastCorner }

// EdgeNormals returns the four edge-plane normals in west, east, south, north
// order. The south and north planes approximate the non-planar constant
// latitude edges conservatively.
func (s *SurfaceTile) EdgeNormals() [4]common.Cartesian3 {
	return [4]common.Cartesian3{s.westNormal, s.eastNormal, s.southNormal, s.northNormal}
}

// BoundingSphere returns the sphere around the published mesh; the zero value
// until publication.
func (s *SurfaceTile) BoundingSphere() common.BoundingSphere { return s.boundingSphere }

// HeightRange returns the minimum and maximum terrain heights of the
// published mesh.
func (s *SurfaceTile) HeightRange() (float64, float64) {
	return s.minimumHeight, s.maximumHeight
}

// computeGeometry precomputes the corner positions and edge-plane normals
// used for culling against the tile's rectangle.
func (s *SurfaceTile) computeGeometry(ellipsoid common.Ellipsoid, rectangle common.Rectangle) {
	s.southwestCorner = ellipsoid.CartographicToCartesian(rectangle.Southwest())
	s.northeastCorner = ellipsoid.CartographicToCartesian(rectangle.Northeast())

	midLat := (rectangle.South + rectangle.North) * 0.5
	westernMidpoint := ellipsoid.CartographicToCartesian(common.Cartographic{Longitude: rectangle.West, Latitude: midLat})
	easternMidpoint := ellipsoid.CartographicToCartesian(common.Cartographic{Longitude: rectangle.East, Latitude: midLat})

	s.westNormal = westernMidpoint.Cross(common.UnitZ).Normalize()
	s.eastNormal = common.UnitZ.Cross(easternMidpoint).Normalize()

	westVector := westernMidpoint.Sub(easternMidpoint)
	eastVector := westVector.Scale(-1)

	southSurfaceNormal := ellipsoid.GeodeticSurfaceNormalCartographic(common.Cartographic{Longitude: rectangle.East, Latitude: rectangle.South})
	s.southNormal = southSurfaceNormal.Cross(westVector).Normalize()

	northSurfaceNormal := ellipsoid.GeodeticSurfaceNormalCartographic(common.Cartographic{Longitude: rectangle.West, Latitude: rectangle.North})
	s.northNormal = northSurfaceNormal.Cross(eastVector).Normalize()
}

// Release cancels outstanding terrain and imagery work and frees every GPU
// resource the tile holds. Cancel happens before the reference is dropped so
// a late completion cannot land on freed state.
func (s *SurfaceTile) Release() {
	if s.loadedTerrain != nil {
		s.loadedTerrain.Cancel()
		s.loadedTerrain = nil
	}
	if s.upsampledTerrain != nil {
		s.upsampledTerrain.Cancel()
		s.upsampledTerrain = nil
	}
	s.pickTerrain = nil
	s.terrainData = nil

	for _, entry := range s.imagery {
		entry.Release()
	}
	s.imagery = nil

	s.meshBuffers.Release()
	s.meshBuffers = nil
	s.waterMaskTexture.Release()
	s.waterMaskTexture = nil
}
