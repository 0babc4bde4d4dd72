package quadtree

import (
	"context"

	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/graphics"
	"github.com/Carmen-Shannon/globe-go/engine/imagery"
	"github.com/Carmen-Shannon/globe-go/engine/profiler"
	"github.com/Carmen-Shannon/globe-go/engine/request"
	"github.com/Carmen-Shannon/globe-go/engine/terrain"
)

// StreamerBuilderOption is a functional option for configuring a Streamer via NewStreamer.
type StreamerBuilderOption func(*streamer)

// WithTerrainProvider is an option builder that sets the terrain source.
// Required.
//
// Parameters:
//   - provider: the terrain source
//
// Returns:
//   - StreamerBuilderOption: a function that applies the terrain provider option
func WithTerrainProvider(provider terrain.Provider) StreamerBuilderOption {
	return func(s *streamer) {
		s.terrain = provider
	}
}

// WithDevice is an option builder that sets the GPU device meshes and
// textures are uploaded to. Required.
//
// Parameters:
//   - device: the graphics device
//
// Returns:
//   - StreamerBuilderOption: a function that applies the device option
func WithDevice(device graphics.Device) StreamerBuilderOption {
	return func(s *streamer) {
		s.device = device
	}
}

// WithImagery is an option builder that sets the ordered imagery layer set.
//
// Parameters:
//   - collection: the imagery layers, bottom first
//
// Returns:
//   - StreamerBuilderOption: a function that applies the imagery option
func WithImagery(collection *imagery.Collection) StreamerBuilderOption {
	return func(s *streamer) {
		s.imagery = collection
	}
}

// WithScheduler is an option builder that sets the request scheduler.
// Defaults to a pool-backed scheduler.
//
// Parameters:
//   - scheduler: the request scheduler
//
// Returns:
//   - StreamerBuilderOption: a function that applies the scheduler option
func WithScheduler(scheduler request.Scheduler) StreamerBuilderOption {
	return func(s *streamer) {
		s.scheduler = scheduler
	}
}

// WithEllipsoid is an option builder that sets the reference ellipsoid.
// Defaults to WGS84.
//
// Parameters:
//   - ellipsoid: the ellipsoid meshes are computed on
//
// Returns:
//   - StreamerBuilderOption: a function that applies the ellipsoid option
func WithEllipsoid(ellipsoid common.Ellipsoid) StreamerBuilderOption {
	return func(s *streamer) {
		s.ellipsoid = ellipsoid
	}
}

// WithProfiler is an option builder that enables periodic logging of
// streaming statistics.
//
// Returns:
//   - StreamerBuilderOption: a function that applies the profiler option
func WithProfiler() StreamerBuilderOption {
	return func(s *streamer) {
		s.profiler = profiler.NewProfiler()
	}
}

// WithStreamContext is an option builder that sets the parent context for all
// requests the streamer submits. Cancelling it aborts outstanding work.
//
// Parameters:
//   - ctx: the parent context
//
// Returns:
//   - StreamerBuilderOption: a function that applies the context option
func WithStreamContext(ctx context.Context) StreamerBuilderOption {
	return func(s *streamer) {
		s.ctx = ctx
	}
}
