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

// streamer is the implementation of the Streamer interface.
type streamer struct {
	arena     *Arena
	ctx       context.Context
	scheduler request.Scheduler
	device    graphics.Device
	ellipsoid common.Ellipsoid
	terrain   terrain.Provider
	imagery   *imagery.Collection
	profiler  *profiler.Profiler
}

// Streamer owns the tile arena and its collaborators and drives the streaming
// core once per tick over the caller-supplied visible set. Which tiles are
// visible is the caller's problem; the Streamer only loads them.
type Streamer interface {
	// Arena returns the tile arena, for traversal and for growing the tree
	// via EnsureChildren as the caller refines.
	Arena() *Arena

	// Process runs one streaming tick over the visible tiles, in the order
	// given. Never blocks; call it once per frame.
	//
	// Parameters:
	//   - visible: arena indices of the tiles to process this tick
	Process(visible []int32)

	// Release cancels all outstanding work and frees every GPU resource.
	// The streamer is unusable afterwards.
	Release()
}

var _ Streamer = &streamer{}

// NewStreamer creates a Streamer with the specified options applied.
// Panics if no terrain provider or device is configured, because the core
// cannot run without them.
//
// Parameters:
//   - options: a variadic list of StreamerBuilderOption functions to configure the Streamer
//
// Returns:
//   - Streamer: a new Streamer configured with the provided options
func NewStreamer(options ...StreamerBuilderOption) Streamer {
	s := &streamer{
		arena:     NewArena(),
		ctx:       context.Background(),
		ellipsoid: common.WGS84,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.terrain == nil {
		panic("quadtree: streamer requires a terrain provider")
	}
	if s.device == nil {
		panic("quadtree: streamer requires a graphics device")
	}
	if s.scheduler == nil {
		s.scheduler = request.NewScheduler()
	}
	return s
}

func (s *streamer) Arena() *Arena {
	return s.arena
}

func (s *streamer) Process(visible []int32) {
	var counters profiler.Counters
	fc := &FrameContext{
		Ctx:       s.ctx,
		Scheduler: s.scheduler,
		Device:    s.device,
		Ellipsoid: s.ellipsoid,
		Terrain:   s.terrain,
		Imagery:   s.imagery,
		Counters:  &counters,
	}
	for _, index := range visible {
		ProcessStateMachine(s.arena, index, fc)
	}
	if s.profiler != nil {
		s.profiler.Tick(&counters)
	}
}

func (s *streamer) Release() {
	s.arena.Release()
}
