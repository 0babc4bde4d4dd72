package terrain

import (
	"context"

	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/request"
)

// State is the lifecycle phase of a TileTerrain. Transitions only move
// forward: Start → Receiving → Received → Transforming → Ready, with Failed
// reachable from Receiving and Transforming.
type State int

const (
	// StateStart means no work has been submitted yet.
	StateStart State = iota
	// StateReceiving means a fetch or upsample request is in flight.
	StateReceiving
	// StateReceived means the payload arrived and no mesh build has started.
	StateReceived
	// StateTransforming means a mesh build request is in flight.
	StateTransforming
	// StateReady means payload and mesh are both available.
	StateReady
	// StateFailed means the fetch or the mesh build failed.
	StateFailed
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateReceiving:
		return "Receiving"
	case StateReceived:
		return "Received"
	case StateTransforming:
		return "Transforming"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// UpsampleSource identifies the ancestor payload an upsampled TileTerrain
// derives from.
type UpsampleSource struct {
	// Data is the ancestor's terrain payload.
	Data Data
	// X, Y, Level address the ancestor tile the payload belongs to.
	X, Y, Level int
}

// TileTerrain drives one tile's terrain from nothing to a ready mesh. A tile
// may hold two of these at once, one loading real data and one upsampling from
// an ancestor; each instance only ever produces one payload. All methods are
// called from the single update thread; background work happens behind the
// request handle.
type TileTerrain struct {
	state    State
	upsample *UpsampleSource

	data Data
	mesh *Mesh
	err  error

	pending *request.Handle
}

// NewTileTerrain creates a TileTerrain that loads real data from the provider.
//
// Returns:
//   - *TileTerrain: the state machine, in StateStart
func NewTileTerrain() *TileTerrain {
	return &TileTerrain{}
}

// NewUpsampledTileTerrain creates a TileTerrain that derives its payload from
// an ancestor instead of the provider.
//
// Parameters:
//   - source: the ancestor payload and its tile address
//
// Returns:
//   - *TileTerrain: the state machine, in StateStart
func NewUpsampledTileTerrain(source UpsampleSource) *TileTerrain {
	if source.Data == nil {
		panic("terrain: upsample source has no data")
	}
	return &TileTerrain{upsample: &source}
}

// State returns the current lifecycle phase.
func (t *TileTerrain) State() State {
	return t.state
}

// Upsampled reports whether this instance derives its payload from an ancestor.
func (t *TileTerrain) Upsampled() bool {
	return t.upsample != nil
}

// Source returns the ancestor payload and address this instance upsamples from.
//
// Returns:
//   - UpsampleSource: the configured source
//   - bool: false for the load variant
func (t *TileTerrain) Source() (UpsampleSource, bool) {
	if t.upsample == nil {
		return UpsampleSource{}, false
	}
	return *t.upsample, true
}

// Data returns the terrain payload, or nil before StateReceived.
func (t *TileTerrain) Data() Data {
	return t.data
}

// Mesh returns the generated mesh, or nil before StateReady.
func (t *TileTerrain) Mesh() *Mesh {
	return t.mesh
}

// Err returns the failure cause, or nil unless in StateFailed.
func (t *TileTerrain) Err() error {
	return t.err
}

// Cancel aborts any in-flight request. The instance must be dropped
// afterwards; a cancelled TileTerrain is never stepped again.
func (t *TileTerrain) Cancel() {
	if t.pending != nil {
		t.pending.Cancel()
		t.pending = nil
	}
}

// Process advances the state machine by at most one transition. It never
// blocks: in-flight requests are polled and left alone until done.
//
// Parameters:
//   - ctx: parent context for any request submitted this step
//   - scheduler: the background request scheduler
//   - provider: the terrain source (only consulted by the load variant)
//   - ellipsoid: the ellipsoid meshes are computed on
//   - rectangle: the tile's geographic bounds
//   - x, y, level: the tile address
//
// Returns:
//   - bool: true once the machine is terminal (StateReady or StateFailed)
func (t *TileTerrain) Process(ctx context.Context, scheduler request.Scheduler, provider Provider, ellipsoid common.Ellipsoid, rectangle common.Rectangle, x, y, level int) bool {
	switch t.state {
	case StateStart:
		t.requestData(ctx, scheduler, provider, x, y, level)
	case StateReceiving:
		t.pollData()
	case StateReceived:
		t.requestMesh(ctx, scheduler, ellipsoid, rectangle)
	case StateTransforming:
		t.pollMesh()
	}
	return t.state == StateReady || t.state == StateFailed
}

func (t *TileTerrain) requestData(ctx context.Context, scheduler request.Scheduler, provider Provider, x, y, level int) {
	if t.upsample != nil {
		src := *t.upsample
		t.pending = scheduler.Submit(ctx, func(ctx context.Context) (any, error) {
			return src.Data.Upsample(ctx, src.X, src.Y, src.Level, x, y, level)
		})
		t.state = StateReceiving
		return
	}

	// The provider is only asked once it is ready; until then the tile stays
	// in StateStart and the step is a no-op.
	if provider == nil || !provider.Ready() {
		return
	}
	t.pending = scheduler.Submit(ctx, func(ctx context.Context) (any, error) {
		return provider.RequestTileGeometry(ctx, x, y, level)
	})
	t.state = StateReceiving
}

func (t *TileTerrain) pollData() {
	if t.pending == nil || !t.pending.Done() {
		return
	}
	result, err := t.pending.Result()
	t.pending = nil
	if err != nil {
		t.err = err
		t.state = StateFailed
		return
	}
	t.data = result.(Data)
	t.state = StateReceived
}

func (t *TileTerrain) requestMesh(ctx context.Context, scheduler request.Scheduler, ellipsoid common.Ellipsoid, rectangle common.Rectangle) {
	data := t.data
	t.pending = scheduler.Submit(ctx, func(ctx context.Context) (any, error) {
		return data.CreateMesh(ctx, ellipsoid, rectangle)
	})
	t.state = StateTransforming
}

func (t *TileTerrain) pollMesh() {
	if t.pending == nil || !t.pending.Done() {
		return
	}
	result, err := t.pending.Result()
	t.pending = nil
	if err != nil {
		t.err = err
		t.state = StateFailed
		return
	}
	t.mesh = result.(*Mesh)
	t.state = StateReady
}
