package quadtree

import (
	"context"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/graphics"
	"github.com/Carmen-Shannon/globe-go/engine/imagery"
	"github.com/Carmen-Shannon/globe-go/engine/request"
	"github.com/Carmen-Shannon/globe-go/engine/terrain"
)

type fakeTerrainProvider struct {
	ready        bool
	hasWaterMask bool
	childMask    uint8
	waterMask    []byte
	err          error
	requests     int
}

func (p *fakeTerrainProvider) Ready() bool        { return p.ready }
func (p *fakeTerrainProvider) HasWaterMask() bool { return p.hasWaterMask }

func (p *fakeTerrainProvider) RequestTileGeometry(ctx context.Context, x, y, level int) (terrain.Data, error) {
	p.requests++
	if p.err != nil {
		return nil, p.err
	}
	options := []terrain.HeightmapDataOption{terrain.WithChildMask(p.childMask)}
	if p.waterMask != nil {
		options = append(options, terrain.WithWaterMask(p.waterMask))
	}
	return terrain.NewHeightmapData(3, 3, make([]float32, 9), options...), nil
}

// failingMeshProvider serves payloads whose mesh generation always fails, so
// a load can hold data and then die at the transform step.
type failingMeshProvider struct {
	*fakeTerrainProvider
}

func (p *failingMeshProvider) RequestTileGeometry(ctx context.Context, x, y, level int) (terrain.Data, error) {
	d, err := p.fakeTerrainProvider.RequestTileGeometry(ctx, x, y, level)
	if err != nil {
		return nil, err
	}
	return failingMeshData{d}, nil
}

type failingMeshData struct {
	terrain.Data
}

func (failingMeshData) CreateMesh(ctx context.Context, ellipsoid common.Ellipsoid, rectangle common.Rectangle) (*terrain.Mesh, error) {
	return nil, errors.New("mesh generation failed")
}

func newFrame(scheduler request.Scheduler, provider terrain.Provider, layers *imagery.Collection) *FrameContext {
	return &FrameContext{
		Ctx:       context.Background(),
		Scheduler: scheduler,
		Device:    graphics.NewFakeDevice(false),
		Ellipsoid: common.UnitSphere,
		Terrain:   provider,
		Imagery:   layers,
	}
}

// driveToDone runs the orchestrator on one tile until it reports Done, with a
// generous tick bound so a wedged machine fails the test instead of hanging.
func driveToDone(t *testing.T, a *Arena, index int32, fc *FrameContext) {
	t.Helper()
	for i := 0; i < 32; i++ {
		ProcessStateMachine(a, index, fc)
		if a.Tile(index).State() == TileDone {
			return
		}
	}
	t.Fatalf("tile %d never reached Done (state %v)", index, a.Tile(index).State())
}

func TestScenarioRootLoadsDirectly(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	ProcessStateMachine(a, a.Root(), fc)
	root := a.Tile(a.Root())
	surface := root.Surface()

	// A root has no parent: data is available immediately and there is
	// nothing to upsample from.
	if surface.LoadedTerrain() == nil {
		t.Fatal("root must start a real load")
	}
	if surface.UpsampledTerrain() != nil {
		t.Fatal("root must not upsample")
	}
	if root.State() != TileLoading {
		t.Fatalf("state = %v, want Loading", root.State())
	}

	driveToDone(t, a, a.Root(), fc)
	if !root.Renderable() {
		t.Error("root must be renderable once its mesh is published")
	}
	if surface.TerrainData() == nil || surface.TerrainData().CreatedByUpsampling() {
		t.Error("root must hold real terrain data")
	}
}

func TestTerrainSlotInvariantAfterPromotion(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	driveToDone(t, a, a.Root(), fc)
	surface := a.Tile(a.Root()).Surface()

	if surface.LoadedTerrain() != nil || surface.UpsampledTerrain() != nil {
		t.Error("both in-flight slots must clear on promotion")
	}
	if surface.PickTerrain() == nil || surface.PickTerrain().State() != terrain.StateReady {
		t.Error("the successful machine must land in the pick slot")
	}
	if surface.MeshBuffers() == nil {
		t.Error("promotion must publish the mesh")
	}
}

func TestScenarioUnavailableChildUpsamples(t *testing.T) {
	a := NewArena()
	// Root data reports no children available.
	provider := &fakeTerrainProvider{ready: true, childMask: 0}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	driveToDone(t, a, a.Root(), fc)
	children := a.EnsureChildren(a.Root())

	ProcessStateMachine(a, children[0], fc)
	surface := a.Tile(children[0]).Surface()

	if surface.LoadedTerrain() != nil {
		t.Error("unavailable child must not start a real load")
	}
	if surface.UpsampledTerrain() == nil {
		t.Error("child must upsample from the root's data")
	}

	driveToDone(t, a, children[0], fc)
	if !a.Tile(children[0]).Renderable() {
		t.Error("child must become renderable via upsampling alone")
	}
	if !a.Tile(children[0]).UpsampledFromParent() {
		t.Error("child showing only derived data must report upsampled-only")
	}
}

func TestScenarioNoAncestorDataRevivedByPropagation(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	// Visit a child before the root has any data: no upsample source exists
	// and availability is undetermined, so no slots are created and the tile
	// settles empty and non-renderable.
	children := a.EnsureChildren(a.Root())
	ProcessStateMachine(a, children[2], fc)
	surface := a.Tile(children[2]).Surface()

	if surface.LoadedTerrain() != nil || surface.UpsampledTerrain() != nil {
		t.Error("child with no ancestor data must wait with empty slots")
	}
	if a.Tile(children[2]).Renderable() {
		t.Error("empty child must not be renderable")
	}

	// Once the root adopts data, propagation installs both slots and forces
	// the child back into Loading.
	driveToDone(t, a, a.Root(), fc)
	child := a.Tile(children[2])
	if child.State() != TileLoading {
		t.Fatalf("state = %v, want Loading after propagation", child.State())
	}
	if surface.UpsampledTerrain() == nil || surface.LoadedTerrain() == nil {
		t.Error("propagation must install upsample and load machines")
	}
}

func TestScenarioLoadFailsUpsampleCarries(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	driveToDone(t, a, a.Root(), fc)
	children := a.EnsureChildren(a.Root())

	// The child's real load will fail; its upsample must carry the tile to
	// Done on its own.
	provider.err = errors.New("fetch failed")
	ProcessStateMachine(a, children[1], fc)
	surface := a.Tile(children[1]).Surface()
	if surface.LoadedTerrain() == nil || surface.UpsampledTerrain() == nil {
		t.Fatal("child must start both a load and an upsample")
	}

	driveToDone(t, a, children[1], fc)
	if surface.LoadedTerrain() != nil {
		t.Error("failed load must clear its slot")
	}
	if surface.PickTerrain() == nil || !surface.PickTerrain().Upsampled() {
		t.Error("the upsample machine must be the one promoted")
	}
	if !a.Tile(children[1]).Renderable() {
		t.Error("tile must render from upsampled terrain after the load fails")
	}
}

func TestUpsampleSuspendedWhileLoadHoldsData(t *testing.T) {
	a := NewArena()
	base := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	driveToDone(t, a, a.Root(), newFrame(request.NewImmediateScheduler(), base, nil))

	// The child's load goes through a provider whose payloads cannot build a
	// mesh: it holds data long enough to freeze the upsample, then fails.
	sched := request.NewManualScheduler()
	fc := newFrame(sched, &failingMeshProvider{base}, nil)
	children := a.EnsureChildren(a.Root())
	c := children[1]

	ProcessStateMachine(a, c, fc)
	surface := a.Tile(c).Surface()
	if surface.LoadedTerrain() == nil || surface.UpsampledTerrain() == nil {
		t.Fatal("child must start both a load and an upsample")
	}

	// Complete only the load's fetch; the upsample request stays queued.
	if !sched.RunOne() {
		t.Fatal("no queued load fetch")
	}

	// While the load holds its payload the upsample is frozen: ticks must not
	// advance it, and the machine must survive in its slot uncancelled.
	upsampled := surface.UpsampledTerrain()
	for i := 0; i < 3; i++ {
		ProcessStateMachine(a, c, fc)
		if upsampled.State() != terrain.StateReceiving {
			t.Fatalf("tick %d advanced the frozen upsample to %v", i, upsampled.State())
		}
		if surface.UpsampledTerrain() != upsampled {
			t.Fatal("frozen upsample machine was replaced")
		}
	}
	if surface.TerrainData() == nil || surface.TerrainData().CreatedByUpsampling() {
		t.Fatal("the load's payload must be adopted while the upsample is frozen")
	}

	// Drain the queue: the upsample fetch completes and the load's mesh build
	// fails, clearing the load slot and unfreezing the upsample.
	sched.RunAll()
	ProcessStateMachine(a, c, fc)
	if surface.LoadedTerrain() != nil {
		t.Fatal("failed load must clear its slot")
	}
	if upsampled.State() != terrain.StateReceived {
		t.Fatalf("upsample state = %v, want Received once resumed", upsampled.State())
	}

	for i := 0; i < 16 && a.Tile(c).State() != TileDone; i++ {
		ProcessStateMachine(a, c, fc)
		sched.RunAll()
	}
	if a.Tile(c).State() != TileDone {
		t.Fatal("tile never reached Done after the upsample resumed")
	}
	if surface.PickTerrain() == nil || !surface.PickTerrain().Upsampled() {
		t.Error("the resumed upsample must be the machine promoted")
	}
	if !a.Tile(c).Renderable() {
		t.Error("tile must render from the upsampled mesh")
	}
}

func TestPropagationReplacesChildUpsampleSources(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	sched := request.NewManualScheduler()
	fc := newFrame(sched, provider, nil)

	// Visit the children first so they are eligible for propagation, then
	// let the root receive its data.
	children := a.EnsureChildren(a.Root())
	for _, c := range children {
		ProcessStateMachine(a, c, fc)
	}
	ProcessStateMachine(a, a.Root(), fc)
	sched.RunAll()
	ProcessStateMachine(a, a.Root(), fc)

	rootData := a.Tile(a.Root()).Surface().TerrainData()
	if rootData == nil {
		t.Fatal("root did not adopt its payload")
	}

	for slot, c := range children {
		child := a.Tile(c)
		surface := child.Surface()
		if surface.UpsampledTerrain() == nil {
			t.Errorf("child %d did not receive an upsample source", slot)
			continue
		}
		if !surface.UpsampledTerrain().Upsampled() {
			t.Errorf("child %d upsample slot holds a load machine", slot)
		}
		src, ok := surface.UpsampledTerrain().Source()
		if !ok || src.Data != rootData {
			t.Errorf("child %d upsample source is not the root's payload", slot)
		}
		if src.X != 0 || src.Y != 0 || src.Level != 0 {
			t.Errorf("child %d upsample source address = %d/%d/%d, want 0/0/0", slot, src.Level, src.X, src.Y)
		}
		if surface.LoadedTerrain() == nil {
			t.Errorf("child %d is available but got no load machine", slot)
		}
		if child.State() != TileLoading {
			t.Errorf("child %d state = %v, want forced Loading", slot, child.State())
		}
	}
}

func TestPropagationSkipsUnvisitedChildren(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	a.EnsureChildren(a.Root())
	driveToDone(t, a, a.Root(), fc)

	for slot, c := range a.Children(a.Root()) {
		child := a.Tile(c)
		if child.State() != TileStart || child.Surface() != nil {
			t.Errorf("unvisited child %d was touched by propagation", slot)
		}
	}
}

func TestPropagationNeverDisplacesRealData(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	driveToDone(t, a, a.Root(), fc)
	children := a.EnsureChildren(a.Root())
	driveToDone(t, a, children[0], fc)

	child := a.Tile(children[0])
	realData := child.Surface().TerrainData()
	if realData == nil || realData.CreatedByUpsampling() {
		t.Fatal("child should have loaded real data")
	}

	// Force repeated propagation from the root; the child's authoritative
	// data and settled slots must survive untouched.
	propagateNewLoadedDataToChildren(a, a.Root())
	propagateNewLoadedDataToChildren(a, a.Root())

	if child.Surface().TerrainData() != realData {
		t.Error("propagation displaced the child's real data")
	}
	if child.Surface().UpsampledTerrain() != nil {
		t.Error("propagation installed an upsample over real data")
	}
}

func TestOrchestratorIdempotentWithinTick(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	sched := request.NewManualScheduler()
	fc := newFrame(sched, provider, nil)

	// With no new completions between the calls, a second pass must leave
	// the tile exactly where the first did, at every phase of the load.
	for i := 0; i < 8; i++ {
		ProcessStateMachine(a, a.Root(), fc)
		root := a.Tile(a.Root())
		state, renderable := root.State(), root.Renderable()

		ProcessStateMachine(a, a.Root(), fc)
		if root.State() != state || root.Renderable() != renderable {
			t.Fatalf("pass %d changed tile state without new completions", i)
		}
		sched.RunAll()
		if root.State() == TileDone {
			return
		}
	}
	t.Fatal("root never reached Done")
}

func TestIsDataAvailable(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0b0001}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	if !isDataAvailable(a, a.Root()) {
		t.Error("root must always be available")
	}

	children := a.EnsureChildren(a.Root())
	if isDataAvailable(a, children[0]) {
		t.Error("child availability undetermined before parent data")
	}

	driveToDone(t, a, a.Root(), fc)
	if !isDataAvailable(a, children[0]) {
		t.Error("masked-in child must be available")
	}
	if isDataAvailable(a, children[3]) {
		t.Error("masked-out child must be unavailable")
	}
}

func TestUpsampleDetailsFindNearestAncestorData(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)

	children := a.EnsureChildren(a.Root())
	grandchildren := a.EnsureChildren(children[0])

	if _, ok := getUpsampleTileDetails(a, grandchildren[0]); ok {
		t.Error("no ancestor has data yet")
	}

	driveToDone(t, a, a.Root(), fc)
	source, ok := getUpsampleTileDetails(a, grandchildren[0])
	if !ok {
		t.Fatal("root data must be found")
	}
	if source.Level != 0 {
		t.Errorf("source level = %d, want root", source.Level)
	}

	// Once the middle tile adopts (upsampled) data, it becomes the nearer
	// source: the walk stops at the first tile with any payload.
	driveToDone(t, a, children[0], fc)
	source, ok = getUpsampleTileDetails(a, grandchildren[0])
	if !ok || source.Level != 1 {
		t.Errorf("source level = %d, want 1", source.Level)
	}
}

func TestMeshUploadFailureRetriesNextTick(t *testing.T) {
	a := NewArena()
	provider := &fakeTerrainProvider{ready: true, childMask: 0x0F}
	fc := newFrame(request.NewImmediateScheduler(), provider, nil)
	fc.Device = graphics.NewFakeDevice(true)

	for i := 0; i < 8; i++ {
		ProcessStateMachine(a, a.Root(), fc)
	}
	root := a.Tile(a.Root())
	surface := root.Surface()

	if surface.LoadedTerrain() == nil || surface.LoadedTerrain().State() != terrain.StateReady {
		t.Fatal("terrain machine should be Ready and unpromoted")
	}
	if root.Renderable() || root.State() == TileDone {
		t.Error("tile must not complete while the mesh upload keeps failing")
	}

	// A working device on a later tick picks the publication back up.
	fc.Device = graphics.NewFakeDevice(false)
	driveToDone(t, a, a.Root(), fc)
	if surface.MeshBuffers() == nil || !root.Renderable() {
		t.Error("publication must succeed once the device recovers")
	}
}
