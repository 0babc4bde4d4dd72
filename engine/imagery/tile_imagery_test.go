package imagery

import (
	"context"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/graphics"
	"github.com/Carmen-Shannon/globe-go/engine/request"
)

func TestTileImageryLifecycle(t *testing.T) {
	provider := &fakeImageryProvider{ready: true, rectangle: common.FullGlobe, maximumLevel: 10}
	layer := newTestLayer(provider)
	sched := request.NewManualScheduler()
	device := graphics.NewFakeDevice(false)
	ctx := context.Background()

	rect := common.FullGlobe.Subdivide()[1]
	list, _ := layer.CreateTileImagerySkeletons(nil, rect, 1, 0)
	entry := list[0]

	if entry.Process(ctx, sched, device, rect) {
		t.Fatal("entry terminal before the fetch finished")
	}
	if entry.LoadingImagery().State() != ImageryTransitioning {
		t.Fatalf("state = %v, want Transitioning", entry.LoadingImagery().State())
	}

	sched.RunAll()
	if entry.Process(ctx, sched, device, rect) {
		t.Fatal("entry terminal before the texture upload")
	}
	if entry.LoadingImagery().State() != ImageryReceived {
		t.Fatalf("state = %v, want Received", entry.LoadingImagery().State())
	}

	if !entry.Process(ctx, sched, device, rect) {
		t.Fatal("entry must be terminal once the texture exists")
	}
	if entry.LoadingImagery() != nil {
		t.Error("loading slot must clear on success")
	}
	ready := entry.ReadyImagery()
	if ready == nil || ready.State() != ImageryReady || ready.Texture() == nil {
		t.Fatal("ready slot must hold the uploaded record")
	}
	if !entry.Renderable() {
		t.Error("entry with a ready texture must be renderable")
	}

	// Identity mapping: the imagery tile and terrain tile coincide.
	tts := entry.TextureTranslationAndScale()
	if tts != [4]float64{0, 0, 1, 1} {
		t.Errorf("translation/scale = %v, want identity", tts)
	}
	if provider.requests != 1 {
		t.Errorf("provider fetched %d times, want 1", provider.requests)
	}
}

func TestTileImageryFetchFailureKeepsFallback(t *testing.T) {
	provider := &fakeImageryProvider{ready: true, rectangle: common.FullGlobe, maximumLevel: 10}
	layer := newTestLayer(provider)
	sched := request.NewImmediateScheduler()
	device := graphics.NewFakeDevice(false)
	ctx := context.Background()

	rect := common.FullGlobe.Subdivide()[0]
	list, _ := layer.CreateTileImagerySkeletons(nil, rect, 1, 0)
	entry := list[0]

	// Drive to Ready, then attach a second loading record that will fail.
	for !entry.Process(ctx, sched, device, rect) {
	}
	fallback := entry.ReadyImagery()

	provider.err = errors.New("server error")
	entry.loadingImagery = layer.getImageryFromCache(9, 9, 4)
	for !entry.Process(ctx, sched, device, rect) {
	}

	if entry.ReadyImagery() != fallback {
		t.Error("failure must not displace the ready fallback")
	}
	if entry.LoadingImagery() != nil {
		t.Error("failed record must leave the loading slot")
	}
	if !entry.Renderable() {
		t.Error("entry with a fallback stays renderable")
	}
	if entry.UpsampledOnly() {
		t.Error("terminal entry without a loading record is not upsampled-only")
	}
}

func TestTileImageryInvalidOutsideCoverage(t *testing.T) {
	provider := &fakeImageryProvider{ready: true, rectangle: common.FullGlobe, maximumLevel: 10, err: ErrOutsideCoverage}
	layer := newTestLayer(provider)
	sched := request.NewImmediateScheduler()
	device := graphics.NewFakeDevice(false)
	ctx := context.Background()

	rect := common.FullGlobe.Subdivide()[3]
	list, _ := layer.CreateTileImagerySkeletons(nil, rect, 1, 0)
	entry := list[0]
	record := entry.LoadingImagery()

	for !entry.Process(ctx, sched, device, rect) {
	}
	if record.State() != ImageryInvalid {
		t.Errorf("state = %v, want Invalid", record.State())
	}
	if !errors.Is(record.Err(), ErrOutsideCoverage) {
		t.Errorf("Err() = %v, want ErrOutsideCoverage", record.Err())
	}
	if !entry.Renderable() {
		t.Error("invalid entry must stop blocking the tile")
	}
}

func TestTileImageryTextureUploadFailure(t *testing.T) {
	provider := &fakeImageryProvider{ready: true, rectangle: common.FullGlobe, maximumLevel: 10}
	layer := newTestLayer(provider)
	sched := request.NewImmediateScheduler()
	device := graphics.NewFakeDevice(true)
	ctx := context.Background()

	rect := common.FullGlobe.Subdivide()[2]
	list, _ := layer.CreateTileImagerySkeletons(nil, rect, 1, 0)
	entry := list[0]
	record := entry.LoadingImagery()

	for !entry.Process(ctx, sched, device, rect) {
	}
	if record.State() != ImageryFailed {
		t.Errorf("state = %v, want Failed", record.State())
	}
	if entry.ReadyImagery() != nil {
		t.Error("no ready record may appear after an upload failure")
	}
}

func TestTileImagerySharedRecordSingleFetch(t *testing.T) {
	provider := &fakeImageryProvider{ready: true, rectangle: common.FullGlobe, maximumLevel: 0}
	layer := newTestLayer(provider)
	sched := request.NewManualScheduler()
	device := graphics.NewFakeDevice(false)
	ctx := context.Background()

	rects := common.FullGlobe.Subdivide()
	listA, _ := layer.CreateTileImagerySkeletons(nil, rects[0], 1, 0)
	listB, _ := layer.CreateTileImagerySkeletons(nil, rects[1], 1, 0)

	// Both tiles step the shared record; only one fetch goes out.
	listA[0].Process(ctx, sched, device, rects[0])
	listB[0].Process(ctx, sched, device, rects[1])
	if sched.Pending() != 1 {
		t.Fatalf("pending fetches = %d, want 1 for a shared record", sched.Pending())
	}
	sched.RunAll()

	for !listA[0].Process(ctx, sched, device, rects[0]) {
	}
	for !listB[0].Process(ctx, sched, device, rects[1]) {
	}
	if listA[0].ReadyImagery() != listB[0].ReadyImagery() {
		t.Error("both tiles must end up on the shared texture")
	}
	if provider.requests != 1 {
		t.Errorf("provider fetched %d times, want 1", provider.requests)
	}
}
