package imagery

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/globe-go/common"
	"github.com/Carmen-Shannon/globe-go/engine/graphics"
	"github.com/Carmen-Shannon/globe-go/engine/request"
)

// ImageryState is the lifecycle phase of one cached imagery record.
type ImageryState int

const (
	// ImageryPlaceHolder marks a stand-in attached before the provider is
	// ready; it never loads and is expanded into real records later.
	ImageryPlaceHolder ImageryState = iota
	// ImageryUnloaded means no fetch has been submitted yet.
	ImageryUnloaded
	// ImageryTransitioning means a fetch is in flight.
	ImageryTransitioning
	// ImageryReceived means pixels arrived and no texture exists yet.
	ImageryReceived
	// ImageryReady means the texture is uploaded and renderable.
	ImageryReady
	// ImageryFailed means the fetch or upload failed.
	ImageryFailed
	// ImageryInvalid means the tile lies outside the provider's coverage.
	ImageryInvalid
)

// String returns the state name for logs.
func (s ImageryState) String() string {
	switch s {
	case ImageryPlaceHolder:
		return "PlaceHolder"
	case ImageryUnloaded:
		return "Unloaded"
	case ImageryTransitioning:
		return "Transitioning"
	case ImageryReceived:
		return "Received"
	case ImageryReady:
		return "Ready"
	case ImageryFailed:
		return "Failed"
	case ImageryInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Imagery is one cached imagery tile record, shared by every terrain tile the
// imagery tile overlaps. Sharing is reference-counted: the layer cache holds
// the record while the count is positive and evicts it at zero.
type Imagery struct {
	layer       *Layer
	x, y, level int
	rectangle   common.Rectangle

	state    ImageryState
	staging  common.TextureStagingData
	texture  *graphics.Texture
	pending  *request.Handle
	err      error
	refCount int
}

// Rectangle returns the imagery tile's geographic bounds.
func (i *Imagery) Rectangle() common.Rectangle {
	return i.rectangle
}

// State returns the current lifecycle phase.
func (i *Imagery) State() ImageryState {
	return i.state
}

// Texture returns the uploaded texture, or nil before ImageryReady.
func (i *Imagery) Texture() *graphics.Texture {
	return i.texture
}

// Err returns the failure cause, or nil unless Failed or Invalid.
func (i *Imagery) Err() error {
	return i.err
}

// AddReference registers another holder of this record.
func (i *Imagery) AddReference() {
	i.refCount++
}

// ReleaseReference drops one holder. At zero the record cancels any in-flight
// fetch, releases its texture, and leaves the layer cache.
//
// Returns:
//   - int: the remaining reference count
func (i *Imagery) ReleaseReference() int {
	i.refCount--
	if i.refCount < 0 {
		panic(fmt.Sprintf("imagery: record %d/%d/%d released below zero", i.level, i.x, i.y))
	}
	if i.refCount == 0 {
		if i.pending != nil {
			i.pending.Cancel()
			i.pending = nil
		}
		i.texture.Release()
		i.texture = nil
		i.layer.removeImagery(i)
	}
	return i.refCount
}

// process advances the record by at most one transition. Shared records are
// stepped by every TileImagery that references them; the state guard makes
// the extra calls no-ops.
func (i *Imagery) process(ctx context.Context, scheduler request.Scheduler, device graphics.Device) {
	switch i.state {
	case ImageryUnloaded:
		provider := i.layer.provider
		x, y, level := i.x, i.y, i.level
		i.pending = scheduler.Submit(ctx, func(ctx context.Context) (any, error) {
			return provider.RequestImage(ctx, x, y, level)
		})
		i.state = ImageryTransitioning
	case ImageryTransitioning:
		if i.pending == nil || !i.pending.Done() {
			return
		}
		result, err := i.pending.Result()
		i.pending = nil
		if err != nil {
			i.err = err
			if errors.Is(err, ErrOutsideCoverage) {
				i.state = ImageryInvalid
			} else {
				i.state = ImageryFailed
			}
			return
		}
		i.staging = result.(common.TextureStagingData)
		i.state = ImageryReceived
	case ImageryReceived:
		label := fmt.Sprintf("imagery %d/%d/%d", i.level, i.x, i.y)
		texture, err := device.CreateTexture(label, i.staging, common.SamplerStagingData{})
		if err != nil {
			i.err = err
			i.state = ImageryFailed
			return
		}
		i.texture = texture
		i.staging = common.TextureStagingData{}
		i.state = ImageryReady
	}
}
