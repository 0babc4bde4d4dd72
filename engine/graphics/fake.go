package graphics

import (
	"errors"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Carmen-Shannon/globe-go/common"
)

// fakeDevice is a Device that allocates no GPU resources. It exists so the
// streaming state machines can run headless (tests, offline tile processing)
// with the same code paths as the WebGPU device.
type fakeDevice struct {
	failCreates bool

	meshCreates    int
	textureCreates int
}

var _ Device = &fakeDevice{}

// NewFakeDevice creates a Device whose buffers and textures carry no GPU
// handles. When failCreates is true every create call returns an error, which
// lets tests exercise the degraded "not renderable yet" paths.
//
// Parameters:
//   - failCreates: true to make all create calls fail
//
// Returns:
//   - Device: the fake device
func NewFakeDevice(failCreates bool) Device {
	return &fakeDevice{failCreates: failCreates}
}

func (d *fakeDevice) CreateMeshBuffers(label string, vertexData, indexData []byte, indexCount int) (*MeshBuffers, error) {
	if d.failCreates {
		return nil, errors.New("graphics: fake device configured to fail")
	}
	d.meshCreates++
	return &MeshBuffers{indexCount: indexCount}, nil
}

func (d *fakeDevice) CreateTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (*Texture, error) {
	if d.failCreates {
		return nil, errors.New("graphics: fake device configured to fail")
	}
	d.textureCreates++
	return NewFakeTexture(label), nil
}

func (d *fakeDevice) Window() *glfw.Window { return nil }

func (d *fakeDevice) Release() {}
