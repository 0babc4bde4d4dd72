// package graphics is the GPU resource layer for the streaming engine: mesh
// uploads producing drawable buffer handles, and texture creation for imagery
// and terrain water masks. Render/compute pipeline handling and command
// submission are deliberately absent; those belong to the consuming renderer.
package graphics

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Carmen-Shannon/globe-go/common"
)

// Device defines the narrow GPU surface the tile state machines depend on.
// The production implementation is WebGPU-backed; tests substitute a fake.
type Device interface {
	// CreateMeshBuffers creates GPU vertex and index buffers from raw byte data
	// and uploads the data through the device queue.
	//
	// Parameters:
	//   - label: a debug label for the buffers
	//   - vertexData: the raw vertex data to upload
	//   - indexData: the raw index data to upload
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - *MeshBuffers: the created buffer pair
	//   - error: error if buffer creation fails
	CreateMeshBuffers(label string, vertexData, indexData []byte, indexCount int) (*MeshBuffers, error)

	// CreateTexture creates a sampled 2D texture (with view and sampler) from
	// staged pixel data. The returned texture starts with a reference count of
	// one, owned by the caller.
	//
	// Parameters:
	//   - label: a debug label for the texture
	//   - staging: the pixel data pending upload
	//   - sampler: sampler configuration; zero-valued fields use linear/clamp defaults
	//
	// Returns:
	//   - *Texture: the created reference-counted texture
	//   - error: error if texture creation fails
	CreateTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (*Texture, error)

	// Window returns the GLFW window when the device was built with
	// WithWindow, or nil for a headless device.
	Window() *glfw.Window

	// Release destroys the device and, when present, the window and surface.
	// All textures and mesh buffers must be released first.
	Release()
}

// NewDevice creates a WebGPU Device with the specified options applied.
// Without WithWindow the device is headless: buffers and textures work, but
// there is no surface to present to.
//
// Parameters:
//   - options: a variadic list of DeviceBuilderOption functions to configure the Device
//
// Returns:
//   - Device: the configured device
//   - error: error if adapter or device acquisition fails
func NewDevice(options ...DeviceBuilderOption) (Device, error) {
	cfg := deviceConfig{}
	for _, opt := range options {
		opt(&cfg)
	}
	d, err := newWGPUDevice(cfg)
	if err != nil {
		return nil, fmt.Errorf("graphics: device creation failed: %w", err)
	}
	return d, nil
}
