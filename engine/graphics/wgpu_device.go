package graphics

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Carmen-Shannon/globe-go/common"
)

// wgpuDevice is the WebGPU implementation of the Device interface.
type wgpuDevice struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	window  *glfw.Window
	surface *wgpu.Surface
}

var _ Device = &wgpuDevice{}

// newWGPUDevice acquires an adapter and device, optionally creating a GLFW
// window first so the adapter is surface-compatible.
func newWGPUDevice(cfg deviceConfig) (*wgpuDevice, error) {
	runtime.LockOSThread()

	d := &wgpuDevice{
		instance: wgpu.CreateInstance(nil),
	}

	adapterOpts := &wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
	}

	if cfg.windowed {
		if err := glfw.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
		}
		// WebGPU provides its own graphics API, so disable OpenGL context creation.
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
		win, err := glfw.CreateWindow(cfg.width, cfg.height, cfg.title, nil, nil)
		if err != nil {
			glfw.Terminate()
			return nil, fmt.Errorf("failed to create GLFW window: %v", err)
		}
		d.window = win
		d.surface = d.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))
		adapterOpts.CompatibleSurface = d.surface
	}

	a, err := d.instance.RequestAdapter(adapterOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = a

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Streaming Device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	return d, nil
}

func (d *wgpuDevice) CreateMeshBuffers(label string, vertexData, indexData []byte, indexCount int) (*MeshBuffers, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := &MeshBuffers{indexCount: indexCount}

	if len(vertexData) > 0 {
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            label + " Vertex Buffer",
			Size:             uint64(len(vertexData)),
			Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return nil, err
		}
		d.queue.WriteBuffer(buf, 0, vertexData)
		m.vertexBuffer = buf
	}

	if len(indexData) > 0 {
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            label + " Index Buffer",
			Size:             uint64(len(indexData)),
			Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			m.Release()
			return nil, err
		}
		d.queue.WriteBuffer(buf, 0, indexData)
		m.indexBuffer = buf
	}

	return m, nil
}

func (d *wgpuDevice) CreateTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (*Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bytesPerPixel := common.Coalesce(staging.BytesPerPixel, 4)
	format := common.Coalesce(staging.Format, wgpu.TextureFormatRGBA8UnormSrgb)

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * bytesPerPixel,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	// Clamped addressing: repeat sampling would bleed texels across tile seams.
	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(sampler.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(sampler.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(sampler.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(sampler.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(sampler.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(sampler.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(sampler.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(sampler.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(sampler.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return newTexture(label, tex, view, samp), nil
}

func (d *wgpuDevice) Window() *glfw.Window {
	return d.window
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.window != nil {
		d.window.Destroy()
		glfw.Terminate()
		d.window = nil
	}
}
