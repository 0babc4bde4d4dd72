package graphics

// deviceConfig collects builder-adjustable settings before device creation.
type deviceConfig struct {
	windowed             bool
	width, height        int
	title                string
	forceFallbackAdapter bool
}

// DeviceBuilderOption is a functional option for configuring a Device via NewDevice.
type DeviceBuilderOption func(*deviceConfig)

// WithWindow is an option builder that creates a GLFW window during device
// construction and binds the WebGPU surface to it.
//
// Parameters:
//   - width: the window width in pixels
//   - height: the window height in pixels
//   - title: the window title
//
// Returns:
//   - DeviceBuilderOption: a function that applies the window option to a device
func WithWindow(width, height int, title string) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.windowed = true
		c.width = width
		c.height = height
		c.title = title
	}
}

// WithForceFallbackAdapter is an option builder that forces selection of a
// software/fallback adapter, useful on CI machines without a GPU.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - DeviceBuilderOption: a function that applies the fallback adapter option
func WithForceFallbackAdapter(force bool) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.forceFallbackAdapter = force
	}
}
