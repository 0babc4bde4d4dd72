package imagery

import (
	"context"

	"github.com/Carmen-Shannon/globe-go/common"
)

// staticProvider serves solid-color tiles everywhere. It stands in for a real
// tile server in demos and exercises the full streaming path without I/O.
type staticProvider struct {
	color        [4]byte
	tileSize     int
	maximumLevel int
	ready        bool
}

var _ Provider = &staticProvider{}

// NewStaticProvider creates a Provider serving uniform solid-color tiles with
// the specified options applied.
//
// Parameters:
//   - options: a variadic list of StaticProviderOption functions to configure the provider
//
// Returns:
//   - Provider: the configured provider
func NewStaticProvider(options ...StaticProviderOption) Provider {
	p := &staticProvider{
		color:        [4]byte{255, 255, 255, 255},
		tileSize:     256,
		maximumLevel: 18,
		ready:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// StaticProviderOption is a functional option for configuring the static provider via NewStaticProvider.
type StaticProviderOption func(*staticProvider)

// WithColor is an option builder that sets the RGBA fill color of every tile.
//
// Parameters:
//   - r, g, b, a: the fill color channels
//
// Returns:
//   - StaticProviderOption: a function that applies the color option
func WithColor(r, g, b, a byte) StaticProviderOption {
	return func(p *staticProvider) {
		p.color = [4]byte{r, g, b, a}
	}
}

// WithTileSize is an option builder that sets the pixel dimension of generated
// tiles.
//
// Parameters:
//   - size: the tile width and height in pixels (values below 1 are ignored)
//
// Returns:
//   - StaticProviderOption: a function that applies the tile size option
func WithTileSize(size int) StaticProviderOption {
	return func(p *staticProvider) {
		if size >= 1 {
			p.tileSize = size
		}
	}
}

// WithMaximumLevel is an option builder that sets the deepest level served.
//
// Parameters:
//   - level: the maximum tile level
//
// Returns:
//   - StaticProviderOption: a function that applies the maximum level option
func WithMaximumLevel(level int) StaticProviderOption {
	return func(p *staticProvider) {
		if level >= 0 {
			p.maximumLevel = level
		}
	}
}

func (p *staticProvider) Ready() bool {
	return p.ready
}

func (p *staticProvider) Rectangle() common.Rectangle {
	return common.FullGlobe
}

func (p *staticProvider) MaximumLevel() int {
	return p.maximumLevel
}

func (p *staticProvider) RequestImage(ctx context.Context, x, y, level int) (common.TextureStagingData, error) {
	if err := ctx.Err(); err != nil {
		return common.TextureStagingData{}, err
	}
	pixels := make([]byte, p.tileSize*p.tileSize*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i] = p.color[0]
		pixels[i+1] = p.color[1]
		pixels[i+2] = p.color[2]
		pixels[i+3] = p.color[3]
	}
	return common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(p.tileSize),
		Height: uint32(p.tileSize),
	}, nil
}
