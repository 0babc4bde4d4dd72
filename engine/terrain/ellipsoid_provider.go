package terrain

import (
	"context"
)

// ellipsoidProvider is the implementation of the Provider interface that
// synthesizes flat terrain at the ellipsoid surface. It is always ready, every
// tile is available at every level, and no water mask is carried. Useful as
// the no-terrain baseline and for exercising the streaming paths without a
// network source.
type ellipsoidProvider struct {
	gridSize int
	flat     []float32
}

var _ Provider = &ellipsoidProvider{}

// NewEllipsoidProvider creates a Provider producing zero-height terrain with the
// specified options applied.
//
// Parameters:
//   - options: a variadic list of EllipsoidProviderOption functions to configure the provider
//
// Returns:
//   - Provider: the configured provider
func NewEllipsoidProvider(options ...EllipsoidProviderOption) Provider {
	p := &ellipsoidProvider{gridSize: 17}
	for _, opt := range options {
		opt(p)
	}
	p.flat = make([]float32, p.gridSize*p.gridSize)
	return p
}

// EllipsoidProviderOption is a functional option for configuring the ellipsoid provider via NewEllipsoidProvider.
type EllipsoidProviderOption func(*ellipsoidProvider)

// WithGridSize is an option builder that sets the heightmap grid dimension for
// generated tiles.
//
// Parameters:
//   - n: the grid dimension (values below 2 are ignored)
//
// Returns:
//   - EllipsoidProviderOption: a function that applies the grid size option
func WithGridSize(n int) EllipsoidProviderOption {
	return func(p *ellipsoidProvider) {
		if n >= 2 {
			p.gridSize = n
		}
	}
}

func (p *ellipsoidProvider) Ready() bool {
	return true
}

func (p *ellipsoidProvider) HasWaterMask() bool {
	return false
}

func (p *ellipsoidProvider) RequestTileGeometry(ctx context.Context, x, y, level int) (Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The flat grid is immutable and shared across all tiles.
	return NewHeightmapData(p.gridSize, p.gridSize, p.flat, WithChildMask(0x0F)), nil
}
