package imagery

import "github.com/Carmen-Shannon/globe-go/common"

// LayerBuilderOption is a functional option for configuring a Layer via NewLayer.
type LayerBuilderOption func(*Layer)

// WithShow is an option builder that sets the layer's initial visibility.
//
// Parameters:
//   - show: true to include the layer in streaming and drawing
//
// Returns:
//   - LayerBuilderOption: a function that applies the show option
func WithShow(show bool) LayerBuilderOption {
	return func(l *Layer) {
		l.show = show
	}
}

// WithAlpha is an option builder that sets the layer's blend factor, clamped
// to [0, 1].
//
// Parameters:
//   - alpha: the blend factor
//
// Returns:
//   - LayerBuilderOption: a function that applies the alpha option
func WithAlpha(alpha float64) LayerBuilderOption {
	return func(l *Layer) {
		l.alpha = common.Clamp(alpha, 0, 1)
	}
}
