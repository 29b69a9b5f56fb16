package inkframe

import "errors"

var (
	// ErrUnknownPalette is returned when a palette name is not in the
	// registry.
	ErrUnknownPalette = errors.New("unknown palette")

	// ErrUnknownKernel is returned when a dithering kernel name is not in
	// the registry. There is no fallback kernel.
	ErrUnknownKernel = errors.New("unknown dithering kernel")

	// ErrUnknownMatchStrategy is returned for an unrecognized color
	// matching strategy.
	ErrUnknownMatchStrategy = errors.New("unknown match strategy")

	// ErrInvalidOption is returned when a pipeline or dither setting is out
	// of range.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidPalette is returned for an empty palette or a malformed
	// palette color.
	ErrInvalidPalette = errors.New("invalid palette")

	// ErrInvalidKernel is returned for a kernel with a non-causal tap or a
	// non-positive divisor.
	ErrInvalidKernel = errors.New("invalid kernel")

	// ErrDecode wraps failures reported by a Source's Open function.
	ErrDecode = errors.New("decode failed")
)
