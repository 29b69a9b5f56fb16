package inkframe

import (
	"fmt"
	"slices"
)

// Tap is one neighbor of an error diffusion kernel, relative to the pixel
// being quantized.
type Tap struct {
	DX, DY int
	Weight int
}

// Kernel is an error diffusion topology. Each tap receives
// error*Weight/Divisor. Taps must point at pixels not yet visited in
// raster order, so every decision is final once made.
type Kernel struct {
	Name    string
	Taps    []Tap
	Divisor int
}

// Validate checks that the divisor is positive and every tap is causal:
// DY > 0, or DY == 0 with DX > 0.
func (k Kernel) Validate() error {
	if k.Divisor <= 0 {
		return fmt.Errorf("kernel %q: divisor %d: %w", k.Name, k.Divisor, ErrInvalidKernel)
	}
	if len(k.Taps) == 0 {
		return fmt.Errorf("kernel %q has no taps: %w", k.Name, ErrInvalidKernel)
	}
	for _, t := range k.Taps {
		if t.DY < 0 || (t.DY == 0 && t.DX <= 0) {
			return fmt.Errorf("kernel %q: tap (%d,%d) is not ahead of the current pixel: %w",
				k.Name, t.DX, t.DY, ErrInvalidKernel)
		}
	}
	return nil
}

// WeightSum returns the total of the tap weights. It equals Divisor for
// kernels that conserve error; Atkinson deliberately drops 2/8.
func (k Kernel) WeightSum() int {
	sum := 0
	for _, t := range k.Taps {
		sum += t.Weight
	}
	return sum
}

// Clone returns a copy of k that shares no memory with it.
func (k Kernel) Clone() Kernel {
	k.Taps = slices.Clone(k.Taps)
	return k
}

var (
	// floydSteinberg spreads 7/16 right and 3, 5, 1 sixteenths below.
	floydSteinberg = Kernel{
		Name: "floyd-steinberg",
		Taps: []Tap{
			{1, 0, 7},
			{-1, 1, 3}, {0, 1, 5}, {1, 1, 1},
		},
		Divisor: 16,
	}

	// atkinson passes on only 6/8 of the error, which lightens output
	// and keeps highlights clean.
	atkinson = Kernel{
		Name: "atkinson",
		Taps: []Tap{
			{1, 0, 1}, {2, 0, 1},
			{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
			{0, 2, 1},
		},
		Divisor: 8,
	}

	stucki = Kernel{
		Name: "stucki",
		Taps: []Tap{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
			{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
		},
		Divisor: 42,
	}

	jarvisJudiceNinke = Kernel{
		Name: "jarvis-judice-ninke",
		Taps: []Tap{
			{1, 0, 7}, {2, 0, 5},
			{-2, 1, 3}, {-1, 1, 5}, {0, 1, 7}, {1, 1, 5}, {2, 1, 3},
			{-2, 2, 1}, {-1, 2, 3}, {0, 2, 5}, {1, 2, 3}, {2, 2, 1},
		},
		Divisor: 48,
	}
)

// KernelRegistry maps kernel names to definitions. It is read-only after
// construction and safe for concurrent use.
type KernelRegistry struct {
	names  []string
	byName map[string]Kernel
}

// NewKernelRegistry builds a registry from kernels, keeping their order.
func NewKernelRegistry(kernels ...Kernel) (*KernelRegistry, error) {
	r := &KernelRegistry{byName: make(map[string]Kernel, len(kernels))}
	for _, k := range kernels {
		if err := k.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[k.Name]; dup {
			return nil, fmt.Errorf("duplicate kernel %q: %w", k.Name, ErrInvalidKernel)
		}
		r.names = append(r.names, k.Name)
		r.byName[k.Name] = k.Clone()
	}
	return r, nil
}

// Lookup returns a copy of the named kernel.
func (r *KernelRegistry) Lookup(name string) (Kernel, error) {
	k, ok := r.byName[name]
	if !ok {
		return Kernel{}, fmt.Errorf("kernel %q: %w", name, ErrUnknownKernel)
	}
	return k.Clone(), nil
}

// Names returns the registered kernel names in registration order.
func (r *KernelRegistry) Names() []string {
	return slices.Clone(r.names)
}

// Kernels holds the built-in error diffusion kernels: floyd-steinberg,
// atkinson, stucki and jarvis-judice-ninke.
var Kernels = mustKernelRegistry(floydSteinberg, atkinson, stucki, jarvisJudiceNinke)

func mustKernelRegistry(kernels ...Kernel) *KernelRegistry {
	r, err := NewKernelRegistry(kernels...)
	if err != nil {
		panic(err)
	}
	return r
}
