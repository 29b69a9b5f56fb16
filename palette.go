package inkframe

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/wbrown/inkframe/imageutil"
)

//go:embed colordata/palettes.json
var f embed.FS

// Palette is an ordered set of colors a panel can show. Order only
// matters for tie-breaks: the first entry at the minimum distance wins.
type Palette struct {
	Name        string
	Description string
	// Calibrated is set for palettes measured off a physical panel rather
	// than idealized primaries.
	Calibrated bool
	Colors     []imageutil.RGB
}

// Validate reports whether the palette can be dithered against.
func (p Palette) Validate() error {
	if len(p.Colors) == 0 {
		return fmt.Errorf("palette %q has no colors: %w", p.Name, ErrInvalidPalette)
	}
	return nil
}

// Contains reports whether c is exactly one of the palette colors.
func (p Palette) Contains(c imageutil.RGB) bool {
	return slices.Contains(p.Colors, c)
}

// Clone returns a copy of p that shares no memory with it.
func (p Palette) Clone() Palette {
	p.Colors = slices.Clone(p.Colors)
	return p
}

// PaletteRegistry maps palette names to definitions. It is read-only
// after construction and safe for concurrent use.
type PaletteRegistry struct {
	names  []string
	byName map[string]Palette
}

// NewPaletteRegistry builds a registry from palettes, keeping their order.
// Every palette must be valid and names must be unique.
func NewPaletteRegistry(palettes ...Palette) (*PaletteRegistry, error) {
	r := &PaletteRegistry{byName: make(map[string]Palette, len(palettes))}
	for _, p := range palettes {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate palette %q: %w", p.Name, ErrInvalidPalette)
		}
		r.names = append(r.names, p.Name)
		r.byName[p.Name] = p.Clone()
	}
	return r, nil
}

// Lookup returns a copy of the named palette.
func (r *PaletteRegistry) Lookup(name string) (Palette, error) {
	p, ok := r.byName[name]
	if !ok {
		return Palette{}, fmt.Errorf("palette %q: %w", name, ErrUnknownPalette)
	}
	return p.Clone(), nil
}

// Names returns the registered palette names in registration order.
func (r *PaletteRegistry) Names() []string {
	return slices.Clone(r.names)
}

// Palettes holds the built-in palettes: bw, spectra6, acep7 and
// acep8-calibrated.
var Palettes = mustLoadBuiltinPalettes()

func mustLoadBuiltinPalettes() *PaletteRegistry {
	data, err := f.ReadFile("colordata/palettes.json")
	if err != nil {
		panic(err)
	}
	var raw []paletteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		panic(fmt.Errorf("error unmarshalling built-in palettes: %w", err))
	}
	palettes := make([]Palette, 0, len(raw))
	for _, pj := range raw {
		p, err := pj.palette()
		if err != nil {
			panic(err)
		}
		palettes = append(palettes, p)
	}
	r, err := NewPaletteRegistry(palettes...)
	if err != nil {
		panic(err)
	}
	return r
}

// paletteJSON is the on-disk palette form. Colors are "#RRGGBB" strings.
type paletteJSON struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Calibrated  bool     `json:"calibrated"`
	Colors      []string `json:"colors"`
}

func (pj paletteJSON) palette() (Palette, error) {
	p := Palette{
		Name:        pj.Name,
		Description: pj.Description,
		Calibrated:  pj.Calibrated,
		Colors:      make([]imageutil.RGB, 0, len(pj.Colors)),
	}
	for _, hex := range pj.Colors {
		c, err := ParseHexColor(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %q: %w", pj.Name, err)
		}
		p.Colors = append(p.Colors, c)
	}
	return p, p.Validate()
}

// ReadPaletteJSON reads a single palette from r.
func ReadPaletteJSON(r io.Reader) (Palette, error) {
	var pj paletteJSON
	if err := json.NewDecoder(r).Decode(&pj); err != nil {
		return Palette{}, fmt.Errorf("error unmarshalling palette JSON: %w", err)
	}
	return pj.palette()
}

// WritePaletteJSON writes p to w in the form ReadPaletteJSON accepts.
func WritePaletteJSON(w io.Writer, p Palette) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pj := paletteJSON{
		Name:        p.Name,
		Description: p.Description,
		Calibrated:  p.Calibrated,
		Colors:      make([]string, len(p.Colors)),
	}
	for i, c := range p.Colors {
		pj.Colors[i] = HexColor(c)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pj)
}

// ParseHexColor parses "#RRGGBB" (the leading # is optional).
func ParseHexColor(s string) (imageutil.RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return imageutil.RGB{}, fmt.Errorf("color %q: want 6 hex digits: %w", s, ErrInvalidPalette)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return imageutil.RGB{}, fmt.Errorf("error parsing color %q: %w", s, ErrInvalidPalette)
	}
	return imageutil.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// HexColor formats c as "#RRGGBB".
func HexColor(c imageutil.RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
