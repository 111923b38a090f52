package material

import "fmt"

// Handle identifies a material inside a Palette
type Handle uint32

// Palette is an arena of materials. Shapes store a Handle instead of a
// material reference. A palette is filled while the scene is built and is
// only read once rendering starts.
type Palette struct {
	materials []Material
}

// NewPalette creates a palette holding the given materials in order
func NewPalette(materials ...Material) *Palette {
	p := &Palette{}
	for _, m := range materials {
		p.Add(m)
	}
	return p
}

// Add stores a material and returns its handle
func (p *Palette) Add(m Material) Handle {
	p.materials = append(p.materials, m)
	return Handle(len(p.materials) - 1)
}

// Get returns the material for a handle
func (p *Palette) Get(h Handle) Material {
	return p.materials[h]
}

// Lookup is Get with a bounds check
func (p *Palette) Lookup(h Handle) (Material, error) {
	if int(h) >= len(p.materials) {
		return nil, fmt.Errorf("material handle %d out of range (palette has %d)", h, len(p.materials))
	}
	return p.materials[h], nil
}

// Len returns the number of materials in the palette
func (p *Palette) Len() int {
	return len(p.materials)
}
