package timeline

import (
	"errors"
	"sync"
)

// ErrEmptyResourcePalette means a projector was built without any colors.
// The palette is a fixed constant or validated config, so this is a
// programming error.
var ErrEmptyResourcePalette = errors.New("resource palette is empty")

// Palette is an ordered list of hex colors assigned to resources.
type Palette []string

// AlphabetPalette is the 26-color qualitative palette used for resources by
// default.
var AlphabetPalette = Palette{
	"#AA0DFE", "#3283FE", "#85660D", "#782AB6", "#565656", "#1C8356",
	"#16FF32", "#F7E1A0", "#E2E2E2", "#1CBE4F", "#C4451C", "#DEA0FD",
	"#FE00FA", "#325A9B", "#FEAF16", "#F8A19F", "#90AD1C", "#F6222E",
	"#1CFFCE", "#2ED9FF", "#B10DA1", "#C075A6", "#FC1CBF", "#B00068",
	"#FBE426", "#FA0087",
}

// ColorAssigner hands out palette slots to resource labels in order of first
// appearance. A label keeps its slot for the life of the assigner. Once every
// slot is taken, slots are reused round-robin.
type ColorAssigner struct {
	palette Palette

	mu    sync.Mutex
	slots map[string]int
	next  int
}

// NewColorAssigner returns an assigner over a copy of palette.
func NewColorAssigner(palette Palette) (*ColorAssigner, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyResourcePalette
	}
	p := make(Palette, len(palette))
	copy(p, palette)
	return &ColorAssigner{palette: p, slots: make(map[string]int)}, nil
}

// Color returns the color for resource, assigning one on first use.
func (a *ColorAssigner) Color(resource string) (string, error) {
	if len(a.palette) == 0 {
		return "", ErrEmptyResourcePalette
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	slot, ok := a.slots[resource]
	if !ok {
		slot = a.next
		a.slots[resource] = slot
		a.next++
	}
	return a.palette[slot%len(a.palette)], nil
}

// Assigned returns the number of labels seen so far.
func (a *ColorAssigner) Assigned() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slots)
}
