package seasonal

import "strconv"

// Block is an in-memory Region with numeric bounds.
type Block struct {
	StartDay int
	EndDay   int
	Visible  bool
}

// NewBlock creates a hidden block covering [start, end].
func NewBlock(start, end int) *Block {
	return &Block{StartDay: start, EndDay: end}
}

// Attr returns the block's bounds in their attribute form.
func (b *Block) Attr(name string) string {
	switch name {
	case AttrDayStart:
		return strconv.Itoa(b.StartDay)
	case AttrDayEnd:
		return strconv.Itoa(b.EndDay)
	}
	return ""
}

// SetVisible records the visibility decision.
func (b *Block) SetVisible(visible bool) {
	b.Visible = visible
}

// AttrRegion is a Region backed by a raw attribute map, useful when bounds
// come from markup or user input that may not be numeric.
type AttrRegion struct {
	Attrs   map[string]string
	Visible bool
}

// Attr returns the raw attribute value.
func (a *AttrRegion) Attr(name string) string {
	return a.Attrs[name]
}

// SetVisible records the visibility decision.
func (a *AttrRegion) SetVisible(visible bool) {
	a.Visible = visible
}

// Regions converts blocks to the Region slice the resolver takes.
func Regions[T Region](items []T) []Region {
	regions := make([]Region, len(items))
	for i, item := range items {
		regions[i] = item
	}
	return regions
}
