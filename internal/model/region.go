package model

import "fmt"

// Region is a half-open span [Start, End) of an item's text. Number and
// Label are assigned when the region is added to an Item.
type Region struct {
	Start  Point  `json:"start"`
	End    Point  `json:"end"`
	Text   string `json:"text,omitempty"`
	Length int    `json:"length,omitempty"`
	Number int    `json:"number"`
	Label  string `json:"label"`
}

// NewRegion returns a region without text.
func NewRegion(start, end Point) (*Region, error) {
	return NewTextRegion(start, end, 0, "")
}

// NewTextRegion returns a region carrying its source text and character
// length.
func NewTextRegion(start, end Point, length int, text string) (*Region, error) {
	if end.Less(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidRegion, end, start)
	}
	if start.OffText() || end.OffText() {
		return nil, fmt.Errorf("%w: negative boundary %s-%s", ErrInvalidRegion, start, end)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidRegion, length)
	}
	return &Region{Start: start, End: end, Text: text, Length: length}, nil
}

// sameBounds reports whether r and o describe the same span of text.
func (r *Region) sameBounds(o *Region) bool {
	return r.Start == o.Start && r.End == o.End && r.Text == o.Text && r.Length == o.Length
}

func (r *Region) String() string {
	return fmt.Sprintf("(start: %s, end: %s, label: %s, number: %d, text: %s)",
		r.Start, r.End, r.Label, r.Number, r.Text)
}
