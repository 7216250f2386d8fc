package model

import (
	"fmt"
	"strconv"
)

// Item is one stimulus text, identified by number and condition and
// divided into ordered, contiguous regions.
type Item struct {
	Number    string    `json:"number"`
	Condition string    `json:"condition"`
	Regions   []*Region `json:"regions"`
}

// NewItem builds an item and assigns each region its index as Number and
// its label. A nil labels slice labels regions by index.
func NewItem(number, condition string, regions []*Region, labels []string) (*Item, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: item %s/%s has no regions", ErrInvalidItem, number, condition)
	}
	if labels != nil && len(labels) != len(regions) {
		return nil, fmt.Errorf("%w: %d labels for %d regions", ErrInvalidItem, len(labels), len(regions))
	}
	if labels != nil {
		seen := make(map[string]bool, len(labels))
		for _, l := range labels {
			if seen[l] {
				return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidItem, l)
			}
			seen[l] = true
		}
	}
	for i, r := range regions {
		if r == nil {
			return nil, fmt.Errorf("%w: region %d is nil", ErrInvalidItem, i)
		}
		for _, o := range regions[:i] {
			if r.sameBounds(o) {
				return nil, fmt.Errorf("%w: duplicate region %s-%s", ErrInvalidItem, r.Start, r.End)
			}
		}
	}

	for i, r := range regions {
		r.Number = i
		if labels == nil {
			r.Label = strconv.Itoa(i)
		} else {
			r.Label = labels[i]
		}
	}
	return &Item{Number: number, Condition: condition, Regions: regions}, nil
}

// Region returns the region with the given number.
func (it *Item) Region(number int) (*Region, error) {
	if number < 0 || number >= len(it.Regions) {
		return nil, fmt.Errorf("%w: %d in item %s", ErrRegionNotFound, number, it)
	}
	return it.Regions[number], nil
}

// RegionByLabel returns the region with the given label.
func (it *Item) RegionByLabel(label string) (*Region, error) {
	for _, r := range it.Regions {
		if r.Label == label {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: label %q in item %s", ErrRegionNotFound, label, it)
}

// FindRegion returns the last region starting at or before pos. Positions
// past the end of the text resolve to the last region.
func (it *Item) FindRegion(pos Point) (*Region, error) {
	if len(it.Regions) == 0 || pos.Less(it.Regions[0].Start) {
		return nil, fmt.Errorf("%w: %s in item %s", ErrOutOfRange, pos, it)
	}
	found := it.Regions[0]
	for _, r := range it.Regions[1:] {
		if pos.Less(r.Start) {
			break
		}
		found = r
	}
	return found, nil
}

func (it *Item) String() string {
	return fmt.Sprintf("(number: %s, condition: %s)", it.Number, it.Condition)
}
