// Package model defines the reading-experiment data types: text geometry,
// fixations and saccades, trials and experiments.
package model

import "fmt"

// Point is a (character, line) position in the displayed text.
// Points are ordered by line first, then by character.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Less reports whether p comes before o in reading order.
func (p Point) Less(o Point) bool {
	return p.Y < o.Y || (p.Y == o.Y && p.X < o.X)
}

// Compare returns -1, 0 or +1 depending on the reading order of p and o.
func (p Point) Compare(o Point) int {
	switch {
	case p.Less(o):
		return -1
	case o.Less(p):
		return 1
	}
	return 0
}

// Sub returns the component-wise offset of p from o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// OffText reports whether p is the off-text sentinel, i.e. has a negative
// coordinate.
func (p Point) OffText() bool {
	return p.X < 0 || p.Y < 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
