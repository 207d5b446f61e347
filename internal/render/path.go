// SPDX-License-Identifier: MIT
/*
Package render maps magnitude spectra into screen-space response
curves. The Path type is a plain point sequence so the analysis core
stays independent of any particular drawing surface; the transports
serialize it for whatever renderer is attached.
*/
package render

// Point is one vertex of a response curve in surface coordinates.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Rect describes the drawing area a path is generated for.
type Rect struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// Path is an ordered sequence of points, monotonically non-decreasing
// in x, starting at x = 0. Storage is reused across cycles; capacity is
// reserved up front so construction does not allocate.
type Path struct {
	points []Point
}

// NewPath returns an empty path with the given point capacity reserved.
func NewPath(capacity int) *Path {
	return &Path{points: make([]Point, 0, capacity)}
}

// Reserve grows the backing storage to hold at least n points.
// Existing points are preserved.
func (p *Path) Reserve(n int) {
	if cap(p.points) >= n {
		return
	}
	grown := make([]Point, len(p.points), n)
	copy(grown, p.points)
	p.points = grown
}

// Start resets the path and places its first point.
func (p *Path) Start(x, y float32) {
	p.points = p.points[:0]
	p.points = append(p.points, Point{X: x, Y: y})
}

// LineTo appends a line segment ending at (x, y).
func (p *Path) LineTo(x, y float32) {
	p.points = append(p.points, Point{X: x, Y: y})
}

// Clear empties the path, keeping its storage.
func (p *Path) Clear() {
	p.points = p.points[:0]
}

// Len returns the number of points in the path.
func (p *Path) Len() int { return len(p.points) }

// Points returns the path's points. The slice aliases internal storage
// and is only valid until the next Start or Clear.
func (p *Path) Points() []Point { return p.points }

// CopyFrom replaces the path's contents with a deep copy of src,
// reusing storage where possible.
func (p *Path) CopyFrom(src *Path) {
	p.Reserve(len(src.points))
	p.points = p.points[:len(src.points)]
	copy(p.points, src.points)
}

// Clone returns an independent copy of the path.
func (p *Path) Clone() Path {
	out := Path{points: make([]Point, len(p.points))}
	copy(out.points, p.points)
	return out
}
