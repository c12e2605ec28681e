// Package popup computes where the layout panel appears relative to the
// notification area.
package popup

import "github.com/1broseidon/rectangular/internal/winmsg"

// Size is a panel size in pixels.
type Size struct {
	Width  int32
	Height int32
}

// Rect is a screen rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p winmsg.Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// ComputePosition returns the top-left corner for a panel of the given size
// centred on cursor and then moved fully inside work, the work area of the
// monitor holding the cursor. A panel larger than the work area is pinned
// to its top-left corner.
func ComputePosition(cursor winmsg.Point, size Size, work Rect) winmsg.Point {
	x := cursor.X - size.Width/2
	y := cursor.Y - size.Height/2
	return winmsg.Point{
		X: clamp(x, work.Left, work.Right-size.Width),
		Y: clamp(y, work.Top, work.Bottom-size.Height),
	}
}

func clamp(v, lo, hi int32) int32 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
