// Package geom provides the rectangle arithmetic the workspace layout
// engine and compositor share. It is grounded on the teacher's xrect
// package, generalized from X's signed-16-bit wire rectangle to the
// plain int root-relative rectangle spec.md's Portal.geometry uses.
package geom

// Rect is a root-relative rectangle: (X, Y) is the top-left corner,
// which may be negative; Width and Height are always >= 0.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Right returns the x coordinate just past the rectangle's right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate just past the rectangle's bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether (x, y) falls within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// IntersectArea returns the area of overlap between r and o, or 0 if
// they don't intersect.
func IntersectArea(r, o Rect) int {
	if o.X < r.Right() && o.Right() > r.X && o.Y < r.Bottom() && o.Bottom() > r.Y {
		iw := Min(r.Right(), o.Right()) - Max(r.X, o.X)
		ih := Min(r.Bottom(), o.Bottom()) - Max(r.Y, o.Y)
		return iw * ih
	}
	return 0
}

// Inset shrinks the rectangle by n on every side. Width/Height are
// floored at 0.
func (r Rect) Inset(n int) Rect {
	w := r.Width - 2*n
	h := r.Height - 2*n
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + n, Y: r.Y + n, Width: w, Height: h}
}

// Grow expands the rectangle by n on every side (inverse of Inset),
// used to compute the shadow's bounding box from spread.
func (r Rect) Grow(n int) Rect { return r.Inset(-n) }

// Clamp restricts w/h to [lo, hi], used for cascade/toggle-to-floating
// sizing (spec.md §4.8).
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
