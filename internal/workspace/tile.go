// Package workspace implements the workspace & layout engine (C8):
// per-workspace visibility/focus memory, the floating layout with
// cascade-on-first-map and auto-tile trigger, and the fixed N=1..8
// tiling recipes. It is grounded on the teacher's xrect package for
// the rectangle split math and on marwind's per-workspace client list
// for the "ordered tile list" shape (spec.md §3 "Workspace", §4.8).
package workspace

import "github.com/limeos-org/portalwm/internal/geom"

// splitSizes divides total into n segments separated by gap, summing
// exactly to total so P9 (exact coverage, no overlap) holds regardless
// of how the remainder from integer division is distributed; any
// remainder is folded into the last segment.
func splitSizes(total, n, gap int) []int {
	if n <= 0 {
		return nil
	}
	avail := total - gap*(n-1)
	if avail < 0 {
		avail = 0
	}
	base := avail / n
	rem := avail - base*n
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = base
	}
	sizes[n-1] += rem
	return sizes
}

// columns lays out n equal-width, full-height cells left to right
// across area.
func columns(area geom.Rect, n, gap int) []geom.Rect {
	widths := splitSizes(area.Width, n, gap)
	out := make([]geom.Rect, n)
	x := area.X
	for i, w := range widths {
		out[i] = geom.Rect{X: x, Y: area.Y, Width: w, Height: area.Height}
		x += w + gap
	}
	return out
}

// rows lays out n equal-height cells across the full width of area,
// top to bottom, used as a sub-step of the mixed recipes below.
func rows(area geom.Rect, n, gap int) []geom.Rect {
	heights := splitSizes(area.Height, n, gap)
	out := make([]geom.Rect, n)
	y := area.Y
	for i, h := range heights {
		out[i] = geom.Rect{X: area.X, Y: y, Width: area.Width, Height: h}
		y += h + gap
	}
	return out
}

// grid lays cols x rowCount cells, top-to-bottom then
// left-to-right within each row (the order 2x2/3x2/4x2 recipes use).
func grid(area geom.Rect, cols, rowCount, gap int) []geom.Rect {
	rowAreas := rows(area, rowCount, gap)
	out := make([]geom.Rect, 0, cols*rowCount)
	for _, ra := range rowAreas {
		out = append(out, columns(ra, cols, gap)...)
	}
	return out
}

// TileRects computes the N=1..8 fixed slot recipe of spec.md §4.8 over
// viewport, reserving gap around and between every cell. N outside
// [1,8] returns nil; callers should not tile more than
// MaxWorkspacePortals anyway.
func TileRects(n int, viewport geom.Rect, gap int) []geom.Rect {
	area := viewport.Inset(gap)
	switch n {
	case 1:
		return []geom.Rect{area}
	case 2:
		return columns(area, 2, gap)
	case 3:
		cols := columns(area, 2, gap)
		right := rows(cols[1], 2, gap)
		return []geom.Rect{cols[0], right[0], right[1]}
	case 4:
		return grid(area, 2, 2, gap)
	case 5:
		topRow, bottomRow := splitHorizontal(area, gap)
		top := columns(topRow, 2, gap)
		bottom := columns(bottomRow, 3, gap)
		return append(top, bottom...)
	case 6:
		return grid(area, 3, 2, gap)
	case 7:
		topRow, bottomRow := splitHorizontal(area, gap)
		top := columns(topRow, 3, gap)
		bottom := columns(bottomRow, 4, gap)
		return append(top, bottom...)
	case 8:
		return grid(area, 4, 2, gap)
	default:
		return nil
	}
}

// splitHorizontal splits area into two equal-height bands (used by the
// N=5 and N=7 mixed recipes, whose rows hold a different cell count
// each but the same height).
func splitHorizontal(area geom.Rect, gap int) (top, bottom geom.Rect) {
	heights := splitSizes(area.Height, 2, gap)
	top = geom.Rect{X: area.X, Y: area.Y, Width: area.Width, Height: heights[0]}
	bottom = geom.Rect{X: area.X, Y: area.Y + heights[0] + gap, Width: area.Width, Height: heights[1]}
	return
}
