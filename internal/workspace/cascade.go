package workspace

import (
	"sort"

	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/limeos-org/portalwm/internal/portal"
)

// CascadeOffsetPx is re-exported from internal/portal so workspace
// callers don't need a second import for one constant.
const CascadeOffsetPx = portal.CascadeOffsetPx

// CascadePosition offsets a newly-mapped portal by CASCADE_OFFSET_PX
// from the topmost same-class sibling's geometry (spec.md §4.8
// "First-map cascade"), keeping the new portal's own size.
func CascadePosition(sibling geom.Rect, size geom.Rect) geom.Rect {
	return geom.Rect{
		X: sibling.X + CascadeOffsetPx, Y: sibling.Y + CascadeOffsetPx,
		Width: size.Width, Height: size.Height,
	}
}

// AutoTileTrigger reports whether a portal mapping at (w, h) should
// flip its workspace into Tiling (spec.md §4.8 "Auto-tile trigger").
func AutoTileTrigger(w, h, screenW, screenH int) bool {
	return float64(w) > float64(screenW)*portal.ViewportThreshold ||
		float64(h) > float64(screenH)*portal.ViewportThreshold
}

// median returns the middle element of a sorted copy of vals (lower of
// the two middles on an even count), or 0 for an empty slice.
func median(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	cp := append([]int(nil), vals...)
	sort.Ints(cp)
	return cp[(len(cp)-1)/2]
}

// ToggleToFloating implements spec.md §4.8 "Toggle to Floating": every
// cascade-eligible portal (ordered bottom-to-top) is resized to the
// median of the group's last floating widths/heights, clamped to
// [MinimumWidth/Height, screen * ViewportThreshold], the whole group is
// centered on screen, and each portal is offset by i * CASCADE_OFFSET_PX
// from the group's anchor.
func ToggleToFloating(lastFloating []geom.Rect, screen geom.Rect) []geom.Rect {
	n := len(lastFloating)
	if n == 0 {
		return nil
	}
	widths := make([]int, n)
	heights := make([]int, n)
	for i, r := range lastFloating {
		widths[i] = r.Width
		heights[i] = r.Height
	}
	w := geom.Clamp(median(widths), portal.MinimumWidth, int(float64(screen.Width)*portal.ViewportThreshold))
	h := geom.Clamp(median(heights), portal.MinimumHeight, int(float64(screen.Height)*portal.ViewportThreshold))

	span := (n - 1) * CascadeOffsetPx
	anchorX := screen.X + (screen.Width-(w+span))/2
	anchorY := screen.Y + (screen.Height-(h+span))/2

	out := make([]geom.Rect, n)
	for i := range out {
		out[i] = geom.Rect{X: anchorX + i*CascadeOffsetPx, Y: anchorY + i*CascadeOffsetPx, Width: w, Height: h}
	}
	return out
}
