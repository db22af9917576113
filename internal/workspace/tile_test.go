package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/limeos-org/portalwm/internal/xtest"
)

// TestTileRectsCoverage verifies P9: for every N in [1,8] and every
// fixture screen, the tile rects exactly partition the viewport minus
// the gap lattice — no overlaps, and the summed area does not exceed
// the inset work area.
func TestTileRectsCoverage(t *testing.T) {
	for _, screen := range xtest.Screens {
		vp := screen.Rect()
		for n := 1; n <= 8; n++ {
			rects := TileRects(n, vp, 6)
			assert.Lenf(t, rects, n, "viewport %v n=%d", vp, n)

			total := 0
			for i, r := range rects {
				assert.Greaterf(t, r.Width, 0, "rect %d width", i)
				assert.Greaterf(t, r.Height, 0, "rect %d height", i)
				total += r.Width * r.Height
				for j, o := range rects {
					if i == j {
						continue
					}
					assert.Equalf(t, 0, geom.IntersectArea(r, o), "n=%d rects %d/%d overlap", n, i, j)
				}
			}
			area := vp.Inset(6)
			assert.LessOrEqualf(t, total, area.Width*area.Height, "n=%d total area exceeds work area", n)
		}
	}
}

// TestTileRectsThreeColumn1920 pins the N=3 recipe to the exact
// closed form in original_source/src/workspaces/tiling.c's
// calc_tile_geometry: col_width = (usable_width - 3*gap) / 2 and, for
// the right column's two cells, row_height = (usable_height - 3*gap) /
// 2 stacked at y = gap + row*(row_height + gap). Both divisions are
// exact for this screen (zero remainder), so every rect is asserted
// bit-for-bit rather than just structurally.
func TestTileRectsThreeColumn1920(t *testing.T) {
	rects := TileRects(3, geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, 6)
	assert.Equal(t, geom.Rect{X: 6, Y: 6, Width: 951, Height: 1068}, rects[0])
	assert.Equal(t, geom.Rect{X: 963, Y: 6, Width: 951, Height: 531}, rects[1])
	assert.Equal(t, geom.Rect{X: 963, Y: 543, Width: 951, Height: 531}, rects[2])
}

func TestTileRectsUnknownN(t *testing.T) {
	assert.Nil(t, TileRects(0, geom.Rect{Width: 100, Height: 100}, 6))
	assert.Nil(t, TileRects(9, geom.Rect{Width: 100, Height: 100}, 6))
}
