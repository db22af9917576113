package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInRoundedRectCenterAlwaysIn(t *testing.T) {
	assert.True(t, InRoundedRect(50, 30, 100, 60, 8))
}

func TestInRoundedRectCornerOutsideRadius(t *testing.T) {
	assert.False(t, InRoundedRect(0, 0, 100, 60, 8))
}

func TestInRoundedRectZeroRadiusIsFullRect(t *testing.T) {
	for _, p := range [][2]int{{0, 0}, {99, 0}, {0, 59}, {99, 59}} {
		assert.Truef(t, InRoundedRect(p[0], p[1], 100, 60, 0), "corner %v", p)
	}
}

func TestInRoundedRectOutOfBounds(t *testing.T) {
	assert.False(t, InRoundedRect(-1, 0, 100, 60, 8))
	assert.False(t, InRoundedRect(100, 0, 100, 60, 8))
}

func TestCornerMaskDimensions(t *testing.T) {
	w, h := 20, 10
	mask := CornerMask(w, h, 4)
	assert.Len(t, mask, w*h)
	assert.Equal(t, uint8(0xff), mask[5*w+10], "center pixel should be fully opaque")
	assert.Equal(t, uint8(0), mask[0], "top-left corner pixel should be clipped")
}

func TestLuminanceExtremes(t *testing.T) {
	assert.GreaterOrEqual(t, Luminance(255, 255, 255), 0.99)
	assert.Equal(t, 0.0, Luminance(0, 0, 0))
}

func TestBorderColorPicksContrast(t *testing.T) {
	r, g, b := BorderColor(0.9)
	assert.Equal(t, [3]uint8{0x20, 0x20, 0x20}, [3]uint8{r, g, b}, "light content should get a dark border")

	r, g, b = BorderColor(0.1)
	assert.Equal(t, [3]uint8{0xd8, 0xd8, 0xd8}, [3]uint8{r, g, b}, "dark content should get a light border")
}
