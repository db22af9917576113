package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShadowLayerCount(t *testing.T) {
	assert.Equal(t, 4, ShadowLayerCount(true))
	assert.Equal(t, 3, ShadowLayerCount(false))
}

func TestShadowLayerParamsDecreaseInward(t *testing.T) {
	s4, o4 := shadowLayerParams(4, 4, 16, 0.5)
	s1, o1 := shadowLayerParams(1, 4, 16, 0.5)
	assert.Less(t, s1, s4, "inner spread should shrink toward the portal")
	assert.Greater(t, o1, o4, "inner opacity should exceed outer (factor*0.5 term)")
}

func TestDrawShadowCanvasSize(t *testing.T) {
	img := DrawShadow(200, 100, 6, true, 16, 0.5, 32)
	b := img.Bounds()
	assert.Equal(t, 264, b.Dx())
	assert.Equal(t, 164, b.Dy())
}

func TestDrawShadowCenterOpaque(t *testing.T) {
	img := DrawShadow(100, 60, 6, true, 16, 0.5, 32)
	_, _, _, a := img.At(32+50, 32+30).RGBA()
	assert.NotZero(t, a, "shadow should be non-transparent under the portal's own footprint")
}
