package compositor

import (
	"image"
	"testing"

	"github.com/limeos-org/portalwm/internal/portal"
	"github.com/stretchr/testify/assert"
)

func TestShadowConstantsMatchSpecTable(t *testing.T) {
	assert.Equal(t, 20, framedShadowSpread)
	assert.Equal(t, 0.1, framedShadowOpacity)
	assert.Equal(t, 12, framelessShadowSpread)
	assert.Equal(t, 0.08, framelessShadowOpacity)
}

func TestClientAreaFramedTrimsTitleBar(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	client := clientArea(img, true)
	assert.Equal(t, 100, client.Bounds().Dx())
	assert.Equal(t, 100-portal.TitleBarHeight, client.Bounds().Dy())
}

func TestClientAreaFramelessReturnsWholeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	client := clientArea(img, false)
	assert.Equal(t, img.Bounds(), client.Bounds())
}

func TestClientAreaFramedShorterThanTitleBarIsEmpty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, portal.TitleBarHeight-1))
	client := clientArea(img, true)
	assert.Equal(t, 0, client.Bounds().Dx()*client.Bounds().Dy())
}
