package decoration

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaintTitlebarBorderStrokesEdgesAndSeparator(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 5))
	pal := lightPalette
	paintTitlebarBorder(img, pal, 10, 5)

	assert.Equal(t, pal.TitlebarBorder, img.RGBAAt(0, 0), "top-left corner")
	assert.Equal(t, pal.TitlebarBorder, img.RGBAAt(9, 0), "top edge")
	assert.Equal(t, pal.TitlebarBorder, img.RGBAAt(0, 2), "left edge")
	assert.Equal(t, pal.TitlebarBorder, img.RGBAAt(9, 2), "right edge")
	assert.Equal(t, pal.Separator, img.RGBAAt(5, 4), "bottom row is the separator line, not the border color")
}
