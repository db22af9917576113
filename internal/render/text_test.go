package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawTextAdvancesDot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 20))
	end := DrawText(img, 2, 14, color.White, "hi")
	assert.Greater(t, end, 2)
}

func TestTextWidthGrowsWithLength(t *testing.T) {
	short := TextWidth("a")
	long := TextWidth("a long title string")
	assert.Greater(t, long, short)
}

func TestTextHeightPositive(t *testing.T) {
	assert.Greater(t, TextHeight(), 0)
}
