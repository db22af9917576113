package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRunsGroupsConsecutiveSamePole(t *testing.T) {
	// Bright, bright, dark, dark, dark, bright.
	luminance := []float64{0.9, 0.8, 0.1, 0.2, 0.0, 0.95}
	runs := ClassifyRuns(luminance)

	assert.Len(t, runs, 3)
	assert.Equal(t, BorderRun{Start: 0, End: 2, R: 0x20, G: 0x20, B: 0x20}, runs[0])
	assert.Equal(t, 2, runs[1].Start)
	assert.Equal(t, 5, runs[1].End)
	assert.Equal(t, uint8(0xd8), runs[1].R, "low-luminance run should pick the light border color")
	assert.Equal(t, 5, runs[2].Start)
	assert.Equal(t, 6, runs[2].End)
}

func TestClassifyRunsEmptyStripYieldsNoRuns(t *testing.T) {
	assert.Nil(t, ClassifyRuns(nil))
}

func TestClassifyRunsSingleRunSpansWholeStrip(t *testing.T) {
	runs := ClassifyRuns([]float64{0.9, 0.9, 0.9})
	assert.Equal(t, []BorderRun{{Start: 0, End: 3, R: 0x20, G: 0x20, B: 0x20}}, runs)
}

func TestStripLuminanceReadsEachEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.SetRGBA(0, 0, color.RGBA{0xff, 0xff, 0xff, 0xff})
	img.SetRGBA(1, 0, color.RGBA{0, 0, 0, 0xff})
	img.SetRGBA(0, 2, color.RGBA{0xff, 0xff, 0xff, 0xff})
	img.SetRGBA(1, 2, color.RGBA{0, 0, 0, 0xff})

	top := StripLuminance(img, EdgeTop)
	assert.Len(t, top, 2)
	assert.Greater(t, top[0], top[1])

	bottom := StripLuminance(img, EdgeBottom)
	assert.Len(t, bottom, 2)
	assert.Greater(t, bottom[0], bottom[1])

	left := StripLuminance(img, EdgeLeft)
	assert.Len(t, left, 3)

	right := StripLuminance(img, EdgeRight)
	assert.Len(t, right, 3)
}

func TestStrokeEdgeBlendsOverExistingPixels(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill := color.RGBA{0x10, 0x10, 0x10, 0xff}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			dst.SetRGBA(x, y, fill)
		}
	}
	runs := []BorderRun{{Start: 0, End: 4, R: 0xff, G: 0xff, B: 0xff}}
	StrokeEdge(dst, 0, 0, 4, 4, EdgeTop, runs, 0xff)

	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0x10, 0x10, 0x10, 0xff}, dst.RGBAAt(0, 1), "only the top row should be stroked")
}

func TestStrokeEdgeClipsToDestBounds(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	runs := []BorderRun{{Start: 0, End: 5, R: 1, G: 2, B: 3}}
	assert.NotPanics(t, func() {
		StrokeEdge(dst, 0, 0, 5, 5, EdgeTop, runs, 0xff)
	})
}
