package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawText draws text onto img at (x, y) baseline using the built-in
// 7x13 bitmap face, replacing xgraphics.DrawText's freetype/truetype
// path (code.google.com/p/freetype-go is extinct; golang.org/x/image's
// basicfont needs no external font file, matching the title bar's
// fixed-size use case in spec.md §4.3).
func DrawText(img draw.Image, x, y int, clr color.Color, text string) int {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
	return d.Dot.X.Round()
}

// TextWidth measures text's rendered width in the same face DrawText
// uses, for truncating the title string to the space left of the
// trigger buttons.
func TextWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Round()
}

// TextHeight is the fixed line height of the bitmap face.
func TextHeight() int {
	return basicfont.Face7x13.Metrics().Height.Round()
}
