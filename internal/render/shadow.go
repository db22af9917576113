package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ShadowLayerCount is the number of layers k the drop shadow uses:
// framed portals get one more layer than frameless, since their
// title bar gives the shadow more silhouette to read against (spec.md
// §4.9 "Shadow").
func ShadowLayerCount(framed bool) int {
	if framed {
		return 4
	}
	return 3
}

// shadowLayerParams computes spread_i and opacity_i for layer i (counting
// from layers down to 1, outermost first) exactly per spec.md §4.9:
// factor = i/layers, spread_i = spread*factor,
// opacity_i = (opacity/layers)*(1-factor*0.5).
func shadowLayerParams(i, layers int, spread, opacity float64) (spreadI, opacityI float64) {
	factor := float64(i) / float64(layers)
	spreadI = spread * factor
	opacityI = (opacity / float64(layers)) * (1 - factor*0.5)
	return
}

// DrawShadow renders the k-layer drop shadow for a w x h portal with
// the given corner radius, growing each successive layer's rounded
// rectangle by spread_i/2 at decreasing opacity (spec.md §4.9),
// returning a canvas margin pixels larger on every side so the
// outermost layer's growth and blur feather stay on-canvas. Grounded
// on xgraphics.Blend's over-compositing idiom; the per-layer edge is
// softened with disintegration/imaging's Gaussian blur (the teacher's
// own blur dependency, code.google.com/p/graphics-go/graphics, is
// extinct).
func DrawShadow(w, h int, cornerRadius int, framed bool, spread, opacity float64, margin int) *image.RGBA {
	canvasW, canvasH := w+2*margin, h+2*margin
	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	layers := ShadowLayerCount(framed)

	for i := layers; i >= 1; i-- {
		spreadI, opacityI := shadowLayerParams(i, layers, spread, opacity)
		grow := int(spreadI / 2)
		radius := cornerRadius + grow
		alpha := uint8(clamp255(opacityI * 255))
		if alpha == 0 {
			continue
		}

		rectW, rectH := w+2*grow, h+2*grow
		layerImg := image.NewRGBA(image.Rect(0, 0, rectW, rectH))
		for y := 0; y < rectH; y++ {
			for x := 0; x < rectW; x++ {
				if InRoundedRect(x, y, rectW, rectH, radius) {
					layerImg.Set(x, y, color.NRGBA{0, 0, 0, alpha})
				}
			}
		}
		blurred := imaging.Blur(layerImg, float64(grow)/3+1)

		ox := margin + (w-rectW)/2
		oy := margin + (h-rectH)/2
		dstRect := image.Rect(ox, oy, ox+rectW, oy+rectH)
		draw.Draw(canvas, dstRect, blurred, image.Point{}, draw.Over)
	}
	return canvas
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
