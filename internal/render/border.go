package render

import (
	"image"
	"image/color"
)

// Edge names one straight edge of a captured portal image to sample
// for the luminance-adaptive border (spec.md §4.9).
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// BorderRun is a maximal run of an edge strip whose luminance sits on
// the same side of the threshold, already resolved to the contrasting
// border color spec.md §4.9 picks per run ("group consecutive pixels
// ... into runs, and stroke each run as a single line").
type BorderRun struct {
	Start, End int // half-open range along the strip
	R, G, B    uint8
}

// StripLuminance reads the per-pixel luminance along one edge of img:
// the top/bottom row or the left/right column. The compositor feeds
// this the portal's own captured pixmap image rather than issuing a
// second XGetImage on the same drawable, since the pixel data is
// already in hand after the normal paint pass.
func StripLuminance(img *image.RGBA, edge Edge) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	var out []float64
	switch edge {
	case EdgeTop:
		out = make([]float64, w)
		for x := 0; x < w; x++ {
			out[x] = pixelLuminance(img, b.Min.X+x, b.Min.Y)
		}
	case EdgeBottom:
		out = make([]float64, w)
		for x := 0; x < w; x++ {
			out[x] = pixelLuminance(img, b.Min.X+x, b.Max.Y-1)
		}
	case EdgeLeft:
		out = make([]float64, h)
		for y := 0; y < h; y++ {
			out[y] = pixelLuminance(img, b.Min.X, b.Min.Y+y)
		}
	case EdgeRight:
		out = make([]float64, h)
		for y := 0; y < h; y++ {
			out[y] = pixelLuminance(img, b.Max.X-1, b.Min.Y+y)
		}
	}
	return out
}

func pixelLuminance(img *image.RGBA, x, y int) float64 {
	c := img.RGBAAt(x, y)
	return Luminance(c.R, c.G, c.B)
}

// ClassifyRuns walks a strip of per-pixel luminance samples, grouping
// consecutive samples on the same side of the 0.5 threshold into runs
// (spec.md §4.9), and resolves each run's own average luminance to a
// border color via BorderColor.
func ClassifyRuns(luminance []float64) []BorderRun {
	if len(luminance) == 0 {
		return nil
	}
	var runs []BorderRun
	start := 0
	class := luminance[0] > 0.5
	for i := 1; i <= len(luminance); i++ {
		if i < len(luminance) && (luminance[i] > 0.5) == class {
			continue
		}
		runs = append(runs, newBorderRun(luminance, start, i))
		if i < len(luminance) {
			start = i
			class = luminance[i] > 0.5
		}
	}
	return runs
}

func newBorderRun(luminance []float64, start, end int) BorderRun {
	sum := 0.0
	for _, l := range luminance[start:end] {
		sum += l
	}
	r, g, b := BorderColor(sum / float64(end-start))
	return BorderRun{Start: start, End: end, R: r, G: g, B: b}
}

// StrokeEdge paints each run in runs as a 1-pixel line along edge of
// the w x h rectangle whose top-left corner sits at (originX, originY)
// in dst, alpha-blending each run's color over whatever dst already
// holds (spec.md §4.9 "stroke each run ... using alpha from the
// theme's titlebar border color").
func StrokeEdge(dst *image.RGBA, originX, originY, w, h int, edge Edge, runs []BorderRun, alpha uint8) {
	for _, run := range runs {
		for i := run.Start; i < run.End; i++ {
			switch edge {
			case EdgeTop:
				blendAt(dst, originX+i, originY, run.R, run.G, run.B, alpha)
			case EdgeBottom:
				blendAt(dst, originX+i, originY+h-1, run.R, run.G, run.B, alpha)
			case EdgeLeft:
				blendAt(dst, originX, originY+i, run.R, run.G, run.B, alpha)
			case EdgeRight:
				blendAt(dst, originX+w-1, originY+i, run.R, run.G, run.B, alpha)
			}
		}
	}
}

func blendAt(dst *image.RGBA, x, y int, r, g, b, alpha uint8) {
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	if alpha == 0xff {
		dst.SetRGBA(x, y, color.RGBA{r, g, b, 0xff})
		return
	}
	bg := dst.RGBAAt(x, y)
	a := float64(alpha) / 0xff
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*a + float64(bg)*(1-a))
	}
	dst.SetRGBA(x, y, color.RGBA{mix(r, bg.R), mix(g, bg.G), mix(b, bg.B), 0xff})
}
