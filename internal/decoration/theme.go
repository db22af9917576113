package decoration

import "image/color"

// palette is the minimal color set the decoration engine needs to
// paint a title bar. Full theme resolution (palette files, live
// config reload) is the out-of-scope "theme palette" collaborator
// spec.md §1 names; this is just the two built-in fallbacks so the
// core renders something sane without that collaborator wired in.
type palette struct {
	TitleBar       color.RGBA
	Text           color.RGBA
	FocusDot       color.RGBA
	TitlebarBorder color.RGBA
	Separator      color.RGBA
}

var lightPalette = palette{
	TitleBar:       color.RGBA{0xe8, 0xe8, 0xe8, 0xff},
	Text:           color.RGBA{0x20, 0x20, 0x20, 0xff},
	FocusDot:       color.RGBA{0x3a, 0x8f, 0x3a, 0xff},
	TitlebarBorder: color.RGBA{0xc8, 0xc8, 0xc8, 0xff},
	Separator:      color.RGBA{0xb0, 0xb0, 0xb0, 0xff},
}

var darkPalette = palette{
	TitleBar:       color.RGBA{0x2a, 0x2a, 0x2e, 0xff},
	Text:           color.RGBA{0xe0, 0xe0, 0xe0, 0xff},
	FocusDot:       color.RGBA{0x5a, 0xc8, 0x5a, 0xff},
	TitlebarBorder: color.RGBA{0x1a, 0x1a, 0x1e, 0xff},
	Separator:      color.RGBA{0x12, 0x12, 0x15, 0xff},
}

func paletteFor(dark bool) palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}
