package compositor

// Shadow parameters per decoration kind (spec.md §4.9 "draw_portal").
const (
	framedShadowSpread    = 20
	framedShadowOpacity   = 0.1
	framelessShadowSpread = 12
	framelessShadowOpacity = 0.08
	shadowMargin          = 40

	// borderAlpha is the luminance-adaptive border's stroke alpha
	// (spec.md §4.9 "alpha from the theme's titlebar border color");
	// the theme palette itself is the out-of-scope collaborator
	// spec.md §1 names, so this stands in as the built-in fallback.
	borderAlpha = 0xd0
)
