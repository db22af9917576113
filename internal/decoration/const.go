package decoration

// Layout constants for the title bar band, grounded on spec.md §4.5
// ("clears the title-bar band... paints a focus dot... title
// text... triggers (close/arrange)").
const (
	triggerSize    = 14
	triggerMargin  = 6
	focusDotRadius = 4
	focusDotInset  = 10
	textPadding    = 6
	resizeBorder   = 6
)
