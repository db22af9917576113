package decoration

import (
	"github.com/limeos-org/portalwm/internal/interaction"
	"github.com/limeos-org/portalwm/internal/portal"
)

// HitTest answers interaction.HitTester in frame-relative coordinates
// (spec.md §4.5 "Triggers are hit-tested in root-relative coordinates
// translated to frame-relative", §4.6 priority "triggers hit -> resize
// area hit -> frame (title-bar) hit -> drag").
func (e *Engine) HitTest(ref portal.Ref, frameX, frameY int) interaction.Trigger {
	p, ok := e.reg.Get(ref)
	if !ok {
		return interaction.TriggerNone
	}
	w, h := p.Geometry.Width, p.Geometry.Height

	if p.Framed() && frameY < portal.TitleBarHeight {
		if trig := e.hitTitleBarTrigger(frameX, w); trig != interaction.TriggerNone {
			return trig
		}
	}
	if onResizeBorder(frameX, frameY, w, h, resizeBorder) {
		return interaction.TriggerResize
	}
	if p.Framed() && frameY < portal.TitleBarHeight {
		return interaction.TriggerFrame
	}
	return interaction.TriggerNone
}

// hitTitleBarTrigger tests the close and arrange buttons, laid out
// right-to-left from the title bar's right edge.
func (e *Engine) hitTitleBarTrigger(frameX, frameWidth int) interaction.Trigger {
	closeMin := frameWidth - triggerMargin - triggerSize
	closeMax := frameWidth - triggerMargin
	if frameX >= closeMin && frameX < closeMax {
		return interaction.TriggerClose
	}
	arrangeMax := closeMin - triggerMargin
	arrangeMin := arrangeMax - triggerSize
	if frameX >= arrangeMin && frameX < arrangeMax {
		return interaction.TriggerArrange
	}
	return interaction.TriggerNone
}

// onResizeBorder reports whether (x, y) falls within resizeBorder
// pixels of any edge of a w x h rectangle.
func onResizeBorder(x, y, w, h, border int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return x < border || x >= w-border || y < border || y >= h-border
}
