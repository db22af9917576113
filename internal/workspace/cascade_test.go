package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/limeos-org/portalwm/internal/geom"
)

func TestCascadePosition(t *testing.T) {
	sibling := geom.Rect{X: 100, Y: 100, Width: 640, Height: 480}
	size := geom.Rect{Width: 600, Height: 400}
	got := CascadePosition(sibling, size)
	assert.Equal(t, geom.Rect{X: 146, Y: 146, Width: 600, Height: 400}, got)
}

func TestAutoTileTrigger(t *testing.T) {
	assert.True(t, AutoTileTrigger(1500, 400, 1920, 1080))
	assert.True(t, AutoTileTrigger(400, 900, 1920, 1080))
	assert.False(t, AutoTileTrigger(800, 600, 1920, 1080))
}

func TestToggleToFloatingCentersAndClamps(t *testing.T) {
	screen := geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	last := []geom.Rect{
		{Width: 600, Height: 400},
		{Width: 3000, Height: 400}, // clamps against screen*0.75
		{Width: 50, Height: 50},    // clamps against the minimum
	}
	out := ToggleToFloating(last, screen)
	if assert.Len(t, out, 3) {
		for i := 1; i < len(out); i++ {
			assert.Equal(t, out[0].Width, out[i].Width)
			assert.Equal(t, out[0].Height, out[i].Height)
			assert.Equal(t, out[i-1].X+CascadeOffsetPx, out[i].X)
		}
		assert.LessOrEqual(t, out[0].Width, int(1920*0.75))
	}
}

func TestToggleToFloatingEmpty(t *testing.T) {
	assert.Nil(t, ToggleToFloating(nil, geom.Rect{Width: 1920, Height: 1080}))
}
