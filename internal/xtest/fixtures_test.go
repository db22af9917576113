package xtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreensHavePositiveDimensions(t *testing.T) {
	for _, s := range Screens {
		assert.Greaterf(t, s.Width, 0, "screen %s", s.Name)
		assert.Greaterf(t, s.Height, 0, "screen %s", s.Name)
		assert.Equal(t, s.Width, s.Rect().Width)
		assert.Equal(t, s.Height, s.Rect().Height)
	}
}

func TestCascadeFixtureStepsByOffset(t *testing.T) {
	for i := 1; i < len(CascadeFixture); i++ {
		prev, cur := CascadeFixture[i-1].Geometry, CascadeFixture[i].Geometry
		assert.Equal(t, 46, cur.X-prev.X)
		assert.Equal(t, 46, cur.Y-prev.Y)
	}
}

func TestWindowTypeAtomNamesNonEmpty(t *testing.T) {
	assert.NotEmpty(t, WindowTypeAtomNames)
	for _, name := range WindowTypeAtomNames {
		assert.Contains(t, name, "_NET_WM_WINDOW_TYPE")
	}
}
