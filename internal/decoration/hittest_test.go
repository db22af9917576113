package decoration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnResizeBorderEdges(t *testing.T) {
	assert.True(t, onResizeBorder(0, 50, 200, 100, 6), "left edge")
	assert.True(t, onResizeBorder(199, 50, 200, 100, 6), "right edge")
	assert.False(t, onResizeBorder(100, 50, 200, 100, 6), "center")
}

func TestOnResizeBorderOutOfBounds(t *testing.T) {
	assert.False(t, onResizeBorder(-1, 0, 200, 100, 6))
	assert.False(t, onResizeBorder(200, 0, 200, 100, 6))
}

func TestTruncateToWidthShortTitleUnchanged(t *testing.T) {
	assert.Equal(t, "ok", truncateToWidth("ok", 1000))
}

func TestTruncateToWidthLongTitleShrinks(t *testing.T) {
	long := "a very long window title that will not fit in the available space"
	got := truncateToWidth(long, 60)
	assert.Less(t, len(got), len(long))
}
