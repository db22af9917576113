package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaxEventsPerIterationMatchesBudget(t *testing.T) {
	assert.Equal(t, 50, maxEventsPerIteration, "spec.md §8 P7")
}

func TestThrottleFromFramerate(t *testing.T) {
	got := time.Second / time.Duration(60)
	want := time.Duration(1000.0/60.0) * time.Millisecond
	assert.InDelta(t, float64(want), float64(got), float64(time.Millisecond))
}
