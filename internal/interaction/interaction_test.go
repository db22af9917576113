package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleOKBeforeFirstTick(t *testing.T) {
	e := &Engine{throttle: 16 * time.Millisecond}
	assert.True(t, e.throttleOK(), "no tick has happened yet, so the first motion event should pass")
}

func TestThrottleOKRespectsWindow(t *testing.T) {
	e := &Engine{throttle: time.Hour, lastTick: time.Now()}
	assert.False(t, e.throttleOK(), "a tick inside the throttle window should be rejected")
}

func TestThrottleOKAfterWindowElapses(t *testing.T) {
	e := &Engine{throttle: time.Millisecond, lastTick: time.Now().Add(-time.Second)}
	assert.True(t, e.throttleOK(), "a tick long past the throttle window should pass")
}
