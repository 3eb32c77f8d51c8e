package latency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualClock hands out timers that fire only when the test says so.
type manualClock struct {
	requested chan time.Duration
	fire      chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		requested: make(chan time.Duration, 1),
		fire:      make(chan time.Time, 1),
	}
}

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	c.requested <- d
	return c.fire
}

func TestWait_CompletesWhenClockFires(t *testing.T) {
	clock := newManualClock()
	sim := NewWithClock(clock, map[Op]time.Duration{OpAssign: 300 * time.Millisecond}, 1)

	done := make(chan error, 1)
	go func() { done <- sim.Wait(context.Background(), OpAssign) }()

	assert.Equal(t, 300*time.Millisecond, <-clock.requested)
	clock.fire <- time.Now()
	require.NoError(t, <-done)
}

func TestWait_CancelledContext(t *testing.T) {
	clock := newManualClock()
	sim := NewWithClock(clock, map[Op]time.Duration{OpReport: time.Hour}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Wait(ctx, OpReport) }()

	<-clock.requested
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWait_ZeroDelayDoesNotTouchClock(t *testing.T) {
	clock := newManualClock()
	sim := NewWithClock(clock, DefaultDelays, 0)

	require.NoError(t, sim.Wait(context.Background(), OpRoleChange))
	assert.Empty(t, clock.requested)
}

func TestWait_NilSimulator(t *testing.T) {
	var sim *Simulator
	require.NoError(t, sim.Wait(context.Background(), OpCollectors))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sim.Wait(ctx, OpCollectors), context.Canceled)
}

func TestDelay_Scaled(t *testing.T) {
	sim := New(0.5)
	assert.Equal(t, 750*time.Millisecond, sim.Delay(OpRoleChange))
	assert.Equal(t, time.Duration(0), sim.Delay(OpLogin))
}
