// Package latency reproduces the artificial delays the web client used to
// simulate a backend, as cancellable waits.
package latency

import (
	"context"
	"time"
)

// Op names a delayed operation.
type Op string

const (
	OpLogin          Op = "login"
	OpRegister       Op = "register"
	OpCollectors     Op = "collectors"
	OpRoleChange     Op = "role_change"
	OpAssign         Op = "assign"
	OpHistory        Op = "history"
	OpReport         Op = "report"
	OpReportGenerate Op = "report_generate"
)

// DefaultDelays are the durations the web client waited for each operation.
var DefaultDelays = map[Op]time.Duration{
	OpLogin:          0,
	OpRegister:       0,
	OpCollectors:     time.Second,
	OpRoleChange:     1500 * time.Millisecond,
	OpAssign:         300 * time.Millisecond,
	OpHistory:        300 * time.Millisecond,
	OpReport:         time.Second,
	OpReportGenerate: 1500 * time.Millisecond,
}

// Clock supplies timers. Tests substitute one they can advance by hand.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Simulator waits a fixed duration per operation. A nil *Simulator never
// waits.
type Simulator struct {
	clock  Clock
	delays map[Op]time.Duration
	scale  float64
}

// New returns a simulator over DefaultDelays scaled by scale; 1 keeps the
// default durations and 0 disables every wait.
func New(scale float64) *Simulator {
	return NewWithClock(realClock{}, DefaultDelays, scale)
}

func NewWithClock(clock Clock, delays map[Op]time.Duration, scale float64) *Simulator {
	copied := make(map[Op]time.Duration, len(delays))
	for op, d := range delays {
		copied[op] = d
	}
	return &Simulator{clock: clock, delays: copied, scale: scale}
}

// Delay reports how long Wait blocks for op.
func (s *Simulator) Delay(op Op) time.Duration {
	if s == nil {
		return 0
	}
	return time.Duration(float64(s.delays[op]) * s.scale)
}

// Wait blocks for op's delay or until ctx is done, whichever is first.
func (s *Simulator) Wait(ctx context.Context, op Op) error {
	d := s.Delay(op)
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}
