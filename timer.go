package ggboard

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Phase is the state of the session clock.
type Phase uint8

const (
	// PhaseActive accepts drawing and text input.
	PhaseActive Phase = iota
	// PhaseExpired is terminal: input is frozen and the assessment opens.
	PhaseExpired
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "ACTIVE"
	case PhaseExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// WarningThreshold is the remaining time under which the countdown is
// shown as a warning.
const WarningThreshold = 30

// Scheduler calls fn periodically with the current wall-clock time until
// stop is called. Calls may arrive on any goroutine.
type Scheduler interface {
	Every(d time.Duration, fn func(now time.Time)) (stop func())
}

// TickerScheduler is a Scheduler backed by time.Ticker.
type TickerScheduler struct{}

// NewTickerScheduler returns the real-time scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Every implements Scheduler.
func (*TickerScheduler) Every(d time.Duration, fn func(now time.Time)) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case now := <-t.C:
				fn(now)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}

// tick recomputes the remaining time from the wall clock. Rounding to the
// nearest second tolerates ticks that arrive slightly early or late.
func (b *Board) tick(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired {
		return
	}
	left := b.duration - now.Sub(b.start)
	remaining := max(int(math.Round(left.Seconds())), 0)
	if remaining < b.remaining {
		b.remaining = remaining
	}
	if b.remaining == 0 {
		b.expireLocked("timeout")
	}
}

// Finish ends the session early. Pending text is committed first. Calling
// Finish after the session expired has no effect.
func (b *Board) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.expireLocked("finished")
}

// expireLocked performs the one-time ACTIVE→EXPIRED transition.
func (b *Board) expireLocked(reason string) {
	if b.phase == PhaseExpired {
		return
	}

	if b.entry.open && b.entry.pending != "" {
		if err := b.commitLocked(b.entry.pending); err != nil {
			b.log.Warn("ggboard: commit pending text on expiry", "error", err)
		}
	}
	b.entry = textEntry{}
	b.endStrokeLocked()

	b.phase = PhaseExpired
	if b.stopTicks != nil {
		b.stopTicks()
		b.stopTicks = nil
	}

	b.log.Info("ggboard: session expired", "reason", reason, "remaining", b.remaining)
}

// Phase returns the current phase of the session clock.
func (b *Board) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Remaining returns the whole seconds left on the clock.
func (b *Board) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Display formats the remaining time as "mm:ss".
func (b *Board) Display() string {
	r := b.Remaining()
	return fmt.Sprintf("%02d:%02d", r/60, r%60)
}

// Warning reports whether the countdown is in its final seconds.
func (b *Board) Warning() bool {
	return b.Remaining() <= WarningThreshold
}
