package ggboard

import (
	"testing"
	"time"

	"github.com/gogpu/ggboard/store"
)

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhaseActive, "ACTIVE"},
		{PhaseExpired, "EXPIRED"},
		{Phase(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestTickCountdown(t *testing.T) {
	b, sched := newTimedBoard(t, Viewport{Width: 100, Height: 80, Scale: 1},
		WithDuration(240*time.Second))

	tests := []struct {
		at      time.Duration
		want    int
		display string
		warning bool
	}{
		{0, 240, "04:00", false},
		{time.Second, 239, "03:59", false},
		{2*time.Second + 300*time.Millisecond, 238, "03:58", false},
		{209*time.Second + 900*time.Millisecond, 30, "00:30", true},
		{215 * time.Second, 25, "00:25", true},
	}
	for _, tt := range tests {
		sched.fire(tt.at)
		if got := b.Remaining(); got != tt.want {
			t.Errorf("at %v: Remaining() = %d, want %d", tt.at, got, tt.want)
		}
		if got := b.Display(); got != tt.display {
			t.Errorf("at %v: Display() = %q, want %q", tt.at, got, tt.display)
		}
		if got := b.Warning(); got != tt.warning {
			t.Errorf("at %v: Warning() = %v, want %v", tt.at, got, tt.warning)
		}
	}
	if b.Phase() != PhaseActive {
		t.Errorf("Phase() = %v, want ACTIVE", b.Phase())
	}
}

func TestRemainingNeverIncreases(t *testing.T) {
	b, sched := newTimedBoard(t, Viewport{Width: 100, Height: 80, Scale: 1},
		WithDuration(10*time.Second))

	sched.fire(5 * time.Second)
	sched.fire(2 * time.Second) // late delivery of an older tick
	if got := b.Remaining(); got != 5 {
		t.Errorf("Remaining() = %d, want 5", got)
	}
}

func TestExpiryCommitsPendingTextOnce(t *testing.T) {
	st := newCountingStore()
	b, sched := newTimedBoard(t, Viewport{Width: 300, Height: 200, Scale: 1},
		WithDuration(4*time.Second), WithStore(st))

	b.OpenText()
	b.SetPendingText("hello")

	for i := 1; i <= 3; i++ {
		sched.fire(time.Duration(i) * time.Second)
		if b.Phase() != PhaseActive {
			t.Fatalf("expired early after tick %d", i)
		}
	}
	if got := b.Remaining(); got != 1 {
		t.Fatalf("Remaining() after 3 ticks = %d, want 1", got)
	}

	sched.fire(4 * time.Second)
	if b.Phase() != PhaseExpired {
		t.Fatal("board should expire on the fourth tick")
	}
	if got := b.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
	if got, want := b.TextCursor(), 40.0+32; got != want {
		t.Errorf("TextCursor() = %g, want %g", got, want)
	}
	if b.IsBlank() {
		t.Error("pending text should be drawn on expiry")
	}
	if b.TextEntryOpen() || b.PendingText() != "" {
		t.Error("text entry should be closed and empty after expiry")
	}
	if got := st.count(store.KeyWhiteboard); got != 1 {
		t.Errorf("whiteboard saved %d times, want 1", got)
	}

	sched.fire(5 * time.Second)
	b.Finish()
	if got := b.TextCursor(); got != 72 {
		t.Errorf("TextCursor() moved after expiry: %g", got)
	}
	if got := st.count(store.KeyWhiteboard); got != 1 {
		t.Errorf("whiteboard saved %d times after expiry, want 1", got)
	}
	if got := sched.stopCount(); got != 1 {
		t.Errorf("scheduler stopped %d times, want 1", got)
	}
}

func TestExpiryWithoutPendingText(t *testing.T) {
	b, sched := newTimedBoard(t, Viewport{Width: 300, Height: 200, Scale: 1},
		WithDuration(2*time.Second))
	b.OpenText()

	sched.fire(2 * time.Second)
	if b.Phase() != PhaseExpired {
		t.Fatal("board should expire")
	}
	if got := b.TextCursor(); got != 40 {
		t.Errorf("TextCursor() = %g, want 40 when nothing was pending", got)
	}
	if !b.IsBlank() {
		t.Error("empty entry must not draw")
	}
}

func TestFinishIsIdempotent(t *testing.T) {
	b, sched := newTimedBoard(t, Viewport{Width: 300, Height: 200, Scale: 1},
		WithDuration(60*time.Second))

	sched.fire(10 * time.Second)
	b.OpenText()
	b.SetPendingText("ferry pass")
	b.Finish()
	b.Finish()

	if b.Phase() != PhaseExpired {
		t.Fatal("Finish() should expire the session")
	}
	if got := b.Remaining(); got != 50 {
		t.Errorf("Remaining() = %d, want 50 after early finish", got)
	}
	if got := b.TextCursor(); got != 72 {
		t.Errorf("TextCursor() = %g, want 72", got)
	}
	if got := sched.stopCount(); got != 1 {
		t.Errorf("scheduler stopped %d times, want 1", got)
	}
}

func TestFinishMidStroke(t *testing.T) {
	b := newTestBoard(t, Viewport{Width: 100, Height: 80, Scale: 1})

	b.BeginStroke(Point{10, 20})
	b.ExtendStroke(Point{40, 20})
	b.Finish()
	b.ExtendStroke(Point{90, 20})
	b.EndStroke()

	if b.PixelAt(25, 20).A == 0 {
		t.Error("segment drawn before expiry should be kept")
	}
	if b.PixelAt(70, 20).A != 0 {
		t.Error("stroke must not extend after expiry")
	}
}

func TestTickerScheduler(t *testing.T) {
	ticks := make(chan time.Time, 8)
	stop := NewTickerScheduler().Every(5*time.Millisecond, func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick received")
	}
	stop()
	stop()
}
