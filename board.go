package ggboard

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/ggboard/assess"
	"github.com/gogpu/ggboard/store"
)

// Board is a timed annotation session: a resizable raster surface that
// accepts strokes and text until the session clock expires, followed by a
// self-assessment against a checklist.
//
// All methods are safe for concurrent use. Mutations are serialized, so a
// scheduler tick never interleaves with a stroke, a text commit or a resize.
type Board struct {
	mu sync.Mutex

	id  string
	log *slog.Logger

	surface       *Surface
	viewport      Viewport
	contentHeight float64 // logical height requested by layout and restore

	tool    ToolState
	palette []Color
	stroke  strokeState
	entry   textEntry
	cursor  float64

	text     TextStyle
	measurer Measurer
	fonts    *fontSet

	phase     Phase
	duration  time.Duration
	start     time.Time
	remaining int
	stopTicks func()

	store          store.Store
	persistTimeout time.Duration
	lastDigest     [32]byte
	hasDigest      bool

	scorer      *assess.Scorer
	onFinalized func(Finalized)
}

// Finalized is emitted once the self-assessment is submitted and its
// result has been written to the store.
type Finalized struct {
	SessionID string
	Result    assess.Result
}

// NewBoard creates a board sized to the viewport and starts its session
// clock.
//
// In persisted mode (see WithStore) the last snapshot is restored from the
// store first. A missing or malformed snapshot leaves the board blank.
func NewBoard(ctx context.Context, v Viewport, opts ...Option) (*Board, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.text.validate(); err != nil {
		return nil, err
	}

	f := o.font
	if f == nil {
		var err error
		if f, err = defaultFont(); err != nil {
			return nil, fmt.Errorf("ggboard: load default font: %w", err)
		}
	}
	fonts, err := newFontSet(f, o.text.Size)
	if err != nil {
		return nil, err
	}
	measurer := o.measurer
	if measurer == nil {
		measurer = NewFaceMeasurer(fonts.logical)
	}
	measurer = newCachedMeasurer(measurer, measureCacheSize)

	id := uuid.NewString()
	b := &Board{
		id:             id,
		log:            Logger().With("session", id),
		surface:        newSurface(v.Width, math.Max(v.Height, o.initialHeight), v.Scale),
		viewport:       v,
		contentHeight:  o.initialHeight,
		tool:           DefaultToolState(),
		palette:        o.palette,
		cursor:         o.text.InitialOffset,
		text:           o.text,
		measurer:       measurer,
		fonts:          fonts,
		phase:          PhaseActive,
		duration:       o.duration,
		start:          o.now(),
		remaining:      int(math.Round(o.duration.Seconds())),
		store:          o.store,
		persistTimeout: o.persistTimeout,
		onFinalized:    o.onFinalized,
	}
	b.surface.applyStyle(b.tool)

	b.scorer, err = assess.NewScorer(o.catalog,
		assess.WithPolicy(o.policy),
		assess.WithSink(b.finalize),
		assess.WithClock(o.now),
		assess.WithPledge(o.requirePledge),
	)
	if err != nil {
		return nil, fmt.Errorf("ggboard: checklist: %w", err)
	}

	if b.store != nil {
		var blob string
		ok, err := b.store.Load(ctx, store.KeyWhiteboard, &blob)
		switch {
		case err != nil:
			b.log.Warn("ggboard: load snapshot", "error", err)
		case ok:
			b.restoreLocked(blob)
		}
	}

	sched := o.scheduler
	if sched == nil {
		sched = NewTickerScheduler()
	}
	b.mu.Lock()
	b.stopTicks = sched.Every(time.Second, b.tick)
	b.mu.Unlock()

	b.log.Debug("ggboard: board created",
		"size", fmt.Sprintf("%dx%d@%g", b.surface.Width(), b.surface.Height(), v.Scale),
		"duration", o.duration)
	return b, nil
}

// ID returns the session id attached to every log record of the board.
func (b *Board) ID() string {
	return b.id
}

// Close stops the session clock without expiring the session.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopTicks != nil {
		b.stopTicks()
		b.stopTicks = nil
	}
}

// SelectTool switches the active tool.
//
// Leaving the text tool commits any pending text first. Selecting the
// pencil restores the default width and black ink. Selecting the text tool
// opens a text entry. Ignored after expiry.
func (b *Board) SelectTool(t Tool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.selectToolLocked(t)
}

func (b *Board) selectToolLocked(t Tool) {
	if b.phase == PhaseExpired {
		return
	}
	b.endStrokeLocked()

	if t != ToolText && b.entry.open {
		if b.entry.pending != "" {
			if err := b.commitLocked(b.entry.pending); err != nil {
				b.log.Warn("ggboard: commit pending text", "error", err)
			}
		}
		b.entry = textEntry{}
	}

	b.tool.Tool = t
	switch t {
	case ToolText:
		b.entry.open = true
	case ToolPencil:
		b.tool.Color = Black
		b.tool.Width = DefaultPencilWidth
	}
	b.surface.applyStyle(b.tool)
}

// SetColor sets the ink colour for strokes and text. Ignored after expiry.
func (b *Board) SetColor(c Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired {
		return
	}
	b.tool.Color = c
	b.surface.applyStyle(b.tool)
}

// SetStrokeWidth sets the pencil width in logical units. Non-positive
// widths are ignored, as is any call after expiry.
func (b *Board) SetStrokeWidth(w float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired || !(w > 0) || math.IsInf(w, 0) {
		return
	}
	b.tool.Width = w
	b.surface.applyStyle(b.tool)
}

// Palette returns the toolbar colours in display order.
func (b *Board) Palette() []Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Color(nil), b.palette...)
}

// ToolState returns the active tool, colour and width.
func (b *Board) ToolState() ToolState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tool
}

// Clear erases the whole board and moves the text cursor back to the top.
// Ignored after expiry.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired {
		return
	}
	b.surface.wipe()
	b.cursor = b.text.InitialOffset
	_ = b.persistLocked()
}

// Assessment returns the self-assessment scorer. It is available only
// once the session has expired.
func (b *Board) Assessment() (*assess.Scorer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase != PhaseExpired {
		return nil, ErrSessionActive
	}
	return b.scorer, nil
}

// finalize is the scorer's sink. It runs while the scorer is locked, so
// the Finalized handler must not call back into the scorer.
//
// The writes are not atomic. checklistComplete is written last, so a
// failure part way can leave the missed and bonus lists saved without the
// completion flag. The scorer then stays open and a retried Submit
// rewrites every key.
func (b *Board) finalize(ctx context.Context, r assess.Result) error {
	if b.store != nil {
		writes := []struct {
			key string
			v   any
		}{
			{store.KeyMissedChecklistItems, r.MissedRequired},
			{store.KeyBonusChecklistItems, r.BonusAffirmed},
			{store.KeyAssessment, r},
			{store.KeyChecklistComplete, true},
		}
		for _, w := range writes {
			if err := b.store.Save(ctx, w.key, w.v); err != nil {
				b.log.Warn("ggboard: save assessment", "key", w.key, "error", err)
				return fmt.Errorf("ggboard: save %s: %w", w.key, err)
			}
		}
	}

	b.log.Info("ggboard: assessment finalized",
		"penalty", r.Penalty, "bonus", r.Bonus, "adjusted", r.Adjusted)
	if b.onFinalized != nil {
		b.onFinalized(Finalized{SessionID: b.id, Result: r})
	}
	return nil
}

// Snapshot returns a copy of the device-pixel buffer.
func (b *Board) Snapshot() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Snapshot()
}

// PixelSize returns the buffer size in device pixels.
func (b *Board) PixelSize() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Width(), b.surface.Height()
}

// LogicalSize returns the board size in logical units.
func (b *Board) LogicalSize() (width, height float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.LogicalSize()
}

// Scale returns the device pixel density of the buffer.
func (b *Board) Scale() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Scale()
}

// PixelAt returns the premultiplied colour of a device pixel.
func (b *Board) PixelAt(x, y int) color.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.PixelAt(x, y)
}

// IsBlank reports whether nothing is drawn on the board.
func (b *Board) IsBlank() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.IsBlank()
}
