package ggboard

import (
	"time"

	"github.com/gogpu/ggboard/assess"
	"github.com/gogpu/ggboard/store"
	"golang.org/x/image/font/opentype"
)

// Option configures a Board during creation.
// Use functional options to customize Board behavior.
//
// Example:
//
//	// Ten minute session persisted to SQLite
//	db, _ := store.OpenSQLite(ctx, "progress.db")
//	b, err := ggboard.NewBoard(ctx, ggboard.Viewport{Width: 600, Height: 400, Scale: 2},
//	    ggboard.WithDuration(10*time.Minute),
//	    ggboard.WithStore(db))
type Option func(*options)

// options holds optional configuration for Board creation.
type options struct {
	duration       time.Duration
	scheduler      Scheduler
	now            func() time.Time
	store          store.Store
	catalog        assess.Catalog
	policy         assess.Policy
	requirePledge  bool
	text           TextStyle
	measurer       Measurer
	font           *opentype.Font
	palette        []Color
	initialHeight  float64
	onFinalized    func(Finalized)
	persistTimeout time.Duration
}

// Defaults applied by NewBoard.
const (
	// DefaultDuration is the length of a session.
	DefaultDuration = 4 * time.Minute
	// DefaultInitialHeight is the minimum logical height of a fresh board.
	DefaultInitialHeight = 400.0
	// DefaultPersistTimeout bounds each incremental store write.
	DefaultPersistTimeout = 5 * time.Second
)

// defaultOptions returns the default board options.
func defaultOptions() options {
	return options{
		duration:       DefaultDuration,
		scheduler:      nil, // TickerScheduler unless injected
		now:            time.Now,
		catalog:        assess.DefaultCatalog(),
		policy:         assess.Informational,
		requirePledge:  true,
		text:           DefaultTextStyle(),
		initialHeight:  DefaultInitialHeight,
		palette:        DefaultPalette(),
		persistTimeout: DefaultPersistTimeout,
	}
}

// WithDuration sets the session length. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.duration = d
		}
	}
}

// WithScheduler injects the periodic tick source driving the session
// clock. Tests pass a manual scheduler to step time deterministically.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithClock sets the wall-clock source. It must agree with the times the
// scheduler passes to its callbacks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithStore enables persisted mode: the board restores its snapshot from s
// and writes every committed stroke, text block and the final assessment.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithCatalog sets the checklist scored after the session.
func WithCatalog(c assess.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithPolicy sets how bonus items affect the adjusted penalty.
func WithPolicy(p assess.Policy) Option {
	return func(o *options) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithPledge controls whether the honor pledge gates the assessment.
func WithPledge(required bool) Option {
	return func(o *options) {
		o.requirePledge = required
	}
}

// WithTextStyle sets the text layout metrics.
func WithTextStyle(s TextStyle) Option {
	return func(o *options) {
		o.text = s
	}
}

// WithMeasurer overrides the width measurement used for word wrapping.
// By default text is measured with the drawing font.
func WithMeasurer(m Measurer) Option {
	return func(o *options) {
		o.measurer = m
	}
}

// WithFont sets the font committed text is drawn with.
// The default is Go Bold.
func WithFont(f *opentype.Font) Option {
	return func(o *options) {
		o.font = f
	}
}

// WithPalette sets the colours offered by the toolbar. An empty palette
// keeps the default one. SetColor still accepts colours outside it.
func WithPalette(p []Color) Option {
	return func(o *options) {
		if len(p) > 0 {
			o.palette = append([]Color(nil), p...)
		}
	}
}

// WithInitialHeight sets the minimum logical height of the board.
func WithInitialHeight(h float64) Option {
	return func(o *options) {
		if h > 0 {
			o.initialHeight = h
		}
	}
}

// WithFinalizedHandler registers the narrative handler notified once the
// assessment is submitted.
func WithFinalizedHandler(fn func(Finalized)) Option {
	return func(o *options) {
		o.onFinalized = fn
	}
}

// WithPersistTimeout bounds each incremental snapshot write.
func WithPersistTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.persistTimeout = d
		}
	}
}
