package ggboard

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// Point is a position in logical units, origin at the top-left.
type Point struct {
	X, Y float64
}

// strokeState tracks the stroke being drawn.
type strokeState struct {
	active bool
	last   Point
	drawn  bool // at least one segment composited
}

// BeginStroke starts a stroke at p.
//
// It is a no-op once the session has expired, while the text tool is
// selected, or while a text entry is open.
func (b *Board) BeginStroke(p Point) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired || b.tool.Tool == ToolText || b.entry.open {
		return
	}
	b.stroke = strokeState{active: true, last: p}
}

// ExtendStroke appends a segment from the last recorded point to p and
// composites it immediately, so partial strokes are visible while drawing.
func (b *Board) ExtendStroke(p Point) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.stroke.active || b.phase == PhaseExpired {
		return
	}
	b.surface.strokeSegment(b.stroke.last, p)
	b.stroke.last = p
	b.stroke.drawn = true
}

// EndStroke finishes the current stroke. A stroke that composited at least
// one segment is persisted when the board has a store.
func (b *Board) EndStroke() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.endStrokeLocked()
}

func (b *Board) endStrokeLocked() {
	if !b.stroke.active {
		return
	}
	drawn := b.stroke.drawn
	b.stroke = strokeState{}
	if drawn {
		_ = b.persistLocked()
	}
}

// strokeSegment rasterizes the segment a→b with round caps using the
// surface's rendering state.
func (s *Surface) strokeSegment(a, b Point) {
	r := s.style.width / 2
	bounds := s.deviceRect(
		math.Min(a.X, b.X)-r-1, math.Min(a.Y, b.Y)-r-1,
		math.Max(a.X, b.X)+r+1, math.Max(a.Y, b.Y)+r+1,
	)
	if bounds.Empty() {
		return
	}

	origin := bounds.Min
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	capsule(z,
		a.X*s.scale-float64(origin.X), a.Y*s.scale-float64(origin.Y),
		b.X*s.scale-float64(origin.X), b.Y*s.scale-float64(origin.Y),
		r*s.scale)

	mask := image.NewAlpha(bounds)
	z.Draw(mask, bounds, image.Opaque, image.Point{})
	s.composite(mask, s.style.color, s.style.mode)
}

// capsule adds the outline of a round-capped segment to z.
//
// Both half circles are swept with increasing angle, so every capsule has
// the same orientation and overlapping capsules accumulate rather than
// cancel.
func capsule(z *vector.Rasterizer, x0, y0, x1, y1, radius float64) {
	theta := math.Atan2(y1-y0, x1-x0)
	n := capSegments(radius)

	for i := 0; i <= n; i++ {
		a := theta - math.Pi/2 + math.Pi*float64(i)/float64(n)
		x, y := float32(x1+radius*math.Cos(a)), float32(y1+radius*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	for i := 0; i <= n; i++ {
		a := theta + math.Pi/2 + math.Pi*float64(i)/float64(n)
		z.LineTo(float32(x0+radius*math.Cos(a)), float32(y0+radius*math.Sin(a)))
	}
	z.ClosePath()
}

// capSegments picks the number of chords per half circle.
func capSegments(radius float64) int {
	n := int(math.Ceil(radius * 2))
	return min(max(n, 8), 64)
}
