package ggboard

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Viewport describes the visible container hosting the board.
type Viewport struct {
	// Width and Height are the container size in logical units.
	Width, Height float64
	// Scale is the device pixel density (devicePixelRatio).
	Scale float64
}

func (v Viewport) validate() error {
	if !(v.Width > 0) || !(v.Height > 0) || !(v.Scale > 0) ||
		math.IsInf(v.Width, 0) || math.IsInf(v.Height, 0) || math.IsInf(v.Scale, 0) {
		return fmt.Errorf("%w: %gx%g@%g", ErrInvalidViewport, v.Width, v.Height, v.Scale)
	}
	return nil
}

// reallocate returns a new surface of the given logical size and scale
// holding the current content at the same logical origin.
//
// When the scale is unchanged the pixels are copied 1:1, so content inside
// the overlap of the old and new buffers is bit-identical. A scale change
// resamples the old buffer onto the new pixel grid.
func (s *Surface) reallocate(width, height, scale float64) *Surface {
	next := newSurface(width, height, scale)
	copyForward(next, s)
	return next
}

// copyForward draws src onto dst anchored at the top-left corner.
func copyForward(dst, src *Surface) {
	if src.scale == dst.scale {
		draw.Copy(dst.img, image.Point{}, src.img, src.img.Rect, draw.Src, nil)
		return
	}
	ratio := dst.scale / src.scale
	dr := image.Rect(0, 0,
		int(math.Round(float64(src.Width())*ratio)),
		int(math.Round(float64(src.Height())*ratio)))
	draw.ApproxBiLinear.Scale(dst.img, dr, src.img, src.img.Rect, draw.Src, nil)
}

// Resize adapts the board to a new container size or pixel density.
//
// The buffer is reallocated when the logical width, the scale or the
// effective logical height changes; the effective height is the larger of
// the container height and the height grown by text layout. Previously drawn
// content is copied forward at identical logical coordinates and the active
// tool's styling is re-applied, since the new buffer starts without it.
// A stroke in progress is ended before reallocation; its completed segments
// are kept.
func (b *Board) Resize(v Viewport) error {
	if err := v.validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.viewport = v
	height := math.Max(v.Height, b.contentHeight)
	w, h := b.surface.LogicalSize()
	if w == v.Width && h == height && b.surface.scale == v.Scale {
		return nil
	}

	if b.stroke.active {
		b.endStrokeLocked()
	}
	b.reallocateLocked(v.Width, height, v.Scale)
	return nil
}

// growHeight performs the height-only, content-preserving grow requested by
// text layout and restore.
func (b *Board) growHeight(height float64) {
	if height > b.contentHeight {
		b.contentHeight = height
	}
	w, h := b.surface.LogicalSize()
	if height <= h {
		return
	}
	b.reallocateLocked(w, height, b.surface.scale)
}

func (b *Board) reallocateLocked(width, height, scale float64) {
	old := b.surface
	b.surface = old.reallocate(width, height, scale)
	b.surface.applyStyle(b.tool)

	b.log.Debug("ggboard: surface reallocated",
		"from", fmt.Sprintf("%dx%d@%g", old.Width(), old.Height(), old.scale),
		"to", fmt.Sprintf("%dx%d@%g", b.surface.Width(), b.surface.Height(), scale))
}
