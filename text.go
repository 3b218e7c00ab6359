package ggboard

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/ggboard/internal/blend"
)

// TextStyle controls how committed text is laid out. All lengths are in
// logical units.
type TextStyle struct {
	// Size is the font size.
	Size float64
	// LineHeight is the distance between consecutive baselines.
	LineHeight float64
	// Margin is the left inset of every line; the wrap width is the board
	// width minus twice the margin.
	Margin float64
	// Padding is added below the needed height when text grows the board.
	Padding float64
	// InitialOffset is the baseline of the first text block after a clear.
	InitialOffset float64
}

// DefaultTextStyle returns bold 28px text on a 32px line, inset by 20.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Size:          28,
		LineHeight:    32,
		Margin:        20,
		Padding:       100,
		InitialOffset: 40,
	}
}

func (s TextStyle) validate() error {
	if !(s.Size > 0) || !(s.LineHeight > 0) || s.Margin < 0 || s.Padding < 0 || s.InitialOffset < 0 {
		return fmt.Errorf("ggboard: invalid text style %+v", s)
	}
	return nil
}

// textEntry is the focused input buffer of the text tool.
type textEntry struct {
	open    bool
	pending string
}

// OpenText selects the text tool and opens an empty text entry.
func (b *Board) OpenText() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired {
		return
	}
	b.selectToolLocked(ToolText)
}

// SetPendingText replaces the content of the open text entry, as typed by
// the user. It is ignored when no entry is open.
func (b *Board) SetPendingText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired || !b.entry.open {
		return
	}
	b.entry.pending = s
}

// PendingText returns the content of the open text entry.
func (b *Board) PendingText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entry.pending
}

// TextEntryOpen reports whether a text entry is open.
func (b *Board) TextEntryOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entry.open
}

// CommitText lays text out onto the board below any earlier text, closes
// the entry and returns to the pencil.
//
// Empty or whitespace-only text draws nothing and leaves the cursor alone.
// After expiry the call is ignored. Committing without an open entry
// returns ErrTextEntryClosed.
func (b *Board) CommitText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == PhaseExpired {
		return nil
	}
	if !b.entry.open {
		invariant(ErrTextEntryClosed)
		return ErrTextEntryClosed
	}
	err := b.commitLocked(text)
	b.closeEntryLocked()
	return err
}

// CommitPending commits the content of the open text entry.
func (b *Board) CommitPending() error {
	b.mu.Lock()
	pending := b.entry.pending
	b.mu.Unlock()
	return b.CommitText(pending)
}

// CancelText discards the open text entry without touching the board or
// the text cursor.
func (b *Board) CancelText() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.entry.open {
		return
	}
	b.closeEntryLocked()
}

// TextCursor returns the baseline where the next text block starts.
func (b *Board) TextCursor() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

func (b *Board) closeEntryLocked() {
	b.entry = textEntry{}
	b.tool.Tool = ToolPencil
	b.surface.applyStyle(b.tool)
}

// commitLocked runs the two-pass layout: a dry run sizes the board, then
// the lines are drawn.
func (b *Board) commitLocked(text string) error {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	width, height := b.surface.LogicalSize()
	lines := wrapText(text, width-2*b.text.Margin, b.measurer)

	needed := b.cursor
	for range lines {
		needed += b.text.LineHeight
	}
	if needed > height {
		b.growHeight(needed + b.text.Padding)
	}

	face, err := b.fonts.deviceFace(b.surface.scale)
	if err != nil {
		return err
	}
	y := b.cursor
	for _, line := range lines {
		b.surface.drawLine(face, line, b.text.Margin, y, b.tool.Color)
		y += b.text.LineHeight
	}
	b.cursor = y

	b.log.Debug("ggboard: text committed", "lines", len(lines), "cursor", b.cursor)
	_ = b.persistLocked()
	return nil
}

// drawLine rasterizes one line of text with its baseline at (x, baseline)
// and paints it in c.
func (s *Surface) drawLine(face font.Face, line string, x, baseline float64, c Color) {
	if line == "" {
		return
	}
	m := face.Metrics()
	by := baseline * s.scale
	r := image.Rect(
		0, int(math.Floor(by-fixedToFloat64(m.Ascent)))-1,
		s.Width(), int(math.Ceil(by+fixedToFloat64(m.Descent)))+1,
	).Intersect(s.img.Rect)
	if r.Empty() {
		return
	}

	mask := image.NewAlpha(r)
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x * s.scale), Y: floatToFixed(by)},
	}
	d.DrawString(line)
	s.composite(mask, c.RGBA(), blend.SourceOver)
}
