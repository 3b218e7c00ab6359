package ggboard

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ggboard/internal/cache"
)

// Measurer reports the advance width of a single line of text in logical
// units. The text layout engine wraps lines with it.
type Measurer interface {
	Measure(s string) float64
}

// FaceMeasurer measures text with an x/image font.Face.
type FaceMeasurer struct {
	face font.Face
}

// NewFaceMeasurer creates a measurer for a face sized in logical units.
func NewFaceMeasurer(face font.Face) *FaceMeasurer {
	return &FaceMeasurer{face: face}
}

// Measure implements Measurer.
func (m *FaceMeasurer) Measure(s string) float64 {
	return fixedToFloat64(font.MeasureString(m.face, s))
}

// ShapingMeasurer measures text with HarfBuzz shaping from
// go-text/typesetting, so kerning and ligatures are reflected in the width.
// It is not safe for concurrent use; a Board serializes its calls.
type ShapingMeasurer struct {
	face   *gotext.Face
	size   fixed.Int26_6
	shaper shaping.HarfbuzzShaper
}

// NewShapingMeasurer parses TrueType/OpenType data and returns a measurer
// for the given logical size.
func NewShapingMeasurer(ttf []byte, size float64) (*ShapingMeasurer, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("ggboard: parse font for shaping: %w", err)
	}
	return &ShapingMeasurer{face: face, size: floatToFixed(size)}, nil
}

// Measure implements Measurer.
func (m *ShapingMeasurer) Measure(s string) float64 {
	if s == "" {
		return 0
	}
	runes := []rune(s)
	out := m.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      m.face,
		Size:      m.size,
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})
	return fixedToFloat64(out.Advance)
}

// measureCacheSize bounds the number of remembered line widths per board.
const measureCacheSize = 512

// cachedMeasurer remembers widths of recently measured lines. Wrapping
// re-measures the same prefixes on every commit.
type cachedMeasurer struct {
	m      Measurer
	widths *cache.Cache[string, float64]
}

func newCachedMeasurer(m Measurer, size int) *cachedMeasurer {
	if cm, ok := m.(*cachedMeasurer); ok {
		return cm
	}
	return &cachedMeasurer{m: m, widths: cache.New[string, float64](size)}
}

// Measure implements Measurer.
func (c *cachedMeasurer) Measure(s string) float64 {
	return c.widths.GetOrCreate(s, func() float64 { return c.m.Measure(s) })
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// defaultFont parses the bundled Go Bold face once.
var defaultFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
})

// fontSet caches faces of one font at one logical size: a logical face for
// measurement and one device face per pixel density for drawing.
type fontSet struct {
	font    *opentype.Font
	size    float64
	logical font.Face
	device  map[float64]font.Face
}

func newFontSet(f *opentype.Font, size float64) (*fontSet, error) {
	logical, err := newFace(f, size)
	if err != nil {
		return nil, err
	}
	return &fontSet{font: f, size: size, logical: logical, device: make(map[float64]font.Face)}, nil
}

// deviceFace returns the face used to rasterize glyphs at scale.
func (fs *fontSet) deviceFace(scale float64) (font.Face, error) {
	if face, ok := fs.device[scale]; ok {
		return face, nil
	}
	face, err := newFace(fs.font, fs.size*scale)
	if err != nil {
		return nil, err
	}
	fs.device[scale] = face
	return face, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("ggboard: create %gpx face: %w", size, err)
	}
	return face, nil
}

// floatToFixed converts a float64 to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
