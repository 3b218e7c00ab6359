package ggboard

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/ggboard/internal/blend"
)

// Surface is the raster backing buffer of a board.
//
// Pixels are stored premultiplied in device pixels; one logical unit equals
// Scale device pixels. The surface also carries the rendering state (ink
// colour, line width, compositing mode) that a freshly allocated buffer
// starts without, mirroring how a canvas context loses its styling when its
// backing store is reallocated.
type Surface struct {
	img    *image.RGBA
	scale  float64
	width  float64 // logical
	height float64 // logical
	style  renderStyle
}

// renderStyle is the per-buffer rendering state.
type renderStyle struct {
	color color.RGBA
	width float64 // logical
	mode  blend.Mode
}

// defaultRenderStyle is the state of a newly allocated buffer.
func defaultRenderStyle() renderStyle {
	return renderStyle{color: Black.RGBA(), width: 1, mode: blend.SourceOver}
}

// newSurface allocates a transparent surface of the given logical size.
func newSurface(width, height, scale float64) *Surface {
	pw, ph := devicePixels(width, scale), devicePixels(height, scale)
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, pw, ph)),
		scale:  scale,
		width:  width,
		height: height,
		style:  defaultRenderStyle(),
	}
}

// devicePixels converts a logical length to a whole number of device pixels.
func devicePixels(logical, scale float64) int {
	// Rounding first absorbs float noise such as 333.33*3 = 999.9999.
	v := logical * scale
	if r := math.Round(v); math.Abs(v-r) < 1e-6 {
		return int(r)
	}
	return int(math.Ceil(v))
}

// Width returns the width of the buffer in device pixels.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the height of the buffer in device pixels.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Scale returns the device pixel density.
func (s *Surface) Scale() float64 {
	return s.scale
}

// LogicalSize returns the size in device-independent units.
func (s *Surface) LogicalSize() (width, height float64) {
	return s.width, s.height
}

// PixelAt returns the premultiplied colour of a device pixel.
// Out-of-range coordinates return transparent black.
func (s *Surface) PixelAt(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(s.img.Rect)) {
		return color.RGBA{}
	}
	return s.img.RGBAAt(x, y)
}

// Snapshot returns a copy of the buffer.
func (s *Surface) Snapshot() *image.RGBA {
	img := image.NewRGBA(s.img.Rect)
	copy(img.Pix, s.img.Pix)
	return img
}

// IsBlank reports whether every pixel is fully transparent.
func (s *Surface) IsBlank() bool {
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// wipe erases every pixel.
func (s *Surface) wipe() {
	clear(s.img.Pix)
}

// applyStyle installs the rendering state derived from a tool.
func (s *Surface) applyStyle(t ToolState) {
	s.style = renderStyle{
		color: t.Color.RGBA(),
		width: t.lineWidth(),
		mode:  t.compositeMode(),
	}
}

// deviceRect converts a logical rectangle to device pixels, rounding
// outwards, clipped to the buffer.
func (s *Surface) deviceRect(x0, y0, x1, y1 float64) image.Rectangle {
	r := image.Rect(
		int(math.Floor(x0*s.scale)), int(math.Floor(y0*s.scale)),
		int(math.Ceil(x1*s.scale)), int(math.Ceil(y1*s.scale)),
	)
	return r.Intersect(s.img.Rect)
}

// composite blends a coverage mask onto the buffer with the given colour
// and mode.
func (s *Surface) composite(mask *image.Alpha, c color.RGBA, mode blend.Mode) {
	blend.Mask(s.img, mask, c, mode)
}
