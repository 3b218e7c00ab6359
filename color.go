package ggboard

import (
	"fmt"
	"image/color"
)

// Color is an opaque RGB ink colour.
type Color struct {
	R, G, B uint8
}

// Palette colours offered by the toolbar.
var (
	Black  = Color{0x00, 0x00, 0x00}
	Red    = Color{0xDA, 0x29, 0x1C}
	Blue   = Color{0x00, 0x5D, 0xAA}
	Yellow = Color{0xFF, 0xEB, 0x3B}
	Green  = Color{0x4C, 0xAF, 0x50}
)

// DefaultPalette returns the toolbar palette in display order.
func DefaultPalette() []Color {
	return []Color{Black, Red, Blue, Yellow, Green}
}

// RGBA returns the colour as an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// String returns the colour as "#RRGGBB".
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Hex creates a colour from a hex string, returning black when the
// string is not a valid colour.
// Supports formats: "RGB", "RRGGBB", with or without a leading '#'.
func Hex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		return Black
	}
	return c
}

// ParseHex parses "#RGB" or "#RRGGBB" (the '#' is optional).
func ParseHex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b uint32
	ok := true
	switch len(s) {
	case 3:
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 6:
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b)
	default:
		ok = false
	}
	if !ok {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// parseHex is a helper for hex parsing
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}
