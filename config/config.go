// Package config loads the content table of an annotation session: its
// duration, checklist, text layout, palette and penalty policy.
//
// A content file is YAML, TOML or JSON, chosen by extension. Fields absent
// from the file keep their defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/font/gofont/gobold"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggboard"
	"github.com/gogpu/ggboard/assess"
)

// ErrInvalidConfig is returned when a content table fails validation.
var ErrInvalidConfig = errors.New("config: invalid content")

// Penalty policy names.
const (
	PolicyInformational = "informational"
	PolicyNetOfBonus    = "net-of-bonus"
)

// Text measurer names.
const (
	MeasurerFace    = "face"
	MeasurerShaping = "shaping"
)

// Text mirrors ggboard.TextStyle for decoding, plus the measurer used for
// word wrapping.
type Text struct {
	Size          float64 `json:"size" yaml:"size" toml:"size"`
	LineHeight    float64 `json:"line_height" yaml:"line_height" toml:"line_height"`
	Margin        float64 `json:"margin" yaml:"margin" toml:"margin"`
	Padding       float64 `json:"padding" yaml:"padding" toml:"padding"`
	InitialOffset float64 `json:"initial_offset" yaml:"initial_offset" toml:"initial_offset"`
	Measurer      string  `json:"measurer" yaml:"measurer" toml:"measurer"`
}

// Content is the content table of a session.
type Content struct {
	Title           string         `json:"title" yaml:"title" toml:"title"`
	Prompt          string         `json:"prompt" yaml:"prompt" toml:"prompt"`
	DurationSeconds int            `json:"duration_seconds" yaml:"duration_seconds" toml:"duration_seconds"`
	InitialHeight   float64        `json:"initial_height" yaml:"initial_height" toml:"initial_height"`
	Penalty         string         `json:"penalty" yaml:"penalty" toml:"penalty"`
	RequirePledge   bool           `json:"require_pledge" yaml:"require_pledge" toml:"require_pledge"`
	Palette         []string       `json:"palette" yaml:"palette" toml:"palette"`
	Text            Text           `json:"text" yaml:"text" toml:"text"`
	Checklist       assess.Catalog `json:"checklist" yaml:"checklist" toml:"checklist"`
}

// Default returns the pre-departure checklist exercise: four minutes, the
// standard palette and the default checklist.
func Default() *Content {
	ts := ggboard.DefaultTextStyle()
	palette := make([]string, 0, 5)
	for _, c := range ggboard.DefaultPalette() {
		palette = append(palette, c.String())
	}
	return &Content{
		Title:           "Pre-Departure Checklist",
		Prompt:          "Use the whiteboard to make a checklist of everything you will need.",
		DurationSeconds: int(ggboard.DefaultDuration / time.Second),
		InitialHeight:   ggboard.DefaultInitialHeight,
		Penalty:         PolicyInformational,
		RequirePledge:   true,
		Palette:         palette,
		Text: Text{
			Size:          ts.Size,
			LineHeight:    ts.LineHeight,
			Margin:        ts.Margin,
			Padding:       ts.Padding,
			InitialOffset: ts.InitialOffset,
			Measurer:      MeasurerFace,
		},
		Checklist: assess.DefaultCatalog(),
	}
}

// Load reads a content file over the defaults and validates the result.
// The format is chosen by extension: .yaml/.yml, .toml or .json.
func Load(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes content in the format named by ext over the defaults and
// validates the result.
func Parse(data []byte, ext string) (*Content, error) {
	c := Default()
	// Lists are replaced, never merged element by element into the defaults.
	defaults := *c
	c.Palette, c.Checklist = nil, nil

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported content format %q", ext)
	}
	if c.Palette == nil {
		c.Palette = defaults.Palette
	}
	if c.Checklist == nil {
		c.Checklist = defaults.Checklist
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the content table.
func (c *Content) Validate() error {
	if c.DurationSeconds <= 0 {
		return fmt.Errorf("%w: duration_seconds must be positive, got %d", ErrInvalidConfig, c.DurationSeconds)
	}
	if c.InitialHeight <= 0 {
		return fmt.Errorf("%w: initial_height must be positive", ErrInvalidConfig)
	}
	if _, err := c.PenaltyPolicy(); err != nil {
		return err
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	t := c.Text
	if t.Size <= 0 || t.LineHeight <= 0 || t.Margin < 0 || t.Padding < 0 || t.InitialOffset < 0 {
		return fmt.Errorf("%w: text %+v", ErrInvalidConfig, t)
	}
	switch t.Measurer {
	case "", MeasurerFace, MeasurerShaping:
	default:
		return fmt.Errorf("%w: unknown text measurer %q", ErrInvalidConfig, t.Measurer)
	}
	if err := c.Checklist.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Duration returns the session length.
func (c *Content) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

// PenaltyPolicy resolves the policy name. An empty name is informational.
func (c *Content) PenaltyPolicy() (assess.Policy, error) {
	switch c.Penalty {
	case "", PolicyInformational:
		return assess.Informational, nil
	case PolicyNetOfBonus:
		return assess.NetOfBonus, nil
	default:
		return nil, fmt.Errorf("%w: unknown penalty policy %q", ErrInvalidConfig, c.Penalty)
	}
}

// Colors parses the palette.
func (c *Content) Colors() ([]ggboard.Color, error) {
	out := make([]ggboard.Color, 0, len(c.Palette))
	for _, s := range c.Palette {
		col, err := ggboard.ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: palette: %w", ErrInvalidConfig, err)
		}
		out = append(out, col)
	}
	return out, nil
}

// TextStyle returns the text layout metrics.
func (c *Content) TextStyle() ggboard.TextStyle {
	return ggboard.TextStyle{
		Size:          c.Text.Size,
		LineHeight:    c.Text.LineHeight,
		Margin:        c.Text.Margin,
		Padding:       c.Text.Padding,
		InitialOffset: c.Text.InitialOffset,
	}
}

// Options converts the content table into board options.
func (c *Content) Options() ([]ggboard.Option, error) {
	policy, err := c.PenaltyPolicy()
	if err != nil {
		return nil, err
	}
	colors, err := c.Colors()
	if err != nil {
		return nil, err
	}
	opts := []ggboard.Option{
		ggboard.WithDuration(c.Duration()),
		ggboard.WithInitialHeight(c.InitialHeight),
		ggboard.WithTextStyle(c.TextStyle()),
		ggboard.WithCatalog(c.Checklist),
		ggboard.WithPolicy(policy),
		ggboard.WithPledge(c.RequirePledge),
		ggboard.WithPalette(colors),
	}
	if c.Text.Measurer == MeasurerShaping {
		// Boards built from content draw with the default Go Bold face.
		m, err := ggboard.NewShapingMeasurer(gobold.TTF, c.Text.Size)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ggboard.WithMeasurer(m))
	}
	return opts, nil
}
