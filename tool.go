package ggboard

import "github.com/gogpu/ggboard/internal/blend"

// Tool selects how pointer and keyboard input mark the board.
type Tool uint8

const (
	// ToolPencil draws with the selected colour and width.
	ToolPencil Tool = iota
	// ToolEraser removes pixels along the stroke.
	ToolEraser
	// ToolText opens a text entry that is laid out onto the board.
	ToolText
)

// Stroke widths in logical units.
const (
	// DefaultPencilWidth is the width restored whenever the pencil is selected.
	DefaultPencilWidth = 3.0
	// EraserWidth is the fixed eraser width, independent of the pencil width.
	EraserWidth = 20.0
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolPencil:
		return "pencil"
	case ToolEraser:
		return "eraser"
	case ToolText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseTool maps a tool name back to a Tool.
func ParseTool(name string) (Tool, bool) {
	switch name {
	case "pencil":
		return ToolPencil, true
	case "eraser":
		return ToolEraser, true
	case "text":
		return ToolText, true
	default:
		return 0, false
	}
}

// ToolState is the active tool with its ink colour and stroke width.
type ToolState struct {
	Tool  Tool
	Color Color
	Width float64
}

// DefaultToolState returns a black pencil of the default width.
func DefaultToolState() ToolState {
	return ToolState{Tool: ToolPencil, Color: Black, Width: DefaultPencilWidth}
}

// lineWidth is the width actually rasterized for the tool.
func (t ToolState) lineWidth() float64 {
	if t.Tool == ToolEraser {
		return EraserWidth
	}
	return t.Width
}

// compositeMode maps the tool to its compositing rule.
func (t ToolState) compositeMode() blend.Mode {
	if t.Tool == ToolEraser {
		return blend.DestinationOut
	}
	return blend.SourceOver
}
