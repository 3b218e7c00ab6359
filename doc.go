// Package ggboard is a headless engine for timed free-form annotation
// exercises.
//
// # Overview
//
// A [Board] owns a raster surface sized to a viewport in logical units and
// backed by device pixels at the viewport's scale. The trainee draws
// freehand strokes with a pencil or eraser and lays out text blocks below
// one another while a session clock counts down. When the clock expires,
// or the trainee finishes early, pending text is committed, input freezes
// and a self-assessment against a checklist opens (see package assess).
//
// # Quick Start
//
//	ctx := context.Background()
//	b, err := ggboard.NewBoard(ctx, ggboard.Viewport{Width: 600, Height: 400, Scale: 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	b.BeginStroke(ggboard.Point{X: 10, Y: 10})
//	b.ExtendStroke(ggboard.Point{X: 120, Y: 40})
//	b.EndStroke()
//
//	b.OpenText()
//	_ = b.CommitText("PPE\nSample kit")
//
//	b.Finish()
//	s, _ := b.Assessment()
//	_ = s.AcknowledgePledge()
//	_ = s.Affirm("ppe", true)
//	fmt.Println(s.Summary()) // "7 missed"
//
// # Surface
//
// Pixels are premultiplied RGBA. Resizing reallocates the buffer and copies
// the previous content forward at the same logical coordinates; text layout
// grows the board downwards when it runs out of room. Strokes are round
// capped; the eraser removes coverage with destination-out compositing.
//
// # Persistence
//
// With [WithStore] the board restores its last snapshot when created and
// writes a PNG data URL after every committed stroke or text block.
// Submitting the assessment writes the missed and bonus item lists.
//
// # Logging
//
// ggboard is silent by default. Use [SetLogger] to route diagnostics to a
// log/slog handler.
package ggboard
