package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/ggboard"
)

// steppedScheduler advances time only when the script says so.
type steppedScheduler struct {
	now     time.Time
	fn      func(time.Time)
	stopped bool
}

func newSteppedScheduler() *steppedScheduler {
	return &steppedScheduler{now: time.Now().Truncate(time.Second)}
}

func (s *steppedScheduler) Every(_ time.Duration, fn func(time.Time)) func() {
	s.fn = fn
	return func() { s.stopped = true }
}

// Now is the scripted wall clock.
func (s *steppedScheduler) Now() time.Time {
	return s.now
}

// advance moves the clock forward one second per tick.
func (s *steppedScheduler) advance(ticks int) {
	for range ticks {
		s.now = s.now.Add(time.Second)
		if s.fn != nil && !s.stopped {
			s.fn(s.now)
		}
	}
}

// player executes session scripts, one command per line:
//
//	tool pencil|eraser|text
//	color #DA291C          or a palette index: color 1
//	width 5
//	stroke 10,10 50,40 90,10
//	text PPE\ngloves        open, type and commit a text block
//	type calls              type into the entry without committing
//	cancel
//	clear
//	resize 800 400 2
//	tick 30
//	finish
//	pledge
//	affirm ppe calls
//	submit
//
// Blank lines and lines starting with '#' are skipped.
type player struct {
	ctx   context.Context
	board *ggboard.Board
	sched *steppedScheduler
	out   io.Writer
}

func (p *player) play(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.exec(line); err != nil {
			return fmt.Errorf("script line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func (p *player) exec(line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch verb {
	case "tool":
		t, ok := ggboard.ParseTool(rest)
		if !ok {
			return fmt.Errorf("unknown tool %q", rest)
		}
		p.board.SelectTool(t)
	case "color":
		c, err := p.color(rest)
		if err != nil {
			return err
		}
		p.board.SetColor(c)
	case "width":
		w, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return fmt.Errorf("width: %w", err)
		}
		p.board.SetStrokeWidth(w)
	case "stroke":
		return p.stroke(args)
	case "text":
		p.board.OpenText()
		return p.board.CommitText(unescape(rest))
	case "type":
		p.board.OpenText()
		p.board.SetPendingText(unescape(rest))
	case "cancel":
		p.board.CancelText()
	case "clear":
		p.board.Clear()
	case "resize":
		v, err := parseViewport(args)
		if err != nil {
			return err
		}
		return p.board.Resize(v)
	case "tick":
		n := 1
		if rest != "" {
			var err error
			if n, err = strconv.Atoi(rest); err != nil || n < 0 {
				return fmt.Errorf("tick: invalid count %q", rest)
			}
		}
		p.sched.advance(n)
	case "finish":
		p.board.Finish()
	case "pledge", "affirm", "submit":
		return p.assess(verb, args)
	default:
		return fmt.Errorf("unknown command %q", verb)
	}
	return nil
}

// color resolves a hex colour or an index into the board palette.
func (p *player) color(s string) (ggboard.Color, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return ggboard.ParseHex(s)
	}
	palette := p.board.Palette()
	if i < 0 || i >= len(palette) {
		return ggboard.Color{}, fmt.Errorf("palette index %d out of range [0,%d)", i, len(palette))
	}
	return palette[i], nil
}

func (p *player) stroke(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("stroke needs at least two points")
	}
	pts := make([]ggboard.Point, 0, len(args))
	for _, a := range args {
		xs, ys, ok := strings.Cut(a, ",")
		if !ok {
			return fmt.Errorf("bad point %q", a)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return fmt.Errorf("bad point %q: %w", a, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return fmt.Errorf("bad point %q: %w", a, err)
		}
		pts = append(pts, ggboard.Point{X: x, Y: y})
	}

	p.board.BeginStroke(pts[0])
	for _, pt := range pts[1:] {
		p.board.ExtendStroke(pt)
	}
	p.board.EndStroke()
	return nil
}

func (p *player) assess(verb string, args []string) error {
	s, err := p.board.Assessment()
	if err != nil {
		return err
	}
	switch verb {
	case "pledge":
		return s.AcknowledgePledge()
	case "affirm":
		for _, id := range args {
			if err := s.Affirm(id, true); err != nil {
				return err
			}
		}
		fmt.Fprintf(p.out, "assessment: %s\n", s.Summary())
	case "submit":
		_, err := s.Submit(p.ctx)
		return err
	}
	return nil
}

func parseViewport(args []string) (ggboard.Viewport, error) {
	if len(args) != 3 {
		return ggboard.Viewport{}, fmt.Errorf("resize needs width height scale")
	}
	var vals [3]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return ggboard.Viewport{}, fmt.Errorf("resize: %w", err)
		}
		vals[i] = v
	}
	return ggboard.Viewport{Width: vals[0], Height: vals[1], Scale: vals[2]}, nil
}

// unescape turns the two-character sequence \n into a newline.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
