// Command ggboard replays a scripted annotation session headlessly and
// writes the resulting board to a PNG file.
//
// Usage:
//
//	ggboard --config content.yaml --script steps.txt --output board.png
//	ggboard --store progress.db --scale 2 < steps.txt
package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/gogpu/ggboard"
	"github.com/gogpu/ggboard/config"
	"github.com/gogpu/ggboard/store"
)

type options struct {
	configPath string
	scriptPath string
	output     string
	storePath  string
	width      float64
	height     float64
	scale      float64
	verbose    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("ggboard", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "content file (YAML, TOML or JSON); built-in checklist when empty")
	flagSet.StringVarP(&opts.scriptPath, "script", "s", "", "session script; read from stdin when empty")
	flagSet.StringVarP(&opts.output, "output", "o", "board.png", "output PNG file")
	flagSet.StringVar(&opts.storePath, "store", "", "SQLite progress store; in-memory when empty")
	flagSet.Float64Var(&opts.width, "width", 600, "viewport width in logical units")
	flagSet.Float64Var(&opts.height, "height", 400, "viewport height in logical units")
	flagSet.Float64Var(&opts.scale, "scale", 1, "device pixel ratio")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if opts.verbose {
		ggboard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	ctx := context.Background()

	content := config.Default()
	if opts.configPath != "" {
		var err error
		if content, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}

	var st store.Store = store.NewMemory()
	if opts.storePath != "" {
		db, err := store.OpenSQLite(ctx, opts.storePath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		st = db
	}

	script := stdin
	if opts.scriptPath != "" {
		f, err := os.Open(opts.scriptPath)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer func() { _ = f.Close() }()
		script = f
	}

	boardOpts, err := content.Options()
	if err != nil {
		return err
	}
	sched := newSteppedScheduler()
	board, err := ggboard.NewBoard(ctx,
		ggboard.Viewport{Width: opts.width, Height: opts.height, Scale: opts.scale},
		append(boardOpts,
			ggboard.WithScheduler(sched),
			ggboard.WithClock(sched.Now),
			ggboard.WithStore(st),
			ggboard.WithFinalizedHandler(func(e ggboard.Finalized) {
				fmt.Fprintf(stdout, "finalized: %d missed, %d bonus, adjusted %d\n",
					e.Result.Penalty, e.Result.Bonus, e.Result.Adjusted)
			}),
		)...)
	if err != nil {
		return err
	}
	defer board.Close()

	fmt.Fprintf(stdout, "%s\n", content.Title)
	if content.Prompt != "" {
		fmt.Fprintf(stdout, "%s\n", content.Prompt)
	}

	p := &player{ctx: ctx, board: board, sched: sched, out: stdout}
	if err := p.play(script); err != nil {
		return err
	}

	if err := writePNG(opts.output, board); err != nil {
		return err
	}
	w, h := board.PixelSize()
	fmt.Fprintf(stdout, "%s: %s, %s left, board saved to %s (%dx%d)\n",
		content.Title, board.Phase(), board.Display(), opts.output, w, h)
	return nil
}

func writePNG(path string, b *ggboard.Board) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, b.Snapshot()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode output: %w", err)
	}
	return f.Close()
}
