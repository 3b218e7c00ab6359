package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const demoScript = `
# sketch a box and list a few items
stroke 10,10 200,10 200,120 10,120 10,10
color #DA291C
text PPE\nSample kit
color 2
type Call Duty Sup
tick 239
tick 1
pledge
affirm ppe equipment clothing sample-kit paperwork camera
submit
`

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "board.png")
	script := filepath.Join(dir, "steps.txt")
	if err := os.WriteFile(script, []byte(demoScript), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	err := run([]string{"--script", script, "--output", out, "--store", filepath.Join(dir, "state.db"), "--scale", "2"},
		strings.NewReader(""), &stdout)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got := stdout.String()
	for _, want := range []string{"Use the whiteboard", "assessment: 3 missed", "finalized: 3 missed, 1 bonus", "EXPIRED", "00:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1200 || cfg.Height != 800 {
		t.Errorf("PNG size = %dx%d, want 1200x800", cfg.Width, cfg.Height)
	}
}

func TestRunScriptFromStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.png")
	var stdout bytes.Buffer
	err := run([]string{"-o", out}, strings.NewReader("stroke 1,1 5,5\nfinish\n"), &stdout)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "EXPIRED, 04:00 left") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"unknown command", "dance"},
		{"assessment before expiry", "pledge"},
		{"bad point", "stroke 1,1 x,2"},
		{"single point", "stroke 1,1"},
		{"unknown tool", "tool brush"},
		{"bad color", "color #12"},
		{"palette index out of range", "color 9"},
		{"bad resize", "resize 10 10"},
		{"bad tick", "tick -3"},
		{"unknown item", "finish\npledge\naffirm nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "board.png")
			err := run([]string{"-o", out}, strings.NewReader(tt.script), &bytes.Buffer{})
			if err == nil {
				t.Error("run() should fail")
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	if got := unescape(`a\nb`); got != "a\nb" {
		t.Errorf("unescape = %q", got)
	}
}

func TestRunWithContentFile(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "boat.yaml")
	err := os.WriteFile(content, []byte(`
title: Boat Ride
prompt: List what goes in the dry bag.
duration_seconds: 60
palette: ["#005DAA", "#4CAF50"]
text:
  measurer: shaping
checklist:
  - id: pfd
    label: Life jacket
    required: true
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	err = run([]string{"-c", content, "-o", filepath.Join(dir, "board.png")},
		strings.NewReader("color 1\ntext life jacket\ntick 60\n"), &stdout)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	got := stdout.String()
	for _, want := range []string{"Boat Ride", "List what goes in the dry bag.", "EXPIRED, 00:00 left"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
}

func TestRunHelp(t *testing.T) {
	err := run([]string{"--help"}, strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("run(--help) error = %v, want pflag.ErrHelp", err)
	}
}
