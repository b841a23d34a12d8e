package main

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sketchpad/internal/config"
)

func testRoot(t *testing.T, rc string) (*root, *bytes.Buffer) {
	t.Helper()
	cfg := config.New()
	if rc != "" {
		var err error
		cfg, err = config.Parse(strings.NewReader(rc))
		if err != nil {
			t.Fatalf("parse config: %v", err)
		}
	}
	r := newRootWith(cfg, nil)
	var out bytes.Buffer
	r.stdout = &out
	return r, &out
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	r, _ := testRoot(t, "")
	err := r.Run([]string{"paint"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "Commands:") {
		t.Fatalf("root help missing command list:\n%s", uerr.Error())
	}
}

func TestHelpTemplatesRender(t *testing.T) {
	r, _ := testRoot(t, "")
	draw, err := parseDrawCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	tools, err := parseToolsCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	colors, err := parseColorsCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	widths, err := parseWidthsCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := parseConfigCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	replay := &replayCmd{root: r.subcommand("replay")}
	cases := []struct {
		of   HelpData
		want string
	}{
		{r, "Usage: sketchpad [flags] <command>"},
		{draw, "-sticker"},
		{replay, "Script commands"},
		{tools, "Usage: sketchpad tools"},
		{colors, "Usage: sketchpad colors"},
		{widths, "Usage: sketchpad widths"},
		{cfg, "print"},
		{&versionCmd{root: r.subcommand("version")}, "Usage: sketchpad version"},
	}
	for _, c := range cases {
		help, err := (&UsageError{of: c.of}).renderHelp()
		if err != nil {
			t.Fatalf("%s: %v", c.of.Template(), err)
		}
		if !strings.Contains(help, c.want) {
			t.Errorf("%s: want %q in\n%s", c.of.Template(), c.want, help)
		}
	}
}

func TestReplayWritesExport(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "smile.txt")
	body := `# two strokes, one undone
tool pencil
color red
down 10 10
move 60 60
up
down 100 10
move 150 60
up
undo
`
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "smile.png")

	r, stdout := testRoot(t, "canvas_width = 200\ncanvas_height = 100\n")
	if err := r.Run([]string{"replay", "-output", out, "-export-width", "400", "-export-height", "200", script}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got := stdout.String(); got != "1 strokes, 1 undone\n" {
		t.Fatalf("summary = %q", got)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("export size = %v", b)
	}
	if _, _, _, a := img.At(70, 70).RGBA(); a == 0 {
		t.Errorf("kept stroke missing from export")
	}
	if _, _, _, a := img.At(250, 70).RGBA(); a != 0 {
		t.Errorf("undone stroke leaked into export")
	}
}

func TestReplayNeedsScript(t *testing.T) {
	r, _ := testRoot(t, "")
	_, err := parseReplayCmd(nil, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
}

func TestReplayReadsStdin(t *testing.T) {
	r, stdout := testRoot(t, "")
	c, err := parseReplayCmd([]string{"-"}, r)
	if err != nil {
		t.Fatal(err)
	}
	c.stdin = strings.NewReader("down 1 1\nmove 5 5\nup\n")
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "1 strokes, 0 undone\n" {
		t.Fatalf("summary = %q", got)
	}
}

func TestConfigToolStylesAndKeys(t *testing.T) {
	r, _ := testRoot(t, `
[tool.pencil]
color = #112233
scale = 5

[keys]
undo = u
marker = KeyK
`)
	sess, err := r.newSession(r.sessionConfig())
	if err != nil {
		t.Fatal(err)
	}
	p, ok := sess.Tools().Lookup("pencil")
	if !ok {
		t.Fatal("no pencil")
	}
	if st := p.Style(); st.Color != (color.RGBA{0x11, 0x22, 0x33, 0xff}) || st.Scale != 5 {
		t.Fatalf("pencil style = %+v", st)
	}
	if bound, err := sess.Key("KeyZ"); err != nil || bound {
		t.Fatalf("KeyZ still bound: %v %v", bound, err)
	}
	if bound, err := sess.Key("KeyK"); err != nil || !bound {
		t.Fatalf("KeyK not bound: %v %v", bound, err)
	}
	if got := sess.Tools().Current().Name; got != "marker" {
		t.Fatalf("current tool = %q, want marker", got)
	}
}

func TestConfigBadKeyFails(t *testing.T) {
	r, _ := testRoot(t, "[keys]\nundo = F13\n")
	if _, err := r.newSession(r.sessionConfig()); err == nil {
		t.Fatal("expected error for unsupported key code")
	}
}

func TestResolveThemePrecedence(t *testing.T) {
	cfg := config.New()
	cfg.Theme = "dark"

	t.Setenv("SKETCHPAD_THEME", "")
	if got := resolveTheme("", cfg).Name; got != "Dark" {
		t.Errorf("config theme = %q", got)
	}
	t.Setenv("SKETCHPAD_THEME", "default")
	if got := resolveTheme("", cfg).Name; got != "Default" {
		t.Errorf("env theme = %q", got)
	}
	if got := resolveTheme("dark", cfg).Name; got != "Dark" {
		t.Errorf("cli theme = %q", got)
	}
	if got := resolveTheme("no-such-theme", cfg).Name; got != "Default" {
		t.Errorf("fallback theme = %q", got)
	}
}

func TestListCommands(t *testing.T) {
	r, out := testRoot(t, "")
	if err := r.Run([]string{"tools"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "* pencil") {
		t.Errorf("tools output missing current pencil:\n%s", out)
	}
	if !strings.Contains(out.String(), "undo") {
		t.Errorf("tools output missing actions:\n%s", out)
	}

	r, out = testRoot(t, "")
	if err := r.Run([]string{"widths"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "*") {
		t.Errorf("widths output marks no starting width:\n%s", out)
	}

	r, out = testRoot(t, "")
	if err := r.Run([]string{"colors"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "#") {
		t.Errorf("colors output has no hex values:\n%s", out)
	}
}

func TestConfigPrint(t *testing.T) {
	r, out := testRoot(t, "canvas_width = 320\ncanvas_height = 240\n")
	if err := r.Run([]string{"config", "print"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "canvas_width = 320") {
		t.Errorf("config print:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	r, out := testRoot(t, "")
	if err := r.Run([]string{"version"}); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); !strings.HasPrefix(got, "sketchpad version dev") {
		t.Errorf("version = %q", got)
	}
}
