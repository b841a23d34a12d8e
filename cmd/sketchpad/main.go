package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"

	"github.com/example/sketchpad/internal/config"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/session"
	"github.com/example/sketchpad/internal/sticker"
	"github.com/example/sketchpad/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	notifier      *notify.Notifier
	config        *config.Config
	exportAlerts  bool
	copyAlerts    bool
	stickerAlerts bool
	verbose       bool
	themeName     string
	activeTheme   *theme.Theme
	logger        *slog.Logger
	stdout        io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootWith(cfg, notify.New(prefs))
}

func newRootWith(cfg *config.Config, n *notify.Notifier) *root {
	r := &root{
		fs:       flag.NewFlagSet("sketchpad", flag.ExitOnError),
		program:  "sketchpad",
		notifier: n,
		config:   cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdout:   os.Stdout,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.stickerAlerts, "notify-sticker", cfg.Notify.Sticker, "show a desktop notification when a sticker is added")
	r.fs.BoolVar(&r.verbose, "v", false, "log debug output to stderr")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, or a .theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// resolveTheme picks the theme name by precedence and loads it, falling
// back to the default theme with a warning.
func resolveTheme(cli string, cfg *config.Config) *theme.Theme {
	name := cli
	if name == "" {
		name = os.Getenv("SKETCHPAD_THEME")
	}
	if name == "" {
		name = cfg.Theme
	}
	loader := theme.NewLoader()
	loader.Inline = cfg.Themes
	t, err := loader.Load(name)
	if err != nil {
		if name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventSticker, r.stickerAlerts)
	}
	if r.verbose {
		r.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	r.activeTheme = resolveTheme(r.themeName, r.config)

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// sessionConfig turns the loaded configuration into canvas settings.
func (r *root) sessionConfig() session.Config {
	cfg := session.DefaultConfig()
	c := r.config
	if c.CanvasWidth > 0 && c.CanvasHeight > 0 {
		cfg.Width, cfg.Height = c.CanvasWidth, c.CanvasHeight
	}
	if c.DPR > 0 {
		cfg.DPR = c.DPR
	}
	cfg.Background = c.Background
	cfg.ExportWidth, cfg.ExportHeight = c.ExportWidth, c.ExportHeight
	if c.SaveDir != "" {
		cfg.SaveDir = c.SaveDir
	}
	cfg.Shadow = c.Shadow
	return cfg
}

// newSession builds a session with the builtin stickers, then applies the
// configured tool styles and key bindings.
func (r *root) newSession(cfg session.Config, opts ...session.Option) (*session.Session, error) {
	base := []session.Option{
		session.WithLogger(r.logger),
		session.WithStickers(sticker.Builtins()...),
	}
	if r.notifier != nil {
		base = append(base, session.WithNotifier(r.notifier))
	}
	sess := session.New(cfg, append(base, opts...)...)

	for _, name := range sortedNames(r.config.Tools) {
		st := r.config.Tools[name]
		t, ok := sess.Tools().Lookup(name)
		if !ok {
			log.Printf("config: no tool named %q", name)
			continue
		}
		if st.HasColor {
			t.SetColor(st.Color)
		}
		if st.Scale > 0 {
			t.SetScale(st.Scale)
		}
	}
	for _, action := range sortedNames(r.config.Keys) {
		if err := sess.BindKey(r.config.Keys[action], session.Action(action)); err != nil {
			return nil, fmt.Errorf("config keys: %s: %w", action, err)
		}
	}
	return sess, nil
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
