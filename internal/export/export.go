// Package export flattens a command log into an image file by replaying it
// onto an offscreen canvas of fixed target dimensions.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/sketchpad/internal/command"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/surface"
)

var (
	// ErrNoSize is returned when neither a source nor a target size is known.
	ErrNoSize = errors.New("export: no size")
	// ErrUnsupportedFormat is returned by Save for unknown file extensions.
	ErrUnsupportedFormat = errors.New("export: unsupported format")
)

// Options describes the export geometry.
type Options struct {
	// SourceWidth and SourceHeight are the logical size the commands were
	// drawn at.
	SourceWidth, SourceHeight int
	// Width and Height are the output size in pixels. Zero keeps the
	// source size.
	Width, Height int
	// Background fills the image before replay. Nil means transparent.
	Background color.Color
	Logger     *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Target returns the output dimensions and the uniform scale applied to the
// source. The drawing is fitted inside the target keeping its aspect ratio.
func (o Options) Target() (w, h int, scale float64, err error) {
	sw, sh := o.SourceWidth, o.SourceHeight
	w, h = o.Width, o.Height
	if sw <= 0 || sh <= 0 {
		if w <= 0 || h <= 0 {
			return 0, 0, 0, ErrNoSize
		}
		return w, h, 1, nil
	}
	if w <= 0 || h <= 0 {
		return sw, sh, 1, nil
	}
	scale = math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
	return w, h, scale, nil
}

// Render replays cmds onto a fresh canvas and returns its pixels.
func Render(cmds []command.Command, opts Options) (*image.RGBA, error) {
	w, h, scale, err := opts.Target()
	if err != nil {
		return nil, err
	}
	sw, sh := opts.SourceWidth, opts.SourceHeight
	if sw <= 0 || sh <= 0 {
		sw, sh = w, h
	}
	c := surface.NewCanvas(sw, sh,
		surface.WithDPR(scale),
		surface.WithPixelSize(w, h),
		surface.WithBackground(opts.Background),
	)
	render.Replay(c, cmds)
	opts.logger().Debug("export rendered", "commands", len(cmds), "width", w, "height", h, "scale", scale)
	return c.Snapshot(), nil
}

// PNG writes the flattened commands as PNG.
func PNG(w io.Writer, cmds []command.Command, opts Options) error {
	img, err := Render(cmds, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PDF writes a single-page PDF sized to the target with the flattened image
// filling the page. One pixel maps to one point.
func PDF(w io.Writer, cmds []command.Command, opts Options) error {
	img, err := Render(cmds, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	pw, ph := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", imgOpts, &buf)
	pdf.ImageOptions("canvas", 0, 0, pw, ph, false, imgOpts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Save writes to path, choosing PNG or PDF by extension.
func Save(path string, cmds []command.Command, opts Options) error {
	var write func(io.Writer, []command.Command, Options) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		write = PNG
	case ".pdf":
		write = PDF
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, cmds, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	opts.logger().Info("exported", "path", path, "commands", len(cmds))
	return nil
}
