// Package clipboard moves sketches and stickers through the desktop
// clipboard. Images travel as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
)

var (
	// ErrNoDisplay is returned when no X11 or Wayland display is reachable.
	ErrNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned when the clipboard holds nothing of the wanted kind.
	ErrEmpty = errors.New("clipboard does not contain the requested data")
)

// System is the desktop clipboard as a value, for callers that take the
// clipboard as a dependency.
type System struct{}

func (System) WriteImage(img image.Image) error { return WriteImage(img) }
func (System) ReadImage() (image.Image, error) { return ReadImage() }
func (System) WriteText(text string) error { return WriteText(text) }
func (System) ReadText() (string, error) { return ReadText() }

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return png.Decode(bytes.NewReader(data))
}

// trimText drops the trailing NUL some X clients append to STRING data.
func trimText(data []byte) (string, error) {
	if len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	return string(data), nil
}
