// Package capture grabs screen regions through the desktop portal so they
// can be stamped as stickers.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// ErrEmptyRegion is returned when a requested rectangle has no pixels.
var ErrEmptyRegion = errors.New("region is empty")

// Options tunes the portal request.
type Options struct {
	IncludeCursor bool
}

// Region asks the portal to let the user pick an area interactively.
func Region(opts Options) (*image.RGBA, error) {
	return portalScreenshot(true, opts)
}

// RegionRect captures rect in global screen coordinates without prompting.
func RegionRect(rect image.Rectangle, opts Options) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}
	shot, err := portalScreenshot(false, opts)
	if err != nil {
		return nil, err
	}
	return cropToRect(shot, rect)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("crop %v: %w", rect, ErrEmptyRegion)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
