package sheet

import (
	"fmt"
	"image"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// MaxSurfacePixels caps the pixels of a single canvas at 1 GiB of RGBA.
const MaxSurfacePixels int64 = 256 << 20

// newSurface allocates a w×h canvas, or fails with
// ErrCodeSurfaceUnavailable when it would exceed limit pixels or the
// allocation itself fails.
func newSurface(w, h int, limit int64) (img *image.RGBA, err error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeSurfaceUnavailable, "invalid canvas size %dx%d", w, h)
	}
	if limit > 0 && int64(w)*int64(h) > limit {
		return nil, errors.New(errors.ErrCodeSurfaceUnavailable, "canvas %dx%d exceeds %d pixels", w, h, limit)
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = errors.Wrap(errors.ErrCodeSurfaceUnavailable, fmt.Errorf("%v", r), "allocate %dx%d canvas", w, h)
		}
	}()
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}
