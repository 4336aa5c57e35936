// Package fonts provides the embedded font used for sheet header text.
//
// The face is Go Bold from golang.org/x/image/font/gofont, compiled into
// the binary so rendering never depends on fonts installed on the host.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// HeaderFamily is the family name of the embedded header font.
const HeaderFamily = "Go Bold"

var (
	bold     *truetype.Font
	boldErr  error
	boldOnce sync.Once
)

// Bold returns the parsed Go Bold font.
// Parsing happens once; the result is shared and safe for concurrent use.
func Bold() (*truetype.Font, error) {
	boldOnce.Do(func() {
		bold, boldErr = truetype.Parse(gobold.TTF)
		if boldErr != nil {
			boldErr = fmt.Errorf("parse %s: %w", HeaderFamily, boldErr)
		}
	})
	return bold, boldErr
}

// BoldFace returns a new face of the bold font at sizePx pixels.
//
// Faces are not safe for concurrent use, so every caller that draws in its
// own goroutine needs its own face. Size is given in pixels: the face is
// built at 72 DPI, where one point equals one pixel.
func BoldFace(sizePx float64) (font.Face, error) {
	f, err := Bold()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
