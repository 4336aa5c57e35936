package sheet

import (
	"bytes"
	"image"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// Mode selects how pages are delivered.
type Mode string

const (
	// ModeStacked joins all pages vertically into one image.
	ModeStacked Mode = "stacked"
	// ModePages delivers one image per page.
	ModePages Mode = "pages"
)

// ParseMode parses a mode name. The empty string selects ModeStacked.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStacked:
		return ModeStacked, nil
	case ModePages:
		return ModePages, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output mode %q (want stacked or pages)", s)
}

// Stacked returns all pages joined top to bottom, page p occupying rows
// [p*PageHeight, (p+1)*PageHeight). The result is always a new image, so
// changing it leaves the pages untouched. A sheet without pages yields nil.
func (s *Sheet) Stacked() (*image.RGBA, error) {
	if len(s.Pages) == 0 {
		return nil, nil
	}

	g := s.Geometry
	out, err := newSurface(g.PageWidth, g.PageHeight*len(s.Pages), s.surfaceLimit)
	if err != nil {
		return nil, err
	}
	for p, page := range s.Pages {
		draw.Draw(out, g.PageRect(p), page, image.Point{}, draw.Src)
	}
	return out, nil
}

// Encode returns the sheet as PNG files: one for ModeStacked, one per page
// for ModePages. A sheet without pages encodes to no files.
func (s *Sheet) Encode(mode Mode) ([][]byte, error) {
	if len(s.Pages) == 0 {
		return nil, nil
	}

	var images []*image.RGBA
	switch mode {
	case ModeStacked, "":
		if len(s.Pages) == 1 {
			images = s.Pages
			break
		}
		img, err := s.Stacked()
		if err != nil {
			return nil, err
		}
		images = []*image.RGBA{img}
	case ModePages:
		images = s.Pages
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output mode %q", mode)
	}

	out := make([][]byte, 0, len(images))
	for i, img := range images {
		data, err := EncodePNG(img)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode image %d", i+1)
		}
		out = append(out, data)
	}
	return out, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
