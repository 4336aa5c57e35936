package sheet

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	// Crops exported by browsers are commonly WebP.
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/order"
)

// crop is the decoded, magnet-sized image of one source, or the reason
// it could not be produced.
type crop struct {
	img image.Image
	err error
}

// decodeSources decodes and scales every source that has at least one copy.
// Results are indexed like sources. A bad crop is recorded in its slot and
// never fails the call; only cancellation does.
func decodeSources(ctx context.Context, sources []order.Source, side, workers int) ([]crop, error) {
	arena := make([]crop, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, src := range sources {
		if src.Quantity <= 0 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeCrop(src.Data)
			if err == nil {
				img = imaging.Resize(img, side, side, imaging.Lanczos)
			}
			arena[i] = crop{img: img, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return arena, nil
}

// decodeCrop decodes raw image bytes or a data: URL wrapping them.
func decodeCrop(data []byte) (image.Image, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeImageDecode, "crop is empty")
	}
	raw, err := unwrapDataURL(data)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decode crop")
	}
	return img, nil
}

// unwrapDataURL returns the payload of a data: URL, or data unchanged when
// it is not one.
func unwrapDataURL(data []byte) ([]byte, error) {
	const scheme = "data:"
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) < len(scheme) || !strings.EqualFold(string(trimmed[:len(scheme)]), scheme) {
		return data, nil
	}

	header, payload, ok := strings.Cut(string(trimmed[len(scheme):]), ",")
	if !ok {
		return nil, errors.New(errors.ErrCodeImageDecode, "data URL has no payload")
	}
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "data URL payload")
		}
		return raw, nil
	}
	raw, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "data URL payload")
	}
	return []byte(raw), nil
}
