package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/magnetsheet/pkg/artifact"
	"github.com/matzehuels/magnetsheet/pkg/cache"
	"github.com/matzehuels/magnetsheet/pkg/cutlist"
	"github.com/matzehuels/magnetsheet/pkg/observability"
	"github.com/matzehuels/magnetsheet/pkg/order"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// cachedSheet is the cache entry for one rendered order. File names are
// derived on read, since they carry the delivery date.
type cachedSheet struct {
	Images      [][]byte           `json:"images"`
	CutList     []byte             `json:"cutlist,omitempty"`
	Diagnostics []sheet.Diagnostic `json:"diagnostics,omitempty"`
	Instances   int                `json:"instances"`
	Pages       int                `json:"pages"`
}

// OrderHash returns a content hash of everything that changes a render:
// the order fields, and every source's quantity and crop bytes in order.
// Source IDs are left out, so re-uploading the same crops hits the cache.
func OrderHash(info order.Info, sources []order.Source) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q|%q|%q|%d\n", info.OrderNumber, info.CustomerName, info.Phone, info.TotalMagnets)
	for _, s := range sources {
		fmt.Fprintf(&b, "%d|%s\n", s.Quantity, cache.Hash(s.Data))
	}
	return cache.Hash([]byte(b.String()))
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// returns only the files.
func (r *Runner) Render(ctx context.Context, info order.Info, sources []order.Source, opts Options) ([]File, error) {
	res, _, err := r.RenderWithCacheInfo(ctx, info, sources, opts)
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

// RenderWithCacheInfo renders the order into PNG files (and a cut list when
// asked) and reports whether they came from the cache.
//
// The order is drawn as given; see Submit for the validated path.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, info order.Info, sources []order.Source, opts Options) (*Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	key := r.Keyer.SheetKey(OrderHash(info, sources), cache.SheetKeyOpts{
		Mode:    opts.Mode,
		DPI:     sheet.DPI,
		CutList: opts.CutList,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cs cachedSheet
			if err := json.Unmarshal(data, &cs); err == nil {
				observability.Cache().OnCacheHit(ctx, key)
				res := buildResult(info, opts, cs)
				res.CacheHit = true
				res.Stats.RenderTime = time.Since(start)
				opts.Logger.Debug("sheet cache hit", "order", info.OrderNumber, "files", len(res.Files))
				return res, true, nil
			}
			// If deserialization fails, fall through to re-render
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}

	cs, err := r.renderSheet(ctx, info, sources, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(cs); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLSheet); err != nil {
			opts.Logger.Warn("cache sheet", "order", info.OrderNumber, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}

	res := buildResult(info, opts, cs)
	res.Stats.RenderTime = time.Since(start)
	opts.Logger.Info("rendered sheet",
		"order", info.OrderNumber,
		"magnets", cs.Instances,
		"pages", cs.Pages,
		"skipped", len(cs.Diagnostics),
		"duration", res.Stats.RenderTime)
	return res, false, nil
}

func (r *Runner) renderSheet(ctx context.Context, info order.Info, sources []order.Source, opts Options) (cachedSheet, error) {
	s, err := r.engine(opts).Render(ctx, info, sources)
	if err != nil {
		return cachedSheet{}, err
	}
	images, err := s.Encode(opts.mode)
	if err != nil {
		return cachedSheet{}, err
	}

	cs := cachedSheet{
		Images:      images,
		Diagnostics: s.Diagnostics,
		Instances:   s.Magnets(),
		Pages:       len(s.Pages),
	}
	if opts.CutList {
		var buf bytes.Buffer
		if err := cutlist.Write(&buf, s, opts.Date); err != nil {
			return cachedSheet{}, err
		}
		cs.CutList = buf.Bytes()
	}
	return cs, nil
}

func buildResult(info order.Info, opts Options, cs cachedSheet) *Result {
	res := &Result{
		Diagnostics: cs.Diagnostics,
		Stats:       Stats{Instances: cs.Instances, Pages: cs.Pages},
	}
	for i, img := range cs.Images {
		name := order.Filename(info, opts.Date, "png")
		if opts.mode == sheet.ModePages {
			name = order.PageFilename(info, opts.Date, i, "png")
		}
		res.Files = append(res.Files, File{
			Name:        name,
			ContentType: artifact.ContentTypePNG,
			Size:        int64(len(img)),
			Data:        img,
		})
	}
	if len(cs.CutList) > 0 {
		res.Files = append(res.Files, File{
			Name:        order.Filename(info, opts.Date, CutListExt),
			ContentType: artifact.ContentTypeXLSX,
			Size:        int64(len(cs.CutList)),
			Data:        cs.CutList,
		})
	}
	return res
}
