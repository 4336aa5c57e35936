package sheet

import (
	"context"
	"image"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/fonts"
	"github.com/matzehuels/magnetsheet/pkg/observability"
	"github.com/matzehuels/magnetsheet/pkg/order"
)

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds how many crops are decoded at once.
// Values below 1 fall back to runtime.NumCPU.
func WithWorkers(n int) Option { return func(e *Engine) { e.workers = n } }

// WithLogger sets the logger skipped magnets are reported to.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithSurfaceLimit caps the pixels of any canvas the engine allocates.
func WithSurfaceLimit(px int64) Option { return func(e *Engine) { e.surfaceLimit = px } }

// Engine renders orders onto sheet pages.
type Engine struct {
	geom         Geometry
	workers      int
	logger       *log.Logger
	surfaceLimit int64
}

// New returns an engine for the A4 geometry.
func New(opts ...Option) *Engine {
	e := &Engine{geom: A4, surfaceLimit: MaxSurfacePixels}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Geometry returns the page geometry the engine lays out against.
func (e *Engine) Geometry() Geometry { return e.geom }

// Diagnostic reports a magnet left blank.
type Diagnostic struct {
	Index    int    `json:"index"`
	Source   int    `json:"source"`
	SourceID string `json:"source_id"`
	Cell     Cell   `json:"cell"`
	Err      error  `json:"-"`
	Message  string `json:"message"`
}

// Sheet is a rendered order.
type Sheet struct {
	Geometry    Geometry
	Info        order.Info
	Plan        Plan
	Pages       []*image.RGBA
	Diagnostics []Diagnostic

	sourceIDs    []string
	surfaceLimit int64
}

// Magnets returns the number of magnets laid out, skipped ones included.
func (s *Sheet) Magnets() int { return len(s.Plan.Instances) }

// Skipped reports whether the instance at index was left blank.
func (s *Sheet) Skipped(index int) bool {
	for _, d := range s.Diagnostics {
		if d.Index == index {
			return true
		}
	}
	return false
}

// Render lays out every instance of sources and draws the pages.
//
// Sources are drawn as given: the engine does not check quantities against
// info.TotalMagnets. A missing or undecodable crop leaves its cell blank and
// adds a Diagnostic. An order with no copies at all yields a sheet with no
// pages. Render fails only when the context is done or a page canvas
// cannot be allocated.
func (e *Engine) Render(ctx context.Context, info order.Info, sources []order.Source) (s *Sheet, err error) {
	start := time.Now()
	plan := NewPlan(e.geom, sources)
	hooks := observability.Sheet()
	hooks.OnRenderStart(ctx, info.OrderNumber, len(plan.Instances))
	defer func() {
		pages := 0
		if s != nil {
			pages = len(s.Pages)
		}
		hooks.OnRenderComplete(ctx, info.OrderNumber, pages, time.Since(start), err)
	}()

	s = &Sheet{
		Geometry:     e.geom,
		Info:         info,
		Plan:         plan,
		sourceIDs:    make([]string, len(sources)),
		surfaceLimit: e.surfaceLimit,
	}
	for i, src := range sources {
		s.sourceIDs[i] = src.ID
	}
	if plan.Pages == 0 {
		return s, nil
	}

	crops, err := decodeSources(ctx, sources, e.geom.Magnet, e.workers)
	if err != nil {
		return nil, err
	}
	face, err := fonts.BoldFace(float64(e.geom.FontSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load header font")
	}
	text := Text{Color: colorInk, Face: face}

	s.Pages = make([]*image.RGBA, 0, plan.Pages)
	for p := 0; p < plan.Pages; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		surf, err := newSurface(e.geom.PageWidth, e.geom.PageHeight, e.surfaceLimit)
		if err != nil {
			return nil, err
		}

		d := newPageDrawer(e.geom, surf, text)
		d.background(Header(info, p, len(plan.Instances)))
		for _, inst := range plan.Page(p) {
			c := crops[inst.Source]
			if c.err != nil {
				s.skip(ctx, inst, c.err)
				e.logger.Warn("skipping magnet",
					"order", info.OrderNumber,
					"index", inst.Index+1,
					"source", s.sourceIDs[inst.Source],
					"err", c.err)
				continue
			}
			d.magnet(inst.Cell, c.img)
		}
		s.Pages = append(s.Pages, surf)
	}

	e.logger.Debug("rendered sheet",
		"order", info.OrderNumber,
		"magnets", len(plan.Instances),
		"pages", len(s.Pages),
		"skipped", len(s.Diagnostics),
		"duration", time.Since(start))
	return s, nil
}

func (s *Sheet) skip(ctx context.Context, inst Instance, err error) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{
		Index:    inst.Index,
		Source:   inst.Source,
		SourceID: s.sourceIDs[inst.Source],
		Cell:     inst.Cell,
		Err:      err,
		Message:  errors.UserMessage(err),
	})
	observability.Sheet().OnInstanceSkipped(ctx, s.Info.OrderNumber, inst.Index, err)
}

// Placement describes where one magnet ended up.
type Placement struct {
	Index    int    `json:"index"`
	SourceID string `json:"source_id"`
	Copy     int    `json:"copy"`
	Page     int    `json:"page"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Skipped  bool   `json:"skipped"`
}

// Placements lists every instance in print order, with page-relative
// pixel origins.
func (s *Sheet) Placements() []Placement {
	skipped := make(map[int]bool, len(s.Diagnostics))
	for _, d := range s.Diagnostics {
		skipped[d.Index] = true
	}

	out := make([]Placement, 0, len(s.Plan.Instances))
	for _, inst := range s.Plan.Instances {
		o := s.Geometry.Origin(inst.Cell)
		out = append(out, Placement{
			Index:    inst.Index,
			SourceID: s.sourceIDs[inst.Source],
			Copy:     inst.Copy,
			Page:     inst.Cell.Page,
			Row:      inst.Cell.Row,
			Col:      inst.Cell.Col,
			X:        o.X,
			Y:        o.Y,
			Skipped:  skipped[inst.Index],
		})
	}
	return out
}
