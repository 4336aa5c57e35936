package sheet

import (
	"image"
	"math"
)

// DPI is the print resolution of every sheet.
const DPI = 300

// Physical measures, in inches unless noted.
const (
	pageWidthIn      = 8.27
	pageHeightIn     = 11.69
	marginIn         = 0.197  // 5 mm
	magnetCm         = 6.5    // side of one magnet
	minGapIn         = 0.098  // 2.5 mm
	headerBandIn     = 0.591  // 15 mm reserved for header and rule
	gridTopIn        = 0.551  // 14 mm below the top margin
	headerBaselineIn = 0.236  // 6 mm below the top margin
	ruleOffsetIn     = 0.394  // 10 mm below the top margin
	ruleWidthIn      = 0.0197 // 0.5 mm
	dashOnIn         = 0.059  // 1.5 mm
	dashOffIn        = 0.039  // 1 mm
	guideWidthIn     = 0.0079 // 0.2 mm
	fontSizeIn       = 0.118  // 10 pt
	cornerRatio      = 0.123  // guide corner radius relative to the magnet side
	columns          = 3
)

// Geometry holds the pixel measures of a sheet page.
// Values are fixed by policy; [A4] is the only geometry the engine uses.
type Geometry struct {
	DPI            int     `json:"dpi"`
	PageWidth      int     `json:"page_width"`
	PageHeight     int     `json:"page_height"`
	Margin         int     `json:"margin"`
	Magnet         int     `json:"magnet"`
	Cols           int     `json:"cols"`
	Rows           int     `json:"rows"`
	Gap            float64 `json:"gap"`
	HeaderBand     int     `json:"header_band"`
	GridTop        int     `json:"grid_top"`
	HeaderBaseline int     `json:"header_baseline"`
	RuleY          int     `json:"rule_y"`
	RuleWidth      int     `json:"rule_width"`
	GuideDash      [2]int  `json:"guide_dash"`
	GuideWidth     int     `json:"guide_width"`
	CornerRadius   int     `json:"corner_radius"`
	FontSize       int     `json:"font_size"`
}

// A4 is the page geometry at 300 DPI: 2481×3507 px pages holding a
// 3×4 grid of 768 px magnets.
var A4 = geometryFor(DPI)

func geometryFor(dpi int) Geometry {
	px := func(in float64) int { return int(math.Round(in * float64(dpi))) }

	g := Geometry{
		DPI:        dpi,
		PageWidth:  px(pageWidthIn),
		PageHeight: px(pageHeightIn),
		Margin:     px(marginIn),
		Magnet:     px(magnetCm / 2.54),
		Cols:       columns,
		HeaderBand: px(headerBandIn),
		RuleWidth:  px(ruleWidthIn),
		GuideDash:  [2]int{px(dashOnIn), px(dashOffIn)},
		GuideWidth: px(guideWidthIn),
		FontSize:   px(fontSizeIn),
	}
	g.GridTop = g.Margin + px(gridTopIn)
	g.HeaderBaseline = g.Margin + px(headerBaselineIn)
	g.RuleY = g.Margin + px(ruleOffsetIn)
	g.CornerRadius = int(math.Round(float64(g.Magnet) * cornerRatio))

	// The columns are spread to fill the printable width, but never closer
	// than the minimum gap.
	spare := float64(g.PageWidth - 2*g.Margin - g.Cols*g.Magnet)
	g.Gap = max(float64(px(minGapIn)), spare/float64(g.Cols-1))

	effective := float64(g.PageHeight - 2*g.Margin - g.HeaderBand)
	g.Rows = int(math.Floor((effective + g.Gap) / (float64(g.Magnet) + g.Gap)))
	return g
}

// PerPage returns how many magnets fit on one page.
func (g Geometry) PerPage() int { return g.Rows * g.Cols }

// Pages returns the number of pages needed for n magnets.
// Zero magnets need zero pages.
func (g Geometry) Pages(n int) int {
	if n <= 0 {
		return 0
	}
	per := g.PerPage()
	return (n + per - 1) / per
}

// Cell is a grid position. Page, Row and Col are 0-indexed.
type Cell struct {
	Page int `json:"page"`
	Row  int `json:"row"`
	Col  int `json:"col"`
}

// Locate returns the cell of the i-th magnet (0-indexed) in row-major order.
func (g Geometry) Locate(i int) Cell {
	per := g.PerPage()
	within := i % per
	return Cell{Page: i / per, Row: within / g.Cols, Col: within % g.Cols}
}

// Origin returns the top-left pixel of a cell relative to its page.
// The fractional gap is rounded so a crop and its guide share pixels.
func (g Geometry) Origin(c Cell) image.Point {
	step := float64(g.Magnet) + g.Gap
	return image.Point{
		X: int(math.Round(float64(g.Margin) + float64(c.Col)*step)),
		Y: int(math.Round(float64(g.GridTop) + float64(c.Row)*step)),
	}
}

// Bounds returns the square a magnet occupies on its page.
func (g Geometry) Bounds(c Cell) image.Rectangle {
	o := g.Origin(c)
	return image.Rect(o.X, o.Y, o.X+g.Magnet, o.Y+g.Magnet)
}

// PageRect returns the rectangle of one page inside a stacked sheet.
func (g Geometry) PageRect(page int) image.Rectangle {
	y := page * g.PageHeight
	return image.Rect(0, y, g.PageWidth, y+g.PageHeight)
}
