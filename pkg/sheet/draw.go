package sheet

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"github.com/matzehuels/magnetsheet/pkg/order"
)

// Header returns the header line printed on the given page (0-indexed).
// The first page carries the full order summary, later pages a short
// reference back to it.
func Header(info order.Info, page, magnets int) string {
	if page == 0 {
		return fmt.Sprintf("Order: %s | %s | %s | %d magnets", info.OrderNumber, info.CustomerName, info.Phone, magnets)
	}
	return fmt.Sprintf("%s - Order: %s (Page %d)", info.CustomerName, info.OrderNumber, page+1)
}

// pageDrawer paints one page. It owns its font face, so separate pages may
// be drawn from separate goroutines.
type pageDrawer struct {
	geom  Geometry
	dc    *gg.Context
	text  Text
	rule  Stroke
	guide Stroke
}

func newPageDrawer(g Geometry, surf *image.RGBA, text Text) *pageDrawer {
	return &pageDrawer{
		geom:  g,
		dc:    gg.NewContextForRGBA(surf),
		text:  text,
		rule:  ruleStroke(g),
		guide: guideStroke(g),
	}
}

// background fills the page white and draws the header and rule.
func (d *pageDrawer) background(header string) {
	g := d.geom
	paint(d.dc, colorPaper)
	fillText(d.dc, header, float64(g.Margin), float64(g.HeaderBaseline), d.text)
	y := float64(g.RuleY)
	strokeLine(d.dc, float64(g.Margin), y, float64(g.PageWidth-g.Margin), y, d.rule)
}

// magnet draws a scaled crop in its cell, then the cut guide over it.
func (d *pageDrawer) magnet(c Cell, img image.Image) {
	r := d.geom.Bounds(c)
	d.dc.DrawImage(img, r.Min.X, r.Min.Y)
	strokeRoundedRect(d.dc, r, float64(d.geom.CornerRadius), d.guide)
}
