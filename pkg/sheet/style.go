package sheet

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

var (
	colorPaper = color.White
	colorInk   = color.Black
	colorRule  = color.RGBA{0xC8, 0xC8, 0xC8, 0xFF}
	colorGuide = color.RGBA{0x96, 0x96, 0x96, 0xFF}
)

// Stroke describes how one line or outline is drawn.
// A nil Dash draws a solid line.
type Stroke struct {
	Color color.Color
	Width float64
	Dash  []float64
}

// Text describes how one line of text is drawn.
type Text struct {
	Color color.Color
	Face  font.Face
}

// ruleStroke is the separator under the page header.
func ruleStroke(g Geometry) Stroke {
	return Stroke{Color: colorRule, Width: float64(g.RuleWidth)}
}

// guideStroke is the dashed cut guide around every magnet.
func guideStroke(g Geometry) Stroke {
	return Stroke{
		Color: colorGuide,
		Width: float64(g.GuideWidth),
		Dash:  []float64{float64(g.GuideDash[0]), float64(g.GuideDash[1])},
	}
}

// Every draw helper below takes its style as a value and restores the
// context afterwards, so no call depends on what an earlier call set.

func paint(dc *gg.Context, c color.Color) {
	dc.Push()
	defer dc.Pop()
	dc.SetColor(c)
	dc.Clear()
}

func strokeLine(dc *gg.Context, x1, y1, x2, y2 float64, s Stroke) {
	dc.Push()
	defer dc.Pop()
	s.apply(dc)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
}

func strokeRoundedRect(dc *gg.Context, r image.Rectangle, radius float64, s Stroke) {
	dc.Push()
	defer dc.Pop()
	s.apply(dc)
	dc.DrawRoundedRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), radius)
	dc.Stroke()
}

func fillText(dc *gg.Context, s string, x, y float64, t Text) {
	dc.Push()
	defer dc.Pop()
	dc.SetColor(t.Color)
	dc.SetFontFace(t.Face)
	dc.DrawString(s, x, y)
}

func (s Stroke) apply(dc *gg.Context) {
	dc.SetColor(s.Color)
	dc.SetLineWidth(s.Width)
	dc.SetLineCapButt()
	dc.SetDash(s.Dash...)
}
