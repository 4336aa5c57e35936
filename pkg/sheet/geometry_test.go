package sheet

import (
	"image"
	"testing"

	"github.com/matzehuels/magnetsheet/pkg/order"
)

func TestA4(t *testing.T) {
	g := A4
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"page width", g.PageWidth, 2481},
		{"page height", g.PageHeight, 3507},
		{"margin", g.Margin, 59},
		{"magnet", g.Magnet, 768},
		{"cols", g.Cols, 3},
		{"rows", g.Rows, 4},
		{"per page", g.PerPage(), 12},
		{"grid top", g.GridTop, 224},
		{"header baseline", g.HeaderBaseline, 130},
		{"rule y", g.RuleY, 177},
		{"rule width", g.RuleWidth, 6},
		{"dash on", g.GuideDash[0], 18},
		{"dash off", g.GuideDash[1], 12},
		{"guide width", g.GuideWidth, 2},
		{"corner radius", g.CornerRadius, 94},
		{"font size", g.FontSize, 35},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if g.Gap != 29.5 {
		t.Errorf("gap = %v, want 29.5", g.Gap)
	}
}

func TestPages(t *testing.T) {
	tests := []struct{ magnets, want int }{
		{0, 0},
		{-3, 0},
		{1, 1},
		{12, 1},
		{13, 2},
		{24, 2},
		{25, 3},
		{order.MaxMagnets, 9},
	}
	for _, tt := range tests {
		if got := A4.Pages(tt.magnets); got != tt.want {
			t.Errorf("Pages(%d) = %d, want %d", tt.magnets, got, tt.want)
		}
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		index int
		want  Cell
	}{
		{0, Cell{0, 0, 0}},
		{2, Cell{0, 0, 2}},
		{3, Cell{0, 1, 0}},
		{11, Cell{0, 3, 2}},
		{12, Cell{1, 0, 0}},
		{13, Cell{1, 0, 1}},
		{25, Cell{2, 0, 1}},
	}
	for _, tt := range tests {
		if got := A4.Locate(tt.index); got != tt.want {
			t.Errorf("Locate(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		cell Cell
		want image.Point
	}{
		{Cell{Row: 0, Col: 0}, image.Pt(59, 224)},
		{Cell{Row: 0, Col: 1}, image.Pt(857, 224)},
		{Cell{Row: 0, Col: 2}, image.Pt(1654, 224)},
		{Cell{Row: 1, Col: 0}, image.Pt(59, 1022)},
		{Cell{Row: 3, Col: 2}, image.Pt(1654, 2617)},
		{Cell{Page: 4, Row: 1, Col: 1}, image.Pt(857, 1022)},
	}
	for _, tt := range tests {
		if got := A4.Origin(tt.cell); got != tt.want {
			t.Errorf("Origin(%+v) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestGridFitsPage(t *testing.T) {
	g := A4
	printable := image.Rect(g.Margin, g.GridTop, g.PageWidth-g.Margin, g.PageHeight-g.Margin)
	for i := 0; i < g.PerPage(); i++ {
		r := g.Bounds(g.Locate(i))
		if !r.In(printable) {
			t.Errorf("cell %d at %v outside printable area %v", i, r, printable)
		}
		for j := 0; j < i; j++ {
			if r.Overlaps(g.Bounds(g.Locate(j))) {
				t.Errorf("cells %d and %d overlap", i, j)
			}
		}
	}
	if g.RuleY >= g.GridTop || g.HeaderBaseline >= g.RuleY {
		t.Errorf("header %d, rule %d and grid %d out of order", g.HeaderBaseline, g.RuleY, g.GridTop)
	}
}
