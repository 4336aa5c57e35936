package fonts

import (
	"testing"

	"golang.org/x/image/font"
)

func TestBoldIsShared(t *testing.T) {
	a, err := Bold()
	if err != nil {
		t.Fatalf("Bold() error: %v", err)
	}
	b, _ := Bold()
	if a != b {
		t.Error("Bold() should parse once and return the same font")
	}
}

func TestBoldFaceScales(t *testing.T) {
	small, err := BoldFace(12)
	if err != nil {
		t.Fatalf("BoldFace(12) error: %v", err)
	}
	large, err := BoldFace(35)
	if err != nil {
		t.Fatalf("BoldFace(35) error: %v", err)
	}

	ws := font.MeasureString(small, "Order: 1042").Ceil()
	wl := font.MeasureString(large, "Order: 1042").Ceil()
	if ws <= 0 || wl <= ws {
		t.Errorf("expected larger face to measure wider: small=%d large=%d", ws, wl)
	}
}
