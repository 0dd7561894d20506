package pptx

import (
	"strings"
	"testing"
)

func TestColors(t *testing.T) {
	c := NewColor("#003366")
	if c.ARGB != "FF003366" {
		t.Errorf("expected FF003366, got %s", c.ARGB)
	}
	if c.GetRed() != 0x00 || c.GetGreen() != 0x33 || c.GetBlue() != 0x66 || c.GetAlpha() != 0xFF {
		t.Errorf("unexpected channels for %s", c.ARGB)
	}
	if NewColor("zzz").ARGB != ColorBlack.ARGB {
		t.Error("invalid input should yield black")
	}
	if got := NewColorRGB(255, 153, 0); got.ARGB != "FFFF9900" {
		t.Errorf("NewColorRGB = %s", got.ARGB)
	}
	if got := ColorWhite.WithAlpha(0x40); got.ARGB != "40FFFFFF" {
		t.Errorf("WithAlpha = %s", got.ARGB)
	}
	if colorRGB(Color{ARGB: "bad"}) != "000000" {
		t.Error("colorRGB should fall back to black")
	}
}

func TestSrgbClrXML(t *testing.T) {
	if got := srgbClrXML(NewColor("FF9900")); got != `<a:srgbClr val="FF9900"/>` {
		t.Errorf("opaque color: %s", got)
	}
	if got := srgbClrXML(ColorWhite.WithAlpha(0)); got != `<a:srgbClr val="FFFFFF"><a:alpha val="0"/></a:srgbClr>` {
		t.Errorf("transparent color: %s", got)
	}
}

func TestFontClamping(t *testing.T) {
	f := NewFont()
	if f.SetSize(0).Size != 1 {
		t.Error("size should clamp to 1")
	}
	if f.SetSize(5000).Size != 4000 {
		t.Error("size should clamp to 4000")
	}
}

func TestMeasurements(t *testing.T) {
	if Inch(1) != 914400 {
		t.Errorf("Inch(1) = %d", Inch(1))
	}
	if Point(2) != 25400 {
		t.Errorf("Point(2) = %d", Point(2))
	}
	if EMUToInch(Inch(7.5)) != 7.5 {
		t.Errorf("EMUToInch round trip = %f", EMUToInch(Inch(7.5)))
	}
	if EMUToPoint(12700) != 1 {
		t.Error("EMUToPoint(12700) should be 1")
	}
}

func TestBorderAndBullet(t *testing.T) {
	b := NewBorder().SetSolid(NewColor("0066CC"), 2)
	if b.Width != 25400 || b.Style != BorderSolid {
		t.Errorf("unexpected border %+v", b)
	}
	if got := writeBorderXML(b); got == "" {
		t.Error("solid border should be written")
	}
	if writeBorderXML(NewBorder()) != "" {
		t.Error("empty border should not be written")
	}
	bullet := NewCharBullet("•").SetColor(NewColor("FF9900"))
	xml := writeBulletXML(bullet)
	for _, want := range []string{`<a:buChar char="•"/>`, `<a:buFont typeface="Arial"/>`, `val="FF9900"`} {
		if !strings.Contains(xml, want) {
			t.Errorf("expected %q in %s", want, xml)
		}
	}
}
