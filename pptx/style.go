package pptx

import (
	"fmt"
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack = Color{ARGB: "FF000000"}
	ColorWhite = Color{ARGB: "FFFFFFFF"}
)

// NewColor creates a new Color from a hex string.
// Accepts 6-char RGB (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000").
// A leading "#" is stripped automatically. Invalid input yields black.
func NewColor(argb string) Color {
	argb = strings.TrimPrefix(argb, "#")
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	argb = strings.ToUpper(argb)
	if !isValidARGB(argb) {
		return ColorBlack
	}
	return Color{ARGB: argb}
}

// NewColorRGB creates an opaque Color from 8-bit channels.
func NewColorRGB(r, g, b uint8) Color {
	return Color{ARGB: fmt.Sprintf("FF%02X%02X%02X", r, g, b)}
}

// WithAlpha returns a copy of c with the given alpha (0 transparent, 255 opaque).
func (c Color) WithAlpha(alpha uint8) Color {
	return Color{ARGB: fmt.Sprintf("%02X%s", alpha, colorRGB(c))}
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// GetRed returns the red component (0-255).
func (c Color) GetRed() uint8 { return parseHexByte(c.ARGB, 2) }

// GetGreen returns the green component (0-255).
func (c Color) GetGreen() uint8 { return parseHexByte(c.ARGB, 4) }

// GetBlue returns the blue component (0-255).
func (c Color) GetBlue() uint8 { return parseHexByte(c.ARGB, 6) }

// GetAlpha returns the alpha component (0-255).
func (c Color) GetAlpha() uint8 { return parseHexByte(c.ARGB, 0) }

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// Font represents text run properties.
type Font struct {
	Name   string
	Size   int // in points
	Bold   bool
	Italic bool
	Color  Color
}

// NewFont creates a new Font with defaults.
func NewFont() *Font {
	return &Font{
		Name:  "Calibri",
		Size:  18,
		Color: ColorBlack,
	}
}

// SetBold sets the bold property and returns the font for chaining.
func (f *Font) SetBold(bold bool) *Font {
	f.Bold = bold
	return f
}

// SetItalic sets the italic property.
func (f *Font) SetItalic(italic bool) *Font {
	f.Italic = italic
	return f
}

// SetSize sets the font size in points (clamped to 1–4000).
func (f *Font) SetSize(size int) *Font {
	if size < 1 {
		size = 1
	}
	if size > 4000 {
		size = 4000
	}
	f.Size = size
	return f
}

// SetColor sets the font color.
func (f *Font) SetColor(color Color) *Font {
	f.Color = color
	return f
}

// SetName sets the typeface.
func (f *Font) SetName(name string) *Font {
	f.Name = name
	return f
}

// Alignment holds paragraph alignment and indentation.
type Alignment struct {
	Horizontal HorizontalAlignment
	MarginLeft int64 // in EMU
	Indent     int64 // in EMU, negative for a hanging indent
}

// HorizontalAlignment represents horizontal text alignment.
type HorizontalAlignment string

const (
	HorizontalLeft    HorizontalAlignment = "l"
	HorizontalCenter  HorizontalAlignment = "ctr"
	HorizontalRight   HorizontalAlignment = "r"
	HorizontalJustify HorizontalAlignment = "just"
)

// NewAlignment creates a new left-aligned Alignment.
func NewAlignment() *Alignment {
	return &Alignment{Horizontal: HorizontalLeft}
}

// SetHorizontal sets horizontal alignment.
func (a *Alignment) SetHorizontal(h HorizontalAlignment) *Alignment {
	a.Horizontal = h
	return a
}

// SetHanging sets a hanging indent of the given width in EMU.
func (a *Alignment) SetHanging(emu int64) *Alignment {
	a.MarginLeft = emu
	a.Indent = -emu
	return a
}

// Fill represents a shape or background fill.
type Fill struct {
	Type  FillType
	Color Color
}

// FillType represents the type of fill.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
)

// NewFill creates a new Fill with no fill.
func NewFill() *Fill {
	return &Fill{Type: FillNone}
}

// SetSolid sets a solid fill. A color alpha below 255 is written as transparency.
func (f *Fill) SetSolid(color Color) *Fill {
	f.Type = FillSolid
	f.Color = color
	return f
}

// Border represents a shape outline.
type Border struct {
	Style BorderStyle
	Width int // in EMU
	Color Color
}

// BorderStyle represents the border line style.
type BorderStyle string

const (
	BorderNone  BorderStyle = "none"
	BorderSolid BorderStyle = "solid"
	BorderDash  BorderStyle = "dash"
)

// NewBorder creates a new Border with no border.
func NewBorder() *Border {
	return &Border{Style: BorderNone}
}

// SetSolid sets a solid outline of the given width in points.
func (b *Border) SetSolid(color Color, points float64) *Border {
	b.Style = BorderSolid
	b.Color = color
	b.Width = int(Point(points))
	return b
}

// Bullet describes paragraph bullet formatting.
type Bullet struct {
	Type  BulletType
	Char  string
	Font  string
	Color *Color
	Size  int // percent of text size
}

// BulletType represents the bullet kind.
type BulletType int

const (
	BulletTypeNone BulletType = iota
	BulletTypeChar
)

// NewCharBullet creates a character bullet such as "•".
func NewCharBullet(char string) *Bullet {
	return &Bullet{
		Type: BulletTypeChar,
		Char: char,
		Font: "Arial",
		Size: 100,
	}
}

// SetColor sets the bullet color.
func (b *Bullet) SetColor(c Color) *Bullet {
	b.Color = &c
	return b
}
