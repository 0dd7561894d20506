package pptx

// DocumentLayout represents the slide dimensions shared by every slide.
type DocumentLayout struct {
	CX   int64 // width in EMU (English Metric Units)
	CY   int64 // height in EMU
	Name string
}

// Standard layout names.
const (
	LayoutScreen4x3  = "screen4x3"
	LayoutScreen16x9 = "screen16x9"
	LayoutCustom     = "custom"
)

// NewDocumentLayout creates a default 4:3 layout (10 x 7.5 in).
func NewDocumentLayout() *DocumentLayout {
	return &DocumentLayout{
		CX:   9144000,
		CY:   6858000,
		Name: LayoutScreen4x3,
	}
}

// SetLayout sets a predefined layout. Unknown names are ignored.
func (dl *DocumentLayout) SetLayout(name string) {
	switch name {
	case LayoutScreen4x3:
		dl.CX, dl.CY = 9144000, 6858000
	case LayoutScreen16x9:
		dl.CX, dl.CY = 12192000, 6858000
	default:
		return
	}
	dl.Name = name
}

// SetCustomLayout sets custom dimensions in EMU. Non-positive values fall
// back to the 4:3 defaults.
func (dl *DocumentLayout) SetCustomLayout(cx, cy int64) {
	if cx <= 0 {
		cx = 9144000
	}
	if cy <= 0 {
		cy = 6858000
	}
	dl.CX = cx
	dl.CY = cy
	dl.Name = LayoutCustom
	if cx == 9144000 && cy == 6858000 {
		dl.Name = LayoutScreen4x3
	} else if cx == 12192000 && cy == 6858000 {
		dl.Name = LayoutScreen16x9
	}
}

// sizeType returns the sldSz type attribute value, empty for custom sizes.
func (dl *DocumentLayout) sizeType() string {
	switch dl.Name {
	case LayoutScreen4x3:
		return "screen4x3"
	default:
		return ""
	}
}

// Theme holds the color and font scheme written to the shared theme part.
type Theme struct {
	Name      string
	Dark1     Color
	Light1    Color
	Dark2     Color
	Light2    Color
	Accents   [6]Color
	Hyperlink Color
	MajorFont string
	MinorFont string
}

// NewTheme returns the default Office-like theme.
func NewTheme() *Theme {
	return &Theme{
		Name:   "GoDeck",
		Dark1:  ColorBlack,
		Light1: ColorWhite,
		Dark2:  NewColor("44546A"),
		Light2: NewColor("E7E6E6"),
		Accents: [6]Color{
			NewColor("4472C4"), NewColor("ED7D31"), NewColor("A5A5A5"),
			NewColor("FFC000"), NewColor("5B9BD5"), NewColor("70AD47"),
		},
		Hyperlink: NewColor("0563C1"),
		MajorFont: "Calibri Light",
		MinorFont: "Calibri",
	}
}
