package pptx

import (
	"fmt"
	"strings"
)

// Validate checks the presentation object model for structural issues and
// returns an error describing all problems found, or nil if it is writable.
// Relationship consistency is checked separately when the package is planned.
func (p *Presentation) Validate() error {
	var errs []string

	if p.properties == nil {
		errs = append(errs, "document properties are nil")
	}
	if p.layout == nil {
		errs = append(errs, "document layout is nil")
	} else {
		if p.layout.CX <= 0 {
			errs = append(errs, "layout width (CX) must be positive")
		}
		if p.layout.CY <= 0 {
			errs = append(errs, "layout height (CY) must be positive")
		}
	}

	for i, slide := range p.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide == nil {
			errs = append(errs, prefix+": slide is nil")
			continue
		}
		for _, e := range validateShapes(slide.shapes, "shape") {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateShapes(shapes []Shape, label string) []string {
	var errs []string
	for j, shape := range shapes {
		prefix := fmt.Sprintf("%s %d", label, j+1)
		if shape == nil {
			errs = append(errs, prefix+": shape is nil")
			continue
		}
		if shape.GetWidth() < 0 {
			errs = append(errs, prefix+": width is negative")
		}
		if shape.GetHeight() < 0 {
			errs = append(errs, prefix+": height is negative")
		}

		switch sh := shape.(type) {
		case *DrawingShape:
			if sh.mimeType != "" && !isValidImageMime(sh.mimeType) {
				errs = append(errs, prefix+": unsupported image MIME type: "+sh.mimeType)
			}
		case *TableShape:
			if sh.numRows <= 0 || sh.numCols <= 0 {
				errs = append(errs, prefix+": table must have at least 1 row and 1 column")
			}
			if sh.numRows > 0 && sh.numCols > 0 && len(sh.rows) != sh.numRows {
				errs = append(errs, prefix+": table row count mismatch")
			}
		case *ChartShape:
			if sh.plotArea.chartType == nil {
				errs = append(errs, prefix+": chart shape has no chart type set")
			}
		case *PlaceholderShape:
			if sh.phType == "" {
				errs = append(errs, prefix+": placeholder type is empty")
			}
			errs = append(errs, validateParagraphs(sh.paragraphs, prefix)...)
		case *RichTextShape:
			if len(sh.paragraphs) == 0 {
				errs = append(errs, prefix+": rich text shape has no paragraphs")
			}
			errs = append(errs, validateParagraphs(sh.paragraphs, prefix)...)
		case *AutoShape:
			errs = append(errs, validateParagraphs(sh.paragraphs, prefix)...)
		case *LineShape:
			if !isValidARGB(sh.lineColor.ARGB) {
				errs = append(errs, prefix+": line color is invalid ARGB")
			}
		case *GroupShape:
			for _, e := range validateShapes(sh.shapes, "child") {
				errs = append(errs, prefix+": "+e)
			}
		}
	}
	return errs
}

// validateParagraphs checks paragraph elements for common issues.
func validateParagraphs(paragraphs []*Paragraph, prefix string) []string {
	var errs []string
	for i, para := range paragraphs {
		if para == nil {
			errs = append(errs, fmt.Sprintf("%s: paragraph %d is nil", prefix, i+1))
			continue
		}
		for k, elem := range para.elements {
			if elem == nil {
				errs = append(errs, fmt.Sprintf("%s: paragraph %d element %d is nil", prefix, i+1, k+1))
				continue
			}
			if tr, ok := elem.(*TextRun); ok && tr.font == nil {
				errs = append(errs, fmt.Sprintf("%s: paragraph %d text run %d has nil font", prefix, i+1, k+1))
			}
		}
	}
	return errs
}

// isValidImageMime checks if a MIME type is a format viewers accept.
func isValidImageMime(mime string) bool {
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/bmp", "image/svg+xml":
		return true
	}
	return false
}
