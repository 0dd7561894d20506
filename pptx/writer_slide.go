package pptx

import (
	"archive/zip"
	"fmt"
	"strings"
)

// slideXMLWriter renders one slide. Shape ids are allocated in z-order and
// image/chart references come from the package plan.
type slideXMLWriter struct {
	relIDs  map[Shape]string
	shapeID int
}

func (w *PPTXWriter) writeSlide(zw *zip.Writer, sp *slidePlan) error {
	return writeRawXMLToZip(zw, sp.name, renderSlideXML(sp))
}

func renderSlideXML(sp *slidePlan) string {
	sw := &slideXMLWriter{relIDs: sp.relIDs, shapeID: 2} // 1 is the root group
	slide := sp.slide

	var shapesXML strings.Builder
	for _, shape := range slide.shapes {
		shapesXML.WriteString(sw.shapeXML(shape))
	}

	bgXML := ""
	if slide.background != nil && slide.background.Type != FillNone {
		bgXML = "    <p:bg>\n      <p:bgPr>\n"
		bgXML += writeFillXML(slide.background)
		bgXML += "        <a:effectLst/>\n      </p:bgPr>\n    </p:bg>\n"
	}

	nameAttr := ""
	if slide.name != "" {
		nameAttr = fmt.Sprintf(` name="%s"`, xmlEscape(slide.name))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld%s>
%s    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, nameAttr, bgXML, shapesXML.String())
}

func (sw *slideXMLWriter) nextID() int {
	id := sw.shapeID
	sw.shapeID++
	return id
}

func (sw *slideXMLWriter) shapeXML(shape Shape) string {
	switch s := shape.(type) {
	case *PlaceholderShape:
		return sw.placeholderXML(s)
	case *RichTextShape:
		return sw.richTextXML(s)
	case *DrawingShape:
		return sw.drawingXML(s)
	case *TableShape:
		return sw.tableXML(s)
	case *AutoShape:
		return sw.autoShapeXML(s)
	case *LineShape:
		return sw.lineXML(s)
	case *ChartShape:
		return sw.chartFrameXML(s)
	case *GroupShape:
		return sw.groupXML(s)
	}
	return ""
}

func shapeName(name, kind string, id int) string {
	if name == "" {
		name = fmt.Sprintf("%s %d", kind, id)
	}
	return xmlEscape(name)
}

func descrAttr(d string) string {
	if d == "" {
		return ""
	}
	return fmt.Sprintf(` descr="%s"`, xmlEscape(d))
}

// --- Rich Text Shape XML ---

func (sw *slideXMLWriter) richTextXML(s *RichTextShape) string {
	id := sw.nextID()

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(writeParagraphXML(para))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"%s/>
          <p:cNvSpPr txBox="1"/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
%s%s        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="%s" rtlCol="0"%s/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, shapeName(s.name, "TextBox", id), descrAttr(s.description),
		s.offsetX, s.offsetY, s.width, s.height,
		writeFillXML(s.fill), writeBorderXML(s.border),
		boolToWrap(s.wordWrap), textAnchorAttr(s.textAnchor),
		paragraphsXML.String())
}

func boolToWrap(wrap bool) string {
	if wrap {
		return "square"
	}
	return "none"
}

// textAnchorAttr returns the anchor attribute string for <a:bodyPr>.
func textAnchorAttr(anchor TextAnchorType) string {
	if anchor == TextAnchorNone {
		return ""
	}
	return fmt.Sprintf(` anchor="%s"`, string(anchor))
}

func writeParagraphXML(para *Paragraph) string {
	attrs := ""
	if align := para.alignment; align != nil {
		if align.Horizontal != "" {
			attrs = fmt.Sprintf(` algn="%s"`, align.Horizontal)
		}
		if align.MarginLeft != 0 {
			attrs += fmt.Sprintf(` marL="%d"`, align.MarginLeft)
		}
		if align.Indent != 0 {
			attrs += fmt.Sprintf(` indent="%d"`, align.Indent)
		}
	}

	var elementsXML strings.Builder
	for _, elem := range para.elements {
		switch e := elem.(type) {
		case *TextRun:
			elementsXML.WriteString(writeTextRunXML(e))
		case *BreakElement:
			elementsXML.WriteString("            <a:br/>\n")
		}
	}

	spacing := ""
	if para.lineSpacing < 0 {
		spacing = fmt.Sprintf(`
              <a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, -para.lineSpacing)
	} else if para.lineSpacing > 0 {
		spacing = fmt.Sprintf(`
              <a:lnSpc><a:spcPts val="%d"/></a:lnSpc>`, para.lineSpacing)
	}
	if para.spaceBefore > 0 {
		spacing += fmt.Sprintf(`
              <a:spcBef><a:spcPts val="%d"/></a:spcBef>`, para.spaceBefore)
	}
	if para.spaceAfter > 0 {
		spacing += fmt.Sprintf(`
              <a:spcAft><a:spcPts val="%d"/></a:spcAft>`, para.spaceAfter)
	}

	bulletXML := ""
	if para.bullet != nil {
		bulletXML = writeBulletXML(para.bullet)
	}

	return fmt.Sprintf(`          <a:p>
            <a:pPr%s>%s%s
            </a:pPr>
%s          </a:p>
`, attrs, spacing, bulletXML, elementsXML.String())
}

func writeTextRunXML(tr *TextRun) string {
	font := tr.font
	if font == nil {
		font = NewFont()
	}
	attrs := fmt.Sprintf(` lang="en-US" sz="%d" dirty="0"`, font.Size*100)
	if font.Bold {
		attrs += ` b="1"`
	}
	if font.Italic {
		attrs += ` i="1"`
	}

	solidFill := ""
	if font.Color.ARGB != "" {
		solidFill = fmt.Sprintf(`
                <a:solidFill>%s</a:solidFill>`, srgbClrXML(font.Color))
	}

	latin := ""
	if font.Name != "" {
		latin = fmt.Sprintf(`
                <a:latin typeface="%s"/>`, xmlEscape(font.Name))
	}

	return fmt.Sprintf(`            <a:r>
              <a:rPr%s>%s%s
              </a:rPr>
              <a:t>%s</a:t>
            </a:r>
`, attrs, solidFill, latin, xmlEscape(tr.text))
}

// --- Drawing Shape XML ---

func (sw *slideXMLWriter) drawingXML(s *DrawingShape) string {
	id := sw.nextID()

	return fmt.Sprintf(`      <p:pic>
        <p:nvPicPr>
          <p:cNvPr id="%d" name="%s" descr="%s"/>
          <p:cNvPicPr>
            <a:picLocks noChangeAspect="1"/>
          </p:cNvPicPr>
          <p:nvPr/>
        </p:nvPicPr>
        <p:blipFill>
          <a:blip r:embed="%s"/>
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
%s        </p:spPr>
      </p:pic>
`, id, shapeName(s.name, "Picture", id), xmlEscape(s.description),
		sw.relIDs[s],
		s.offsetX, s.offsetY, s.width, s.height,
		writeBorderXML(s.border))
}

// --- Auto Shape XML ---

func (sw *slideXMLWriter) autoShapeXML(s *AutoShape) string {
	id := sw.nextID()

	textXML := ""
	if len(s.paragraphs) > 0 {
		var paragraphsXML strings.Builder
		for _, para := range s.paragraphs {
			paragraphsXML.WriteString(writeParagraphXML(para))
		}
		textXML = fmt.Sprintf(`
        <p:txBody>
          <a:bodyPr wrap="square" rtlCol="0"%s/>
          <a:lstStyle/>
%s        </p:txBody>`, textAnchorAttr(s.textAnchor), paragraphsXML.String())
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"%s/>
          <p:cNvSpPr/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="%s">
            <a:avLst/>
          </a:prstGeom>
%s%s        </p:spPr>%s
      </p:sp>
`, id, shapeName(s.name, "Shape", id), descrAttr(s.description),
		s.offsetX, s.offsetY, s.width, s.height,
		s.shapeType,
		writeFillXML(s.fill), writeBorderXML(s.border), textXML)
}

// --- Line Shape XML ---

func (sw *slideXMLWriter) lineXML(s *LineShape) string {
	id := sw.nextID()

	dashXML := ""
	if s.lineStyle == BorderDash {
		dashXML = "\n            <a:prstDash val=\"dash\"/>"
	}

	return fmt.Sprintf(`      <p:cxnSp>
        <p:nvCxnSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvCxnSpPr/>
          <p:nvPr/>
        </p:nvCxnSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="line">
            <a:avLst/>
          </a:prstGeom>
          <a:ln w="%d">
            <a:solidFill>
              %s
            </a:solidFill>%s
          </a:ln>
        </p:spPr>
      </p:cxnSp>
`, id, shapeName(s.name, "Line", id),
		s.offsetX, s.offsetY, s.width, s.height,
		Point(float64(s.lineWidth)),
		srgbClrXML(s.lineColor),
		dashXML)
}

// --- Table Shape XML ---

func (sw *slideXMLWriter) tableXML(s *TableShape) string {
	id := sw.nextID()

	colWidth := int64(0)
	if s.numCols > 0 {
		colWidth = s.width / int64(s.numCols)
	}
	var gridCols strings.Builder
	for i := 0; i < s.numCols; i++ {
		fmt.Fprintf(&gridCols, "                <a:gridCol w=\"%d\"/>\n", colWidth)
	}

	rowHeight := int64(0)
	if s.numRows > 0 {
		rowHeight = s.height / int64(s.numRows)
	}

	var rowsXML strings.Builder
	for i := 0; i < s.numRows; i++ {
		fmt.Fprintf(&rowsXML, "              <a:tr h=\"%d\">\n", rowHeight)
		for j := 0; j < s.numCols; j++ {
			cell := s.rows[i][j]
			cellFill := ""
			if cell.fill != nil && cell.fill.Type == FillSolid {
				cellFill = fmt.Sprintf(`
                  <a:solidFill>%s</a:solidFill>`, srgbClrXML(cell.fill.Color))
			}

			var cellText strings.Builder
			for _, para := range cell.paragraphs {
				cellText.WriteString(writeParagraphXML(para))
			}

			fmt.Fprintf(&rowsXML, `                <a:tc>
                <a:txBody>
                  <a:bodyPr/>
                  <a:lstStyle/>
%s                </a:txBody>
                <a:tcPr anchor="ctr">%s
                </a:tcPr>
              </a:tc>
`, cellText.String(), cellFill)
		}
		rowsXML.WriteString("              </a:tr>\n")
	}

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">
            <a:tbl>
              <a:tblPr firstRow="1" bandRow="1"/>
              <a:tblGrid>
%s              </a:tblGrid>
%s            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, id, shapeName(s.name, "Table", id),
		s.offsetX, s.offsetY, s.width, s.height,
		gridCols.String(), rowsXML.String())
}

// --- Chart frame XML ---

func (sw *slideXMLWriter) chartFrameXML(s *ChartShape) string {
	id := sw.nextID()

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="%s">
            <c:chart xmlns:c="%s" r:id="%s"/>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, id, shapeName(s.name, "Chart", id),
		s.offsetX, s.offsetY, s.width, s.height,
		nsChart, nsChart, sw.relIDs[s])
}

// --- Group Shape XML ---

func (sw *slideXMLWriter) groupXML(g *GroupShape) string {
	id := sw.nextID()

	var childXML strings.Builder
	for _, shape := range g.shapes {
		childXML.WriteString(sw.shapeXML(shape))
	}

	return fmt.Sprintf(`      <p:grpSp>
        <p:nvGrpSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvGrpSpPr/>
          <p:nvPr/>
        </p:nvGrpSpPr>
        <p:grpSpPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
            <a:chOff x="%d" y="%d"/>
            <a:chExt cx="%d" cy="%d"/>
          </a:xfrm>
        </p:grpSpPr>
%s      </p:grpSp>
`, id, shapeName(g.name, "Group", id),
		g.offsetX, g.offsetY, g.width, g.height,
		g.offsetX, g.offsetY, g.width, g.height,
		childXML.String())
}

// --- Placeholder Shape XML ---

func (sw *slideXMLWriter) placeholderXML(s *PlaceholderShape) string {
	id := sw.nextID()

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(writeParagraphXML(para))
	}

	idxAttr := ""
	if s.phIdx > 0 {
		idxAttr = fmt.Sprintf(` idx="%d"`, s.phIdx)
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>
            <p:ph type="%s"%s/>
          </p:nvPr>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
%s        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="square"%s>
            <a:normAutofit/>
          </a:bodyPr>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, shapeName(s.name, "Title", id),
		s.phType, idxAttr,
		s.offsetX, s.offsetY, s.width, s.height,
		writeFillXML(s.fill),
		textAnchorAttr(s.textAnchor),
		paragraphsXML.String())
}

// --- Fill, Border and Bullet helpers ---

func writeFillXML(f *Fill) string {
	if f == nil || f.Type != FillSolid {
		return ""
	}
	return fmt.Sprintf("          <a:solidFill>%s</a:solidFill>\n", srgbClrXML(f.Color))
}

func writeBorderXML(b *Border) string {
	if b == nil || b.Style == BorderNone || b.Style == "" {
		return ""
	}
	dashXML := ""
	if b.Style == BorderDash {
		dashXML = "<a:prstDash val=\"dash\"/>"
	}
	return fmt.Sprintf("          <a:ln w=\"%d\"><a:solidFill>%s</a:solidFill>%s</a:ln>\n",
		b.Width, srgbClrXML(b.Color), dashXML)
}

func writeBulletXML(b *Bullet) string {
	if b.Type == BulletTypeNone {
		return "\n              <a:buNone/>"
	}

	var sb strings.Builder
	if b.Color != nil {
		fmt.Fprintf(&sb, "\n              <a:buClr>%s</a:buClr>", srgbClrXML(*b.Color))
	}
	if b.Size > 0 && b.Size != 100 {
		fmt.Fprintf(&sb, "\n              <a:buSzPct val=\"%d000\"/>", b.Size)
	}
	if b.Font != "" {
		fmt.Fprintf(&sb, "\n              <a:buFont typeface=\"%s\"/>", xmlEscape(b.Font))
	}
	fmt.Fprintf(&sb, "\n              <a:buChar char=\"%s\"/>", xmlEscape(b.Char))
	return sb.String()
}
