package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// XML namespace constants
const (
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsChart          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDCTerms        = "http://purl.org/dc/terms/"
	nsDC             = "http://purl.org/dc/elements/1.1/"
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypePresProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relTypeViewProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTypeTableStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeChart       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
	ctChart        = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
)

func writeXMLToZip(zw *zip.Writer, path string, v interface{}) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", path, err)
	}
	if _, err := fw.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(fw)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

func writeRawXMLToZip(zw *zip.Writer, path string, content string) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", path, err)
	}
	_, err = fw.Write([]byte(content))
	return err
}

// --- Content Types ---

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func (w *PPTXWriter) writeContentTypes(zw *zip.Writer, plan *packagePlan) error {
	ct := xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
	}

	exts := make([]string, 0, len(plan.extensions))
	for ext := range plan.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		ct.Defaults = append(ct.Defaults, xmlDefault{Extension: ext, ContentType: plan.extensions[ext]})
	}

	names := make([]string, 0, len(plan.parts))
	for name, contentType := range plan.parts {
		if contentType != "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return partLess(names[i], names[j]) })
	for _, name := range names {
		ct.Overrides = append(ct.Overrides, xmlOverride{PartName: "/" + name, ContentType: plan.parts[name]})
	}

	return writeXMLToZip(zw, "[Content_Types].xml", ct)
}

// partLess orders part names so that numbered parts sort numerically
// (slide2 before slide10).
func partLess(a, b string) bool {
	if len(a) != len(b) && strings.TrimRight(a, "0123456789.xml") == strings.TrimRight(b, "0123456789.xml") {
		return len(a) < len(b)
	}
	return a < b
}

// --- Relationships ---

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

func writeRelsPart(zw *zip.Writer, name string, rels []relationship) error {
	out := xmlRelationships{Xmlns: nsRelationships}
	for _, r := range rels {
		out.Relationships = append(out.Relationships, xmlRelationship{ID: r.ID, Type: r.Type, Target: r.Target})
	}
	return writeXMLToZip(zw, name, out)
}

// --- Document properties ---

func (w *PPTXWriter) writeAppProperties(zw *zip.Writer, plan *packagePlan) error {
	props := w.presentation.properties
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="%s" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
  <Application>GoDeck</Application>
  <PresentationFormat>%s</PresentationFormat>
  <Slides>%d</Slides>
  <Company>%s</Company>
  <AppVersion>%s</AppVersion>
</Properties>`, nsExtProperties, xmlEscape(presentationFormat(w.presentation.layout)),
		len(plan.slides), xmlEscape(props.Company), appVersion())
	return writeRawXMLToZip(zw, partAppProps, content)
}

func presentationFormat(dl *DocumentLayout) string {
	switch dl.Name {
	case LayoutScreen4x3:
		return "On-screen Show (4:3)"
	case LayoutScreen16x9:
		return "Widescreen"
	default:
		return "Custom"
	}
}

func (w *PPTXWriter) writeCoreProperties(zw *zip.Writer, _ *packagePlan) error {
	props := w.presentation.properties
	identifier := ""
	if props.Identifier != "" {
		identifier = fmt.Sprintf("\n  <dc:identifier>%s</dc:identifier>", xmlEscape(props.Identifier))
	}
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s">
  <dc:title>%s</dc:title>
  <dc:subject>%s</dc:subject>
  <dc:creator>%s</dc:creator>
  <cp:keywords>%s</cp:keywords>
  <dc:description>%s</dc:description>%s
  <cp:lastModifiedBy>%s</cp:lastModifiedBy>
  <cp:revision>%s</cp:revision>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`,
		nsCoreProperties, nsDC, nsDCTerms, nsXSI,
		xmlEscape(props.Title),
		xmlEscape(props.Subject),
		xmlEscape(props.Creator),
		xmlEscape(props.Keywords),
		xmlEscape(props.Description),
		identifier,
		xmlEscape(props.LastModifiedBy),
		xmlEscape(props.Revision),
		props.Created.UTC().Format("2006-01-02T15:04:05Z"),
		props.Modified.UTC().Format("2006-01-02T15:04:05Z"),
	)
	return writeRawXMLToZip(zw, partCoreProps, content)
}

// --- Presentation ---

// Slide ids start at 256; master and layout ids live above 2^31.
const (
	firstSlideID  = 256
	slideMasterID = 2147483648
	slideLayoutID = 2147483649
)

func (w *PPTXWriter) writePresentation(zw *zip.Writer, plan *packagePlan) error {
	var sldIDs strings.Builder
	slideRel := 0
	for _, r := range plan.presRels {
		if r.Type != relTypeSlide {
			continue
		}
		fmt.Fprintf(&sldIDs, "\n    <p:sldId id=\"%d\" r:id=\"%s\"/>", firstSlideID+slideRel, r.ID)
		slideRel++
	}
	sldIDLst := ""
	if sldIDs.Len() > 0 {
		sldIDLst = "\n  <p:sldIdLst>" + sldIDs.String() + "\n  </p:sldIdLst>"
	}

	layout := w.presentation.layout
	typeAttr := ""
	if t := layout.sizeType(); t != "" {
		typeAttr = fmt.Sprintf(` type="%s"`, t)
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">
  <p:sldMasterIdLst>
    <p:sldMasterId id="%d" r:id="%s"/>
  </p:sldMasterIdLst>%s
  <p:sldSz cx="%d" cy="%d"%s/>
  <p:notesSz cx="%d" cy="%d"/>
  <p:defaultTextStyle>
    <a:defPPr>
      <a:defRPr lang="en-US"/>
    </a:defPPr>
  </p:defaultTextStyle>
</p:presentation>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		slideMasterID, plan.presRels[0].ID, sldIDLst,
		layout.CX, layout.CY, typeAttr,
		layout.CY, layout.CX)
	return writeRawXMLToZip(zw, partPresentation, content)
}

func (w *PPTXWriter) writePresProps(zw *zip.Writer, _ *packagePlan) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentationPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"/>`, nsDrawingML, nsOfficeDocRels, nsPresentationML)
	return writeRawXMLToZip(zw, partPresProps, content)
}

func (w *PPTXWriter) writeViewProps(zw *zip.Writer, _ *packagePlan) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:viewPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:slideViewPr>
    <p:cSldViewPr>
      <p:cViewPr>
        <p:scale>
          <a:sx n="100" d="100"/>
          <a:sy n="100" d="100"/>
        </p:scale>
        <p:origin x="0" y="0"/>
      </p:cViewPr>
    </p:cSldViewPr>
  </p:slideViewPr>
  <p:gridSpacing cx="76200" cy="76200"/>
</p:viewPr>`, nsDrawingML, nsOfficeDocRels, nsPresentationML)
	return writeRawXMLToZip(zw, partViewProps, content)
}

func (w *PPTXWriter) writeTableStyles(zw *zip.Writer, _ *packagePlan) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:tblStyleLst xmlns:a="%s" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`, nsDrawingML)
	return writeRawXMLToZip(zw, partTableStyles, content)
}

// xmlEscape escapes special XML characters using the standard library.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

// colorRGB safely extracts the 6-character RGB portion from an 8-character ARGB string.
// Returns "000000" if the input is invalid.
func colorRGB(c Color) string {
	if len(c.ARGB) >= 8 {
		return c.ARGB[2:]
	}
	if len(c.ARGB) == 6 {
		return c.ARGB
	}
	return "000000"
}

// srgbClrXML writes an a:srgbClr element, adding an a:alpha child when the
// color is translucent.
func srgbClrXML(c Color) string {
	alpha := c.GetAlpha()
	if len(c.ARGB) != 8 || alpha == 0xFF {
		return fmt.Sprintf(`<a:srgbClr val="%s"/>`, colorRGB(c))
	}
	return fmt.Sprintf(`<a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr>`,
		colorRGB(c), int(alpha)*100000/255)
}
