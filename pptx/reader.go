package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// PackageInfo summarizes a written package: canvas, document metadata and
// the slides in presentation order.
type PackageInfo struct {
	SlideWidth  int64
	SlideHeight int64
	Title       string
	Identifier  string
	Slides      []SlideInfo
	Parts       []string
}

// SlideInfo is the inspected content of one slide part.
type SlideInfo struct {
	Part     string
	Title    string
	Texts    []string // non-empty paragraph texts in document order
	Pictures int
	Charts   int
	Tables   int
}

// maxZipEntrySize is the maximum allowed size for a single file extracted from a ZIP.
// This prevents zip bomb attacks. 50 MB is generous for any legitimate PPTX part.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the cumulative limit for all extracted content from a single ZIP.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// OpenPackage inspects the package at path.
func OpenPackage(path string) (*PackageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return ReadPackage(f, info.Size())
}

// ReadPackage parses a package from r. Slides are returned in the order of
// the presentation's slide id list, not zip entry order.
func ReadPackage(r io.ReaderAt, size int64) (*PackageInfo, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	files := zipIndex(zr)
	info := &PackageInfo{}
	for name := range files {
		info.Parts = append(info.Parts, name)
	}
	sort.Strings(info.Parts)

	// Missing core properties are acceptable.
	if data, err := readFileFromZip(files, partCoreProps); err == nil {
		var core xmlCoreForRead
		if xml.Unmarshal(data, &core) == nil {
			info.Title = core.Title
			info.Identifier = core.Identifier
		}
	}

	data, err := readFileFromZip(files, partPresentation)
	if err != nil {
		return nil, err
	}
	var pres xmlPresentationForRead
	if err := xml.Unmarshal(data, &pres); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", partPresentation, err)
	}
	info.SlideWidth = pres.SldSz.CX
	info.SlideHeight = pres.SldSz.CY

	presRels, err := readRelationships(files, relsPartName(partPresentation))
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(presRels))
	for _, rel := range presRels {
		targets[rel.ID] = resolveTarget(partPresentation, rel.Target)
	}

	for _, id := range pres.SldIDs {
		target, ok := targets[id.RID]
		if !ok {
			return nil, fmt.Errorf("slide id %d references unknown relationship %s", id.ID, id.RID)
		}
		slideData, err := readFileFromZip(files, target)
		if err != nil {
			return nil, err
		}
		slide, err := inspectSlide(slideData)
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %s: %w", target, err)
		}
		slide.Part = target
		info.Slides = append(info.Slides, slide)
	}
	return info, nil
}

// zipIndex builds a map from file name to *zip.File for O(1) lookups.
func zipIndex(zr *zip.Reader) map[string]*zip.File {
	m := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		m[f.Name] = f
	}
	return m
}

func readFileFromZip(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("file not found in zip: %s", name)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", name, err)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", name)
	}
	return data, nil
}

// --- Relationship reading ---

type xmlRelForRead struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

func readRelationships(files map[string]*zip.File, name string) ([]xmlRelForRead, error) {
	data, err := readFileFromZip(files, name)
	if err != nil {
		return nil, err
	}
	var rels xmlRelsForRead
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", name, err)
	}
	return rels.Relationships, nil
}

type xmlPresentationForRead struct {
	SldIDs []xmlSldIDForRead `xml:"sldIdLst>sldId"`
	SldSz struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

// xmlSldIDForRead separates the unqualified id from r:id; both have the
// local name "id", so field tags alone cannot tell them apart.
type xmlSldIDForRead struct {
	ID  int64
	RID string
}

func (s *xmlSldIDForRead) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local != "id" {
			continue
		}
		switch a.Name.Space {
		case "":
			id, err := strconv.ParseInt(a.Value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid slide id %q: %w", a.Value, err)
			}
			s.ID = id
		case nsOfficeDocRels:
			s.RID = a.Value
		}
	}
	return d.Skip()
}

type xmlCoreForRead struct {
	Title      string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Identifier string `xml:"http://purl.org/dc/elements/1.1/ identifier"`
}

// inspectSlide walks a slide part's tokens collecting paragraph text and
// counting pictures, charts and tables.
func inspectSlide(data []byte) (SlideInfo, error) {
	var (
		info    SlideInfo
		para    strings.Builder
		inPara  bool
		inText  bool
		spDepth int
		isTitle bool
	)

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return info, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsPresentationML && t.Name.Local == "sp":
				spDepth++
				isTitle = false
			case t.Name.Space == nsPresentationML && t.Name.Local == "ph" && spDepth > 0:
				for _, a := range t.Attr {
					if a.Name.Local == "type" && (a.Value == string(PlaceholderTitle) || a.Value == string(PlaceholderCtrTitle)) {
						isTitle = true
					}
				}
			case t.Name.Space == nsPresentationML && t.Name.Local == "pic":
				info.Pictures++
			case t.Name.Space == nsChart && t.Name.Local == "chart":
				info.Charts++
			case t.Name.Space == nsDrawingML && t.Name.Local == "tbl":
				info.Tables++
			case t.Name.Space == nsDrawingML && t.Name.Local == "p":
				inPara = true
				para.Reset()
			case t.Name.Space == nsDrawingML && t.Name.Local == "t":
				inText = inPara
			case t.Name.Space == nsDrawingML && t.Name.Local == "br":
				if inPara {
					para.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch {
			case t.Name.Space == nsDrawingML && t.Name.Local == "t":
				inText = false
			case t.Name.Space == nsDrawingML && t.Name.Local == "p":
				inPara = false
				text := para.String()
				if strings.TrimSpace(text) == "" {
					continue
				}
				info.Texts = append(info.Texts, text)
				if isTitle && spDepth > 0 && info.Title == "" {
					info.Title = text
				}
			case t.Name.Space == nsPresentationML && t.Name.Local == "sp":
				spDepth--
				isTitle = false
			}
		}
	}
	return info, nil
}
