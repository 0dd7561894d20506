package model

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentRole is the structural role of a slide within its section.
type ContentRole string

const (
	RoleTitle   ContentRole = "title"
	RoleOutline ContentRole = "outline"
	RoleDetail  ContentRole = "detail"
	RoleSummary ContentRole = "summary"
	RoleClosing ContentRole = "closing"
	RoleUnknown ContentRole = "unknown"
)

var contentRoles = []ContentRole{RoleTitle, RoleOutline, RoleDetail, RoleSummary, RoleClosing}

// ParseContentRole is case-insensitive; anything unrecognized is RoleUnknown.
func ParseContentRole(s string) ContentRole {
	key := normalizeEnum(s)
	for _, r := range contentRoles {
		if string(r) == key {
			return r
		}
	}
	return RoleUnknown
}

func (r *ContentRole) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*r = ParseContentRole(s)
	return nil
}

// LayoutType is the visual template requested for a slide.
type LayoutType string

const (
	LayoutTitle          LayoutType = "title"
	LayoutBulletPoints   LayoutType = "bullet_points"
	LayoutNarrative      LayoutType = "narrative"
	LayoutTwoColumn      LayoutType = "two_column"
	LayoutTable          LayoutType = "table"
	LayoutChart          LayoutType = "chart"
	LayoutImageContent   LayoutType = "image_content"
	LayoutComparison     LayoutType = "comparison"
	LayoutQuote          LayoutType = "quote"
	LayoutTimeline       LayoutType = "timeline"
	LayoutSectionDivider LayoutType = "section_divider"
	LayoutUnknown        LayoutType = "unknown"
)

var layoutTypes = []LayoutType{
	LayoutTitle, LayoutBulletPoints, LayoutNarrative, LayoutTwoColumn, LayoutTable, LayoutChart,
	LayoutImageContent, LayoutComparison, LayoutQuote, LayoutTimeline, LayoutSectionDivider,
}

// ParseLayoutType is case-insensitive and accepts "-" for "_". Anything
// unrecognized is LayoutUnknown.
func ParseLayoutType(s string) LayoutType {
	key := normalizeEnum(s)
	for _, l := range layoutTypes {
		if string(l) == key {
			return l
		}
	}
	return LayoutUnknown
}

func (l *LayoutType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*l = ParseLayoutType(s)
	return nil
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ChartKind selects the native chart drawn for ChartData.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// ParseChartKind defaults to ChartBar.
func ParseChartKind(s string) ChartKind {
	switch ChartKind(normalizeEnum(s)) {
	case ChartLine:
		return ChartLine
	case ChartPie:
		return ChartPie
	default:
		return ChartBar
	}
}

func (k *ChartKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*k = ParseChartKind(s)
	return nil
}

// DiagnosticKind classifies a per-slide degradation.
type DiagnosticKind string

const (
	DiagMediaFetch      DiagnosticKind = "media_fetch"
	DiagContentMismatch DiagnosticKind = "content_mismatch"
	DiagOverflow        DiagnosticKind = "overflow"
	DiagComposePanic    DiagnosticKind = "compose_panic"
)
