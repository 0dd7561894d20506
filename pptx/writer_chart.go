package pptx

import (
	"archive/zip"
	"fmt"
	"strings"
)

// getCategories returns the categories shared by all series.
func getCategories(series []*ChartSeries) []string {
	if len(series) == 0 {
		return nil
	}
	return series[0].Categories
}

func (w *PPTXWriter) writeChartPart(zw *zip.Writer, part chartPart) error {
	return writeRawXMLToZip(zw, part.name, renderChartXML(part.chart))
}

func renderChartXML(chart *ChartShape) string {
	ct := chart.plotArea.chartType
	categories := getCategories(ct.GetSeries())

	var chartTypeXML string
	switch c := ct.(type) {
	case *BarChart:
		chartTypeXML = writeBarChartXML(c, categories)
	case *LineChart:
		chartTypeXML = writeLineChartXML(c, categories)
	case *PieChart:
		chartTypeXML = writePieChartXML(c, categories)
	}

	titleXML := ""
	if chart.title.Visible && chart.title.Text != "" {
		titleXML = fmt.Sprintf(`    <c:title>
      <c:tx>
        <c:rich>
          <a:bodyPr/>
          <a:lstStyle/>
          <a:p>
            <a:r>
              <a:rPr lang="en-US" sz="%d" b="%s"/>
              <a:t>%s</a:t>
            </a:r>
          </a:p>
        </c:rich>
      </c:tx>
      <c:overlay val="0"/>
    </c:title>
    <c:autoTitleDeleted val="0"/>
`, chart.title.Font.Size*100, boolToXML(chart.title.Font.Bold), xmlEscape(chart.title.Text))
	} else {
		titleXML = "    <c:autoTitleDeleted val=\"1\"/>\n"
	}

	legendXML := ""
	if chart.legend.Visible {
		legendXML = fmt.Sprintf(`    <c:legend>
      <c:legendPos val="%s"/>
      <c:overlay val="0"/>
    </c:legend>
`, chart.legend.Position)
	}

	axisXML := ""
	if !isPieType(ct) {
		axisXML = writeAxesXML(chart)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<c:chartSpace xmlns:c="%s" xmlns:a="%s" xmlns:r="%s">
  <c:chart>
%s    <c:plotArea>
      <c:layout/>
%s%s    </c:plotArea>
%s    <c:plotVisOnly val="1"/>
    <c:dispBlanksAs val="gap"/>
  </c:chart>
</c:chartSpace>`,
		nsChart, nsDrawingML, nsOfficeDocRels,
		titleXML,
		chartTypeXML, axisXML,
		legendXML)
}

func boolToXML(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func isPieType(ct ChartType) bool {
	_, ok := ct.(*PieChart)
	return ok
}

func writeAxesXML(chart *ChartShape) string {
	axX := chart.plotArea.axisX
	axY := chart.plotArea.axisY

	catAxisXML := fmt.Sprintf(`      <c:catAx>
        <c:axId val="1"/>
        <c:scaling><c:orientation val="minMax"/></c:scaling>
        <c:delete val="%s"/>
        <c:axPos val="b"/>
`, boolToXML(!axX.Visible))
	if axX.MajorGridlines {
		catAxisXML += "        <c:majorGridlines/>\n"
	}
	if axX.Title != "" {
		catAxisXML += axisTitleXML(axX.Title)
	}
	catAxisXML += `        <c:tickLblPos val="nextTo"/>
        <c:crossAx val="2"/>
        <c:crosses val="autoZero"/>
      </c:catAx>
`

	valAxisXML := fmt.Sprintf(`      <c:valAx>
        <c:axId val="2"/>
        <c:scaling><c:orientation val="minMax"/></c:scaling>
        <c:delete val="%s"/>
        <c:axPos val="l"/>
`, boolToXML(!axY.Visible))
	if axY.MajorGridlines {
		valAxisXML += "        <c:majorGridlines/>\n"
	}
	if axY.Title != "" {
		valAxisXML += axisTitleXML(axY.Title)
	}
	valAxisXML += `        <c:tickLblPos val="nextTo"/>
        <c:crossAx val="1"/>
        <c:crosses val="autoZero"/>
      </c:valAx>
`
	return catAxisXML + valAxisXML
}

func axisTitleXML(title string) string {
	return fmt.Sprintf(`        <c:title><c:tx><c:rich><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p></c:rich></c:tx><c:overlay val="0"/></c:title>
`, xmlEscape(title))
}

func writeSeriesXML(series []*ChartSeries, categories []string, smooth bool) string {
	var sb strings.Builder
	for idx, s := range series {
		fmt.Fprintf(&sb, `        <c:ser>
          <c:idx val="%d"/>
          <c:order val="%d"/>
          <c:tx><c:strRef><c:f>Sheet1!$%s$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>
`, idx, idx, columnLetter(idx+1), xmlEscape(s.Title))

		if s.FillColor.ARGB != "" {
			fmt.Fprintf(&sb, "          <c:spPr><a:solidFill>%s</a:solidFill></c:spPr>\n", srgbClrXML(s.FillColor))
		}

		if s.ShowValue {
			sb.WriteString("          <c:dLbls>\n            <c:showLegendKey val=\"0\"/>\n            <c:showVal val=\"1\"/>\n            <c:showCatName val=\"0\"/>\n            <c:showSerName val=\"0\"/>\n            <c:showPercent val=\"0\"/>\n          </c:dLbls>\n")
		}

		if len(categories) > 0 {
			sb.WriteString("          <c:cat>\n            <c:strRef><c:f>Sheet1!$A$2</c:f><c:strCache>\n")
			fmt.Fprintf(&sb, "              <c:ptCount val=\"%d\"/>\n", len(categories))
			for i, cat := range categories {
				fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%s</c:v></c:pt>\n", i, xmlEscape(cat))
			}
			sb.WriteString("            </c:strCache></c:strRef>\n          </c:cat>\n")
		}

		fmt.Fprintf(&sb, "          <c:val>\n            <c:numRef><c:f>Sheet1!$%s$2</c:f><c:numCache>\n", columnLetter(idx+1))
		fmt.Fprintf(&sb, "              <c:formatCode>General</c:formatCode>\n              <c:ptCount val=\"%d\"/>\n", len(categories))
		for i := range categories {
			val := 0.0
			if i < len(s.Values) {
				val = s.Values[i]
			}
			fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%g</c:v></c:pt>\n", i, val)
		}
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:val>\n")

		if smooth {
			sb.WriteString("          <c:smooth val=\"0\"/>\n")
		}
		sb.WriteString("        </c:ser>\n")
	}
	return sb.String()
}

// columnLetter returns the spreadsheet column for a 0-based index (0 is A).
func columnLetter(i int) string {
	s := ""
	for i++; i > 0; i = (i - 1) / 26 {
		s = string(rune('A'+(i-1)%26)) + s
	}
	return s
}

func writeBarChartXML(c *BarChart, cats []string) string {
	overlap := ""
	if c.BarGrouping == BarGroupingStacked {
		overlap = "        <c:overlap val=\"100\"/>\n"
	}
	return fmt.Sprintf(`      <c:barChart>
        <c:barDir val="%s"/>
        <c:grouping val="%s"/>
        <c:varyColors val="0"/>
%s        <c:gapWidth val="%d"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:barChart>
`, c.BarDirection, c.BarGrouping, writeSeriesXML(c.Series, cats, false),
		c.GapWidthPercent, overlap)
}

func writeLineChartXML(c *LineChart, cats []string) string {
	return fmt.Sprintf(`      <c:lineChart>
        <c:grouping val="standard"/>
        <c:varyColors val="0"/>
%s        <c:marker val="1"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:lineChart>
`, writeSeriesXML(c.Series, cats, true))
}

func writePieChartXML(c *PieChart, cats []string) string {
	return fmt.Sprintf(`      <c:pieChart>
        <c:varyColors val="1"/>
%s        <c:firstSliceAng val="0"/>
      </c:pieChart>
`, writeSeriesXML(c.Series, cats, false))
}
