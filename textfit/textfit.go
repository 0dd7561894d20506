// Package textfit estimates how much text fits a slide region and picks font
// sizes, column splits and truncations so that body text never overflows.
// Every method is a pure function of its inputs and the configuration.
package textfit

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/model"
)

// Region is a text area's line capacity and relative width.
type Region = config.Region

// Estimator is built once per configuration and is safe for concurrent use.
type Estimator struct {
	cfg   config.TextFit
	sizes []int // chars-per-line table keys, ascending
}

// New creates an Estimator from cfg.
func New(cfg config.TextFit) *Estimator {
	sizes := lo.Keys(cfg.CharsPerLine)
	sort.Ints(sizes)
	return &Estimator{cfg: cfg, sizes: sizes}
}

// Full returns the single-column region.
func (e *Estimator) Full() Region { return e.cfg.Full }

// Half returns the region of one column of a two-column split.
func (e *Estimator) Half() Region { return e.cfg.Half }

// MinSize returns the smallest font candidate.
func (e *Estimator) MinSize() int {
	return lo.Min(e.cfg.FontCandidates)
}

// Width returns the display width of text: East Asian wide and fullwidth
// runes count as two columns, control characters as none.
func Width(text string) int {
	w := 0
	for _, r := range norm.NFC.String(text) {
		switch {
		case unicode.IsControl(r):
		case isWide(r):
			w += 2
		default:
			w++
		}
	}
	return w
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// CharsPerLine returns the characters per full-width line at size,
// interpolating linearly between table entries and clamping at the ends.
func (e *Estimator) CharsPerLine(size int) float64 {
	if len(e.sizes) == 0 {
		return 1
	}
	lowest, highest := e.sizes[0], e.sizes[len(e.sizes)-1]
	switch {
	case size <= lowest:
		return float64(e.cfg.CharsPerLine[lowest])
	case size >= highest:
		return float64(e.cfg.CharsPerLine[highest])
	}
	i := sort.SearchInts(e.sizes, size)
	hi := e.sizes[i]
	if hi == size {
		return float64(e.cfg.CharsPerLine[hi])
	}
	lo := e.sizes[i-1]
	cLo, cHi := float64(e.cfg.CharsPerLine[lo]), float64(e.cfg.CharsPerLine[hi])
	return cLo + (cHi-cLo)*float64(size-lo)/float64(hi-lo)
}

// EstimateLines returns the wrapped line count of text at size in region r.
// Empty text occupies one line.
func (e *Estimator) EstimateLines(text string, size int, r Region) int {
	w := Width(text)
	if w == 0 {
		return 1
	}
	cpl := e.CharsPerLine(size) * r.Width
	if cpl < 1 {
		cpl = 1
	}
	return int(math.Ceil(float64(w) / cpl))
}

// TotalLines sums the lines of every item plus the inter-item spacing.
func (e *Estimator) TotalLines(items []string, size int, r Region) float64 {
	lines := lo.SumBy(items, func(item string) int { return e.EstimateLines(item, size, r) })
	return float64(lines) + e.cfg.ItemSpacing*float64(len(items))
}

// ChooseFontSize returns the first candidate at which items fit r, or the
// smallest candidate when none does.
func (e *Estimator) ChooseFontSize(items []string, r Region) int {
	for _, size := range e.cfg.FontCandidates {
		if e.TotalLines(items, size, r) <= float64(r.MaxLines) {
			return size
		}
	}
	return e.MinSize()
}

// ShouldSplit reports whether items belong in two columns.
func (e *Estimator) ShouldSplit(items []string) bool {
	if len(items) == 0 {
		return false
	}
	total := lo.SumBy(items, Width)
	avg := float64(total) / float64(len(items))
	return len(items) > e.cfg.SplitMaxItems || avg > e.cfg.SplitAvgWidth || total > e.cfg.SplitTotalWidth
}

// Split divides items into two columns; the first takes the larger half.
func Split(items []string) ([]string, []string) {
	mid := (len(items) + 1) / 2
	return items[:mid], items[mid:]
}

// Fit is the outcome of fitting a bullet list.
type Fit struct {
	Size      int
	Columns   [][]string
	Split     bool
	Truncated bool
	// Overflow is set when the smallest size still overflowed and the text
	// had to be truncated.
	Overflow *model.OverflowError
}

// FitBullets chooses size, columns and, as a last resort, truncation.
func (e *Estimator) FitBullets(items []string) Fit {
	return e.fit(items, e.ShouldSplit(items))
}

// FitSplit is FitBullets with the two-column split forced whenever there is
// more than one item.
func (e *Estimator) FitSplit(items []string) Fit {
	return e.fit(items, len(items) > 1)
}

func (e *Estimator) fit(items []string, split bool) Fit {
	region := e.cfg.Full
	fit := Fit{Columns: [][]string{items}}
	if split {
		left, right := Split(items)
		region = e.cfg.Half
		fit.Split = true
		fit.Columns = [][]string{left, right}
	}

	fit.Size = lo.Min(lo.Map(fit.Columns, func(col []string, _ int) int {
		return e.ChooseFontSize(col, region)
	}))
	e.truncate(&fit, region)
	return fit
}

// FitColumn fits items into a single column of region r, which may be
// narrower than a split half.
func (e *Estimator) FitColumn(items []string, r Region) Fit {
	fit := Fit{Size: e.ChooseFontSize(items, r), Columns: [][]string{items}}
	e.truncate(&fit, r)
	return fit
}

// truncate shortens every column that still overflows region at fit.Size.
func (e *Estimator) truncate(fit *Fit, region Region) {
	for i, col := range fit.Columns {
		lines := e.TotalLines(col, fit.Size, region)
		if lines <= float64(region.MaxLines) {
			continue
		}
		if fit.Overflow == nil || lines > fit.Overflow.Lines {
			fit.Overflow = &model.OverflowError{Lines: lines, MaxLines: region.MaxLines}
		}
		truncated, changed := e.truncateColumn(col, fit.Size, region)
		fit.Columns[i] = truncated
		fit.Truncated = fit.Truncated || changed
	}
}

// truncateColumn shrinks every item proportionally until the column fits or
// no item can lose another word or rune.
func (e *Estimator) truncateColumn(items []string, size int, r Region) ([]string, bool) {
	out := append([]string(nil), items...)
	changed := false
	for {
		lines := e.TotalLines(out, size, r)
		if lines <= float64(r.MaxLines) {
			break
		}
		ratio := float64(r.MaxLines) / lines
		shrunk := false
		for i, item := range out {
			if next, ok := e.shrink(item, ratio); ok {
				out[i] = next
				shrunk = true
			}
		}
		if !shrunk {
			break
		}
		changed = true
	}
	return out, changed
}

// shrink keeps max(1, floor(words*ratio)) words of text, or the same share of
// runes when text is a single word.
func (e *Estimator) shrink(text string, ratio float64) (string, bool) {
	body := strings.TrimSuffix(text, e.cfg.Ellipsis)
	words := strings.Fields(body)
	if len(words) > 1 {
		keep := max(1, int(math.Floor(float64(len(words))*ratio)))
		if keep >= len(words) {
			keep = len(words) - 1
		}
		return strings.Join(words[:keep], " ") + e.cfg.Ellipsis, true
	}
	runes := []rune(strings.TrimSpace(body))
	keep := max(1, int(math.Floor(float64(len(runes))*ratio)))
	if keep >= len(runes) {
		return text, false
	}
	return string(runes[:keep]) + e.cfg.Ellipsis, true
}

// ParagraphFit is the outcome of fitting a paragraph.
type ParagraphFit struct {
	Size      int
	Text      string
	Truncated bool
	Overflow  *model.OverflowError
}

// FitParagraph picks the largest candidate at which text fits r. When even
// the smallest overflows, lines are estimated at the base size and the text
// keeps max(1, floor(words*max/lines)) words.
func (e *Estimator) FitParagraph(text string, r Region) ParagraphFit {
	if size, ok := e.paragraphSize(text, r); ok {
		return ParagraphFit{Size: size, Text: text}
	}

	lines := e.EstimateLines(text, e.cfg.ParagraphBaseSize, r)
	fit := ParagraphFit{
		Text:      text,
		Truncated: true,
		Overflow:  &model.OverflowError{Lines: float64(lines), MaxLines: r.MaxLines},
	}
	if lines > r.MaxLines {
		if next, ok := e.shrink(text, float64(r.MaxLines)/float64(lines)); ok {
			fit.Text = next
		}
	}
	for {
		if size, ok := e.paragraphSize(fit.Text, r); ok {
			fit.Size = size
			return fit
		}
		lines := e.EstimateLines(fit.Text, e.MinSize(), r)
		next, ok := e.shrink(fit.Text, float64(r.MaxLines)/float64(lines))
		if !ok {
			fit.Size = e.MinSize()
			return fit
		}
		fit.Text = next
	}
}

func (e *Estimator) paragraphSize(text string, r Region) (int, bool) {
	for _, size := range e.cfg.FontCandidates {
		if e.EstimateLines(text, size, r) <= r.MaxLines {
			return size, true
		}
	}
	return 0, false
}

// Truncate shortens text to at most maxWidth display columns, ending in the
// configured ellipsis. It never splits a rune.
func (e *Estimator) Truncate(text string, maxWidth int) string {
	if Width(text) <= maxWidth {
		return text
	}
	budget := maxWidth - Width(e.cfg.Ellipsis)
	var sb strings.Builder
	used := 0
	for _, r := range norm.NFC.String(text) {
		w := Width(string(r))
		if used+w > budget {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	return strings.TrimRightFunc(sb.String(), unicode.IsSpace) + e.cfg.Ellipsis
}

// IsSparse reports whether a slide carries so little text that it reads as
// empty without a visual.
func (e *Estimator) IsSparse(bullets []string, paragraph string) bool {
	total := utf8.RuneCountInString(paragraph) + lo.SumBy(bullets, utf8.RuneCountInString)
	return total < e.cfg.SparseChars
}

// LimitWords keeps the first n words of item. n <= 0 means no limit.
func (e *Estimator) LimitWords(item string, n int) string {
	if n <= 0 {
		return item
	}
	words := strings.Fields(item)
	if len(words) <= n {
		return item
	}
	return strings.Join(words[:n], " ") + e.cfg.Ellipsis
}
