// Package config holds the immutable engine configuration. Defaults are
// embedded; Load overlays a user YAML file on top of them.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/VantageDataChat/GoDeck/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// FallbackScheme is used for unknown scheme names.
const FallbackScheme = "corporate"

// Config is passed by value or read-only pointer; nothing mutates it after Load.
type Config struct {
	Workers       int                          `yaml:"workers"`
	FetchTimeout  time.Duration                `yaml:"fetch_timeout"`
	MaxImageBytes int64                        `yaml:"max_image_bytes"`
	DefaultScheme string                       `yaml:"default_scheme"`
	Canvas        Canvas                       `yaml:"canvas"`
	SafeArea      Margins                      `yaml:"safe_area"`
	Blueprint     Blueprint                    `yaml:"blueprint"`
	TextFit       TextFit                      `yaml:"text_fit"`
	Contrast      Contrast                     `yaml:"contrast"`
	Compose       Compose                      `yaml:"compose"`
	Schemes       map[string]model.ColorScheme `yaml:"schemes"`
}

// Canvas is the default slide size in inches.
type Canvas struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Margins is the safe area inset in inches.
type Margins struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

type Blueprint struct {
	RotationPool []model.LayoutType `yaml:"rotation_pool"`
}

// Region bounds a text area: how many lines fit and what fraction of the
// full content width it spans.
type Region struct {
	MaxLines int     `yaml:"max_lines"`
	Width    float64 `yaml:"width"`
}

type TextFit struct {
	CharsPerLine      map[int]int    `yaml:"chars_per_line"`
	FontCandidates    []int          `yaml:"font_candidates"`
	Full              Region         `yaml:"full"`
	Half              Region         `yaml:"half"`
	ItemSpacing       float64        `yaml:"item_spacing"`
	SplitMaxItems     int            `yaml:"split_max_items"`
	SplitAvgWidth     float64        `yaml:"split_avg_width"`
	SplitTotalWidth   int            `yaml:"split_total_width"`
	ParagraphBaseSize int            `yaml:"paragraph_base_size"`
	SparseChars       int            `yaml:"sparse_chars"`
	Ellipsis          string         `yaml:"ellipsis"`
	MaxWordsPerBullet map[string]int `yaml:"max_words_per_bullet"`
}

type Contrast struct {
	Threshold     float64   `yaml:"threshold"`
	Light         model.RGB `yaml:"light"`
	Dark          model.RGB `yaml:"dark"`
	Fallback      model.RGB `yaml:"fallback"`
	MaxSampleEdge int       `yaml:"max_sample_edge"`
}

type Compose struct {
	FirstTitleSize    int     `yaml:"first_title_size"`
	TitleSize         int     `yaml:"title_size"`
	LongTitleSize     int     `yaml:"long_title_size"`
	LongTitleChars    int     `yaml:"long_title_chars"`
	LabelMaxChars     int     `yaml:"label_max_chars"`
	HeaderSize        int     `yaml:"header_size"`
	CellSize          int     `yaml:"cell_size"`
	TableRowHeight    float64 `yaml:"table_row_height"`
	HighlightWidth    int     `yaml:"highlight_width"`
	HighlightMax      int     `yaml:"highlight_max"`
	TimelineMaxEvents int     `yaml:"timeline_max_events"`
	QuoteGlyphSize    int     `yaml:"quote_glyph_size"`
	TitleOverlayAlpha float64 `yaml:"title_overlay_alpha"`
	BodyOverlayAlpha  float64 `yaml:"body_overlay_alpha"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := parse(defaultsYAML, &Config{})
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err = parse(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte, into *Config) (*Config, error) {
	if err := yaml.Unmarshal(data, into); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	for name, s := range into.Schemes {
		s.Name = name
		into.Schemes[name] = s
	}
	return into, nil
}

// Validate returns an error describing all problems found, or nil.
func (c *Config) Validate() error {
	var errs []string

	if c.Workers < 1 {
		errs = append(errs, "workers must be at least 1")
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, "fetch_timeout must be positive")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, "canvas dimensions must be positive")
	}
	if c.SafeArea.Left+c.SafeArea.Right >= c.Canvas.Width || c.SafeArea.Top+c.SafeArea.Bottom >= c.Canvas.Height {
		errs = append(errs, "safe_area leaves no room on the canvas")
	}
	if len(c.Blueprint.RotationPool) < 2 {
		errs = append(errs, "blueprint.rotation_pool needs at least 2 layouts")
	}
	if lo.Contains(c.Blueprint.RotationPool, model.LayoutUnknown) {
		errs = append(errs, "blueprint.rotation_pool contains an unknown layout")
	}

	tf := c.TextFit
	if len(tf.FontCandidates) == 0 {
		errs = append(errs, "text_fit.font_candidates is empty")
	}
	for i := 1; i < len(tf.FontCandidates); i++ {
		if tf.FontCandidates[i] >= tf.FontCandidates[i-1] {
			errs = append(errs, "text_fit.font_candidates must be strictly descending")
			break
		}
	}
	if len(tf.CharsPerLine) == 0 {
		errs = append(errs, "text_fit.chars_per_line is empty")
	}
	for size, cpl := range tf.CharsPerLine {
		if size <= 0 || cpl <= 0 {
			errs = append(errs, fmt.Sprintf("text_fit.chars_per_line entry %d: %d must be positive", size, cpl))
		}
	}
	for name, r := range map[string]Region{"full": tf.Full, "half": tf.Half} {
		if r.MaxLines <= 0 || r.Width <= 0 || r.Width > 1 {
			errs = append(errs, fmt.Sprintf("text_fit.%s needs max_lines > 0 and 0 < width <= 1", name))
		}
	}

	if c.Contrast.Threshold <= 0 || c.Contrast.Threshold >= 1 {
		errs = append(errs, "contrast.threshold must be between 0 and 1")
	}
	if c.Contrast.MaxSampleEdge < 16 {
		errs = append(errs, "contrast.max_sample_edge must be at least 16")
	}

	if _, ok := c.Schemes[FallbackScheme]; !ok {
		errs = append(errs, "schemes must define "+FallbackScheme)
	}
	if _, ok := c.Schemes[c.DefaultScheme]; !ok {
		errs = append(errs, fmt.Sprintf("default_scheme %q is not defined", c.DefaultScheme))
	}

	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
}

// Scheme resolves a scheme by name. Empty names use DefaultScheme; unknown
// names fall back to corporate with a warning.
func (c *Config) Scheme(name string) model.ColorScheme {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = c.DefaultScheme
	}
	if s, ok := c.Schemes[key]; ok {
		return s
	}
	logger.GetLogger("config").Warnf("unknown color scheme %q, using %s", name, FallbackScheme)
	return c.Schemes[FallbackScheme]
}

// SchemeNames returns the configured scheme names, sorted.
func (c *Config) SchemeNames() []string {
	names := lo.Keys(c.Schemes)
	sort.Strings(names)
	return names
}

// MaxWords returns the per-bullet word limit for a scheme, 0 for no limit.
func (c *Config) MaxWords(scheme string) int {
	return c.TextFit.MaxWordsPerBullet[scheme]
}
