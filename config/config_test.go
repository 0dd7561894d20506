package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VantageDataChat/GoDeck/model"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []int{22, 20, 18, 16, 14}, cfg.TextFit.FontCandidates)
	assert.Equal(t, 92, cfg.TextFit.CharsPerLine[22])
	assert.Equal(t, Region{MaxLines: 6, Width: 0.5}, cfg.TextFit.Half)
	assert.Equal(t, 0.5, cfg.Contrast.Threshold)
	assert.Equal(t, model.MustParseRGB("#212121"), cfg.Contrast.Dark)
	assert.Len(t, cfg.Blueprint.RotationPool, 9)
	assert.Equal(t, []string{"academic", "corporate", "minimal", "startup"}, cfg.SchemeNames())
}

func TestSchemeReferenceValues(t *testing.T) {
	cfg := Default()
	cases := map[string][4]string{
		"corporate": {"003366", "0066CC", "FF9900", "333333"},
		"academic":  {"333333", "666666", "0066CC", "000000"},
		"startup":   {"8A2BE2", "BA55D3", "FFD700", "212121"},
		"minimal":   {"000000", "808080", "000000", "000000"},
	}
	for name, want := range cases {
		s := cfg.Scheme(name)
		assert.Equal(t, name, s.Name)
		assert.Equal(t, want, [4]string{s.Primary.Hex(), s.Secondary.Hex(), s.Accent.Hex(), s.Text.Hex()}, name)
		assert.Equal(t, model.White, s.Background, name)
	}
}

func TestSchemeFallback(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "corporate", cfg.Scheme("neon").Name)
	assert.Equal(t, "corporate", cfg.Scheme("").Name)
	assert.Equal(t, "startup", cfg.Scheme(" Startup ").Name)
	assert.Equal(t, 10, cfg.MaxWords("startup"))
	assert.Equal(t, 0, cfg.MaxWords("neon"))
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 8
fetch_timeout: 2s
schemes:
  ocean:
    primary: "#004466"
    secondary: "#0088AA"
    accent: "#FFCC00"
    text: "#102030"
    background: "#F0F8FF"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "ocean", cfg.Scheme("ocean").Name)
	assert.Equal(t, "corporate", cfg.Scheme("corporate").Name, "default schemes survive the overlay")
	assert.Equal(t, []int{22, 20, 18, 16, 14}, cfg.TextFit.FontCandidates)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 0
text_fit:
  font_candidates: [14, 18]
contrast:
  threshold: 1.5
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
	assert.Contains(t, err.Error(), "strictly descending")
	assert.Contains(t, err.Error(), "contrast.threshold")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
}
