package model

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{0xFF, 0xFF, 0xFF}
	Black = RGB{0x00, 0x00, 0x00}
	Gray  = RGB{0x80, 0x80, 0x80}
)

// ParseRGB parses "#RRGGBB" or "RRGGBB".
func ParseRGB(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseRGB is ParseRGB for constants known to be valid.
func MustParseRGB(s string) RGB {
	c, err := ParseRGB(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string { return "#" + c.Hex() }

func (c *RGB) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRGB(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

func (c RGB) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// ColorScheme is a named palette. Contrast is the text color that reads on
// Background; it is derived, never configured.
type ColorScheme struct {
	Name       string `yaml:"name"`
	Primary    RGB    `yaml:"primary"`
	Secondary  RGB    `yaml:"secondary"`
	Accent     RGB    `yaml:"accent"`
	Text       RGB    `yaml:"text"`
	Background RGB    `yaml:"background"`
	Contrast   RGB    `yaml:"-"`
}
