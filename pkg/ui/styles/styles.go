// Package styles holds the lipgloss styles used by cfgswap's terminal
// output. Styles are declared by semantic name in an embedded YAML file
// and use adaptive colors so they read well on light and dark terminals.
package styles

import (
	_ "embed"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color as written in YAML.
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a single style as written in YAML.
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Config is the whole styles document.
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

var registry map[string]lipgloss.Style

func init() {
	if err := Reset(); err != nil {
		registry = map[string]lipgloss.Style{}
	}
}

// Reset reloads the embedded styles.
func Reset() error {
	return LoadFromData(embeddedStyles)
}

// LoadFromData replaces the registry with the styles declared in data.
func LoadFromData(data []byte) error {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	next := make(map[string]lipgloss.Style, len(cfg.Styles))
	for name, def := range cfg.Styles {
		next[name] = build(def, colors)
	}
	registry = next
	return nil
}

func build(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle().
		Bold(def.Bold).
		Italic(def.Italic).
		Underline(def.Underline)
	if c, ok := colors[def.Foreground]; ok {
		style = style.Foreground(c)
	}
	if c, ok := colors[def.Background]; ok {
		style = style.Background(c)
	}
	return style
}

// Get returns the named style, or a plain style if none is registered.
func Get(name string) lipgloss.Style {
	if style, ok := registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Has reports whether name is registered.
func Has(name string) bool {
	_, ok := registry[name]
	return ok
}

// Render is shorthand for Get(name).Render(s).
func Render(name, s string) string {
	return Get(name).Render(s)
}
