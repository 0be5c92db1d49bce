package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultName is the preset used when a lookup misses.
const DefaultName = "Modern Blue"

// Color is an sRGB triple.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex returns the color as six upper-case hex digits, e.g. "0066CC".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex accepts "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Font is a family, a size in points and a color.
type Font struct {
	Family string
	Size   float64
	Color  Color
}

// Spec is a named bundle of visual attributes applied to every slide of a deck.
type Spec struct {
	Name       string
	Background Color
	Title      Font
	Body       Font
	// Accent colors bullets and body text.
	Accent Color
}

// Presets returns the built-in themes in display order.
func Presets() []Spec {
	return []Spec{
		{
			Name:       "Modern Blue",
			Background: RGB(0, 102, 204),
			Title:      Font{Family: "Calibri", Size: 44, Color: RGB(255, 255, 255)},
			Body:       Font{Family: "Calibri", Size: 24, Color: RGB(255, 255, 255)},
			Accent:     RGB(255, 215, 0),
		},
		{
			Name:       "Classic Dark",
			Background: RGB(34, 34, 34),
			Title:      Font{Family: "Times New Roman", Size: 44, Color: RGB(255, 255, 255)},
			Body:       Font{Family: "Times New Roman", Size: 24, Color: RGB(200, 200, 200)},
			Accent:     RGB(0, 255, 0),
		},
		{
			Name:       "Minimal White",
			Background: RGB(255, 255, 255),
			Title:      Font{Family: "Arial", Size: 44, Color: RGB(0, 0, 0)},
			Body:       Font{Family: "Arial", Size: 24, Color: RGB(51, 51, 51)},
			Accent:     RGB(0, 102, 204),
		},
	}
}

// Registry is an immutable name → Spec mapping with a designated default.
type Registry struct {
	specs    map[string]Spec
	order    []string
	fallback string
}

// NewRegistry builds a registry. Later specs replace earlier ones of the same name.
func NewRegistry(defaultName string, specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]Spec, len(specs)), fallback: defaultName}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("theme without name")
		}
		if _, ok := r.specs[s.Name]; !ok {
			r.order = append(r.order, s.Name)
		}
		r.specs[s.Name] = s
	}
	if _, ok := r.specs[defaultName]; !ok {
		return nil, fmt.Errorf("default theme %q not registered", defaultName)
	}
	return r, nil
}

// Builtin returns the registry holding the presets with DefaultName as default.
func Builtin() *Registry {
	r, err := NewRegistry(DefaultName, Presets()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the named spec, or the default spec when the name is unknown.
func (r *Registry) Lookup(name string) Spec {
	if s, ok := r.specs[name]; ok {
		return s
	}
	return r.specs[r.fallback]
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.specs[name]
	return ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Default() string {
	return r.fallback
}

// fileFont and fileSpec mirror the on-disk theme format:
//
//	{"name": "Forest", "background": "#0B3D20",
//	 "title_font": {"family": "Georgia", "size": 40, "color": "#FFFFFF"},
//	 "body_font": {"family": "Georgia", "size": 22, "color": "#E0E0E0"},
//	 "accent": "#A3D977"}
type fileFont struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Color  string  `json:"color"`
}

type fileSpec struct {
	Name       string   `json:"name"`
	Background string   `json:"background"`
	TitleFont  fileFont `json:"title_font"`
	BodyFont   fileFont `json:"body_font"`
	Accent     string   `json:"accent"`
}

// LoadDir reads every *.json theme file in dir, sorted by file name.
// A missing dir yields no themes.
func LoadDir(dir string) ([]Spec, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var specs []Spec
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("could not read theme file %s: %w", f, err)
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("theme file %s: %w", f, err)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Parse decodes a single theme file.
func Parse(data []byte) (Spec, error) {
	var fs fileSpec
	if err := json.Unmarshal(data, &fs); err != nil {
		return Spec{}, err
	}
	if fs.Name == "" {
		return Spec{}, fmt.Errorf("missing name")
	}
	var err error
	s := Spec{Name: fs.Name}
	if s.Background, err = ParseHex(fs.Background); err != nil {
		return Spec{}, fmt.Errorf("background: %w", err)
	}
	if s.Accent, err = ParseHex(fs.Accent); err != nil {
		return Spec{}, fmt.Errorf("accent: %w", err)
	}
	if s.Title, err = fs.TitleFont.font(); err != nil {
		return Spec{}, fmt.Errorf("title_font: %w", err)
	}
	if s.Body, err = fs.BodyFont.font(); err != nil {
		return Spec{}, fmt.Errorf("body_font: %w", err)
	}
	return s, nil
}

func (f fileFont) font() (Font, error) {
	if f.Family == "" || f.Size <= 0 {
		return Font{}, fmt.Errorf("family and positive size required")
	}
	c, err := ParseHex(f.Color)
	if err != nil {
		return Font{}, err
	}
	return Font{Family: f.Family, Size: f.Size, Color: c}, nil
}
