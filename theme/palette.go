package theme

import "sort"

// Palette is the set of named display variables applied for one emotion.
type Palette struct {
	Emotion string
	Vars    map[string]string
}

// Var returns the value of a display variable, or "" when unset.
func (p Palette) Var(name string) string { return p.Vars[name] }

// Names returns the variable names in stable order.
func (p Palette) Names() []string {
	out := make([]string, 0, len(p.Vars))
	for k := range p.Vars {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (p Palette) clone() Palette {
	vars := make(map[string]string, len(p.Vars))
	for k, v := range p.Vars {
		vars[k] = v
	}
	return Palette{Emotion: p.Emotion, Vars: vars}
}

// Set maps a canonical emotion label to its palette.
type Set map[string]Palette

// Lookup returns the palette for label, falling back to neutral.
func (s Set) Lookup(label string) Palette {
	if p, ok := s[label]; ok {
		return p
	}
	return s[Neutral]
}

const Neutral = "neutral"

// Default returns a fresh copy of the built-in palettes.
func Default() Set {
	out := make(Set, len(builtin))
	for k, vars := range builtin {
		out[k] = Palette{Emotion: k, Vars: vars}.clone()
	}
	return out
}

var builtin = map[string]map[string]string{
	"neutral": {
		"--page-bg":              "#FBFCFD",
		"--text-color":           "#17202A",
		"--muted-text":           "#5A6A72",
		"--heading-color":        "#17202A",
		"--primary-accent":       "#8E9AAF",
		"--secondary-accent":     "#6F83A8",
		"--header-bg":            "rgba(255,255,255,0.95)",
		"--card-border":          "rgba(20,32,42,0.06)",
		"--card-bg":              "#FFFFFF",
		"--hero-gradient-start":  "#8E9AAF",
		"--hero-gradient-end":    "#6F83A8",
		"--hero-icon-shadow":     "rgba(111,131,168,0.25)",
		"--button-bg":            "#6F83A8",
		"--button-hover-bg":      "#596B8A",
		"--button-shadow-color":  "rgba(95,115,145,0.28)",
		"--feature-badge-bg":     "rgba(111,131,168,0.08)",
		"--feature-badge-border": "rgba(111,131,168,0.18)",
		"--upload-border":        "rgba(111,131,168,0.18)",
		"--upload-highlight":     "rgba(111,131,168,0.04)",
		"--progress-track":       "rgba(0,0,0,0.06)",
		"--progress-fill":        "#6F83A8",
		"--dominant-bg":          "#f1f4f8",
		"--dominant-text":        "#17202A",
		"--label-color":          "#5A6A72",
		"--bar-bg":               "rgba(0,0,0,0.06)",
		"--footer-bg":            "#6F83A8",
		"--footer-link-color":    "rgba(255,255,255,0.9)",
	},
	"angry": {
		"--page-bg":              "#fff5f5",
		"--text-color":           "#4a1513",
		"--muted-text":           "#6b2a28",
		"--primary-accent":       "#E94F3D",
		"--secondary-accent":     "#D93F30",
		"--header-bg":            "rgba(255,245,244,0.95)",
		"--card-border":          "rgba(233,79,61,0.12)",
		"--card-bg":              "#FFFFFF",
		"--hero-gradient-start":  "#E94F3D",
		"--hero-gradient-end":    "#D93F30",
		"--hero-icon-shadow":     "rgba(233,79,61,0.20)",
		"--button-bg":            "#E94F3D",
		"--button-hover-bg":      "#C63C2B",
		"--button-shadow-color":  "rgba(198,60,43,0.28)",
		"--feature-badge-bg":     "rgba(233,79,61,0.08)",
		"--feature-badge-border": "rgba(233,79,61,0.18)",
		"--upload-border":        "rgba(233,79,61,0.20)",
		"--upload-highlight":     "rgba(233,79,61,0.04)",
		"--progress-track":       "rgba(0,0,0,0.06)",
		"--progress-fill":        "#E94F3D",
		"--dominant-bg":          "#ffe6e3",
		"--dominant-text":        "#4a1513",
		"--label-color":          "#6b2a28",
		"--bar-bg":               "rgba(233,79,61,0.12)",
		"--footer-bg":            "#C63C2B",
		"--footer-link-color":    "rgba(255,255,255,0.92)",
	},
	"disgust": {
		"--page-bg":              "#fff7f0",
		"--text-color":           "#5b2f1f",
		"--muted-text":           "#7a4b36",
		"--primary-accent":       "#F1A66B",
		"--secondary-accent":     "#EE9A5A",
		"--header-bg":            "rgba(255,250,248,0.95)",
		"--card-border":          "rgba(241,166,107,0.12)",
		"--card-bg":              "#FFFFFF",
		"--hero-gradient-start":  "#F1A66B",
		"--hero-gradient-end":    "#EE9A5A",
		"--hero-icon-shadow":     "rgba(241,166,107,0.18)",
		"--button-bg":            "#F1A66B",
		"--button-hover-bg":      "#D98E4F",
		"--button-shadow-color":  "rgba(217,142,79,0.22)",
		"--feature-badge-bg":     "rgba(241,166,107,0.08)",
		"--feature-badge-border": "rgba(241,166,107,0.16)",
		"--upload-border":        "rgba(241,166,107,0.18)",
		"--upload-highlight":     "rgba(241,166,107,0.04)",
		"--progress-track":       "rgba(0,0,0,0.06)",
		"--progress-fill":        "#F1A66B",
		"--dominant-bg":          "#fff0e6",
		"--dominant-text":        "#5b2f1f",
		"--label-color":          "#7a4b36",
		"--bar-bg":               "rgba(241,166,107,0.12)",
		"--footer-bg":            "#D98E4F",
		"--footer-link-color":    "rgba(255,255,255,0.92)",
	},
	"joy": {
		"--page-bg":              "#fffaf0",
		"--text-color":           "#3a2c10",
		"--muted-text":           "#6b5d3e",
		"--primary-accent":       "#FFD166",
		"--secondary-accent":     "#F6C84A",
		"--header-bg":            "rgba(255,250,236,0.95)",
		"--card-border":          "rgba(255,209,102,0.12)",
		"--card-bg":              "#FFFFFF",
		"--hero-gradient-start":  "#FFD166",
		"--hero-gradient-end":    "#F6C84A",
		"--hero-icon-shadow":     "rgba(255,209,102,0.18)",
		"--button-bg":            "#FFCB3D",
		"--button-hover-bg":      "#E6B831",
		"--button-shadow-color":  "rgba(230,184,49,0.22)",
		"--feature-badge-bg":     "rgba(255,209,102,0.08)",
		"--feature-badge-border": "rgba(255,209,102,0.16)",
		"--upload-border":        "rgba(255,209,102,0.18)",
		"--upload-highlight":     "rgba(255,209,102,0.04)",
		"--progress-track":       "rgba(0,0,0,0.06)",
		"--progress-fill":        "#FFD166",
		"--dominant-bg":          "#fff7e0",
		"--dominant-text":        "#3a2c10",
		"--label-color":          "#6b5d3e",
		"--bar-bg":               "rgba(255,209,102,0.12)",
		"--footer-bg":            "#E6B831",
		"--footer-link-color":    "rgba(255,255,255,0.92)",
	},
	"surprise": {
		"--page-bg":              "#f6fff4",
		"--text-color":           "#1a3b1a",
		"--muted-text":           "#415a41",
		"--primary-accent":       "#7CC36A",
		"--secondary-accent":     "#66B457",
		"--header-bg":            "rgba(250,255,250,0.95)",
		"--card-border":          "rgba(124,195,106,0.12)",
		"--card-bg":              "#FFFFFF",
		"--hero-gradient-start":  "#7CC36A",
		"--hero-gradient-end":    "#66B457",
		"--hero-icon-shadow":     "rgba(124,195,106,0.18)",
		"--button-bg":            "#66B457",
		"--button-hover-bg":      "#548E44",
		"--button-shadow-color":  "rgba(84,142,68,0.22)",
		"--feature-badge-bg":     "rgba(124,195,106,0.08)",
		"--feature-badge-border": "rgba(124,195,106,0.16)",
		"--upload-border":        "rgba(124,195,106,0.18)",
		"--upload-highlight":     "rgba(124,195,106,0.04)",
		"--progress-track":       "rgba(0,0,0,0.06)",
		"--progress-fill":        "#7CC36A",
		"--dominant-bg":          "#eef9ec",
		"--dominant-text":        "#1a3b1a",
		"--label-color":          "#415a41",
		"--bar-bg":               "rgba(124,195,106,0.12)",
		"--footer-bg":            "#548E44",
		"--footer-link-color":    "rgba(255,255,255,0.92)",
	},
	"sad": {
		"--page-bg":              "#f3fbfb",
		"--text-color":           "#123b3f",
		"--muted-text":           "#476d70",
		"--primary-accent":       "#5BC0BE",
		"--secondary-accent":     "#3FA7A4",
		"--header-bg":            "rgba(249,255,255,0.95)",
		"--card-border":          "rgba(91,192,190,0.12)",
		"--card-bg":              "#FFFFFF",
		"--hero-gradient-start":  "#5BC0BE",
		"--hero-gradient-end":    "#3FA7A4",
		"--hero-icon-shadow":     "rgba(91,192,190,0.18)",
		"--button-bg":            "#3FA7A4",
		"--button-hover-bg":      "#348A87",
		"--button-shadow-color":  "rgba(52,138,135,0.22)",
		"--feature-badge-bg":     "rgba(91,192,190,0.08)",
		"--feature-badge-border": "rgba(91,192,190,0.16)",
		"--upload-border":        "rgba(91,192,190,0.18)",
		"--upload-highlight":     "rgba(91,192,190,0.04)",
		"--progress-track":       "rgba(0,0,0,0.06)",
		"--progress-fill":        "#5BC0BE",
		"--dominant-bg":          "#eaf7f6",
		"--dominant-text":        "#123b3f",
		"--label-color":          "#476d70",
		"--bar-bg":               "rgba(91,192,190,0.12)",
		"--footer-bg":            "#348A87",
		"--footer-link-color":    "rgba(255,255,255,0.92)",
	},
	"fear": {
		"--page-bg":              "#f0f6ff",
		"--text-color":           "#08304b",
		"--muted-text":           "#335a7a",
		"--primary-accent":       "#4DA6FF",
		"--secondary-accent":     "#2E90FF",
		"--header-bg":            "rgba(248,252,255,0.95)",
		"--card-border":          "rgba(77,166,255,0.12)",
		"--card-bg":              "#FFFFFF",
		"--hero-gradient-start":  "#4DA6FF",
		"--hero-gradient-end":    "#2E90FF",
		"--hero-icon-shadow":     "rgba(77,166,255,0.18)",
		"--button-bg":            "#2E90FF",
		"--button-hover-bg":      "#246FCC",
		"--button-shadow-color":  "rgba(36,111,204,0.22)",
		"--feature-badge-bg":     "rgba(77,166,255,0.08)",
		"--feature-badge-border": "rgba(77,166,255,0.16)",
		"--upload-border":        "rgba(77,166,255,0.18)",
		"--upload-highlight":     "rgba(77,166,255,0.04)",
		"--progress-track":       "rgba(0,0,0,0.06)",
		"--progress-fill":        "#4DA6FF",
		"--dominant-bg":          "#eaf3ff",
		"--dominant-text":        "#08304b",
		"--label-color":          "#335a7a",
		"--bar-bg":               "rgba(77,166,255,0.12)",
		"--footer-bg":            "#246FCC",
		"--footer-link-color":    "rgba(255,255,255,0.92)",
	},
}
