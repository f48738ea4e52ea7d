package models

import "strings"

// Shade is one step of a color family, e.g. {"500", "#3b82f6"}.
type Shade struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ColorFamily struct {
	Name   string  `json:"name"`
	Shades []Shade `json:"shades"`
}

// Palette returns the picker color families in display order.
func Palette() []ColorFamily {
	families := make([]ColorFamily, len(palette))
	for i, family := range palette {
		families[i] = ColorFamily{Name: family.Name, Shades: append([]Shade(nil), family.Shades...)}
	}
	return families
}

// PaletteFamily looks a family up by name, ignoring case.
func PaletteFamily(name string) (ColorFamily, bool) {
	for _, family := range palette {
		if strings.EqualFold(family.Name, strings.TrimSpace(name)) {
			return ColorFamily{Name: family.Name, Shades: append([]Shade(nil), family.Shades...)}, true
		}
	}
	return ColorFamily{}, false
}

var palette = []ColorFamily{
	{
		Name: "Slate",
		Shades: []Shade{
			{Name: "50", Value: "#f8fafc"},
			{Name: "100", Value: "#f1f5f9"},
			{Name: "200", Value: "#e2e8f0"},
			{Name: "300", Value: "#cbd5e1"},
			{Name: "400", Value: "#94a3b8"},
			{Name: "500", Value: "#64748b"},
			{Name: "600", Value: "#475569"},
			{Name: "700", Value: "#334155"},
			{Name: "800", Value: "#1e293b"},
			{Name: "900", Value: "#0f172a"},
			{Name: "950", Value: "#020617"},
		},
	},
	{
		Name: "Zinc",
		Shades: []Shade{
			{Name: "50", Value: "#fafafa"},
			{Name: "100", Value: "#f4f4f5"},
			{Name: "200", Value: "#e4e4e7"},
			{Name: "300", Value: "#d4d4d8"},
			{Name: "400", Value: "#a1a1aa"},
			{Name: "500", Value: "#71717a"},
			{Name: "600", Value: "#52525b"},
			{Name: "700", Value: "#3f3f46"},
			{Name: "800", Value: "#27272a"},
			{Name: "900", Value: "#18181b"},
			{Name: "950", Value: "#09090b"},
		},
	},
	{
		Name: "Blue",
		Shades: []Shade{
			{Name: "50", Value: "#eff6ff"},
			{Name: "100", Value: "#dbeafe"},
			{Name: "200", Value: "#bfdbfe"},
			{Name: "300", Value: "#93c5fd"},
			{Name: "400", Value: "#60a5fa"},
			{Name: "500", Value: "#3b82f6"},
			{Name: "600", Value: "#2563eb"},
			{Name: "700", Value: "#1d4ed8"},
			{Name: "800", Value: "#1e40af"},
			{Name: "900", Value: "#1e3a8a"},
			{Name: "950", Value: "#172554"},
		},
	},
	{
		Name: "Green",
		Shades: []Shade{
			{Name: "50", Value: "#f0fdf4"},
			{Name: "100", Value: "#dcfce7"},
			{Name: "200", Value: "#bbf7d0"},
			{Name: "300", Value: "#86efac"},
			{Name: "400", Value: "#4ade80"},
			{Name: "500", Value: "#22c55e"},
			{Name: "600", Value: "#16a34a"},
			{Name: "700", Value: "#15803d"},
			{Name: "800", Value: "#166534"},
			{Name: "900", Value: "#14532d"},
			{Name: "950", Value: "#052e16"},
		},
	},
	{
		Name: "Red",
		Shades: []Shade{
			{Name: "50", Value: "#fef2f2"},
			{Name: "100", Value: "#fee2e2"},
			{Name: "200", Value: "#fecaca"},
			{Name: "300", Value: "#fca5a5"},
			{Name: "400", Value: "#f87171"},
			{Name: "500", Value: "#ef4444"},
			{Name: "600", Value: "#dc2626"},
			{Name: "700", Value: "#b91c1c"},
			{Name: "800", Value: "#991b1b"},
			{Name: "900", Value: "#7f1d1d"},
			{Name: "950", Value: "#450a0a"},
		},
	},
	{
		Name: "Amber",
		Shades: []Shade{
			{Name: "50", Value: "#fffbeb"},
			{Name: "100", Value: "#fef3c7"},
			{Name: "200", Value: "#fde68a"},
			{Name: "300", Value: "#fcd34d"},
			{Name: "400", Value: "#fbbf24"},
			{Name: "500", Value: "#f59e0b"},
			{Name: "600", Value: "#d97706"},
			{Name: "700", Value: "#b45309"},
			{Name: "800", Value: "#92400e"},
			{Name: "900", Value: "#78350f"},
			{Name: "950", Value: "#451a03"},
		},
	},
	{
		Name: "Purple",
		Shades: []Shade{
			{Name: "50", Value: "#faf5ff"},
			{Name: "100", Value: "#f3e8ff"},
			{Name: "200", Value: "#e9d5ff"},
			{Name: "300", Value: "#d8b4fe"},
			{Name: "400", Value: "#c084fc"},
			{Name: "500", Value: "#a855f7"},
			{Name: "600", Value: "#9333ea"},
			{Name: "700", Value: "#7e22ce"},
			{Name: "800", Value: "#6b21a8"},
			{Name: "900", Value: "#581c87"},
			{Name: "950", Value: "#3b0764"},
		},
	},
	{
		Name: "Teal",
		Shades: []Shade{
			{Name: "50", Value: "#f0fdfa"},
			{Name: "100", Value: "#ccfbf1"},
			{Name: "200", Value: "#99f6e4"},
			{Name: "300", Value: "#5eead4"},
			{Name: "400", Value: "#2dd4bf"},
			{Name: "500", Value: "#14b8a6"},
			{Name: "600", Value: "#0d9488"},
			{Name: "700", Value: "#0f766e"},
			{Name: "800", Value: "#115e59"},
			{Name: "900", Value: "#134e4a"},
			{Name: "950", Value: "#042f2e"},
		},
	},
	{
		Name: "Emerald",
		Shades: []Shade{
			{Name: "50", Value: "#ecfdf5"},
			{Name: "100", Value: "#d1fae5"},
			{Name: "200", Value: "#a7f3d0"},
			{Name: "300", Value: "#6ee7b7"},
			{Name: "400", Value: "#34d399"},
			{Name: "500", Value: "#10b981"},
			{Name: "600", Value: "#059669"},
			{Name: "700", Value: "#047857"},
			{Name: "800", Value: "#065f46"},
			{Name: "900", Value: "#064e3b"},
		},
	},
}
