package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codr1/folio/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// swatch renders a two-cell block in color, or blanks for unparseable input.
func swatch(color string) string {
	if !models.IsValidHexColor(color) {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(normalizeHex(color))).Render("  ")
}

// sample renders text in foreground on background the way the pair will
// look on the site.
func sample(foreground, background, text string) string {
	if !models.IsValidHexColor(foreground) || !models.IsValidHexColor(background) {
		return text
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(normalizeHex(foreground))).
		Background(lipgloss.Color(normalizeHex(background))).
		Padding(0, 1).
		Render(text)
}

func verdict(ok bool) string {
	if ok {
		return passStyle.Render("pass")
	}
	return failStyle.Render("fail")
}

// normalizeHex expands #abc to #aabbcc; lipgloss only understands the long
// form.
func normalizeHex(color string) string {
	rgb, ok := models.HexToRGB(color)
	if !ok {
		return color
	}
	return strings.ToLower(models.RGBToHex(rgb))
}
