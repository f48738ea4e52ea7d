// internal/models/contrast.go
package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	WCAGAAMinContrastRatio  = 4.5
	WCAGAAAMinContrastRatio = 7.0

	DarkTextColor  = "#000000"
	LightTextColor = "#ffffff"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// RGB holds 8-bit sRGB channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// IsValidHexColor reports whether value is a #RGB or #RRGGBB color.
func IsValidHexColor(value string) bool {
	return hexColorRegex.MatchString(value)
}

// HexToRGB parses a #RGB or #RRGGBB color. Shorthand is expanded by
// doubling each digit, so "#fa0" reads as "#ffaa00".
func HexToRGB(hexColor string) (RGB, bool) {
	if !IsValidHexColor(hexColor) {
		return RGB{}, false
	}

	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}

	return RGB{
		R: uint8((value >> 16) & 0xFF),
		G: uint8((value >> 8) & 0xFF),
		B: uint8(value & 0xFF),
	}, true
}

func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RelativeLuminance returns the WCAG relative luminance of hexColor in [0, 1].
// ok is false when hexColor is not a valid hex color.
func RelativeLuminance(hexColor string) (luminance float64, ok bool) {
	c, ok := HexToRGB(hexColor)
	if !ok {
		return 0, false
	}

	rl := srgbToLinear(float64(c.R) / 255)
	gl := srgbToLinear(float64(c.G) / 255)
	bl := srgbToLinear(float64(c.B) / 255)

	return 0.2126*rl + 0.7152*gl + 0.0722*bl, true
}

// ContrastRatio returns the WCAG contrast ratio between two colors, in
// [1, 21]. Argument order does not matter.
func ContrastRatio(a, b string) (float64, bool) {
	la, ok := RelativeLuminance(a)
	if !ok {
		return 0, false
	}
	lb, ok := RelativeLuminance(b)
	if !ok {
		return 0, false
	}
	lightest := math.Max(la, lb)
	darkest := math.Min(la, lb)
	return (lightest + 0.05) / (darkest + 0.05), true
}

func MeetsAA(foreground, background string) bool {
	ratio, ok := ContrastRatio(foreground, background)
	return ok && ratio >= WCAGAAMinContrastRatio
}

func MeetsAAA(foreground, background string) bool {
	ratio, ok := ContrastRatio(foreground, background)
	return ok && ratio >= WCAGAAAMinContrastRatio
}

// ComplementaryColor rotates the hue of hexColor by 180 degrees in HSL space,
// keeping saturation and lightness.
func ComplementaryColor(hexColor string) (string, bool) {
	c, ok := HexToRGB(hexColor)
	if !ok {
		return "", false
	}

	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := col.Hsl()
	r, g, b := colorful.Hsl(math.Mod(h+180, 360), s, l).Clamped().RGB255()

	return RGBToHex(RGB{R: r, G: g, B: b}), true
}

// BestTextColor picks black or white text for the given background,
// whichever has the higher contrast ratio.
func BestTextColor(backgroundColor string) (string, float64, bool) {
	bestRatio := 0.0
	bestText := ""
	for _, textColor := range []string{DarkTextColor, LightTextColor} {
		ratio, ok := ContrastRatio(textColor, backgroundColor)
		if !ok {
			return "", 0, false
		}
		if ratio > bestRatio {
			bestRatio = ratio
			bestText = textColor
		}
	}
	return bestText, bestRatio, true
}

// ContrastPair is a foreground role drawn on a background role.
type ContrastPair struct {
	Foreground Token `json:"foreground"`
	Background Token `json:"background"`
}

// ContrastCheck is the audit result for one pair. Ratio is zero and Valid is
// false when either color could not be parsed.
type ContrastCheck struct {
	ContrastPair
	ForegroundColor string  `json:"foregroundColor"`
	BackgroundColor string  `json:"backgroundColor"`
	Ratio           float64 `json:"ratio"`
	Valid           bool    `json:"valid"`
	AA              bool    `json:"aa"`
	AAA             bool    `json:"aaa"`
}

var auditPairs = []ContrastPair{
	{Foreground: TokenForeground, Background: TokenBackground},
	{Foreground: TokenForeground, Background: TokenSurface},
	{Foreground: TokenMutedForeground, Background: TokenMuted},
	{Foreground: TokenPrimaryForeground, Background: TokenPrimary},
	{Foreground: TokenAccentForeground, Background: TokenAccent},
	{Foreground: TokenSuccessForeground, Background: TokenSuccess},
	{Foreground: TokenInfoForeground, Background: TokenInfo},
	{Foreground: TokenWarningForeground, Background: TokenWarning},
	{Foreground: TokenDangerForeground, Background: TokenDanger},
}

// AuditPairs returns the role pairs checked by Audit.
func AuditPairs() []ContrastPair {
	pairs := make([]ContrastPair, len(auditPairs))
	copy(pairs, auditPairs)
	return pairs
}

// Audit checks every standard text-on-background pair of doc. Unset roles
// resolve through Document.Color.
func Audit(doc Document) []ContrastCheck {
	checks := make([]ContrastCheck, 0, len(auditPairs))
	for _, pair := range auditPairs {
		fg := doc.Color(pair.Foreground)
		bg := doc.Color(pair.Background)
		ratio, ok := ContrastRatio(fg, bg)
		checks = append(checks, ContrastCheck{
			ContrastPair:    pair,
			ForegroundColor: fg,
			BackgroundColor: bg,
			Ratio:           ratio,
			Valid:           ok,
			AA:              ok && ratio >= WCAGAAMinContrastRatio,
			AAA:             ok && ratio >= WCAGAAAMinContrastRatio,
		})
	}
	return checks
}

func srgbToLinear(value float64) float64 {
	if value <= 0.03928 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}
