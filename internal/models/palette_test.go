package models

import "testing"

func TestPaletteColorsAreValid(t *testing.T) {
	families := Palette()
	if len(families) == 0 {
		t.Fatalf("Palette() is empty")
	}
	for _, family := range families {
		if len(family.Shades) < 10 {
			t.Fatalf("family %q has %d shades", family.Name, len(family.Shades))
		}
		for _, shade := range family.Shades {
			if !IsValidHexColor(shade.Value) {
				t.Fatalf("family %q shade %q has invalid color %q", family.Name, shade.Name, shade.Value)
			}
		}
	}
}

func TestPaletteFamily(t *testing.T) {
	family, ok := PaletteFamily("blue")
	if !ok || family.Name != "Blue" {
		t.Fatalf("PaletteFamily(blue) = %+v, %t", family, ok)
	}
	if family.Shades[5].Value != "#3b82f6" {
		t.Fatalf("blue 500 = %q", family.Shades[5].Value)
	}
	if _, ok := PaletteFamily("chartreuse"); ok {
		t.Fatalf("PaletteFamily(chartreuse) should not match")
	}
}
