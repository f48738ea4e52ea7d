package themes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/folio/internal/models"
)

// ThemeBuilder renders the editor panel. It is swapped in place by htmx after
// every change, so it carries its own target id.
func ThemeBuilder(data BuilderData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_ = ctx
		var b strings.Builder

		fmt.Fprintf(&b, `<section id="theme-builder" hx-target="#theme-builder" hx-swap="outerHTML">`)
		fmt.Fprintf(&b, `<header><h1>%s</h1>`, templ.EscapeString(data.Document.Name))
		if failing := data.FailingChecks(); failing > 0 {
			fmt.Fprintf(&b, `<p class="contrast-warning">%d contrast pair(s) below WCAG AA</p>`, failing)
		}
		b.WriteString(`<div id="theme-feedback" aria-live="polite"></div></header>`)

		writeHistoryControls(&b, data)
		writePresetPicker(&b, data.Presets)
		writeTokenTable(&b, data.Tokens)
		writeContrastReport(&b, data)

		b.WriteString(`<footer>`)
		b.WriteString(`<a href="/api/v1/theme/export" download>Export</a>`)
		b.WriteString(`<form hx-post="/api/v1/theme/import" hx-encoding="multipart/form-data"><input type="file" name="file" accept="application/json"><button type="submit">Import</button></form>`)
		if data.ShareURL != "" {
			fmt.Fprintf(&b, `<input type="text" readonly value="%s" aria-label="Share link">`, templ.EscapeString(data.ShareURL))
		}
		b.WriteString(`<button hx-delete="/api/v1/theme" hx-confirm="Reset to the default theme?">Reset</button>`)
		b.WriteString(`</footer></section>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeHistoryControls(b *strings.Builder, data BuilderData) {
	b.WriteString(`<nav class="history">`)
	fmt.Fprintf(b, `<button hx-post="/api/v1/theme/undo"%s>Undo</button>`, disabledAttr(!data.CanUndo))
	fmt.Fprintf(b, `<button hx-post="/api/v1/theme/redo"%s>Redo</button>`, disabledAttr(!data.CanRedo))
	b.WriteString(`</nav>`)
}

func writePresetPicker(b *strings.Builder, presets []PresetOption) {
	if len(presets) == 0 {
		return
	}
	b.WriteString(`<ul class="presets">`)
	for _, preset := range presets {
		class := "preset"
		if preset.Active {
			class += " active"
		}
		fmt.Fprintf(b, `<li><button class="%s" hx-post="/api/v1/theme/presets/%d">%s</button></li>`,
			class, preset.Index, templ.EscapeString(preset.Name))
	}
	b.WriteString(`</ul>`)
}

func writeTokenTable(b *strings.Builder, rows []TokenRow) {
	b.WriteString(`<table class="tokens"><tbody>`)
	for _, row := range rows {
		value := templ.EscapeString(row.Value)
		fmt.Fprintf(b, `<tr data-token="%s"><th>%s</th>`, row.Token, templ.EscapeString(row.Label))
		fmt.Fprintf(b, `<td><input type="color" name="value" value="%s" hx-put="/api/v1/theme/tokens/%s" hx-trigger="change"></td>`, value, row.Token)
		fmt.Fprintf(b, `<td><code>%s</code></td>`, row.CSSVar)
		swatch := "swatch"
		if !row.Set {
			swatch += " unset"
		}
		if !row.TextGood {
			swatch += " low-contrast"
		}
		background := "transparent"
		if models.IsValidHexColor(row.Value) {
			background = row.Value
		}
		fmt.Fprintf(b, `<td><span class="%s" style="background:%s;color:%s">Aa</span></td></tr>`, swatch, background, row.TextOn)
	}
	b.WriteString(`</tbody></table>`)
}

func writeContrastReport(b *strings.Builder, data BuilderData) {
	if len(data.Checks) == 0 {
		return
	}
	b.WriteString(`<table class="contrast"><tbody>`)
	for _, check := range data.Checks {
		badge := "fail"
		switch {
		case check.AAA:
			badge = "AAA"
		case check.AA:
			badge = "AA"
		}
		fmt.Fprintf(b, `<tr><td>%s / %s</td><td>%.2f:1</td><td class="badge badge-%s">%s</td></tr>`,
			check.Foreground.Label(), check.Background.Label(), check.Ratio, strings.ToLower(badge), badge)
	}
	b.WriteString(`</tbody></table>`)
}

func disabledAttr(disabled bool) string {
	if disabled {
		return " disabled"
	}
	return ""
}
