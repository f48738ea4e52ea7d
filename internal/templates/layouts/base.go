package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const htmxScript = `<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`

// Base wraps body in the site shell. The active theme is inlined so the first
// paint already uses it.
func Base(title string, sheet *StyleSheet, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if title == "" {
			title = "Portfolio"
		}
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+`</title>`+
			`<link rel="stylesheet" href="/static/css/main.css">`+htmxScript); err != nil {
			return err
		}
		if sheet != nil {
			if err := sheet.Style().Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</head><body class="bg-[var(--color-background)] text-[var(--color-foreground)]"><main id="main">`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
