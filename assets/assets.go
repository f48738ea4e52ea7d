// Package assets embeds static data compiled into the binaries.
package assets

import "embed"

// PresetsPath is the built-in theme catalog inside PresetsFS.
const PresetsPath = "presets.json"

//go:embed presets.json
var PresetsFS embed.FS
