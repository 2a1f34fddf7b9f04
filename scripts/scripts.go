// Package scripts embeds the bundled Risor seed scripts.
package scripts

import "embed"

// FS holds seed/*.risor, rooted so that runtime.SeedScriptPath names resolve.
//
//go:embed seed/*.risor
var FS embed.FS
