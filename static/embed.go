// Package static embeds the web UI assets.
package static

import "embed"

//go:embed index.html main.css main.js
var FS embed.FS
