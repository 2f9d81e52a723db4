// Package web embeds the client page served at the root of the API server.
package web

import "embed"

//go:embed index.html
var FS embed.FS
