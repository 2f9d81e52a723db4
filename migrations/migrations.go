// Package migrations embeds the SQL schema migrations so the binary can apply them
// without depending on its working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
