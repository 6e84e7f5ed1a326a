// Package migrations holds the embedded goose SQL migration set.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
