// Package migrations embeds the destination schema DDL for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
