// Package migrations embeds the goose SQL migrations of the entity store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
