// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the SQL files that create the blob tables,
// applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
