// Package migrations holds the versioned SQL schema of the budget service.
package migrations

import "embed"

// FS contains every up/down migration file
//
//go:embed *.sql
var FS embed.FS
