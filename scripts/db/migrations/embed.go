package migrations

import "embed"

// Each service owns its own database; migrations are grouped per service
// and embedded so binaries migrate themselves at startup.
//
//go:embed user/*.sql product/*.sql order/*.sql
var FS embed.FS
