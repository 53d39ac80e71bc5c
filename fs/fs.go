// Package appfs embeds the files shipped with the binaries.
package appfs

import "embed"

//go:embed migrations all:assets
var FS embed.FS

const (
	MigrationsDir     = "migrations"
	EmailTemplatesDir = "assets/templates/email"
	CommonPasswords   = "assets/common-passwords.txt"
)
