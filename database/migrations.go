package database

import "embed"

// Migrations holds the golang-migrate SQL files under migration/.
//
//go:embed migration/*.sql
var Migrations embed.FS
