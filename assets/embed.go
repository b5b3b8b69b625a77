// Package assets embeds files shipped inside the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var migrations embed.FS

// Migrations returns the SQL migration files, rooted so that names are
// "001_games.sql" and so on.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// Only possible if the embed pattern above is changed.
		panic(err)
	}
	return sub
}
