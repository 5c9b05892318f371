// Package migrations embeds the schema migration sets, one directory per
// database driver.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var Files embed.FS

// GetFS returns the migration set for the driver
func GetFS(driver string) (fs.FS, error) {
	return fs.Sub(Files, driver)
}
